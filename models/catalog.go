package models

import "github.com/shopspring/decimal"

// Item is a catalog entry as served by the Catalog & Order Service.
type Item struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	QtyOnHand   int             `json:"qtyOnHand"`
}

type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
