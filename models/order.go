package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest is the body of POST /orders on the Catalog & Order Service.
type OrderRequest struct {
	OrderID      int64         `json:"orderId"`
	Date         string        `json:"date"`
	CustomerID   int64         `json:"customerId"`
	OrderDetails []OrderDetail `json:"orderDetails"`
}

// OrderDetail sends UnitPrice as an exact JSON number rather than a float.
type OrderDetail struct {
	ItemID    int64       `json:"itemId"`
	Qty       int         `json:"qty"`
	UnitPrice json.Number `json:"unitPrice"`
}

// OrderRecord is the local history entry written after a placed order.
type OrderRecord struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"`
	DisplayOrderID string          `json:"orderId"`
	Date           string          `json:"date"`
	CustomerID     int64           `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	Lines          []OrderLine     `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountMode   DiscountMode    `json:"discountMode"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxEnabled     bool            `json:"taxEnabled"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	PlacedAt       time.Time       `json:"placedAt"`
}

type OrderLine struct {
	ItemID      int64           `json:"itemId"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Qty         int             `json:"qty"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}
