package models

import "github.com/shopspring/decimal"

// CartLine snapshots description and price at the time the item was first
// added, so later catalog edits do not reprice an open sale.
type CartLine struct {
	ItemID      int64           `json:"itemId"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Qty         int             `json:"qty"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

type DiscountMode string

const (
	DiscountPercent DiscountMode = "percent"
	DiscountFixed   DiscountMode = "fixed"
)

func (m DiscountMode) String() string {
	return string(m)
}

// Discount is the typed discount configuration. Value is already parsed and
// never negative; clamping against the subtotal happens in pricing.
type Discount struct {
	Mode  DiscountMode    `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// PricingResult carries full precision; round only for display.
type PricingResult struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableBase    decimal.Decimal `json:"taxableBase"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
}
