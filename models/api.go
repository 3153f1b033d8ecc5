package models

import (
	"bytes"
	"encoding/json"
)

// APIResponse is the envelope used by the Catalog & Order Service for both
// successful replies and errors.
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// RawAPIResponse leaves Data undecoded; error bodies carry either a string
// or a field map there.
type RawAPIResponse = APIResponse[json.RawMessage]

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SelectCustomerRequest struct {
	CustomerID int64 `json:"customerId" binding:"required,min=1"`
}

type SelectItemRequest struct {
	ItemID int64 `json:"itemId" binding:"required,min=1"`
}

// FormValue is raw operator input. It accepts a JSON string or number and
// keeps the text as typed; the forms package decides what it means.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = FormValue(n)
	}
	return nil
}

type QuantityRequest struct {
	Qty FormValue `json:"qty"`
}

// AddLineRequest leaves ItemID unchecked; a missing or unknown id is the
// session's "no item selected".
type AddLineRequest struct {
	ItemID int64     `json:"itemId"`
	Qty    FormValue `json:"qty"`
}

type DiscountRequest struct {
	Mode  string    `json:"mode"`
	Value FormValue `json:"value"`
}

type TaxRequest struct {
	Enabled bool `json:"enabled"`
}

type CartLineView struct {
	ItemID      int64  `json:"itemId"`
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice"`
	Qty         int    `json:"qty"`
	LineTotal   string `json:"lineTotal"`
}

// TotalsView is PricingResult rounded for display.
type TotalsView struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discountAmount"`
	TaxableBase    string `json:"taxableBase"`
	TaxAmount      string `json:"taxAmount"`
	GrandTotal     string `json:"grandTotal"`
}

type SessionView struct {
	OrderID          string         `json:"orderId"`
	Date             string         `json:"date"`
	State            string         `json:"state"`
	SelectedCustomer *Customer      `json:"selectedCustomer,omitempty"`
	SelectedItem     *Item          `json:"selectedItem,omitempty"`
	Quantity         string         `json:"quantity"`
	DiscountMode     DiscountMode   `json:"discountMode"`
	DiscountValue    string         `json:"discountValue"`
	TaxEnabled       bool           `json:"taxEnabled"`
	TaxRate          string         `json:"taxRate"`
	Lines            []CartLineView `json:"lines"`
	Totals           TotalsView     `json:"totals"`
	RecentOrders     []OrderRecord  `json:"recentOrders"`
}

type PlaceOrderResponse struct {
	OrderID string      `json:"orderId"`
	Order   OrderRecord `json:"order"`
	Warning string      `json:"warning,omitempty"`
}

// CatalogView feeds the customer and item pickers.
type CatalogView struct {
	Items     []Item     `json:"items"`
	Customers []Customer `json:"customers"`
}

type IncrementResponse struct {
	Warning string      `json:"warning,omitempty"`
	Session SessionView `json:"session"`
}
