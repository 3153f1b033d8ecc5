// Package pricing derives order totals from a cart, a discount and the tax
// toggle. Everything here is a pure function of its arguments.
package pricing

import (
	"github.com/shopspring/decimal"

	"pos-terminal/forms"
	"pos-terminal/models"
)

// taxRatePercent is fixed at build time.
const taxRatePercent = 8

var hundred = decimal.NewFromInt(100)

// TaxRate returns the fixed sales tax rate as a fraction (0.08).
func TaxRate() decimal.Decimal {
	return decimal.New(taxRatePercent, -2)
}

func Subtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

// DiscountAmount is always within [0, subtotal], whatever the mode or size of
// the configured value. Values are bounded first so no comparison has to
// rescale an extreme exponent.
func DiscountAmount(subtotal decimal.Decimal, d models.Discount) decimal.Decimal {
	value := forms.BoundDiscountValue(d.Value)
	if !value.IsPositive() || !subtotal.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.Mode {
	case models.DiscountFixed:
		if forms.Magnitude(value) > forms.Magnitude(subtotal) {
			return subtotal
		}
		amount = value
	default:
		if value.GreaterThanOrEqual(hundred) {
			return subtotal
		}
		amount = subtotal.Mul(value).Div(hundred)
	}
	return decimal.Min(amount, subtotal)
}

func Calculate(lines []models.CartLine, d models.Discount, taxEnabled bool) models.PricingResult {
	subtotal := Subtotal(lines)
	discount := DiscountAmount(subtotal, d)
	base := decimal.Max(subtotal.Sub(discount), decimal.Zero)

	tax := decimal.Zero
	if taxEnabled {
		tax = base.Mul(TaxRate())
	}

	return models.PricingResult{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableBase:    base,
		TaxAmount:      tax,
		GrandTotal:     base.Add(tax),
	}
}

// View rounds a result to two places for display.
func View(r models.PricingResult) models.TotalsView {
	return models.TotalsView{
		Subtotal:       forms.FormatMoney(r.Subtotal),
		DiscountAmount: forms.FormatMoney(r.DiscountAmount),
		TaxableBase:    forms.FormatMoney(r.TaxableBase),
		TaxAmount:      forms.FormatMoney(r.TaxAmount),
		GrandTotal:     forms.FormatMoney(r.GrandTotal),
	}
}
