// Package forms turns raw operator input into typed, already valid domain
// values. Nothing past this package sees an unparsed string.
package forms

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"pos-terminal/apperr"
	"pos-terminal/models"
)

const currencyPrefix = "Rs "

// Discount values are bounded before pricing sees them: 10^15 and above is
// capped, below 10^-8 counts as no discount.
const (
	maxDiscountDigits = 15
	minDiscountDigits = -8
)

var maxDiscountValue = decimal.New(1, maxDiscountDigits)

// Magnitude returns n such that 10^(n-1) <= |d| < 10^n for a non-zero d. It
// costs the length of the coefficient, never the size of the exponent, so
// it is safe to call before any comparison that would rescale d.
func Magnitude(d decimal.Decimal) int64 {
	return int64(len(d.Abs().Coefficient().Text(10))) + int64(d.Exponent())
}

// ParseQuantity accepts any numeric spelling of a positive whole number
// ("3", "3.0", "3e0"). Anything above MaxInt32 is capped.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.Validation(apperr.CodeInvalidQuantity, apperr.MsgInvalidQuantity)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return 0, apperr.Validation(apperr.CodeInvalidQuantity, apperr.MsgInvalidQuantity)
	}
	// Below 1 it cannot be whole; from here on IsInteger is bounded by the
	// input's length.
	mag := Magnitude(d)
	if mag < 1 || !d.IsInteger() {
		return 0, apperr.Validation(apperr.CodeInvalidQuantity, apperr.MsgInvalidQuantity)
	}
	if mag > 10 || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return math.MaxInt32, nil
	}
	return int(d.IntPart()), nil
}

// ParseDiscountValue never fails: empty, non-numeric and non-positive input
// all mean "no discount".
func ParseDiscountValue(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return BoundDiscountValue(d)
}

// BoundDiscountValue keeps a positive value inside the range pricing works
// with. Non-positive values come back as zero.
func BoundDiscountValue(d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}
	switch mag := Magnitude(d); {
	case mag > maxDiscountDigits:
		return maxDiscountValue
	case mag < minDiscountDigits:
		return decimal.Zero
	}
	return d
}

func ParseDiscountMode(raw string) (models.DiscountMode, error) {
	switch models.DiscountMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.DiscountPercent:
		return models.DiscountPercent, nil
	case models.DiscountFixed:
		return models.DiscountFixed, nil
	default:
		return "", apperr.Validation(apperr.CodeInvalidDiscount, apperr.MsgInvalidDiscount)
	}
}

// FormatMoney renders the single supported display format, e.g. "Rs 243.00".
func FormatMoney(d decimal.Decimal) string {
	return currencyPrefix + Fixed2(d)
}

func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}
