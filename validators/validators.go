package validators

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"pos-terminal/models"
)

const minAddressLength = 10

var orderDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateOrderDate reports whether date is a real calendar day written as
// YYYY-MM-DD.
func ValidateOrderDate(date string) bool {
	if !orderDatePattern.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// ValidateAddress requires at least ten characters once trimmed.
func ValidateAddress(address string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(address)) >= minAddressLength
}

// FieldErrors maps an offending field to its message. Empty means valid.
type FieldErrors map[string]string

func ValidateItem(item models.Item) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(item.Description) == "" {
		errs["description"] = "Item description cannot be blank"
	}
	if item.UnitPrice.IsNegative() {
		errs["unitPrice"] = "Invalid unit price"
	}
	if item.QtyOnHand < 0 {
		errs["qtyOnHand"] = "Item qty must be a valid integer"
	}
	return errs
}

func ValidateCustomer(customer models.Customer) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(customer.Name) == "" {
		errs["name"] = "Customer name cannot be blank"
	}
	switch {
	case strings.TrimSpace(customer.Address) == "":
		errs["address"] = "Customer address cannot be blank"
	case !ValidateAddress(customer.Address):
		errs["address"] = "Customer address should be at least 10 characters long"
	}
	return errs
}
