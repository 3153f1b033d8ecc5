package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindSubmission
	KindReconciliation
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindSubmission:
		return "SUBMISSION_ERROR"
	case KindReconciliation:
		return "RECONCILIATION_WARNING"
	case KindBusy:
		return "ORDER_IN_PROGRESS"
	default:
		return "UNKNOWN"
	}
}

// Machine-readable codes.
const (
	CodeNoItems            = "no items"
	CodeNoItemSelected     = "no item selected"
	CodeInvalidQuantity    = "invalid quantity"
	CodeExceedsStock       = "exceeds stock"
	CodeCartEmpty          = "cart empty"
	CodeNoCustomers        = "no customers"
	CodeNoCustomerSelected = "no customer selected"
	CodeUnknownCustomer    = "unknown customer"
	CodeUnknownItem        = "unknown item"
	CodeInvalidDiscount    = "invalid discount mode"
	CodeOrderFailed        = "order failed"
	CodeCatalogStale       = "catalog refresh failed"
	CodeOrderInProgress    = "order in progress"
)

// Operator-facing messages.
const (
	MsgNoItems            = "No items available. Add items first."
	MsgNoItemSelected     = "Select an item."
	MsgInvalidQuantity    = "Enter a valid order quantity."
	MsgExceedsStock       = "Cannot add quantity greater than available stock."
	MsgMergeExceedsStock  = "Total cart quantity exceeds available stock."
	MsgIncrementExceeds   = "Cannot exceed available stock"
	MsgCartEmpty          = "Cart is empty."
	MsgNoCustomers        = "No customers available. Add customers first."
	MsgNoCustomerSelected = "Select a customer before placing the order."
	MsgUnknownCustomer    = "Selected customer no longer exists."
	MsgUnknownItem        = "Selected item no longer exists."
	MsgInvalidDiscount    = "Discount mode must be percent or fixed."
	MsgOrderFailed        = "Order failed. Check backend validation."
	MsgCatalogStale       = "Order placed, but stock figures could not be refreshed."
	MsgOrderInProgress    = "An order is already being placed."
)

// Error is the single error type of the engine. None of its kinds are fatal:
// every one leaves operator input untouched.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Submission wraps a remote rejection or transport failure. An empty message
// is replaced by the generic order failure text.
func Submission(message string, cause error) *Error {
	if message == "" {
		message = MsgOrderFailed
	}
	return &Error{Kind: KindSubmission, Code: CodeOrderFailed, Message: message, Err: cause}
}

func Reconciliation(cause error) *Error {
	return &Error{Kind: KindReconciliation, Code: CodeCatalogStale, Message: MsgCatalogStale, Err: cause}
}

func Busy() *Error {
	return &Error{Kind: KindBusy, Code: CodeOrderInProgress, Message: MsgOrderInProgress}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
