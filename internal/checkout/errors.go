package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrIllegalTransition  = errors.New("illegal transition of checkout status")
)

// ValidationError reports a billing field that is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
