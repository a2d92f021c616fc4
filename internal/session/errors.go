package session

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAuthInProgress       = errors.New("authentication already in progress")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
