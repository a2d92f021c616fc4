package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingInfo is the contact data handed to the payment collaborator.
type BillingInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

type CheckoutStatus string

const (
	CheckoutStatusInitiated      CheckoutStatus = "INITIATED"
	CheckoutStatusPaymentPending CheckoutStatus = "PAYMENT_PENDING"
	CheckoutStatusCompleted      CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed         CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// CanTransitionTo reports whether a checkout may move from s to next.
func CanTransitionTo(s, next CheckoutStatus) bool {
	switch s {
	case CheckoutStatusInitiated:
		return next == CheckoutStatusPaymentPending || next == CheckoutStatusFailed
	case CheckoutStatusPaymentPending:
		return next == CheckoutStatusCompleted || next == CheckoutStatusFailed
	default:
		return false
	}
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// Receipt is returned to the caller after a checkout attempt.
type Receipt struct {
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Status        CheckoutStatus  `json:"status"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// OrderPlaced is published once a checkout has been paid.
type OrderPlaced struct {
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	Email         string          `json:"email"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	PlacedAt      time.Time       `json:"placed_at"`
}
