// Package payment is the stand-in for the card payment collaborator.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDeclined      = errors.New("payment declined")
	ErrInvalidAmount = errors.New("charge amount must be positive")
)

// DeclinedError carries the refusal reason of a declined charge.
type DeclinedError struct {
	Charge *domain.Charge
}

func (e *DeclinedError) Error() string {
	if e.Charge.OtherReason != "" {
		return fmt.Sprintf("Payment failed: %v", e.Charge.OtherReason)
	}
	return fmt.Sprintf("Payment failed: %v", e.Charge.Refusal.String())
}

func (e *DeclinedError) Unwrap() error {
	return ErrDeclined
}

// Charger charges an amount to the customer described by the billing info.
// A declined charge returns a *DeclinedError; other errors mean the
// collaborator could not be reached.
type Charger interface {
	Charge(ctx context.Context, amount decimal.Decimal, billing domain.BillingInfo) (*domain.Charge, error)
}

// StatusSource decides the outcome of a simulated charge.
type StatusSource interface {
	GetStatus() (domain.ChargeStatus, domain.RefusalReason, string)
}

type RandomStatus struct{}

func (r RandomStatus) GetStatus() (domain.ChargeStatus, domain.RefusalReason, string) {
	randomInt := rand.Intn(101) // 101 because Intn is exclusive of the upper bound
	return calcStatus(randomInt)
}

// calcStatus maps 0..94 to success, 96..100 to a known refusal and
// everything else to an unexplained failure.
func calcStatus(randomInt int) (domain.ChargeStatus, domain.RefusalReason, string) {
	if randomInt < 95 {
		return domain.ChargeStatusSuccess, domain.RefusalUnknown, ""
	}
	otherReason := randomInt - 95
	if otherReason == 0 || otherReason > 5 {
		return domain.ChargeStatusFailed, domain.RefusalUnknown, "unknown reason"
	}

	return domain.ChargeStatusFailed, domain.RefusalReason(otherReason), ""
}

// AlwaysApprove is a StatusSource for demos and tests.
type AlwaysApprove struct{}

func (AlwaysApprove) GetStatus() (domain.ChargeStatus, domain.RefusalReason, string) {
	return domain.ChargeStatusSuccess, domain.RefusalUnknown, ""
}

// SimulatedCharger waits for a fixed delay and asks its StatusSource for the
// outcome.
type SimulatedCharger struct {
	status StatusSource
	delay  time.Duration
}

func NewSimulatedCharger(status StatusSource, delay time.Duration) *SimulatedCharger {
	return &SimulatedCharger{
		status: status,
		delay:  delay,
	}
}

func (c *SimulatedCharger) Charge(ctx context.Context, amount decimal.Decimal, _ domain.BillingInfo) (*domain.Charge, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	status, refusal, other := c.status.GetStatus()
	charge := &domain.Charge{
		TransactionID: "TXN-" + uuid.NewString(),
		Status:        status,
		Amount:        amount,
	}
	if status == domain.ChargeStatusSuccess {
		return charge, nil
	}

	charge.Refusal = refusal
	charge.OtherReason = other
	return charge, &DeclinedError{Charge: charge}
}
