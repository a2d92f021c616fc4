package payment

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// BreakerCharger stops calling the collaborator after repeated transport
// failures. Declines and bad amounts are answers, not failures, and never
// trip the breaker.
type BreakerCharger struct {
	next Charger
	cb   *gobreaker.CircuitBreaker[*domain.Charge]
}

func NewBreakerCharger(next Charger, s circuitbreaker.Settings, log zerolog.Logger) *BreakerCharger {
	s.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrDeclined) || errors.Is(err, ErrInvalidAmount) || errors.Is(err, context.Canceled)
	}
	return &BreakerCharger{
		next: next,
		cb:   circuitbreaker.New[*domain.Charge](s, log),
	}
}

func (b *BreakerCharger) Charge(ctx context.Context, amount decimal.Decimal, billing domain.BillingInfo) (*domain.Charge, error) {
	charge, err := b.cb.Execute(func() (*domain.Charge, error) {
		return b.next.Charge(ctx, amount, billing)
	})
	return charge, circuitbreaker.Translate(err)
}

func (b *BreakerCharger) State() gobreaker.State {
	return b.cb.State()
}
