package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStatus struct {
	st domain.ChargeStatus
	rf domain.RefusalReason
	s  string
}

func (m *mockStatus) GetStatus() (domain.ChargeStatus, domain.RefusalReason, string) {
	return m.st, m.rf, m.s
}

var billing = domain.BillingInfo{
	Name:    "Kalu Iroegbu",
	Email:   "kalu@example.com",
	Address: "1 Main St",
	City:    "New York",
	ZipCode: "10001",
	Phone:   "555-0100",
}

func TestCalculateRandomStatus(t *testing.T) {
	tests := []struct {
		name string
		v    int
		st   StatusSource
	}{
		{
			name: "success",
			v:    10,
			st:   &mockStatus{st: domain.ChargeStatusSuccess, rf: domain.RefusalUnknown},
		},
		{
			name: "success upper bound",
			v:    94,
			st:   &mockStatus{st: domain.ChargeStatusSuccess, rf: domain.RefusalUnknown},
		},
		{
			name: "failed unknown",
			v:    95,
			st:   &mockStatus{st: domain.ChargeStatusFailed, rf: domain.RefusalUnknown, s: "unknown reason"},
		},
		{
			name: "failed no funds",
			v:    96,
			st:   &mockStatus{st: domain.ChargeStatusFailed, rf: domain.RefusalNoFunds},
		},
		{
			name: "failed card blocked",
			v:    100,
			st:   &mockStatus{st: domain.ChargeStatusFailed, rf: domain.RefusalCardBlocked},
		},
		{
			name: "failed out of range",
			v:    101,
			st:   &mockStatus{st: domain.ChargeStatusFailed, rf: domain.RefusalUnknown, s: "unknown reason"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charge, refusalKnown, refusalOther := calcStatus(tt.v)
			chargeExp, refusalKnownExp, refusalOtherExp := tt.st.GetStatus()
			assert.Equal(t, chargeExp, charge)
			assert.Equal(t, refusalKnownExp, refusalKnown)
			assert.Equal(t, refusalOtherExp, refusalOther)
		})
	}
}

func TestSimulatedCharger(t *testing.T) {
	tests := []struct {
		name    string
		st      StatusSource
		wantErr string
	}{
		{
			name: "success",
			st:   &mockStatus{st: domain.ChargeStatusSuccess},
		},
		{
			name:    "no funds",
			st:      &mockStatus{st: domain.ChargeStatusFailed, rf: domain.RefusalNoFunds},
			wantErr: "Payment failed: NO_FUNDS",
		},
		{
			name:    "unknown reason",
			st:      &mockStatus{st: domain.ChargeStatusFailed, s: "unknown reason"},
			wantErr: "Payment failed: unknown reason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charger := NewSimulatedCharger(tt.st, 0)

			charge, err := charger.Charge(context.Background(), decimal.NewFromInt(388), billing)

			require.NotNil(t, charge)
			assert.True(t, strings.HasPrefix(charge.TransactionID, "TXN-"))
			assert.True(t, decimal.NewFromInt(388).Equal(charge.Amount))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, domain.ChargeStatusSuccess, charge.Status)
				return
			}
			assert.ErrorIs(t, err, ErrDeclined)
			assert.EqualError(t, err, tt.wantErr)
			var declined *DeclinedError
			require.ErrorAs(t, err, &declined)
			assert.Equal(t, domain.ChargeStatusFailed, declined.Charge.Status)
		})
	}
}

func TestSimulatedCharger_InvalidAmount(t *testing.T) {
	charger := NewSimulatedCharger(AlwaysApprove{}, 0)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := charger.Charge(context.Background(), amount, billing)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestSimulatedCharger_ContextCancelled(t *testing.T) {
	charger := NewSimulatedCharger(AlwaysApprove{}, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := charger.Charge(ctx, decimal.NewFromInt(1), billing)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type failingCharger struct {
	err   error
	calls int
}

func (f *failingCharger) Charge(context.Context, decimal.Decimal, domain.BillingInfo) (*domain.Charge, error) {
	f.calls++
	return nil, f.err
}

func TestBreakerCharger_TripsOnTransportFailures(t *testing.T) {
	next := &failingCharger{err: errors.New("connection refused")}
	s := circuitbreaker.DefaultSettings("payment")
	s.ConsecutiveFailures = 3
	s.Timeout = time.Hour
	charger := NewBreakerCharger(next, s, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := charger.Charge(context.Background(), decimal.NewFromInt(1), billing)
		require.ErrorContains(t, err, "connection refused")
	}
	assert.Equal(t, gobreaker.StateOpen, charger.State())

	_, err := charger.Charge(context.Background(), decimal.NewFromInt(1), billing)
	assert.ErrorIs(t, err, circuitbreaker.ErrUnavailable)
	assert.Equal(t, 3, next.calls, "open breaker must not reach the collaborator")
}

func TestBreakerCharger_DeclinesDoNotTrip(t *testing.T) {
	declining := NewSimulatedCharger(&mockStatus{st: domain.ChargeStatusFailed, rf: domain.RefusalNoFunds}, 0)
	s := circuitbreaker.DefaultSettings("payment")
	s.ConsecutiveFailures = 1
	charger := NewBreakerCharger(declining, s, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := charger.Charge(context.Background(), decimal.NewFromInt(1), billing)
		assert.ErrorIs(t, err, ErrDeclined)
	}
	assert.Equal(t, gobreaker.StateClosed, charger.State())
}
