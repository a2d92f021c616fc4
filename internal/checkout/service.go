// Package checkout turns the current cart into a paid order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/fjod/go_cart/storefront/internal/checkout")

const (
	Currency             = "USD"
	DefaultChargeTimeout = 10 * time.Second
)

type Service struct {
	cart      *cart.Store
	charger   payment.Charger
	publisher events.Publisher
	timeout   time.Duration
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time

	mu   sync.Mutex
	busy bool
}

func NewService(c *cart.Store, charger payment.Charger, publisher events.Publisher, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultChargeTimeout
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Service{
		cart:      c,
		charger:   charger,
		publisher: publisher,
		timeout:   timeout,
		validate:  v,
		log:       log.With().Str("component", "checkout").Logger(),
		now:       time.Now,
	}
}

// Checkout charges the cart total to the billing contact. On success the
// cart is cleared and an OrderPlaced event is published; on failure the cart
// is left as it was and the returned receipt carries status FAILED.
func (s *Service) Checkout(ctx context.Context, billing domain.BillingInfo) (receipt *domain.Receipt, err error) {
	ctx, span := tracer.Start(ctx, "checkout")
	defer func() {
		if receipt != nil {
			span.SetAttributes(
				attribute.String("order.id", receipt.OrderID),
				attribute.String("checkout.status", receipt.Status.String()),
			)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	billing = trimBilling(billing)
	if err := s.check(billing); err != nil {
		return nil, err
	}

	if !s.acquire() {
		metrics.CheckoutsTotal.WithLabelValues("busy").Inc()
		return nil, ErrCheckoutInProgress
	}
	defer s.release()

	snap := s.cart.Snapshot()
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	receipt = &domain.Receipt{
		OrderID: uuid.NewString(),
		Status:  domain.CheckoutStatusInitiated,
		Items:   snap.Items,
		Total:   snap.TotalPrice,
	}
	log := s.log.With().Str("order_id", receipt.OrderID).Logger()

	if err := s.transition(receipt, domain.CheckoutStatusPaymentPending); err != nil {
		return nil, err
	}
	log.Info().Str("amount", domain.FormatPrice(receipt.Total)).Msg("charging")

	chargeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	charge, chargeErr := s.charger.Charge(chargeCtx, receipt.Total, billing)
	if charge != nil {
		receipt.TransactionID = charge.TransactionID
	}
	if chargeErr != nil {
		_ = s.transition(receipt, domain.CheckoutStatusFailed)
		metrics.CheckoutsTotal.WithLabelValues(receipt.Status.String()).Inc()
		log.Warn().Err(chargeErr).Msg("payment failed")
		return receipt, fmt.Errorf("checkout %s: %w", receipt.OrderID, chargeErr)
	}

	if err := s.transition(receipt, domain.CheckoutStatusCompleted); err != nil {
		return nil, err
	}
	receipt.PlacedAt = s.now().UTC()
	s.cart.Clear()
	metrics.CheckoutsTotal.WithLabelValues(receipt.Status.String()).Inc()

	evt := domain.OrderPlaced{
		OrderID:       receipt.OrderID,
		TransactionID: receipt.TransactionID,
		Email:         billing.Email,
		Items:         receipt.Items,
		Total:         receipt.Total,
		Currency:      Currency,
		PlacedAt:      receipt.PlacedAt,
	}
	// the charge already went through, so a publish failure does not undo the order
	if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
		log.Error().Err(err).Msg("failed to publish order event")
	}

	log.Info().Str("transaction_id", receipt.TransactionID).Msg("order placed")
	return receipt, nil
}

// InProgress reports whether a checkout is currently charging.
func (s *Service) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Service) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Service) transition(r *domain.Receipt, next domain.CheckoutStatus) error {
	if !domain.CanTransitionTo(r.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, r.Status, next)
	}
	r.Status = next
	return nil
}

func (s *Service) check(billing domain.BillingInfo) error {
	err := s.validate.Struct(billing)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		reason := "must not be empty"
		if verrs[0].Tag() == "email" {
			reason = "must be a valid email address"
		}
		return &ValidationError{Field: verrs[0].Field(), Reason: reason}
	}
	return err
}

func trimBilling(b domain.BillingInfo) domain.BillingInfo {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	b.Address = strings.TrimSpace(b.Address)
	b.City = strings.TrimSpace(b.City)
	b.ZipCode = strings.TrimSpace(b.ZipCode)
	b.Phone = strings.TrimSpace(b.Phone)
	return b
}
