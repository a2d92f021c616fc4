// Package insurance sells travel insurance policies and tracks claims filed
// against them.
package insurance

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultChargeTimeout = 10 * time.Second
	dateLayout           = "2006-01-02"
)

var (
	ErrPolicyNotFound    = errors.New("insurance policy not found")
	ErrClaimNotFound     = errors.New("claim not found")
	ErrIllegalTransition = errors.New("illegal claim status transition")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PurchaseRequest buys PolicyID for every traveller on the trip.
type PurchaseRequest struct {
	PolicyID string               `json:"policy_id" validate:"required"`
	Travel   domain.TravelDetails `json:"travel"`
	Holder   domain.PolicyHolder  `json:"holder"`
}

type ClaimRequest struct {
	PolicyNumber string          `json:"policy_number" validate:"required"`
	Type         string          `json:"type" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description" validate:"required"`
	IncidentDate string          `json:"incident_date" validate:"required,datetime=2006-01-02"`
}

type Service struct {
	policies []domain.InsurancePolicy
	charger  payment.Charger
	timeout  time.Duration

	mu        sync.RWMutex
	purchases []domain.PolicyPurchase
	claims    []domain.Claim
	policyNos map[string]bool
	nextNo    int

	now      func() time.Time
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(charger payment.Charger, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultChargeTimeout
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	s := &Service{
		policies:  Policies(),
		charger:   charger,
		timeout:   timeout,
		claims:    SeedClaims(),
		policyNos: make(map[string]bool),
		nextNo:    firstPolicyNumber,
		now:       time.Now,
		validate:  v,
		log:       log.With().Str("component", "insurance").Logger(),
	}
	for _, c := range s.claims {
		s.policyNos[c.PolicyNumber] = true
	}
	return s
}

func (s *Service) Policies() []domain.InsurancePolicy {
	out := make([]domain.InsurancePolicy, len(s.policies))
	for i, p := range s.policies {
		out[i] = clonePolicy(p)
	}
	return out
}

func (s *Service) Policy(id string) (*domain.InsurancePolicy, error) {
	for _, p := range s.policies {
		if p.ID == id {
			c := clonePolicy(p)
			return &c, nil
		}
	}
	return nil, ErrPolicyNotFound
}

// Quote is the policy price times the number of travellers.
func (s *Service) Quote(policyID string, travelers int) (decimal.Decimal, error) {
	if travelers < 1 || travelers > 10 {
		return decimal.Zero, &ValidationError{Field: "travelers", Reason: "must be between 1 and 10"}
	}
	p, err := s.Policy(policyID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Price.Mul(decimal.NewFromInt(int64(travelers))), nil
}

// Purchase validates the trip and holder, charges the quote and issues a
// policy number. A declined charge returns the *payment.DeclinedError and
// issues nothing.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (*domain.PolicyPurchase, error) {
	req.Travel.Destination = strings.TrimSpace(req.Travel.Destination)
	req.Holder.FirstName = strings.TrimSpace(req.Holder.FirstName)
	req.Holder.LastName = strings.TrimSpace(req.Holder.LastName)
	req.Holder.Email = strings.TrimSpace(req.Holder.Email)
	if err := s.check(req); err != nil {
		return nil, err
	}

	policy, err := s.Policy(req.PolicyID)
	if err != nil {
		return nil, err
	}
	if err := checkTrip(req.Travel, policy.MaxDays); err != nil {
		return nil, err
	}
	total, err := s.Quote(policy.ID, req.Travel.Travelers)
	if err != nil {
		return nil, err
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	charge, err := s.charger.Charge(chargeCtx, total, domain.BillingInfo{
		Name:    req.Holder.FirstName + " " + req.Holder.LastName,
		Email:   req.Holder.Email,
		Address: req.Holder.Address,
		Phone:   req.Holder.Phone,
	})
	if err != nil {
		metrics.InsurancePurchasesTotal.WithLabelValues(string(policy.Tier), "failed").Inc()
		s.log.Warn().Err(err).Str("policy_id", policy.ID).Msg("insurance payment failed")
		return nil, fmt.Errorf("purchase %s: %w", policy.Name, err)
	}

	s.mu.Lock()
	purchase := domain.PolicyPurchase{
		PolicyNumber:  s.issueNumberLocked(),
		PolicyID:      policy.ID,
		PolicyName:    policy.Name,
		TransactionID: charge.TransactionID,
		Travel:        req.Travel,
		Holder:        req.Holder,
		Total:         total,
		PurchasedAt:   s.now().UTC(),
	}
	s.purchases = append(s.purchases, purchase)
	s.mu.Unlock()

	metrics.InsurancePurchasesTotal.WithLabelValues(string(policy.Tier), "success").Inc()
	s.log.Info().Str("policy_number", purchase.PolicyNumber).Str("policy_id", policy.ID).Str("total", domain.FormatPrice(total)).Msg("policy issued")
	return &purchase, nil
}

func (s *Service) Purchases() []domain.PolicyPurchase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]domain.PolicyPurchase, 0, len(s.purchases)), s.purchases...)
}

// Claims returns copies of all claims in filing order.
func (s *Service) Claims() []domain.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Claim, len(s.claims))
	for i, c := range s.claims {
		out[i] = cloneClaim(c)
	}
	return out
}

// FileClaim records a pending claim against a known policy number.
func (s *Service) FileClaim(req ClaimRequest) (*domain.Claim, error) {
	req.PolicyNumber = strings.TrimSpace(req.PolicyNumber)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.check(req); err != nil {
		return nil, err
	}
	if !slices.Contains(domain.ClaimTypes, req.Type) {
		return nil, &ValidationError{Field: "type", Reason: "must be one of " + strings.Join(domain.ClaimTypes, ", ")}
	}
	if !req.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	now := s.now()
	incident, _ := time.Parse(dateLayout, req.IncidentDate)
	if incident.After(now) {
		return nil, &ValidationError{Field: "incident_date", Reason: "must not be in the future"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.policyNos[req.PolicyNumber] {
		return nil, fmt.Errorf("policy %s: %w", req.PolicyNumber, ErrPolicyNotFound)
	}
	claim := domain.Claim{
		ID:            fmt.Sprintf("%d", len(s.claims)+1),
		PolicyNumber:  req.PolicyNumber,
		Type:          req.Type,
		Amount:        req.Amount,
		Status:        domain.ClaimPending,
		DateSubmitted: now.Format(dateLayout),
		IncidentDate:  req.IncidentDate,
		Description:   req.Description,
		Documents:     []string{},
	}
	s.claims = append(s.claims, claim)

	metrics.InsuranceClaimsTotal.WithLabelValues(string(domain.ClaimPending)).Inc()
	s.log.Info().Str("claim_id", claim.ID).Str("policy_number", claim.PolicyNumber).Str("type", claim.Type).Msg("claim filed")
	c := cloneClaim(claim)
	return &c, nil
}

// ReviewClaim moves a claim along pending → processing → approved, or to
// rejected from either open state.
func (s *Service) ReviewClaim(id string, next domain.ClaimStatus) (*domain.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.claims, func(c domain.Claim) bool { return c.ID == id })
	if i < 0 {
		return nil, ErrClaimNotFound
	}
	cur := s.claims[i].Status
	if !cur.CanTransitionTo(next) {
		return nil, fmt.Errorf("claim %s %s -> %s: %w", id, cur, next, ErrIllegalTransition)
	}
	s.claims[i].Status = next

	metrics.InsuranceClaimsTotal.WithLabelValues(string(next)).Inc()
	s.log.Info().Str("claim_id", id).Str("from", string(cur)).Str("to", string(next)).Msg("claim reviewed")
	c := cloneClaim(s.claims[i])
	return &c, nil
}

func (s *Service) issueNumberLocked() string {
	no := fmt.Sprintf("TI-%d-%06d", s.now().Year(), s.nextNo)
	s.nextNo++
	s.policyNos[no] = true
	return no
}

func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Reason: reason(verrs[0])}
	}
	return err
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "min", "max":
		return "must be between 1 and 10"
	default:
		return "must not be empty"
	}
}

// checkTrip runs after field validation, so both dates parse.
func checkTrip(t domain.TravelDetails, maxDays int) error {
	dep, _ := time.Parse(dateLayout, t.DepartureDate)
	ret, _ := time.Parse(dateLayout, t.ReturnDate)
	if ret.Before(dep) {
		return &ValidationError{Field: "return_date", Reason: "must not be before the departure date"}
	}
	days := int(ret.Sub(dep).Hours()/24) + 1
	if days > maxDays {
		return &ValidationError{Field: "return_date", Reason: fmt.Sprintf("trip of %d days exceeds the policy limit of %d", days, maxDays)}
	}
	if t.TripCost.IsNegative() {
		return &ValidationError{Field: "trip_cost", Reason: "must not be negative"}
	}
	return nil
}

func clonePolicy(p domain.InsurancePolicy) domain.InsurancePolicy {
	p.Features = slices.Clone(p.Features)
	return p
}

func cloneClaim(c domain.Claim) domain.Claim {
	c.Documents = slices.Clone(c.Documents)
	return c
}
