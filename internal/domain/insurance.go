package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PolicyTier string

const (
	TierBasic    PolicyTier = "basic"
	TierStandard PolicyTier = "standard"
	TierPremium  PolicyTier = "premium"
)

// Coverage limits per incident, in USD.
type Coverage struct {
	Medical          decimal.Decimal `json:"medical" yaml:"medical"`
	TripCancellation decimal.Decimal `json:"trip_cancellation" yaml:"trip_cancellation"`
	Baggage          decimal.Decimal `json:"baggage" yaml:"baggage"`
	FlightDelay      decimal.Decimal `json:"flight_delay" yaml:"flight_delay"`
	Emergency        decimal.Decimal `json:"emergency" yaml:"emergency"`
}

// InsurancePolicy is a travel insurance plan. Price is per traveller.
type InsurancePolicy struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Tier     PolicyTier      `json:"type" yaml:"type"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	MaxDays  int             `json:"max_days" yaml:"max_days"`
	Coverage Coverage        `json:"coverage" yaml:"coverage"`
	Features []string        `json:"features" yaml:"features"`
	Popular  bool            `json:"popular,omitempty" yaml:"popular,omitempty"`
}

// TravelDetails describes the trip being insured. Dates are YYYY-MM-DD.
type TravelDetails struct {
	Destination   string          `json:"destination" validate:"required"`
	DepartureDate string          `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string          `json:"return_date" validate:"required,datetime=2006-01-02"`
	Travelers     int             `json:"travelers" validate:"min=1,max=10"`
	TripCost      decimal.Decimal `json:"trip_cost"`
}

type PolicyHolder struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     string `json:"address" validate:"required"`
}

// PolicyPurchase is an issued policy.
type PolicyPurchase struct {
	PolicyNumber  string          `json:"policy_number"`
	PolicyID      string          `json:"policy_id"`
	PolicyName    string          `json:"policy_name"`
	TransactionID string          `json:"transaction_id"`
	Travel        TravelDetails   `json:"travel"`
	Holder        PolicyHolder    `json:"holder"`
	Total         decimal.Decimal `json:"total"`
	PurchasedAt   time.Time       `json:"purchased_at"`
}

type ClaimStatus string

const (
	ClaimPending    ClaimStatus = "pending"
	ClaimProcessing ClaimStatus = "processing"
	ClaimApproved   ClaimStatus = "approved"
	ClaimRejected   ClaimStatus = "rejected"
)

// CanTransitionTo reports whether a claim under review may move to next.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	switch s {
	case ClaimPending:
		return next == ClaimProcessing || next == ClaimRejected
	case ClaimProcessing:
		return next == ClaimApproved || next == ClaimRejected
	default:
		return false
	}
}

// ClaimTypes are the incidents a claim can be filed for.
var ClaimTypes = []string{
	"Medical Emergency",
	"Trip Cancellation",
	"Flight Delay",
	"Lost Baggage",
	"Trip Interruption",
}

type Claim struct {
	ID            string          `json:"id"`
	PolicyNumber  string          `json:"policy_number"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Status        ClaimStatus     `json:"status"`
	DateSubmitted string          `json:"date_submitted"`
	IncidentDate  string          `json:"incident_date,omitempty"`
	Description   string          `json:"description"`
	Documents     []string        `json:"documents"`
}
