package insurance

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// firstPolicyNumber continues after the seeded claims' policy numbers.
const firstPolicyNumber = 1237

func usd(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Policies returns the plans on sale, cheapest first.
func Policies() []domain.InsurancePolicy {
	return []domain.InsurancePolicy{
		{
			ID:      "1",
			Name:    "Basic Protection",
			Tier:    domain.TierBasic,
			Price:   usd(29),
			MaxDays: 7,
			Coverage: domain.Coverage{
				Medical:          usd(50000),
				TripCancellation: usd(5000),
				Baggage:          usd(1000),
				FlightDelay:      usd(500),
				Emergency:        usd(25000),
			},
			Features: []string{
				"Emergency Medical Coverage",
				"Trip Cancellation Protection",
				"Lost Baggage Coverage",
				"24/7 Emergency Assistance",
				"Flight Delay Compensation",
			},
		},
		{
			ID:      "2",
			Name:    "Standard Coverage",
			Tier:    domain.TierStandard,
			Price:   usd(59),
			MaxDays: 30,
			Coverage: domain.Coverage{
				Medical:          usd(100000),
				TripCancellation: usd(10000),
				Baggage:          usd(2500),
				FlightDelay:      usd(1000),
				Emergency:        usd(50000),
			},
			Features: []string{
				"Enhanced Medical Coverage",
				"Trip Interruption Protection",
				"Baggage & Personal Items",
				"Rental Car Coverage",
				"Adventure Sports Coverage",
				"Pre-existing Conditions",
				"24/7 Concierge Service",
			},
			Popular: true,
		},
		{
			ID:      "3",
			Name:    "Premium Shield",
			Tier:    domain.TierPremium,
			Price:   usd(99),
			MaxDays: 90,
			Coverage: domain.Coverage{
				Medical:          usd(250000),
				TripCancellation: usd(25000),
				Baggage:          usd(5000),
				FlightDelay:      usd(2000),
				Emergency:        usd(100000),
			},
			Features: []string{
				"Maximum Medical Protection",
				"Cancel for Any Reason",
				"Premium Baggage Coverage",
				"Business Equipment Protection",
				"High-Risk Activities",
				"Family Coverage Options",
				"Priority Claims Processing",
				"Travel Concierge Services",
			},
		},
	}
}

func SeedClaims() []domain.Claim {
	return []domain.Claim{
		{
			ID:            "1",
			PolicyNumber:  "TI-2024-001234",
			Type:          "Medical Emergency",
			Amount:        usd(2500),
			Status:        domain.ClaimApproved,
			DateSubmitted: "2024-01-10",
			Description:   "Emergency medical treatment in Paris",
			Documents:     []string{"medical_report.pdf", "receipts.pdf"},
		},
		{
			ID:            "2",
			PolicyNumber:  "TI-2024-001235",
			Type:          "Flight Delay",
			Amount:        usd(800),
			Status:        domain.ClaimProcessing,
			DateSubmitted: "2024-01-15",
			Description:   "12-hour flight delay due to weather",
			Documents:     []string{"flight_confirmation.pdf", "delay_certificate.pdf"},
		},
		{
			ID:            "3",
			PolicyNumber:  "TI-2024-001236",
			Type:          "Lost Baggage",
			Amount:        usd(1200),
			Status:        domain.ClaimPending,
			DateSubmitted: "2024-01-20",
			Description:   "Baggage lost during connection in London",
			Documents:     []string{"baggage_report.pdf", "item_list.pdf"},
		},
	}
}
