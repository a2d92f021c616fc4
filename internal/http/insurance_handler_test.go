package http

import (
	"net/http"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/insurance"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseBody() insurance.PurchaseRequest {
	return insurance.PurchaseRequest{
		PolicyID: "1",
		Travel: domain.TravelDetails{
			Destination:   "Lagos",
			DepartureDate: "2024-05-01",
			ReturnDate:    "2024-05-05",
			Travelers:     3,
			TripCost:      decimal.NewFromInt(1500),
		},
		Holder: domain.PolicyHolder{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane@example.com",
			Phone:       "555-0100",
			DateOfBirth: "1990-05-04",
			Address:     "1 Main St",
		},
	}
}

func TestListPolicies(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/insurance/policies", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	policies := decode[PoliciesResponse](t, rec).Policies
	require.Len(t, policies, 3)
	assert.Equal(t, "Premium Shield", policies[2].Name)

	rec = f.do(t, http.MethodGet, "/api/v1/insurance/policies/9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuote(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/insurance/policies/2/quote?travelers=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "236.00", decode[QuoteResponse](t, rec).Total)

	rec = f.do(t, http.MethodGet, "/api/v1/insurance/policies/2/quote", nil)
	assert.Equal(t, "59.00", decode[QuoteResponse](t, rec).Total)

	rec = f.do(t, http.MethodGet, "/api/v1/insurance/policies/2/quote?travelers=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/insurance/policies/2/quote?travelers=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "travelers", decode[ErrorResponse](t, rec).Details)
}

func TestPurchaseInsurance(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodPost, "/api/v1/insurance/purchases", purchaseBody())

	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[domain.PolicyPurchase](t, rec)
	assert.Equal(t, "Basic Protection", p.PolicyName)
	assert.True(t, decimal.NewFromInt(87).Equal(p.Total))
	assert.NotEmpty(t, p.PolicyNumber)
	assert.NotEmpty(t, p.TransactionID)
}

func TestPurchaseInsurance_Declined(t *testing.T) {
	f := newFixture(t, declineAll{})

	rec := f.do(t, http.MethodPost, "/api/v1/insurance/purchases", purchaseBody())

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "payment_declined", resp.Code)
	assert.Equal(t, "NO_FUNDS", resp.Details)
}

func TestPurchaseInsurance_TripTooLong(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})
	body := purchaseBody()
	body.Travel.ReturnDate = "2024-05-20"

	rec := f.do(t, http.MethodPost, "/api/v1/insurance/purchases", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "return_date", decode[ErrorResponse](t, rec).Details)
}

func TestClaimsFlow(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/insurance/claims", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[ClaimsResponse](t, rec).Claims, 3)

	rec = f.do(t, http.MethodPost, "/api/v1/insurance/claims", insurance.ClaimRequest{
		PolicyNumber: "TI-2024-001234",
		Type:         "Lost Baggage",
		Amount:       decimal.NewFromInt(300),
		Description:  "Suitcase missing in Lisbon",
		IncidentDate: "2024-02-20",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	claim := decode[domain.Claim](t, rec)
	assert.Equal(t, domain.ClaimPending, claim.Status)

	rec = f.do(t, http.MethodPut, "/api/v1/insurance/claims/"+claim.ID+"/status", ClaimStatusRequestDTO{Status: domain.ClaimProcessing})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ClaimProcessing, decode[domain.Claim](t, rec).Status)

	rec = f.do(t, http.MethodPut, "/api/v1/insurance/claims/"+claim.ID+"/status", ClaimStatusRequestDTO{Status: domain.ClaimPending})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/v1/insurance/claims/99/status", ClaimStatusRequestDTO{Status: domain.ClaimApproved})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileClaim_Validation(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodPost, "/api/v1/insurance/claims", insurance.ClaimRequest{
		PolicyNumber: "TI-2024-001234",
		Type:         "Sunburn",
		Amount:       decimal.NewFromInt(10),
		Description:  "x",
		IncidentDate: "2024-02-20",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "type", decode[ErrorResponse](t, rec).Details)
}
