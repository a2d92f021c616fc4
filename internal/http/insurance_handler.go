package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/insurance"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Insurance interface {
	Policies() []domain.InsurancePolicy
	Policy(id string) (*domain.InsurancePolicy, error)
	Quote(policyID string, travelers int) (decimal.Decimal, error)
	Purchase(ctx context.Context, req insurance.PurchaseRequest) (*domain.PolicyPurchase, error)
	Claims() []domain.Claim
	FileClaim(req insurance.ClaimRequest) (*domain.Claim, error)
	ReviewClaim(id string, next domain.ClaimStatus) (*domain.Claim, error)
}

type InsuranceHandler struct {
	insurance Insurance
}

func NewInsuranceHandler(i Insurance) *InsuranceHandler {
	return &InsuranceHandler{insurance: i}
}

type PoliciesResponse struct {
	Policies []domain.InsurancePolicy `json:"policies"`
}

type QuoteResponse struct {
	PolicyID  string `json:"policy_id"`
	Travelers int    `json:"travelers"`
	Total     string `json:"total"`
}

type ClaimsResponse struct {
	Claims []domain.Claim `json:"claims"`
}

type ClaimStatusRequestDTO struct {
	Status domain.ClaimStatus `json:"status"`
}

func (h *InsuranceHandler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &PoliciesResponse{Policies: h.insurance.Policies()})
}

func (h *InsuranceHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.insurance.Policy(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, p)
}

// Quote prices a policy for ?travelers=N, one when omitted.
func (h *InsuranceHandler) Quote(w http.ResponseWriter, r *http.Request) {
	travelers := 1
	if raw := r.URL.Query().Get("travelers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_travelers", "travelers must be a number")
			return
		}
		travelers = n
	}

	id := chi.URLParam(r, "id")
	total, err := h.insurance.Quote(id, travelers)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, &QuoteResponse{
		PolicyID:  id,
		Travelers: travelers,
		Total:     domain.FormatPrice(total),
	})
}

func (h *InsuranceHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req insurance.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.insurance.Purchase(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, p)
}

func (h *InsuranceHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &ClaimsResponse{Claims: h.insurance.Claims()})
}

func (h *InsuranceHandler) FileClaim(w http.ResponseWriter, r *http.Request) {
	var req insurance.ClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.insurance.FileClaim(req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, c)
}

func (h *InsuranceHandler) ReviewClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimStatusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.insurance.ReviewClaim(chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, c)
}
