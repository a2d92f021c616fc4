package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

type Checkouter interface {
	Checkout(ctx context.Context, billing domain.BillingInfo) (*domain.Receipt, error)
}

type CheckoutHandler struct {
	checkout Checkouter
}

func NewCheckoutHandler(c Checkouter) *CheckoutHandler {
	return &CheckoutHandler{checkout: c}
}

type CheckoutFailedResponse struct {
	ErrorResponse
	Receipt ReceiptResponse `json:"receipt"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var billing domain.BillingInfo
	if err := decodeJSON(r, &billing); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), billing)
	var declined *payment.DeclinedError
	switch {
	case err == nil:
		respondJSON(w, r, http.StatusCreated, toReceiptResponse(receipt))
	case errors.As(err, &declined) && receipt != nil:
		respondJSON(w, r, http.StatusPaymentRequired, CheckoutFailedResponse{
			ErrorResponse: ErrorResponse{
				Error:   err.Error(),
				Code:    "payment_declined",
				Details: declined.Charge.Refusal.String(),
			},
			Receipt: toReceiptResponse(receipt),
		})
	default:
		handleError(w, r, err)
	}
}
