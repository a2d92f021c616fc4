package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/booking"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/insurance"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/rs/zerolog/hlog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// handleError converts domain errors to HTTP status codes.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		httpStatus int
		code       string
		details    string
	)

	var sessionErr *session.ValidationError
	var checkoutErr *checkout.ValidationError
	var bookingErr *booking.ValidationError
	var insuranceErr *insurance.ValidationError
	var declined *payment.DeclinedError

	switch {
	case errors.As(err, &sessionErr):
		httpStatus, code, details = http.StatusBadRequest, "validation_failed", sessionErr.Field
	case errors.As(err, &checkoutErr):
		httpStatus, code, details = http.StatusBadRequest, "validation_failed", checkoutErr.Field
	case errors.As(err, &bookingErr):
		httpStatus, code, details = http.StatusBadRequest, "validation_failed", bookingErr.Field
	case errors.As(err, &insuranceErr):
		httpStatus, code, details = http.StatusBadRequest, "validation_failed", insuranceErr.Field
	case errors.Is(err, checkout.ErrEmptyCart):
		httpStatus, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, session.ErrAuthenticationFailed):
		httpStatus, code = http.StatusUnauthorized, "authentication_failed"
	case errors.Is(err, session.ErrAuthInProgress), errors.Is(err, checkout.ErrCheckoutInProgress):
		httpStatus, code = http.StatusConflict, "in_progress"
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, catalog.ErrFlightNotFound),
		errors.Is(err, booking.ErrNotFound),
		errors.Is(err, insurance.ErrPolicyNotFound), errors.Is(err, insurance.ErrClaimNotFound):
		httpStatus, code = http.StatusNotFound, "not_found"
	case errors.Is(err, booking.ErrNotModifiable), errors.Is(err, insurance.ErrIllegalTransition):
		httpStatus, code = http.StatusConflict, "invalid_state"
	case errors.As(err, &declined):
		httpStatus, code, details = http.StatusPaymentRequired, "payment_declined", declined.Charge.Refusal.String()
	case errors.Is(err, payment.ErrInvalidAmount):
		httpStatus, code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, circuitbreaker.ErrUnavailable):
		httpStatus, code = http.StatusServiceUnavailable, "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus, code = http.StatusGatewayTimeout, "timeout"
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, r, httpStatus, ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Details: details,
	})
}
