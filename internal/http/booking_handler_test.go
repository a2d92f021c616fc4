package http

import (
	"net/http"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBookings(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/bookings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[BookingsResponse](t, rec)
	assert.Equal(t, 3, resp.Total)

	rec = f.do(t, http.MethodGet, "/api/v1/bookings?status=confirmed&q=chicago", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[BookingsResponse](t, rec)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "PL3K8N", resp.Bookings[0].Reference)
	assert.Equal(t, 210, resp.Bookings[0].DurationMin)
}

func TestListBookings_InvalidStatus(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/bookings?status=lost", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status", decode[ErrorResponse](t, rec).Code)
}

func TestBookingFlow(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodPut, "/api/v1/bookings/1", domain.PassengerContact{
		PassengerName: "Ada Obi",
		Email:         "ada@example.com",
		Phone:         "+234 800",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada Obi", decode[domain.Booking](t, rec).PassengerName)

	rec = f.do(t, http.MethodPost, "/api/v1/bookings/1/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.BookingCancelled, decode[domain.Booking](t, rec).Status)

	rec = f.do(t, http.MethodPost, "/api/v1/bookings/1/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", decode[ErrorResponse](t, rec).Code)

	rec = f.do(t, http.MethodGet, "/api/v1/bookings?status=cancelled", nil)
	assert.Equal(t, 1, decode[BookingsResponse](t, rec).Total)
}

func TestBooking_Errors(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/bookings/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/v1/bookings/1", domain.PassengerContact{PassengerName: "Ada", Email: "nope", Phone: "1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Equal(t, "email", resp.Details)

	rec = f.do(t, http.MethodPut, "/api/v1/bookings/3", domain.PassengerContact{PassengerName: "Ada", Email: "ada@example.com", Phone: "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBooking_Itinerary(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove{})

	rec := f.do(t, http.MethodGet, "/api/v1/bookings/1/itinerary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="itinerary-KX7B9M.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Booking Reference: KX7B9M")

	rec = f.do(t, http.MethodGet, "/api/v1/bookings/42/itinerary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
