package http

import (
	"fmt"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/booking"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Bookings interface {
	List(f booking.Filter) []domain.Booking
	Get(id string) (*domain.Booking, error)
	Cancel(id string) (*domain.Booking, error)
	UpdateContact(id string, c domain.PassengerContact) (*domain.Booking, error)
	Itinerary(id string) (string, error)
}

type BookingHandler struct {
	bookings Bookings
}

func NewBookingHandler(b Bookings) *BookingHandler {
	return &BookingHandler{bookings: b}
}

type BookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int              `json:"total"`
}

// ListBookings filters by ?status=all|confirmed|cancelled|completed and ?q=.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if !booking.ValidStatus(status) {
		respondError(w, r, http.StatusBadRequest, "invalid_status", "status must be one of all, confirmed, cancelled, completed")
		return
	}

	list := h.bookings.List(booking.Filter{Status: status, Term: q.Get("q")})
	respondJSON(w, r, http.StatusOK, &BookingsResponse{Bookings: list, Total: len(list)})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, b)
}

func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.PassengerContact
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	b, err := h.bookings.UpdateContact(chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, b)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Cancel(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, b)
}

// Itinerary serves the booking as a plain-text download.
func (h *BookingHandler) Itinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.bookings.Get(id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	text, err := h.bookings.Itinerary(id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.txt"`, b.Reference))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
