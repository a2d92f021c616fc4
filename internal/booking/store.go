// Package booking keeps the traveller's flight reservations.
package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrNotModifiable is returned when a cancelled or completed booking is
	// edited or cancelled.
	ErrNotModifiable = errors.New("only confirmed bookings can be changed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StatusAll matches bookings in any status.
const StatusAll = "all"

// Filter narrows the booking list. Term matches the reference, airline,
// origin or destination case-insensitively.
type Filter struct {
	Status string
	Term   string
}

func (f Filter) matches(b domain.Booking) bool {
	if f.Status != "" && f.Status != StatusAll && string(b.Status) != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Term))
	if term == "" {
		return true
	}
	for _, field := range []string{b.Reference, b.Airline, b.From, b.To} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s can be used as a filter status.
func ValidStatus(s string) bool {
	switch domain.BookingStatus(s) {
	case "", StatusAll, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
		return true
	}
	return false
}

type Store struct {
	mu       sync.RWMutex
	bookings []domain.Booking // insertion order

	validate *validator.Validate
	log      zerolog.Logger
}

func NewStore(log zerolog.Logger, seed ...domain.Booking) *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Store{
		bookings: append([]domain.Booking(nil), seed...),
		validate: v,
		log:      log.With().Str("component", "booking").Logger(),
	}
}

// List returns copies of the bookings matching f in insertion order.
func (s *Store) List(f Filter) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if f.matches(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) Get(id string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	b := s.bookings[i]
	return &b, nil
}

// Cancel marks a confirmed booking cancelled.
func (s *Store) Cancel(id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.modifiable(id)
	if err != nil {
		return nil, err
	}
	s.bookings[i].Status = domain.BookingCancelled
	metrics.BookingChangesTotal.WithLabelValues("cancel").Inc()
	s.log.Info().Str("booking_id", id).Str("reference", s.bookings[i].Reference).Msg("booking cancelled")

	b := s.bookings[i]
	return &b, nil
}

// UpdateContact replaces the passenger contact details of a confirmed booking.
func (s *Store) UpdateContact(id string, c domain.PassengerContact) (*domain.Booking, error) {
	c.PassengerName = strings.TrimSpace(c.PassengerName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	if err := s.check(c); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.modifiable(id)
	if err != nil {
		return nil, err
	}
	s.bookings[i].PassengerName = c.PassengerName
	s.bookings[i].Email = c.Email
	s.bookings[i].Phone = c.Phone
	metrics.BookingChangesTotal.WithLabelValues("edit").Inc()
	s.log.Info().Str("booking_id", id).Msg("booking contact updated")

	b := s.bookings[i]
	return &b, nil
}

// Itinerary renders the booking as the plain-text itinerary handed out for
// download.
func (s *Store) Itinerary(id string) (string, error) {
	b, err := s.Get(id)
	if err != nil {
		return "", err
	}
	seat := b.Seat
	if seat == "" {
		seat = "Not assigned"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking Reference: %s\n", b.Reference)
	fmt.Fprintf(&sb, "Flight: %s %s\n", b.Airline, b.FlightNumber)
	fmt.Fprintf(&sb, "Route: %s → %s\n", b.From, b.To)
	fmt.Fprintf(&sb, "Date: %s\n", b.DepartureDate)
	fmt.Fprintf(&sb, "Time: %s - %s (%s)\n", b.DepartureTime, b.ArrivalTime, domain.FormatDuration(b.DurationMin))
	fmt.Fprintf(&sb, "Passenger: %s\n", b.PassengerName)
	fmt.Fprintf(&sb, "Seat: %s\n", seat)
	return sb.String(), nil
}

func (s *Store) modifiable(id string) (int, error) {
	i := s.find(id)
	if i < 0 {
		return -1, ErrNotFound
	}
	if s.bookings[i].Status != domain.BookingConfirmed {
		return -1, fmt.Errorf("booking %s is %s: %w", s.bookings[i].Reference, s.bookings[i].Status, ErrNotModifiable)
	}
	return i, nil
}

func (s *Store) find(id string) int {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) check(in any) error {
	err := s.validate.Struct(in)
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
