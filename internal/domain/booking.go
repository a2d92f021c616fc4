package domain

import "github.com/shopspring/decimal"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a flight reservation held by the traveller.
type Booking struct {
	ID            string          `json:"id" yaml:"id"`
	Reference     string          `json:"booking_reference" yaml:"booking_reference"`
	Airline       string          `json:"airline" yaml:"airline"`
	FlightNumber  string          `json:"flight_number" yaml:"flight_number"`
	From          string          `json:"from" yaml:"from"`
	To            string          `json:"to" yaml:"to"`
	DepartureDate string          `json:"departure_date" yaml:"departure_date"`
	DepartureTime string          `json:"departure_time" yaml:"departure_time"`
	ArrivalTime   string          `json:"arrival_time" yaml:"arrival_time"`
	DurationMin   int             `json:"duration_minutes" yaml:"duration_minutes"`
	Passengers    int             `json:"passengers" yaml:"passengers"`
	TotalPrice    decimal.Decimal `json:"total_price" yaml:"total_price"`
	Status        BookingStatus   `json:"status" yaml:"status"`
	PassengerName string          `json:"passenger_name" yaml:"passenger_name"`
	Email         string          `json:"email" yaml:"email"`
	Phone         string          `json:"phone" yaml:"phone"`
	Seat          string          `json:"seat_number,omitempty" yaml:"seat_number,omitempty"`
	Gate          string          `json:"gate,omitempty" yaml:"gate,omitempty"`
	Terminal      string          `json:"terminal,omitempty" yaml:"terminal,omitempty"`
}

// PassengerContact is the part of a booking the traveller may edit.
type PassengerContact struct {
	PassengerName string `json:"passenger_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
}
