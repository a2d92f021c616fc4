package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FlightCategory is the cart category used for booked flights.
const FlightCategory = "Flights"

type Flight struct {
	ID            string          `json:"id" yaml:"id"`
	Airline       string          `json:"airline" yaml:"airline"`
	DepartureTime string          `json:"departure_time" yaml:"departure_time"`
	ArrivalTime   string          `json:"arrival_time" yaml:"arrival_time"`
	DurationMin   int             `json:"duration_minutes" yaml:"duration_minutes"`
	Price         decimal.Decimal `json:"price" yaml:"price"`
	Stops         int             `json:"stops" yaml:"stops"`
	From          string          `json:"from" yaml:"from"`
	To            string          `json:"to" yaml:"to"`
	Date          string          `json:"date" yaml:"date"`
	Logo          string          `json:"logo" yaml:"logo"`
	Rating        float64         `json:"rating" yaml:"rating"`
}

func (f Flight) Duration() time.Duration {
	return time.Duration(f.DurationMin) * time.Minute
}

// FormatDuration renders whole minutes the way the flight board shows them,
// e.g. "5h 30m" or "45m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// AsProduct turns a flight into something the cart can hold. The id is
// prefixed so flights never collide with consignment listings.
func (f Flight) AsProduct() Product {
	return Product{
		ID:          "flight-" + f.ID,
		Title:       fmt.Sprintf("%s %s → %s", f.Airline, f.From, f.To),
		Price:       f.Price,
		Image:       f.Logo,
		Seller:      f.Airline,
		Rating:      f.Rating,
		Category:    FlightCategory,
		Description: fmt.Sprintf("%s %s-%s (%s), %d stop(s)", f.Date, f.DepartureTime, f.ArrivalTime, FormatDuration(f.DurationMin), f.Stops),
	}
}
