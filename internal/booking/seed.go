package booking

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Seed returns the demo bookings the storefront starts with.
func Seed() []domain.Booking {
	return []domain.Booking{
		{
			ID:            "1",
			Reference:     "KX7B9M",
			Airline:       "American Airlines",
			FlightNumber:  "AA1234",
			From:          "New York (NYC)",
			To:            "Los Angeles (LAX)",
			DepartureDate: "2024-02-15",
			DepartureTime: "08:30",
			ArrivalTime:   "11:45",
			DurationMin:   195,
			Passengers:    1,
			TotalPrice:    decimal.NewFromInt(299),
			Status:        domain.BookingConfirmed,
			PassengerName: "Kalu Iroegbu",
			Email:         "kalu@example.com",
			Phone:         "+234 7011180318",
			Seat:          "12A",
			Gate:          "B7",
			Terminal:      "Terminal 1",
		},
		{
			ID:            "2",
			Reference:     "PL3K8N",
			Airline:       "Delta Air Lines",
			FlightNumber:  "DL5678",
			From:          "Los Angeles (LAX)",
			To:            "Chicago (ORD)",
			DepartureDate: "2024-02-20",
			DepartureTime: "14:20",
			ArrivalTime:   "19:50",
			DurationMin:   210,
			Passengers:    2,
			TotalPrice:    decimal.NewFromInt(690),
			Status:        domain.BookingConfirmed,
			PassengerName: "Kalu Iroegbu",
			Email:         "kalu@example.com",
			Phone:         "+234 7011180318",
			Seat:          "15B, 15C",
		},
		{
			ID:            "3",
			Reference:     "QR9X2V",
			Airline:       "United Airlines",
			FlightNumber:  "UA9012",
			From:          "Miami (MIA)",
			To:            "New York (NYC)",
			DepartureDate: "2024-01-10",
			DepartureTime: "16:45",
			ArrivalTime:   "19:20",
			DurationMin:   155,
			Passengers:    1,
			TotalPrice:    decimal.NewFromInt(275),
			Status:        domain.BookingCompleted,
			PassengerName: "Kalu Iroegbu",
			Email:         "kalu@example.com",
			Phone:         "+234 7011180318",
		},
	}
}
