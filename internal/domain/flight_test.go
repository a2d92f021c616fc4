package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 45, want: "45m"},
		{minutes: 60, want: "1h 0m"},
		{minutes: 195, want: "3h 15m"},
		{minutes: 330, want: "5h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.minutes))
		})
	}
}

func TestFlight_JSONDurationInMinutes(t *testing.T) {
	f := Flight{ID: "1", Airline: "Delta Air Lines", DurationMin: 210, Price: decimal.NewFromInt(345)}

	b, err := json.Marshal(f)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"duration_minutes":210`)
	assert.Equal(t, 3*time.Hour+30*time.Minute, f.Duration())
}

func TestFlight_AsProduct(t *testing.T) {
	f := Flight{ID: "4", Airline: "Southwest Airlines", From: "NYC", To: "LAX", DurationMin: 275, Price: decimal.NewFromInt(259)}

	p := f.AsProduct()

	assert.Equal(t, "flight-4", p.ID)
	assert.Equal(t, FlightCategory, p.Category)
	assert.Contains(t, p.Description, "4h 35m")
}
