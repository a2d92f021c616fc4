package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCatalogCmd_Products(t *testing.T) {
	cmd := catalogCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--category", "Accessories"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Designer Watch")
	assert.Contains(t, lines[1], "299.00")
	assert.Contains(t, lines[2], "Designer Sunglasses")
}

func TestCatalogCmd_Flights(t *testing.T) {
	cmd := catalogCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--flights", "--from", "nyc", "--to", "lax", "--sort", "rating"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "Delta Air Lines")
	assert.Contains(t, lines[1], "3h 30m")
}

func TestCatalogCmd_YAML(t *testing.T) {
	cmd := catalogCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-q", "camera", "-o", "yaml"})

	require.NoError(t, cmd.Execute())

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Vintage Camera", got[0]["title"])
	assert.Equal(t, "199", got[0]["price"])
	assert.Equal(t, "350", got[0]["original_price"])
}

func TestCatalogCmd_JSONFlights(t *testing.T) {
	cmd := catalogCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--flights", "--sort", "duration", "-o", "json"})

	require.NoError(t, cmd.Execute())

	var got []domain.Flight
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, "American Airlines", got[0].Airline)
	assert.Equal(t, 195, got[0].DurationMin)
	assert.Contains(t, out.String(), `"duration_minutes": 195`)
}

func TestCatalogCmd_UnknownOutput(t *testing.T) {
	cmd := catalogCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "xml"})

	assert.ErrorContains(t, cmd.Execute(), "unknown output format")
}

func TestPrintOrder(t *testing.T) {
	var out bytes.Buffer
	evt := domain.OrderPlaced{
		OrderID:  "order-1",
		Email:    "jane@example.com",
		Items:    []domain.LineItem{{Quantity: 2}},
		Total:    decimal.RequireFromString("178"),
		Currency: "USD",
		PlacedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, printOrder(&out)(context.Background(), evt))

	assert.Equal(t, "2024-01-15 10:00:00  order-1  178.00 USD  1 line(s)  jane@example.com\n", out.String())
}
