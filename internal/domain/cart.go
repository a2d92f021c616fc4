package domain

import "github.com/shopspring/decimal"

type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is unit price times quantity, unrounded.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSnapshot is a read-only copy of the cart state at one point in time.
type CartSnapshot struct {
	Items        []LineItem      `json:"items"`
	TotalItems   int             `json:"total_items"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TotalSavings decimal.Decimal `json:"total_savings"`
}
