package domain

import "github.com/shopspring/decimal"

// Product is a consignment listing as shown in the marketplace.
type Product struct {
	ID            string           `json:"id" yaml:"id"`
	Title         string           `json:"title" yaml:"title"`
	Price         decimal.Decimal  `json:"price" yaml:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" yaml:"original_price,omitempty"`
	Image         string           `json:"image" yaml:"image"`
	Condition     string           `json:"condition" yaml:"condition"`
	Location      string           `json:"location" yaml:"location"`
	Seller        string           `json:"seller" yaml:"seller"`
	Rating        float64          `json:"rating" yaml:"rating"`
	Category      string           `json:"category" yaml:"category"`
	Description   string           `json:"description" yaml:"description"`
}

// Discount returns the per-unit saving against the original price, or zero
// when the product is not discounted.
func (p Product) Discount() decimal.Decimal {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return decimal.Zero
	}
	return p.OriginalPrice.Sub(p.Price)
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}
	return p
}

func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// FormatPrice renders an amount for display. Totals are kept exact and only
// rounded here.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
