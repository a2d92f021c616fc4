package http

import (
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type CartItemResponse struct {
	ProductID     string `json:"product_id"`
	Title         string `json:"title"`
	Price         string `json:"price"`
	OriginalPrice string `json:"original_price,omitempty"`
	Image         string `json:"image,omitempty"`
	Category      string `json:"category,omitempty"`
	Seller        string `json:"seller,omitempty"`
	Quantity      int    `json:"quantity"`
	Subtotal      string `json:"subtotal"`
}

type CartResponse struct {
	Items        []CartItemResponse `json:"items"`
	TotalItems   int                `json:"total_items"`
	TotalPrice   string             `json:"total_price"`
	TotalSavings string             `json:"total_savings"`
}

type ReceiptResponse struct {
	OrderID       string             `json:"order_id"`
	TransactionID string             `json:"transaction_id,omitempty"`
	Status        string             `json:"status"`
	Items         []CartItemResponse `json:"items"`
	Total         string             `json:"total"`
	PlacedAt      *time.Time         `json:"placed_at,omitempty"`
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func toItems(items []domain.LineItem) []CartItemResponse {
	out := make([]CartItemResponse, len(items))
	for i, it := range items {
		out[i] = CartItemResponse{
			ProductID: it.ID,
			Title:     it.Title,
			Price:     domain.FormatPrice(it.Price),
			Image:     it.Image,
			Category:  it.Category,
			Seller:    it.Seller,
			Quantity:  it.Quantity,
			Subtotal:  domain.FormatPrice(it.Subtotal()),
		}
		if it.OriginalPrice != nil {
			out[i].OriginalPrice = domain.FormatPrice(*it.OriginalPrice)
		}
	}
	return out
}

func toCartResponse(s domain.CartSnapshot) CartResponse {
	return CartResponse{
		Items:        toItems(s.Items),
		TotalItems:   s.TotalItems,
		TotalPrice:   domain.FormatPrice(s.TotalPrice),
		TotalSavings: domain.FormatPrice(s.TotalSavings),
	}
}

func toReceiptResponse(r *domain.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
		Status:        r.Status.String(),
		Items:         toItems(r.Items),
		Total:         domain.FormatPrice(r.Total),
	}
	if !r.PlacedAt.IsZero() {
		placed := r.PlacedAt
		resp.PlacedAt = &placed
	}
	return resp
}
