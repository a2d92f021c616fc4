package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Cart interface {
	Add(p domain.Product)
	Remove(id string)
	SetQuantity(id string, quantity int)
	Clear()
	Contains(id string) bool
	Snapshot() domain.CartSnapshot
}

type CartHandler struct {
	cart    Cart
	catalog Catalog
	timeout time.Duration
}

func NewCartHandler(cart Cart, catalog Catalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		timeout: timeout,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	p, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.cart.Add(*p)

	respondJSON(w, r, http.StatusCreated, toCartResponse(h.cart.Snapshot()))
}

// UpdateQuantity sets the quantity of a line; zero removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, r, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}
	if !h.cart.Contains(id) {
		respondError(w, r, http.StatusNotFound, "not_found", "item not in cart")
		return
	}

	h.cart.SetQuantity(id, req.Quantity)

	respondJSON(w, r, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.Remove(chi.URLParam(r, "id"))
	respondJSON(w, r, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	respondJSON(w, r, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}
