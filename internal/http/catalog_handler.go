package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Catalog interface {
	Search(ctx context.Context, f catalog.Filter) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Flights(ctx context.Context, q catalog.FlightQuery) ([]domain.Flight, error)
	Flight(ctx context.Context, id string) (*domain.Flight, error)
	Categories() []string
}

type CatalogHandler struct {
	catalog Catalog
	cart    Cart
	timeout time.Duration
}

func NewCatalogHandler(c Catalog, cart Cart, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: c,
		cart:    cart,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type FlightsResponse struct {
	Flights []domain.Flight `json:"flights"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	products, err := h.catalog.Search(ctx, catalog.Filter{
		Term:     strings.TrimSpace(q.Get("q")),
		Category: q.Get("category"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &ProductsResponse{Products: products})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.Product(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, p)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &CategoriesResponse{Categories: h.catalog.Categories()})
}

func (h *CatalogHandler) ListFlights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	sort := catalog.FlightSort(q.Get("sort"))
	switch sort {
	case "", catalog.SortByPrice, catalog.SortByDuration, catalog.SortByRating:
	default:
		respondError(w, r, http.StatusBadRequest, "invalid_sort", "sort must be one of price, duration, rating")
		return
	}

	flights, err := h.catalog.Flights(ctx, catalog.FlightQuery{
		From:   q.Get("from"),
		To:     q.Get("to"),
		SortBy: sort,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &FlightsResponse{Flights: flights})
}

// BookFlight puts the flight into the cart as a product.
func (h *CatalogHandler) BookFlight(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	f, err := h.catalog.Flight(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.cart.Add(f.AsProduct())

	respondJSON(w, r, http.StatusCreated, toCartResponse(h.cart.Snapshot()))
}
