package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	ServiceName        string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

type Handlers struct {
	Catalog   *CatalogHandler
	Cart      *CartHandler
	Session   *SessionHandler
	Checkout  *CheckoutHandler
	Bookings  *BookingHandler
	Insurance *InsuranceHandler
	Stream    *StreamHandler
}

func NewRouter(cfg RouterConfig, h Handlers, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(hlog.NewHandler(log))
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(cfg.ServiceName))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// long-lived, so outside the request timeout
		if h.Stream != nil {
			r.Get("/stream", h.Stream.Stream)
		}

		r.Group(func(r chi.Router) {
			if cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.RequestTimeout))
			}
			routes(r, h)
		})
	})

	return otelhttp.NewHandler(r, cfg.ServiceName)
}

func routes(r chi.Router, h Handlers) {
	r.Get("/products", h.Catalog.ListProducts)
	r.Get("/products/{id}", h.Catalog.GetProduct)
	r.Get("/categories", h.Catalog.ListCategories)

	r.Get("/flights", h.Catalog.ListFlights)
	r.Post("/flights/{id}/book", h.Catalog.BookFlight)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Cart.GetCart)
		r.Delete("/", h.Cart.ClearCart)
		r.Post("/items", h.Cart.AddItem)
		r.Put("/items/{id}", h.Cart.UpdateQuantity)
		r.Delete("/items/{id}", h.Cart.RemoveItem)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.Session.Current)
		r.Delete("/", h.Session.Logout)
		r.Post("/login", h.Session.Login)
		r.Post("/register", h.Session.Register)
	})

	r.Post("/checkout", h.Checkout.Checkout)

	if h.Bookings != nil {
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.Bookings.ListBookings)
			r.Get("/{id}", h.Bookings.GetBooking)
			r.Put("/{id}", h.Bookings.UpdateBooking)
			r.Post("/{id}/cancel", h.Bookings.CancelBooking)
			r.Get("/{id}/itinerary", h.Bookings.Itinerary)
		})
	}

	if h.Insurance != nil {
		r.Route("/insurance", func(r chi.Router) {
			r.Get("/policies", h.Insurance.ListPolicies)
			r.Get("/policies/{id}", h.Insurance.GetPolicy)
			r.Get("/policies/{id}/quote", h.Insurance.Quote)
			r.Post("/purchases", h.Insurance.Purchase)
			r.Get("/claims", h.Insurance.ListClaims)
			r.Post("/claims", h.Insurance.FileClaim)
			r.Put("/claims/{id}/status", h.Insurance.ReviewClaim)
		})
	}
}
