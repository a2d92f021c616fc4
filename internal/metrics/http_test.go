package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("test-svc"))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test-svc", "GET", "/products/{id}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/42", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/43", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test-svc", "GET", "/products/{id}", "404"))
	assert.Equal(t, before+2, after)
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	h := Middleware("plain")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues("plain", "GET", "/ping", "200")))
}
