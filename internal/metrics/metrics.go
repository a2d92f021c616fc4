package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_auth_attempts_total",
			Help: "Login and register attempts by outcome",
		},
		[]string{"kind", "outcome"},
	)
	CheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Checkout attempts by final status",
		},
		[]string{"status"},
	)
	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)
	BookingChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_booking_changes_total",
			Help: "Booking edits and cancellations",
		},
		[]string{"action"},
	)
	InsurancePurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_insurance_purchases_total",
			Help: "Insurance purchases by policy tier and outcome",
		},
		[]string{"tier", "outcome"},
	)
	InsuranceClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_insurance_claims_total",
			Help: "Claims filed or moved to a status",
		},
		[]string{"status"},
	)
	CartItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_items",
		Help: "Number of units currently in the cart",
	})
)

func init() {
	prometheus.MustRegister(
		AuthAttemptsTotal,
		CheckoutsTotal,
		CatalogCacheTotal,
		BookingChangesTotal,
		InsurancePurchasesTotal,
		InsuranceClaimsTotal,
		CartItems,
	)
}
