package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Account metrics
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_signups_total",
			Help: "Total number of successful signups (overwrites included)",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of live sessions on this node",
		},
	)

	// Collection metrics
	FavoritesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "favorites_added_total",
			Help: "Total number of favorites saved",
		},
	)

	ListingsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_added_total",
			Help: "Total number of listings created",
		},
	)

	ListingsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_updated_total",
			Help: "Total number of listing updates",
		},
	)

	ListingsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_deleted_total",
			Help: "Total number of listing deletions",
		},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buyer_searches_total",
			Help: "Total number of buyer searches by outcome",
		},
		[]string{"outcome"},
	)

	// Persisted store metrics
	BucketWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_bucket_writes_total",
			Help: "Total number of whole-bucket writes",
		},
		[]string{"bucket"},
	)

	BucketLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_bucket_load_failures_total",
			Help: "Total number of bucket loads that fell back to an empty document",
		},
		[]string{"bucket"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total number of application errors by code and status",
		},
		[]string{"code", "status"},
	)

	// System info
	SystemInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and runtime information",
		},
		[]string{"version", "go_version", "start_time"},
	)
)

// RecordError increments the error counter for an error code/status pair
func RecordError(code, status string) {
	ErrorsTotal.WithLabelValues(code, status).Inc()
}
