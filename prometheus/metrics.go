package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pcp_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pcp_register_total",
			Help: "Total number of user registrations",
		},
	)

	// HTTP request counter by endpoint and status
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcp_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"method", "path", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcp_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", etc.
	)

	// Backend operation counter by backend and outcome
	BackendOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcp_backend_operations_total",
			Help: "Total number of backend adapter operations",
		},
		[]string{"operation", "outcome"},
	)
)

// Histogram metrics
var (
	// Request duration
	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pcp_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Backend operation duration
	BackendOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pcp_backend_operation_duration_seconds",
			Help:    "Duration of backend adapter operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "list", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active sessions
	ActiveSessionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pcp_active_sessions",
			Help: "Number of currently active dashboard sessions",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pcp_info",
			Help: "Information about the PCP service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(BackendOperationCounter)

	// Register histograms
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(BackendOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveSessionsGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// TrackBackendOperation measures backend adapter operation durations
func TrackBackendOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		BackendOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}
