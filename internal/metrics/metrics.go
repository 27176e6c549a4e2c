package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	PermissionDeniedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_total",
			Help: "Total number of requests rejected by an access policy",
		},
		[]string{"entity"},
	)

	AuthFailureCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of failed credential verifications",
		},
	)
)

// RecordHTTPRequestDuration records the duration of one handled request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementPermissionDenied counts a policy rejection for the given entity kind.
func IncrementPermissionDenied(entity string) {
	PermissionDeniedCount.WithLabelValues(entity).Inc()
}

// IncrementAuthFailure counts a rejected credential.
func IncrementAuthFailure() {
	AuthFailureCount.Inc()
}
