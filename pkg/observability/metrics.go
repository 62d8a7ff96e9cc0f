package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocardless_api_requests_total",
			Help: "Total number of GoCardless API requests",
		},
		[]string{"method", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gocardless_api_request_duration_seconds",
			Help:    "Duration of GoCardless API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	signedURLsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocardless_signed_urls_total",
			Help: "Total number of signed resource creation URLs built",
		},
		[]string{"resource"},
	)
)

// StatusNetworkError labels requests that never received a response
const StatusNetworkError = "network_error"

// RecordAPIRequest records one API round trip. status is the HTTP status
// code, or 0 when the request failed before a response arrived.
func RecordAPIRequest(method string, status int, duration time.Duration) {
	label := StatusNetworkError
	if status != 0 {
		label = strconv.Itoa(status)
	}
	apiRequestsTotal.WithLabelValues(method, label).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordSignedURL counts a signed URL built for resource (e.g. "bills")
func RecordSignedURL(resource string) {
	signedURLsTotal.WithLabelValues(resource).Inc()
}
