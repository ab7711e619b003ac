package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payment_relay"

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TransactionsInitialized counts initialize outcomes (success, missing_fields, error).
	TransactionsInitialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_initialized_total",
			Help:      "Transaction initialization attempts by result",
		},
		[]string{"result"},
	)

	// PaymentsVerified counts verify outcomes; status is the gateway status on success.
	PaymentsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_verified_total",
			Help:      "Payment verification attempts by gateway status or failure reason",
		},
		[]string{"status"},
	)

	// AmountPaid tracks verified payment amounts in major units
	AmountPaid = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "amount_paid",
			Help:      "Verified payment amounts in major currency units",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		},
	)
)

// PrometheusMiddleware records request count and latency per matched route.
// Unmatched requests are grouped under "unmatched" to keep label cardinality bounded.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
