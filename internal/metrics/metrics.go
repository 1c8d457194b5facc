// Package metrics provides Prometheus metrics collection for the famroot API client.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks admin HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total admin HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// ClientRequestsTotal tracks outbound API requests by method, status and cache outcome.
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Total number of API client requests",
		},
		[]string{"method", "status", "cache"},
	)

	// ClientRequestDuration tracks outbound API request latency.
	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_client_request_duration_seconds",
			Help:    "API client request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
		[]string{"cache"},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
		[]string{"cache"},
	)

	// TelemetrySinkEvents tracks remote telemetry sink outcomes.
	TelemetrySinkEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_sink_events_total",
			Help: "Total number of telemetry sink events by result",
		},
		[]string{"result"},
	)

	// AdminPanicsTotal counts panics recovered in admin API handlers by route.
	AdminPanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_panics_total",
			Help: "Total number of panics recovered in admin API handlers",
		},
		[]string{"route"},
	)

	// CircuitBreakerState tracks circuit breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordClientRequest records metrics for one outbound API request.
// A zero status means no response was received.
func RecordClientRequest(method string, status int, cacheHit bool, duration time.Duration) {
	statusLabel := "none"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	cacheLabel := "miss"
	if cacheHit {
		cacheLabel = "hit"
	}
	ClientRequestsTotal.WithLabelValues(method, statusLabel, cacheLabel).Inc()
	if !cacheHit {
		ClientRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	}
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(cache, operation, result string) {
	CacheOperationsTotal.WithLabelValues(cache, operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(cache string, size, capacity int) {
	CacheSize.WithLabelValues(cache).Set(float64(size))
	CacheCapacity.WithLabelValues(cache).Set(float64(capacity))
}

// RecordSinkEvent records a telemetry sink outcome such as "written", "dropped" or "error".
func RecordSinkEvent(result string) {
	TelemetrySinkEvents.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState publishes the numeric state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordPanic counts a recovered panic. Unmatched routes are grouped as "unmatched".
func RecordPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	AdminPanicsTotal.WithLabelValues(route).Inc()
}
