package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors. The default global registry is not used.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ecomcore",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomcore",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecomcore",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	authzDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomcore",
			Subsystem: "authz",
			Name:      "denials_total",
			Help:      "Requests rejected by a permission check.",
		},
		[]string{"permission", "reason"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomcore",
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Request bodies or queries rejected by a schema.",
		},
		[]string{"schema"},
	)

	storageOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecomcore",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Object storage calls by operation and outcome.",
		},
		[]string{"op", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authzDenials,
		validationFailures,
		storageOps,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight. The returned func records its outcome.
func RequestStarted() func(method, route string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route string, status int) {
		httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordDenial counts a failed permission check. reason is "unauthenticated" or "forbidden".
func RecordDenial(permission, reason string) {
	authzDenials.WithLabelValues(permission, reason).Inc()
}

// RecordValidationFailure counts a rejected input for the named schema.
func RecordValidationFailure(schema string) {
	validationFailures.WithLabelValues(schema).Inc()
}

// RecordStorage counts an object storage call.
func RecordStorage(op string, err error) {
	storageOps.WithLabelValues(op, strconv.FormatBool(err == nil)).Inc()
}
