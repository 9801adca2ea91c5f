// Package observability exposes the Prometheus collectors shared across the API.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	authorizationDenied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "access",
		Name:      "denied_total",
		Help:      "Requests rejected by the role gate, scope check or ownership policy.",
	}, []string{"operation", "reason"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, authorizationDenied)
}

// ObserveHTTPRequest records a served request. route is the matched mux pattern.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAuthorizationDenied counts a rejected operation.
func RecordAuthorizationDenied(operation, reason string) {
	authorizationDenied.WithLabelValues(operation, reason).Inc()
}
