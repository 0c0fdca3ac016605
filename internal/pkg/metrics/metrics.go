// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is private to the service so tests and the default registry never collide.
var Registry = prometheus.NewRegistry()

var (
	// RequestTransitions counts lifecycle transitions by name (created, edited, canceled, approved, rejected).
	RequestTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "investportal",
		Name:      "request_transitions_total",
		Help:      "Investment request lifecycle transitions.",
	}, []string{"transition"})

	// HoldingWrites counts ledger writes by operation (approve, assign, unassign, revalue).
	HoldingWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "investportal",
		Name:      "holding_writes_total",
		Help:      "Rows written to or removed from the holding ledger.",
	}, []string{"operation"})

	// HTTPRequests counts served HTTP requests by method and status code.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "investportal",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status.",
	}, []string{"method", "status"})

	// HTTPDuration observes request latency in seconds.
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "investportal",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestTransitions,
		HoldingWrites,
		HTTPRequests,
		HTTPDuration,
	)
}

// Transition records one lifecycle transition.
func Transition(name string) {
	RequestTransitions.WithLabelValues(name).Inc()
}

// HoldingWrite records n ledger rows touched by operation.
func HoldingWrite(operation string, n int) {
	if n <= 0 {
		return
	}
	HoldingWrites.WithLabelValues(operation).Add(float64(n))
}
