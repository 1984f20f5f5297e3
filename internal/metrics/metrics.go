// Package metrics defines the Prometheus collectors exported on /metrics.
// Every recorder is safe to call on a nil receiver so that callers can run
// without a registry in tests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP collectors on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Observe records one finished request.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Outcome labels for seat and finish attempts.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// WorkflowMetrics records reservation and table workflow activity.
type WorkflowMetrics struct {
	transitions *prometheus.CounterVec
	seatings    *prometheus.CounterVec
	finishes    *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow collectors on reg.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_status_transitions_total",
		Help: "Committed reservation status transitions.",
	}, []string{"from", "to"})
	seatings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "table_seatings_total",
		Help: "Attempts to seat a reservation at a table, by outcome.",
	}, []string{"outcome"})
	finishes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "table_finishes_total",
		Help: "Attempts to free a table, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(transitions, seatings, finishes)
	return &WorkflowMetrics{transitions: transitions, seatings: seatings, finishes: finishes}
}

func (m *WorkflowMetrics) Transition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (m *WorkflowMetrics) Seating(outcome string) {
	if m == nil || m.seatings == nil {
		return
	}
	m.seatings.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *WorkflowMetrics) Finish(outcome string) {
	if m == nil || m.finishes == nil {
		return
	}
	m.finishes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
