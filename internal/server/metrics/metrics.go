// Package metrics exposes request and workflow counters in the Prometheus
// exposition format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophauth"

// Workflow outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the global default.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_outcomes_total",
			Help:      "Registration and login results by outcome.",
		}, []string{"workflow", "outcome"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.outcomes,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRequest records one finished HTTP request. route is the matched
// route pattern, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Outcome counts a workflow result, e.g. Outcome("login", OutcomeUnauthorized).
func (m *Metrics) Outcome(workflow, outcome string) {
	m.outcomes.WithLabelValues(workflow, outcome).Inc()
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry, ErrorHandling: promhttp.ContinueOnError})
}
