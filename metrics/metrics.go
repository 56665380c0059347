// Package metrics exposes prometheus collectors describing the adapted handlers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure kinds.
const (
	KindHandler  = "handler"
	KindBody     = "body"
	KindResponse = "response"
)

// NewRegistry returns a registry with the standard go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler exposing the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

type Metrics struct {
	Requests   prometheus.Counter
	Failures   *prometheus.CounterVec // labels: kind=handler|body|response
	Suppressed *prometheus.CounterVec // labels: op
	BodyBytes  prometheus.Histogram
}

// New registers and returns the collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shim",
			Name:      "requests_total",
			Help:      "Requests passed through adapted handlers.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shim",
			Name:      "failures_total",
			Help:      "Errors raised while serving adapted handlers.",
		}, []string{"kind"}),
		Suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shim",
			Name:      "suppressed_operations_total",
			Help:      "Response operations dropped because the response was already sent.",
		}, []string{"op"}),
		BodyBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shim",
			Name:      "body_bytes",
			Help:      "Size of materialized request bodies.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
	reg.MustRegister(m.Requests, m.Failures, m.Suppressed, m.BodyBytes)
	return m
}

// The methods below are safe to call on nil receiver, which disables them.

func (m *Metrics) Request() {
	if m != nil {
		m.Requests.Inc()
	}
}

func (m *Metrics) Failure(kind string) {
	if m != nil {
		m.Failures.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) Suppress(op string) {
	if m != nil {
		m.Suppressed.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) Body(size int) {
	if m != nil {
		m.BodyBytes.Observe(float64(size))
	}
}
