// Package metrics counts flow outcomes and latencies on a private Prometheus
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess        = "success"
	OutcomeFailed         = "failed"
	OutcomeTransportError = "transport_error"
	OutcomeRejected       = "rejected"
	OutcomeInvalid        = "invalid"
)

// Recorder records flow metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	flows    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers the console collectors on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	flows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_console",
		Name:      "flow_total",
		Help:      "Flow invocations by flow and outcome.",
	}, []string{"flow", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resume_console",
		Name:      "flow_duration_seconds",
		Help:      "Time spent waiting on the resume parser service per flow.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"flow"})

	registry.MustRegister(
		flows,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{registry: registry, flows: flows, duration: duration}
}

// Observe counts one flow outcome.
func (r *Recorder) Observe(flow, outcome string) {
	if r == nil {
		return
	}
	r.flows.WithLabelValues(flow, outcome).Inc()
}

// ObserveDuration records how long a flow waited on the network.
func (r *Recorder) ObserveDuration(flow string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(flow).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
