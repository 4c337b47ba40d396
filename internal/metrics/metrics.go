// Package metrics holds the Kernel's Prometheus instrumentation. These
// counters and the histogram are purely observational: nothing in
// internal/kernel branches on their value, so they sit entirely outside
// the matching/interpretation decision path (SPEC_FULL.md §9).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Kernel's counters and histogram. Registering them
// more than once against the same registry panics, same as any other
// Prometheus collector, so construct exactly one per process.
type Metrics struct {
	RespondTotal    prometheus.Counter
	LookupMissTotal prometheus.Counter
	RespondDuration prometheus.Histogram
}

// New creates and registers the Kernel's collectors against reg. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// *prometheus.Registry in tests to avoid collisions across packages.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RespondTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aiml_respond_total",
			Help: "Total number of Kernel.Respond calls.",
		}),
		LookupMissTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aiml_lookup_miss_total",
			Help: "Total number of sentences that matched no category.",
		}),
		RespondDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aiml_respond_duration_seconds",
			Help:    "Latency of Kernel.Respond calls, in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.RespondTotal, m.LookupMissTotal, m.RespondDuration)
	return m
}
