// Package metrics holds the prometheus collectors of the automaton registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the registry collectors. A nil *Metrics records nothing.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Stored     prometheus.Gauge
}

// New creates the collectors and registers them with ``reg``. Pass
// prometheus.DefaultRegisterer to expose them through promhttp.Handler().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automaton_registry_operations_total",
				Help: "Registry operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "automaton_registry_operation_duration_seconds",
				Help:    "Duration of registry operations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
		Stored: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "automaton_registry_automata",
				Help: "Number of automata in the registry",
			},
		),
	}
	reg.MustRegister(m.Operations, m.Duration, m.Stored)
	return m
}

// Observe records one operation that started at ``start``.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SetStored records the number of stored automata.
func (m *Metrics) SetStored(n int) {
	if m == nil {
		return
	}
	m.Stored.Set(float64(n))
}
