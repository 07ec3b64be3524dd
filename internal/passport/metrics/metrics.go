// Package metrics provides Prometheus metrics for the passport aggregator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Degradation reasons.
const (
	ReasonUnbound     = "unbound"
	ReasonFailure     = "failure"
	ReasonCircuitOpen = "circuit_open"
)

// Call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics contains all aggregator metrics.
type Metrics struct {
	SourceCallDurationSeconds *prometheus.HistogramVec // Data source call latency by source, op and outcome
	DegradedResultsTotal      *prometheus.CounterVec   // Optional facets served as absent, by source and reason
	OmittedPlatformsTotal     prometheus.Counter       // Platforms dropped from a passport because their verification failed to load
	ScanProbesTotal           prometheus.Counter       // Identifiers probed by category scans
	ScanBudgetExhaustedTotal  prometheus.Counter       // Scans that stopped at the probe budget
	StrengthScore             *prometheus.HistogramVec // Computed strength scores by variant
}

// New registers every metric with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers every metric with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction doesn't collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SourceCallDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_source_call_duration_seconds",
			Help:    "Duration of data source calls by source, operation and outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source", "op", "outcome"}),

		DegradedResultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_degraded_results_total",
			Help: "Total number of optional results served as absent, by source and reason",
		}, []string{"source", "reason"}),

		OmittedPlatformsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "passport_omitted_platforms_total",
			Help: "Total number of platforms omitted from a passport after a verification fetch failed",
		}),

		ScanProbesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "passport_scan_probes_total",
			Help: "Total number of identifiers probed by category scans",
		}),

		ScanBudgetExhaustedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "passport_scan_budget_exhausted_total",
			Help: "Total number of category scans that stopped at their probe budget",
		}),

		StrengthScore: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_strength_score",
			Help:    "Distribution of computed verification-strength scores",
			Buckets: []float64{20, 40, 60, 80, 100},
		}, []string{"variant"}),
	}
}

func (m *Metrics) ObserveSourceCall(source, op, outcome string, durationSeconds float64) {
	m.SourceCallDurationSeconds.WithLabelValues(source, op, outcome).Observe(durationSeconds)
}

func (m *Metrics) IncrementDegraded(source, reason string) {
	m.DegradedResultsTotal.WithLabelValues(source, reason).Inc()
}

func (m *Metrics) IncrementOmittedPlatform() {
	m.OmittedPlatformsTotal.Inc()
}

// RecordScan records a finished scan.
func (m *Metrics) RecordScan(probes int, exhausted bool) {
	m.ScanProbesTotal.Add(float64(probes))
	if exhausted {
		m.ScanBudgetExhaustedTotal.Inc()
	}
}

func (m *Metrics) ObserveStrength(variant string, score int) {
	m.StrengthScore.WithLabelValues(variant).Observe(float64(score))
}
