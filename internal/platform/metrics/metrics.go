package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"passport/internal/passport/session"
)

// Metrics holds the process-level Prometheus metrics: session bindings and
// mirror refreshes. Per-call source metrics live with the passport service.
type Metrics struct {
	SourceBound       *prometheus.GaugeVec
	SessionsBound     prometheus.Counter
	MirrorRuns        *prometheus.CounterVec
	MirrorEntries     *prometheus.GaugeVec
	MirrorLastSuccess *prometheus.GaugeVec
	MirrorDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SourceBound: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "passport_source_bound",
			Help: "Whether each data source is bound in the current session (1) or not (0)",
		}, []string{"source"}),
		SessionsBound: factory.NewCounter(prometheus.CounterOpts{
			Name: "passport_sessions_bound_total",
			Help: "Total number of sessions bound",
		}),
		MirrorRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_mirror_runs_total",
			Help: "Total number of mirror refreshes, labeled by mirror and outcome",
		}, []string{"mirror", "outcome"}),
		MirrorEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "passport_mirror_entries",
			Help: "Entries written by the last successful refresh of each mirror",
		}, []string{"mirror"}),
		MirrorLastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "passport_mirror_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh of each mirror",
		}, []string{"mirror"}),
		MirrorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_mirror_refresh_duration_seconds",
			Help:    "Duration of mirror refreshes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"mirror"}),
	}
}

// RecordBindings publishes which sources a newly bound session carries.
func (m *Metrics) RecordBindings(bindings []session.Binding) {
	m.SessionsBound.Inc()
	for _, b := range bindings {
		v := 0.0
		if b.Bound {
			v = 1
		}
		m.SourceBound.WithLabelValues(b.Kind.String()).Set(v)
	}
}

// ObserveMirror records one refresh of mirror. It satisfies indexed.Observer.
func (m *Metrics) ObserveMirror(mirror string, entries int, err error, started, finished time.Time) {
	m.MirrorDuration.WithLabelValues(mirror).Observe(finished.Sub(started).Seconds())
	if err != nil {
		m.MirrorRuns.WithLabelValues(mirror, "error").Inc()
		return
	}
	m.MirrorRuns.WithLabelValues(mirror, "ok").Inc()
	m.MirrorEntries.WithLabelValues(mirror).Set(float64(entries))
	m.MirrorLastSuccess.WithLabelValues(mirror).Set(float64(finished.Unix()))
}
