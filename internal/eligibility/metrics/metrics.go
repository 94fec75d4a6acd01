// Package metrics provides Prometheus metrics for eligibility evaluation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions       *prometheus.CounterVec // by outcome (allow, deny) and primary reason
	EvaluateLatency prometheus.Histogram
	LoadLatency     *prometheus.HistogramVec // by profile kind (investor, deal)
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_eligibility_decisions_total",
			Help: "Eligibility decisions by outcome and primary reason",
		}, []string{"outcome", "reason"}),
		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meridian_eligibility_evaluate_duration_seconds",
			Help:    "End-to-end eligibility evaluation latency including profile loads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LoadLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_eligibility_profile_load_duration_seconds",
			Help:    "Profile load latency by kind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncDecision(outcome, reason string) {
	m.Decisions.WithLabelValues(outcome, reason).Inc()
}

func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	m.EvaluateLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveLoadLatency(kind string, d time.Duration) {
	m.LoadLatency.WithLabelValues(kind).Observe(d.Seconds())
}
