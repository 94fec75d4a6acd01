// Package metrics provides Prometheus metrics for compliance transitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Transitions    *prometheus.CounterVec // by new status and source
	IgnoredSignals *prometheus.CounterVec // by ignore reason
	Webhooks       *prometheus.CounterVec // by outcome
	ReconcileRuns  *prometheus.CounterVec // by outcome (ok, partial)
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_compliance_transitions_total",
			Help: "Compliance status transitions by new status and source",
		}, []string{"status", "source"}),
		IgnoredSignals: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_compliance_ignored_signals_total",
			Help: "Verification signals that did not change compliance status",
		}, []string{"reason"}),
		Webhooks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_compliance_webhooks_total",
			Help: "Verification webhooks received by outcome",
		}, []string{"outcome"}),
		ReconcileRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_compliance_reconcile_runs_total",
			Help: "Pending-review reconciliation sweeps by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncTransition(status, source string) {
	m.Transitions.WithLabelValues(status, source).Inc()
}

func (m *Metrics) IncIgnored(reason string) {
	m.IgnoredSignals.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncWebhook(outcome string) {
	m.Webhooks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncReconcileRun(outcome string) {
	m.ReconcileRuns.WithLabelValues(outcome).Inc()
}
