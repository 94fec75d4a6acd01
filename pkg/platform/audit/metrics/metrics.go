package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit publisher.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	EventsDropped   prometheus.Counter
	EventsEnqueued  prometheus.Counter
	PersistDuration prometheus.Histogram
	PersistFailures *prometheus.CounterVec
}

// New creates a new Metrics instance with all audit publisher metrics registered.
func New() *Metrics {
	return &Metrics{
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meridian_audit_queue_depth",
			Help: "Current number of events in the audit publisher queue",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meridian_audit_events_dropped_total",
			Help: "Total number of audit events dropped due to full buffer",
		}),
		EventsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meridian_audit_events_enqueued_total",
			Help: "Total number of audit events successfully enqueued",
		}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meridian_audit_persist_duration_seconds",
			Help:    "Time taken to persist an audit event to the store",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PersistFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_audit_persist_failures_total",
			Help: "Total number of audit event persistence failures",
		}, []string{"category"}),
	}
}

func (m *Metrics) IncQueueDepth() { m.QueueDepth.Inc() }

func (m *Metrics) DecQueueDepth() { m.QueueDepth.Dec() }

func (m *Metrics) IncEventsDropped() { m.EventsDropped.Inc() }

func (m *Metrics) IncEventsEnqueued() { m.EventsEnqueued.Inc() }

// ObservePersistDuration records the persist operation latency.
func (m *Metrics) ObservePersistDuration(durationSeconds float64) {
	m.PersistDuration.Observe(durationSeconds)
}

// IncPersistFailures increments the persist failures counter for a category.
func (m *Metrics) IncPersistFailures(category string) {
	m.PersistFailures.WithLabelValues(category).Inc()
}
