// Package metrics exposes outbox relay health. All methods are safe on a nil
// *Metrics so the worker can run without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

type Metrics struct {
	pending   prometheus.Gauge
	relayed   *prometheus.CounterVec
	publish   prometheus.Histogram
	poll      prometheus.Histogram
	batchSize prometheus.Histogram
	purged    prometheus.Counter
}

// New registers the outbox collectors with the default registry. Call it once
// per process.
func New() *Metrics {
	return &Metrics{
		pending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meridian_outbox_pending_total",
			Help: "Audit outbox entries not yet relayed to Kafka",
		}),
		relayed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_outbox_relayed_total",
			Help: "Outbox entries handled by the relay, by outcome",
		}, []string{"outcome"}),
		publish: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meridian_outbox_publish_duration_seconds",
			Help:    "Broker round trip for a single outbox entry",
			Buckets: latencyBuckets,
		}),
		poll: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meridian_outbox_poll_duration_seconds",
			Help:    "Duration of one relay poll cycle",
			Buckets: latencyBuckets,
		}),
		batchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meridian_outbox_batch_size",
			Help:    "Entries fetched per poll",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		purged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meridian_outbox_purged_total",
			Help: "Relayed entries removed by retention cleanup",
		}),
	}
}

func (m *Metrics) Pending(n int64) {
	if m != nil {
		m.pending.Set(float64(n))
	}
}

func (m *Metrics) Relayed(took time.Duration) {
	if m != nil {
		m.relayed.WithLabelValues("published").Inc()
		m.publish.Observe(took.Seconds())
	}
}

// Failed counts a fetch or publish failure. The entry stays pending.
func (m *Metrics) Failed() {
	if m != nil {
		m.relayed.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) Polled(took time.Duration, fetched int) {
	if m == nil {
		return
	}
	m.poll.Observe(took.Seconds())
	if fetched > 0 {
		m.batchSize.Observe(float64(fetched))
	}
}

func (m *Metrics) Purged(n int64) {
	if m != nil {
		m.purged.Add(float64(n))
	}
}
