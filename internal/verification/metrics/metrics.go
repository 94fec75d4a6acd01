// Package metrics provides Prometheus metrics for verification provider calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProviderRequests *prometheus.CounterVec   // by operation and outcome (ok, not_found, error category)
	ProviderDuration *prometheus.HistogramVec // by operation
	Results          *prometheus.CounterVec   // resolved internal status
	CircuitOpen      prometheus.Gauge         // 1 while the provider circuit is open
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_verification_provider_requests_total",
			Help: "Verification provider requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		ProviderDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_verification_provider_duration_seconds",
			Help:    "Verification provider request latency by operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"operation"}),
		Results: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_verification_results_total",
			Help: "Resolved verification results by internal status",
		}, []string{"status"}),
		CircuitOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meridian_verification_circuit_open",
			Help: "Whether the verification provider circuit is open (1) or closed (0)",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meridian_verification_applicant_cache_hits_total",
			Help: "Applicant id cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meridian_verification_applicant_cache_misses_total",
			Help: "Applicant id cache misses",
		}),
	}
}

func (m *Metrics) ObserveProviderCall(operation, outcome string, durationSeconds float64) {
	m.ProviderRequests.WithLabelValues(operation, outcome).Inc()
	m.ProviderDuration.WithLabelValues(operation).Observe(durationSeconds)
}

func (m *Metrics) IncResult(status string) {
	m.Results.WithLabelValues(status).Inc()
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}

func (m *Metrics) IncCacheHit() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	m.CacheMisses.Inc()
}
