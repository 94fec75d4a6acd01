package request

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records HTTP latency by route pattern, method and status class
// (2xx, 4xx, ...).
type Metrics struct {
	latency *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) observe(route, method string, status int, took time.Duration) {
	m.latency.WithLabelValues(route, method, statusClass(status)).Observe(took.Seconds())
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
