package apiclient

import (
	"time"

	"chums-admin/internal/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times calls to the remote APIs.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chums_admin",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to remote APIs.",
		}, []string{"api", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chums_admin",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests sent to remote APIs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api"}),
	}
	m.Registry.MustRegister(m.requests, m.duration)
	return m
}

// Observe is safe on a nil receiver.
func (m *Metrics) Observe(api config.ApiName, method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(api), method, code).Inc()
	m.duration.WithLabelValues(string(api)).Observe(elapsed.Seconds())
}
