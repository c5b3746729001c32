package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors the server updates.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	AuthEvents    *prometheus.CounterVec
	RateLimited   *prometheus.CounterVec
	ResetsDeleted prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iptvsite_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iptvsite_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iptvsite_auth_events_total",
			Help: "Authentication and recovery outcomes.",
		}, []string{"event", "outcome"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iptvsite_rate_limited_total",
			Help: "Requests rejected by a rate limit rule.",
		}, []string{"rule"}),
		ResetsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iptvsite_password_resets_purged_total",
			Help: "Used or expired reset rows removed by the cleaner.",
		}),
	}
	reg.MustRegister(
		m.HTTPRequests, m.HTTPDuration, m.AuthEvents, m.RateLimited, m.ResetsDeleted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Auth records an auth event outcome ("ok" or "fail"). Nil-safe.
func (m *Metrics) Auth(event string, ok bool) {
	if m == nil {
		return
	}
	outcome := "fail"
	if ok {
		outcome = "ok"
	}
	m.AuthEvents.WithLabelValues(event, outcome).Inc()
}
