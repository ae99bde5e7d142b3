package proxy

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics exposed on /metrics:
//   - mt5proxy_requests_total{route,status}
//   - mt5proxy_terminal_errors_total{code}
//   - mt5proxy_request_duration_seconds{route}
type metrics struct {
	requests       *prometheus.CounterVec
	terminalErrors *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mt5proxy_requests_total",
				Help: "Requests served, by route and HTTP status",
			},
			[]string{"route", "status"},
		),
		terminalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mt5proxy_terminal_errors_total",
				Help: "Errors reported by the terminal, by last_error code",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mt5proxy_request_duration_seconds",
				Help:    "Request latency, by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	reg.MustRegister(m.requests, m.terminalErrors, m.duration)
	return m
}

func (m *metrics) observe(route string, status int, seconds float64) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(seconds)
}
