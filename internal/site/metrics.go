package site

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each instance owns its
// registry so servers in tests do not collide.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	commits  prometheus.Gauge
	lines    prometheus.Gauge
}

// NewMetrics registers the HTTP and dataset collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locmeta",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "locmeta",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		commits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "locmeta",
			Name:      "dataset_commits",
			Help:      "Commits in the served dataset.",
		}),
		lines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "locmeta",
			Name:      "dataset_lines",
			Help:      "Line records in the served dataset.",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.commits, m.lines)
	return m
}

// SetDataset records the size of the served dataset.
func (m *Metrics) SetDataset(lines, commits int) {
	m.lines.Set(float64(lines))
	m.commits.Set(float64(commits))
}

// Observe records one finished request.
func (m *Metrics) Observe(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
