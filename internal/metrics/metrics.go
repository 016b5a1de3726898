// Package metrics defines the Prometheus instrumentation shared by the
// dashboard and forecast API services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh instruments dashboard refresh cycles.
type Refresh struct {
	cycles       *prometheus.CounterVec
	fetchSeconds prometheus.Histogram
	lastSuccess  prometheus.Gauge
}

// NewRefresh registers the refresh collectors with reg.
func NewRefresh(reg prometheus.Registerer) *Refresh {
	r := &Refresh{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_refresh_cycles_total",
			Help: "Refresh cycles by result.",
		}, []string{"result"}),
		fetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_fetch_duration_seconds",
			Help:    "Latency of forecast endpoint fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh.",
		}),
	}
	reg.MustRegister(r.cycles, r.fetchSeconds, r.lastSuccess)
	return r
}

// CycleDone counts a settled cycle under its result label
// ("success" or a failure classification).
func (r *Refresh) CycleDone(result string) {
	r.cycles.WithLabelValues(result).Inc()
}

// ObserveFetch records the duration of one fetch attempt.
func (r *Refresh) ObserveFetch(d time.Duration) {
	r.fetchSeconds.Observe(d.Seconds())
}

// MarkSuccess moves the last-success gauge to now.
func (r *Refresh) MarkSuccess() {
	r.lastSuccess.SetToCurrentTime()
}

// HTTP instruments inbound API traffic.
type HTTP struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors with reg. The service label
// keeps the two services apart when scraped into one corpus.
func NewHTTP(reg prometheus.Registerer, service string) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Requests by method, route and status.",
			ConstLabels: prometheus.Labels{"service": service},
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Request latency by method and route.",
			ConstLabels: prometheus.Labels{"service": service},
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(h.requests, h.latency)
	return h
}

// Record counts one finished request.
func (h *HTTP) Record(method, path string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	h.latency.WithLabelValues(method, path).Observe(d.Seconds())
}
