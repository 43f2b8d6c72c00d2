package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analysesTotal *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	streamClients prometheus.Gauge
	streamPushes  *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_analyses_total",
				Help: "Total number of analyses served",
			},
			[]string{"domain", "source"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_cache_hits_total",
				Help: "Total number of result cache hits",
			},
			[]string{"domain"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_cache_misses_total",
				Help: "Total number of result cache misses",
			},
			[]string{"domain"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		streamClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketpulse_stream_clients",
				Help: "Current number of connected stream clients",
			},
		),
		streamPushes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_stream_pushes_total",
				Help: "Total number of results pushed to subscribers",
			},
			[]string{"domain"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis records a served analysis by domain and data source.
func (r *Recorder) RecordAnalysis(domain, source string) {
	r.analysesTotal.WithLabelValues(domain, source).Inc()
}

// RecordCacheHit records a result cache hit.
func (r *Recorder) RecordCacheHit(domain string) {
	r.cacheHits.WithLabelValues(domain).Inc()
}

// RecordCacheMiss records a result cache miss.
func (r *Recorder) RecordCacheMiss(domain string) {
	r.cacheMisses.WithLabelValues(domain).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// SetStreamClients sets the connected stream client gauge.
func (r *Recorder) SetStreamClients(n int) {
	r.streamClients.Set(float64(n))
}

// RecordStreamPush records a result pushed to stream subscribers.
func (r *Recorder) RecordStreamPush(domain string) {
	r.streamPushes.WithLabelValues(domain).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
