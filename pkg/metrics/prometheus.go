package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	cycles      *prometheus.CounterVec
	feedLatency *prometheus.HistogramVec
	errorsTotal *prometheus.CounterVec
	sourceLive  prometheus.Gauge
	lastRefresh prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfoliopulse_refresh_cycles_total",
				Help: "Total refresh cycles, labelled by outcome",
			},
			[]string{"result"},
		),
		feedLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfoliopulse_feed_duration_seconds",
				Help:    "Duration of individual feed retrievals",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfoliopulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		sourceLive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfoliopulse_source_live",
				Help: "1 while serving live data, 0 while on the fallback dataset",
			},
		),
		lastRefresh: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfoliopulse_last_refresh_timestamp_seconds",
				Help: "Unix time of the last committed snapshot",
			},
		),
	}
}

// RecordCycle records a completed refresh cycle outcome.
func (r *Recorder) RecordCycle(result string) {
	r.cycles.WithLabelValues(result).Inc()
}

// RecordFeedLatency records one feed retrieval duration in seconds.
func (r *Recorder) RecordFeedLatency(feed string, seconds float64) {
	r.feedLatency.WithLabelValues(feed).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// SetSourceLive reflects the controller state as a gauge.
func (r *Recorder) SetSourceLive(live bool) {
	if live {
		r.sourceLive.Set(1)
		return
	}
	r.sourceLive.Set(0)
}

// SetLastRefresh records the commit time of the latest snapshot.
func (r *Recorder) SetLastRefresh(ts time.Time) {
	r.lastRefresh.Set(float64(ts.Unix()))
}
