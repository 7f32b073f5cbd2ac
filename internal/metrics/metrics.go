// Package metrics provides the centralized Prometheus metrics registry for
// the betting analyst.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	UpstreamFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "upstream_fetches_total",
		Help:      "Total statistics-provider fetches by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	SummarizerCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "summarizer_calls_total",
		Help:      "Total narrative summarizer calls by provider and outcome",
	}, []string{"provider", "outcome"})
	FixtureRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "fixture_requests_total",
		Help:      "Total fixture analysis requests",
	})
	SeasonFileRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "season_file_refreshes_total",
		Help:      "Total scheduled season file refreshes",
	})
)

// Gauge metrics
var (
	SeasonTableCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_prophet",
		Name:      "season_table_cache_hit_ratio",
		Help:      "Hit ratio of the (season, league) table cache",
	})
)

// Histogram metrics
var (
	UpstreamFetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pitch_prophet",
		Name:      "upstream_fetch_latency_seconds",
		Help:      "Latency of statistics-provider fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
	SummarizerLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_prophet",
		Name:      "summarizer_latency_seconds",
		Help:      "Latency of narrative summarizer calls in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
	})
	AggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_prophet",
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of full fixture aggregations in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(UpstreamFetchesTotal)
		registry.MustRegister(SummarizerCallsTotal)
		registry.MustRegister(FixtureRequestsTotal)
		registry.MustRegister(SeasonFileRefreshesTotal)

		registry.MustRegister(SeasonTableCacheHitRatio)

		registry.MustRegister(UpstreamFetchLatency)
		registry.MustRegister(SummarizerLatency)
		registry.MustRegister(AggregationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordUpstreamFetch records one provider fetch with its latency.
func RecordUpstreamFetch(endpoint, outcome string, durationSeconds float64) {
	UpstreamFetchesTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamFetchLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordSummarizerCall records one summarizer call with its latency.
func RecordSummarizerCall(provider, outcome string, durationSeconds float64) {
	SummarizerCallsTotal.WithLabelValues(provider, outcome).Inc()
	SummarizerLatency.Observe(durationSeconds)
}
