// Package metrics provides centralized Prometheus metrics registry for the edge scanner.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sports_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Market cache metrics
var (
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_cache_hits_total",
		Help:      "Total number of market snapshot reads served from cache",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_cache_misses_total",
		Help:      "Total number of market snapshot reads that required a refresh",
	})
	CacheFetchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_cache_fetch_failures_total",
		Help:      "Total number of failed market source fetches",
	})
	MarketSnapshotSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "market_snapshot_size",
		Help:      "Number of active markets in the current snapshot",
	})
	MarketSnapshotStale = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "market_snapshot_stale",
		Help:      "1 when the current snapshot is served after a failed refresh",
	})
	CacheRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "market_cache_refresh_duration_seconds",
		Help:      "Duration of market source fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(CacheFetchFailuresTotal)
		registry.MustRegister(MarketSnapshotSize)
		registry.MustRegister(MarketSnapshotStale)
		registry.MustRegister(CacheRefreshDuration)

		registry.MustRegister(ScansTotal)
		registry.MustRegister(EventsMatchedTotal)
		registry.MustRegister(EventsUnmatchedTotal)
		registry.MustRegister(EventsSkippedTotal)
		registry.MustRegister(OpportunitiesTotal)
		registry.MustRegister(LastScanOpportunities)
		registry.MustRegister(ScanDuration)
		registry.MustRegister(OpportunityEdge)

		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(PublishedTotal)
		registry.MustRegister(PublishFailuresTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCacheHit records a snapshot read served from cache.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a snapshot read that triggered a refresh.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheRefresh records a successful market fetch.
func RecordCacheRefresh(durationSeconds float64, markets int) {
	CacheRefreshDuration.Observe(durationSeconds)
	MarketSnapshotSize.Set(float64(markets))
	MarketSnapshotStale.Set(0)
}

// RecordCacheFetchFailure records a failed market fetch.
func RecordCacheFetchFailure(durationSeconds float64) {
	CacheFetchFailuresTotal.Inc()
	CacheRefreshDuration.Observe(durationSeconds)
	MarketSnapshotStale.Set(1)
}
