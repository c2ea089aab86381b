// Package metrics defines scan pipeline metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of scan cycles by outcome",
	}, []string{"outcome"})

	EventsMatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_matched_total",
		Help:      "Total number of events matched to a market",
	}, []string{"sport"})

	EventsUnmatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_unmatched_total",
		Help:      "Total number of events with no market",
	}, []string{"sport"})

	EventsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_skipped_total",
		Help:      "Total number of invalid events skipped before matching",
	})

	OpportunitiesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "opportunities_total",
		Help:      "Total number of opportunities by confidence tier",
	}, []string{"tier"})

	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_feed_requests_total",
		Help:      "Total number of event feed requests by sport and outcome",
	}, []string{"sport", "outcome"})

	PublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "opportunities_published_total",
		Help:      "Total number of opportunities published downstream",
	})

	PublishFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_failures_total",
		Help:      "Total number of failed opportunity publications",
	})
)

var (
	LastScanOpportunities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_scan_opportunities",
		Help:      "Number of opportunities found by the most recent scan",
	})

	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of scan cycles in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	OpportunityEdge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "opportunity_edge",
		Help:      "Edge of detected opportunities",
		Buckets:   []float64{0.02, 0.05, 0.08, 0.1, 0.15, 0.2, 0.3, 0.5},
	})
)

// RecordScan records a completed scan cycle.
func RecordScan(outcome string, durationSeconds float64, opportunities int) {
	ScansTotal.WithLabelValues(outcome).Inc()
	ScanDuration.Observe(durationSeconds)
	LastScanOpportunities.Set(float64(opportunities))
}

// RecordMatch records the outcome of matching one event.
func RecordMatch(sport string, matched bool) {
	if matched {
		EventsMatchedTotal.WithLabelValues(sport).Inc()
		return
	}
	EventsUnmatchedTotal.WithLabelValues(sport).Inc()
}

// RecordSkippedEvent records an invalid event.
func RecordSkippedEvent() {
	EventsSkippedTotal.Inc()
}

// RecordOpportunity records a detected opportunity.
func RecordOpportunity(tier string, edge float64) {
	OpportunitiesTotal.WithLabelValues(tier).Inc()
	OpportunityEdge.Observe(edge)
}

// RecordFeedRequest records an event feed request.
func RecordFeedRequest(sport, outcome string) {
	FeedRequestsTotal.WithLabelValues(sport, outcome).Inc()
}

// RecordPublished records published opportunities.
func RecordPublished(count int) {
	PublishedTotal.Add(float64(count))
}

// RecordPublishFailure records a failed publication.
func RecordPublishFailure() {
	PublishFailuresTotal.Inc()
}
