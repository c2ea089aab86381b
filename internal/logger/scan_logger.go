// Package logger provides scan-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScanLogger provides dedicated logging for scan pipeline operations.
type ScanLogger struct {
	*logrus.Entry
}

// NewScanLogger creates a new scan logger.
func NewScanLogger(baseLogger *logrus.Logger) *ScanLogger {
	return &ScanLogger{
		Entry: baseLogger.WithField("component", "scanner"),
	}
}

// WithRun scopes the logger to a single scan run.
func (sl *ScanLogger) WithRun(runID string) *ScanLogger {
	return &ScanLogger{Entry: sl.WithField("run_id", runID)}
}

// LogScanStarted logs the start of a scan cycle.
func (sl *ScanLogger) LogScanStarted(events, markets int, cacheStale bool) {
	sl.WithFields(logrus.Fields{
		"events":      events,
		"markets":     markets,
		"cache_stale": cacheStale,
	}).Info("Scan started")
}

// LogScanCompleted logs scan results.
func (sl *ScanLogger) LogScanCompleted(events, matched, opportunities int, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"events":        events,
		"matched":       matched,
		"unmatched":     events - matched,
		"opportunities": opportunities,
		"duration_ms":   duration.Milliseconds(),
	}).Info("Scan completed")
}

// LogCacheRefresh logs a market snapshot refresh.
func (sl *ScanLogger) LogCacheRefresh(markets int, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"markets":     markets,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Market cache refreshed")
}

// LogCacheStale logs a fetch failure served from the previous snapshot.
func (sl *ScanLogger) LogCacheStale(err error, snapshotAge time.Duration) {
	sl.WithError(err).WithFields(logrus.Fields{
		"snapshot_age_s": int64(snapshotAge.Seconds()),
	}).Warn("Market fetch failed, serving stale snapshot")
}

// LogUnmatchedEvent logs an event with no corresponding market.
func (sl *ScanLogger) LogUnmatchedEvent(eventID, away, home string) {
	sl.WithFields(logrus.Fields{
		"event_id":  eventID,
		"away_team": away,
		"home_team": home,
	}).Debug("No market matched event")
}

// LogSkippedEvent logs an event rejected before matching.
func (sl *ScanLogger) LogSkippedEvent(eventID string, err error) {
	sl.WithError(err).WithField("event_id", eventID).Warn("Skipping invalid event")
}

// LogOpportunity logs a detected opportunity.
func (sl *ScanLogger) LogOpportunity(ticker, team, tier string, edge, ev, kelly, combined float64) {
	sl.WithFields(logrus.Fields{
		"ticker":         ticker,
		"team":           team,
		"tier":           tier,
		"edge":           edge,
		"expected_value": ev,
		"kelly_fraction": kelly,
		"combined_score": combined,
	}).Info("Opportunity detected")
}
