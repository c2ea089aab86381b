// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for published opportunities.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogOpportunityPublished logs an opportunity handed to a downstream consumer.
func (al *AuditLogger) LogOpportunityPublished(runID, stream, ticker, side string, edge, stake float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":    runID,
		"stream":    stream,
		"ticker":    ticker,
		"side":      side,
		"edge":      edge,
		"stake":     stake,
		"timestamp": timestamp.Unix(),
	}).Info("Opportunity published")
}

// LogPublishFailure logs a failed publication.
func (al *AuditLogger) LogPublishFailure(runID, stream string, err error) {
	al.WithError(err).WithFields(logrus.Fields{
		"run_id": runID,
		"stream": stream,
	}).Error("Opportunity publication failed")
}

// LogConfigLoaded logs the effective thresholds a process started with.
func (al *AuditLogger) LogConfigLoaded(environment string, minEdge, kellyMultiplier, kellyCap float64, cacheTTL time.Duration) {
	al.WithFields(logrus.Fields{
		"environment":      environment,
		"min_edge":         minEdge,
		"kelly_multiplier": kellyMultiplier,
		"kelly_cap":        kellyCap,
		"cache_ttl_s":      int64(cacheTTL.Seconds()),
	}).Info("Configuration loaded")
}
