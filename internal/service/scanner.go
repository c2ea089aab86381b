// Package service runs the correlation pipeline: events are matched to cached
// markets, priced by the probability model, filtered by edge and ranked.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/cache"
	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/edge"
	"github.com/yourusername/sports-edge/internal/logger"
	"github.com/yourusername/sports-edge/internal/matching"
	"github.com/yourusername/sports-edge/internal/metrics"
	"github.com/yourusername/sports-edge/internal/models"
	"github.com/yourusername/sports-edge/internal/probability"
	"github.com/yourusername/sports-edge/internal/ranking"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when no worker count is configured
const DefaultWorkers = 4

// MarketSnapshotter supplies the active market snapshot for a scan
type MarketSnapshotter interface {
	GetActiveMarkets(ctx context.Context) (cache.Snapshot, error)
}

// EventSource supplies event snapshots for a scan
type EventSource interface {
	FetchEvents(ctx context.Context) ([]models.Event, error)
}

// ScanResult is the outcome of one pipeline pass
type ScanResult struct {
	RunID         uuid.UUID              `json:"run_id"`
	Enriched      []models.EnrichedEvent `json:"enriched"`
	Opportunities []models.Opportunity   `json:"opportunities"`
	CacheStale    bool                   `json:"cache_stale"`
	MarketCount   int                    `json:"market_count"`
	Summary       ScanSummary            `json:"summary"`
}

// Filter returns the ranked opportunities for a sport (empty matches all)
// whose edge is at least minEdge. Ranking order is preserved.
func (r *ScanResult) Filter(sport string, minEdge float64) []models.Opportunity {
	filtered := make([]models.Opportunity, 0, len(r.Opportunities))
	for _, opp := range r.Opportunities {
		if sport != "" && !strings.EqualFold(opp.Event.Sport, sport) {
			continue
		}
		if opp.Edge < minEdge {
			continue
		}
		filtered = append(filtered, opp)
	}
	return filtered
}

// Scanner runs the correlation and ranking pipeline
type Scanner struct {
	markets    MarketSnapshotter
	strategies []matching.KeyStrategy
	matcher    *matching.Matcher
	model      *probability.Model
	calculator *edge.Calculator
	ranker     *ranking.Ranker
	workers    int
	log        *logger.ScanLogger
}

// NewScanner creates a scanner from its components
func NewScanner(
	markets MarketSnapshotter,
	matcher *matching.Matcher,
	model *probability.Model,
	calculator *edge.Calculator,
	ranker *ranking.Ranker,
	workers int,
	baseLogger *logrus.Logger,
) *Scanner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if baseLogger == nil {
		baseLogger = logrus.StandardLogger()
	}

	return &Scanner{
		markets:    markets,
		strategies: matching.DefaultStrategies(),
		matcher:    matcher,
		model:      model,
		calculator: calculator,
		ranker:     ranker,
		workers:    workers,
		log:        logger.NewScanLogger(baseLogger),
	}
}

// NewScannerFromConfig wires a scanner from application configuration
func NewScannerFromConfig(cfg *config.Config, markets MarketSnapshotter, baseLogger *logrus.Logger) *Scanner {
	return NewScanner(
		markets,
		matching.NewMatcher(models.Side(cfg.Matching.DefaultYesSide)),
		probability.NewModel(cfg.Model),
		edge.NewCalculator(cfg.Edge),
		ranking.NewRanker(cfg.Ranking),
		cfg.Scan.Workers,
		baseLogger,
	)
}

// Calculator returns the edge calculator used by the scanner
func (s *Scanner) Calculator() *edge.Calculator {
	return s.calculator
}

// ScanFeed fetches events from source and scans them
func (s *Scanner) ScanFeed(ctx context.Context, source EventSource) (*ScanResult, error) {
	events, err := source.FetchEvents(ctx)
	if err != nil {
		metrics.RecordScan("feed_error", 0, 0)
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return s.Scan(ctx, events)
}

// eventOutcome is the per-event result of a worker
type eventOutcome struct {
	enriched    models.EnrichedEvent
	opportunity *models.Opportunity
	err         error
}

// Scan runs one pipeline pass over events. A market fetch failure is not
// fatal: the stale snapshot is used and the result is marked CacheStale.
// Cancelling ctx stops new events from being fed to the workers.
func (s *Scanner) Scan(ctx context.Context, events []models.Event) (*ScanResult, error) {
	runID := uuid.New()
	log := s.log.WithRun(runID.String())
	stats := NewScanStats(len(events))

	snap, err := s.markets.GetActiveMarkets(ctx)
	if err != nil {
		if !models.IsSoftFailure(err) {
			metrics.RecordScan("error", time.Since(stats.StartTime).Seconds(), 0)
			return nil, fmt.Errorf("failed to load markets: %w", err)
		}
		log.LogCacheStale(err, snap.Age(time.Now()))
	}

	log.LogScanStarted(len(events), len(snap.Markets), snap.Stale)
	idx := matching.BuildIndex(snap.Markets, s.strategies...)

	outcomes := s.evaluateAll(ctx, events, idx)
	if err := ctx.Err(); err != nil {
		metrics.RecordScan("cancelled", time.Since(stats.StartTime).Seconds(), 0)
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	enriched := make([]models.EnrichedEvent, 0, len(events))
	opportunities := make([]models.Opportunity, 0)

	for i := range outcomes {
		out := &outcomes[i]
		event := &events[i]

		if out.err != nil {
			stats.RecordSkipped()
			metrics.RecordSkippedEvent()
			log.LogSkippedEvent(event.ID, out.err)
			continue
		}

		enriched = append(enriched, out.enriched)
		matched := out.enriched.HasOdds()
		stats.RecordMatch(matched)
		metrics.RecordMatch(event.Sport, matched)
		if !matched {
			log.LogUnmatchedEvent(event.ID, event.AwayTeam, event.HomeTeam)
			continue
		}

		if out.opportunity != nil {
			opportunities = append(opportunities, *out.opportunity)
		}
	}

	ranked := s.ranker.Rank(opportunities)
	for i := range ranked {
		opp := &ranked[i]
		metrics.RecordOpportunity(string(opp.ConfidenceTier), opp.Edge)
		log.LogOpportunity(opp.Ticker, opp.Team, string(opp.ConfidenceTier),
			opp.Edge, opp.ExpectedValue, opp.KellyFraction, opp.CombinedScore)
	}

	stats.Finish(len(ranked))
	summary := stats.Summary()

	outcome := "success"
	if snap.Stale {
		outcome = "stale"
	}
	metrics.RecordScan(outcome, summary.Duration.Seconds(), len(ranked))
	log.LogScanCompleted(summary.Events, summary.Matched, summary.Opportunities, summary.Duration)

	return &ScanResult{
		RunID:         runID,
		Enriched:      enriched,
		Opportunities: ranked,
		CacheStale:    snap.Stale,
		MarketCount:   len(snap.Markets),
		Summary:       summary,
	}, nil
}

// evaluateAll fans events out to at most s.workers goroutines. Results are
// stored by input index so the output order does not depend on scheduling.
func (s *Scanner) evaluateAll(ctx context.Context, events []models.Event, idx *matching.Index) []eventOutcome {
	outcomes := make([]eventOutcome, len(events))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i := range events {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			outcomes[i] = s.evaluate(&events[i], idx)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *Scanner) evaluate(event *models.Event, idx *matching.Index) eventOutcome {
	if err := event.Validate(); err != nil {
		return eventOutcome{err: err}
	}

	odds, ok := s.matcher.Match(event, idx)
	out := eventOutcome{
		enriched: models.EnrichedEvent{Event: *event, Odds: odds},
	}
	if !ok {
		return out
	}

	est := s.model.Estimate(event, odds)
	if opp, ok := s.calculator.Opportunity(event, odds, est); ok {
		out.opportunity = &opp
	}
	return out
}
