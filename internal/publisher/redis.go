// Package publisher pushes ranked opportunities to Redis for downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/logger"
	"github.com/yourusername/sports-edge/internal/metrics"
	"github.com/yourusername/sports-edge/internal/models"
)

// NoOpportunitiesMessage accompanies an empty ranked list
const NoOpportunitiesMessage = "no opportunities at this threshold"

// StakeFunc converts a Kelly fraction into a suggested stake
type StakeFunc func(kelly float64) decimal.Decimal

// Message is one stream entry
type Message struct {
	RunID       string             `json:"run_id"`
	Rank        int                `json:"rank"`
	Opportunity models.Opportunity `json:"opportunity"`
	Stake       decimal.Decimal    `json:"stake"`
	PublishedAt time.Time          `json:"published_at"`
}

// Snapshot is the latest ranked list stored under the latest key
type Snapshot struct {
	RunID         string               `json:"run_id"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Count         int                  `json:"count"`
	Opportunities []models.Opportunity `json:"opportunities"`
	Message       string               `json:"message,omitempty"`
}

// NewSnapshot wraps a ranked list; an empty list carries NoOpportunitiesMessage
func NewSnapshot(runID string, opps []models.Opportunity, generatedAt time.Time) Snapshot {
	if opps == nil {
		opps = []models.Opportunity{}
	}
	snap := Snapshot{
		RunID:         runID,
		GeneratedAt:   generatedAt.UTC(),
		Count:         len(opps),
		Opportunities: opps,
	}
	if len(opps) == 0 {
		snap.Message = NoOpportunitiesMessage
	}
	return snap
}

// StreamKey returns the per-sport stream name
func StreamKey(prefix, sport string) string {
	sport = strings.ToLower(strings.TrimSpace(sport))
	if sport == "" {
		sport = "unknown"
	}
	return fmt.Sprintf("%s.%s", prefix, sport)
}

// RedisPublisher publishes ranked opportunities to Redis Streams and keeps the
// latest snapshot under a plain key
type RedisPublisher struct {
	client    redis.Cmdable
	prefix    string
	maxLen    int64
	latestKey string
	stake     StakeFunc
	audit     *logger.AuditLogger
	logger    *logrus.Entry
}

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisPublisher creates a new stream publisher
func NewRedisPublisher(client redis.Cmdable, cfg *config.RedisConfig, stake StakeFunc, log *logrus.Logger) *RedisPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if stake == nil {
		stake = func(float64) decimal.Decimal { return decimal.Zero }
	}
	return &RedisPublisher{
		client:    client,
		prefix:    cfg.StreamPrefix,
		maxLen:    cfg.StreamMaxLen,
		latestKey: cfg.LatestKey,
		stake:     stake,
		audit:     logger.NewAuditLogger(log),
		logger:    log.WithField("component", "publisher"),
	}
}

// Ping checks the Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Publish writes every opportunity to its sport stream and replaces the latest
// snapshot, all in one pipeline
func (p *RedisPublisher) Publish(ctx context.Context, runID string, opps []models.Opportunity) error {
	now := time.Now().UTC()

	messages := p.buildMessages(runID, opps, now)
	snapshot, err := json.Marshal(NewSnapshot(runID, opps, now))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := p.client.Pipeline()
	streams := make([]string, len(messages))
	for i, msg := range messages {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal opportunity %s: %w", msg.Opportunity.Ticker, err)
		}

		streams[i] = StreamKey(p.prefix, msg.Opportunity.Event.Sport)
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: streams[i],
			MaxLen: p.maxLen,
			Approx: p.maxLen > 0,
			Values: map[string]interface{}{
				"run_id":      runID,
				"ticker":      msg.Opportunity.Ticker,
				"opportunity": string(payload),
			},
		})
	}
	pipe.Set(ctx, p.latestKey, snapshot, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordPublishFailure()
		p.audit.LogPublishFailure(runID, p.prefix, err)
		return fmt.Errorf("failed to publish %d opportunities: %w", len(messages), err)
	}

	for i, msg := range messages {
		opp := msg.Opportunity
		p.audit.LogOpportunityPublished(runID, streams[i], opp.Ticker, string(opp.Side),
			opp.Edge, msg.Stake.InexactFloat64(), msg.PublishedAt)
	}
	metrics.RecordPublished(len(messages))
	p.logger.WithFields(logrus.Fields{
		"run_id":        runID,
		"opportunities": len(messages),
	}).Debug("Published ranked opportunities")

	return nil
}

func (p *RedisPublisher) buildMessages(runID string, opps []models.Opportunity, now time.Time) []Message {
	messages := make([]Message, len(opps))
	for i, opp := range opps {
		messages[i] = Message{
			RunID:       runID,
			Rank:        i + 1,
			Opportunity: opp,
			Stake:       p.stake(opp.KellyFraction),
			PublishedAt: now,
		}
	}
	return messages
}
