// Package cache provides the TTL-bounded market snapshot cache.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/metrics"
	"github.com/yourusername/sports-edge/internal/models"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is used when a non-positive TTL is configured
	DefaultTTL = 300 * time.Second

	freshKey = "active_markets"
)

// MarketSource performs the bulk fetch of active markets
type MarketSource interface {
	GetActive(ctx context.Context) ([]*models.Market, error)
}

// Snapshot is an immutable view of the active markets. Markets must not be modified.
type Snapshot struct {
	Markets   []*models.Market
	FetchedAt time.Time
	Stale     bool
}

// Age returns how long ago the snapshot was fetched
func (s Snapshot) Age(now time.Time) time.Duration {
	if s.FetchedAt.IsZero() {
		return 0
	}
	return now.Sub(s.FetchedAt)
}

// MarketCache serves the active market snapshot, refreshing it from the source after the TTL.
// Concurrent callers that arrive during a refresh share its outcome through a singleflight group.
type MarketCache struct {
	source MarketSource
	ttl    time.Duration
	expiry *gocache.Cache
	logger *logrus.Entry

	current atomic.Pointer[Snapshot]
	flight  singleflight.Group

	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewMarketCache creates a market cache over source
func NewMarketCache(source MarketSource, ttl time.Duration, logger *logrus.Logger) *MarketCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MarketCache{
		source: source,
		ttl:    ttl,
		expiry: gocache.New(ttl, ttl*2),
		logger: logger.WithField("component", "market_cache"),
	}
}

// GetActiveMarkets returns the current snapshot, refreshing it when absent or expired.
// On fetch failure the previous snapshot (or an empty one) is returned, marked stale,
// together with an error wrapping models.ErrFetchFailed.
func (c *MarketCache) GetActiveMarkets(ctx context.Context) (Snapshot, error) {
	if snap := c.fresh(); snap != nil {
		c.hitCount.Add(1)
		metrics.RecordCacheHit()
		return *snap, nil
	}

	v, err, shared := c.flight.Do(freshKey, func() (interface{}, error) {
		// Another flight may have finished between the check above and this one starting
		if snap := c.fresh(); snap != nil {
			return *snap, nil
		}
		return c.refresh(ctx)
	})
	if shared {
		c.hitCount.Add(1)
		metrics.RecordCacheHit()
	} else {
		c.missCount.Add(1)
		metrics.RecordCacheMiss()
	}

	return v.(Snapshot), err
}

// refresh fetches from the source. Only one refresh runs at a time.
func (c *MarketCache) refresh(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	markets, err := c.source.GetActive(ctx)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordCacheFetchFailure(elapsed.Seconds())

		prev := c.load()
		prev.Stale = true
		c.current.Store(&prev)

		c.logger.WithError(err).WithFields(logrus.Fields{
			"markets":        len(prev.Markets),
			"snapshot_age_s": int64(prev.Age(time.Now()).Seconds()),
		}).Warn("Market fetch failed, serving previous snapshot")
		return prev, fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
	}

	active := make([]*models.Market, 0, len(markets))
	for _, m := range markets {
		if m != nil && m.IsActive() {
			active = append(active, m)
		}
	}

	snap := &Snapshot{Markets: active, FetchedAt: time.Now()}
	c.current.Store(snap)
	c.expiry.Set(freshKey, struct{}{}, c.ttl)

	metrics.RecordCacheRefresh(elapsed.Seconds(), len(active))
	c.logger.WithFields(logrus.Fields{
		"markets":     len(active),
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("Market cache refreshed")

	return *snap, nil
}

func (c *MarketCache) fresh() *Snapshot {
	if _, found := c.expiry.Get(freshKey); !found {
		return nil
	}
	return c.current.Load()
}

func (c *MarketCache) load() Snapshot {
	if snap := c.current.Load(); snap != nil {
		return *snap
	}
	return Snapshot{Markets: []*models.Market{}, Stale: true}
}

// Invalidate forces the next call to refetch from the source
func (c *MarketCache) Invalidate() {
	c.expiry.Delete(freshKey)
}

// Peek returns the last published snapshot without triggering a refresh
func (c *MarketCache) Peek() (Snapshot, bool) {
	snap := c.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// Stats returns cache statistics
func (c *MarketCache) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hitCount.Load()
	misses = c.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// TTL returns the configured time-to-live
func (c *MarketCache) TTL() time.Duration {
	return c.ttl
}
