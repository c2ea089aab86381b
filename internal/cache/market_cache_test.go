package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-edge/internal/models"
)

// MockMarketSource mocks the bulk market fetch
type MockMarketSource struct {
	mock.Mock
}

func (m *MockMarketSource) GetActive(ctx context.Context) ([]*models.Market, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Market), args.Error(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func activeMarket(ticker string) *models.Market {
	return &models.Market{Ticker: ticker, YesPrice: 0.5, NoPrice: 0.5, Status: models.MarketStatusActive}
}

func TestMarketCacheFirstCallFetches(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1"), activeMarket("B-2")}, nil).Once()

	c := NewMarketCache(source, time.Hour, quietLogger())
	snap, err := c.GetActiveMarkets(context.Background())

	require.NoError(t, err)
	assert.Len(t, snap.Markets, 2)
	assert.False(t, snap.Stale)
	assert.False(t, snap.FetchedAt.IsZero())
	source.AssertExpectations(t)
}

func TestMarketCacheWithinTTLDoesNotRefetch(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1")}, nil).Once()

	c := NewMarketCache(source, time.Hour, quietLogger())
	ctx := context.Background()

	first, err := c.GetActiveMarkets(ctx)
	require.NoError(t, err)
	second, err := c.GetActiveMarkets(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	source.AssertNumberOfCalls(t, "GetActive", 1)

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestMarketCacheRefetchesAfterTTL(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1")}, nil).Twice()

	c := NewMarketCache(source, 50*time.Millisecond, quietLogger())
	ctx := context.Background()

	_, err := c.GetActiveMarkets(ctx)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = c.GetActiveMarkets(ctx)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "GetActive", 2)
}

func TestMarketCacheFiltersInactiveMarkets(t *testing.T) {
	closed := activeMarket("C-3")
	closed.Status = models.MarketStatusClosed

	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1"), closed, nil}, nil)

	c := NewMarketCache(source, time.Hour, quietLogger())
	snap, err := c.GetActiveMarkets(context.Background())

	require.NoError(t, err)
	require.Len(t, snap.Markets, 1)
	assert.Equal(t, "A-1", snap.Markets[0].Ticker)
}

func TestMarketCacheFetchFailureKeepsPreviousSnapshot(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1")}, nil).Once()
	source.On("GetActive", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	c := NewMarketCache(source, time.Hour, quietLogger())
	ctx := context.Background()

	_, err := c.GetActiveMarkets(ctx)
	require.NoError(t, err)

	c.Invalidate()
	snap, err := c.GetActiveMarkets(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFetchFailed)
	assert.True(t, models.IsSoftFailure(err))
	assert.Contains(t, err.Error(), "connection refused")
	require.Len(t, snap.Markets, 1)
	assert.Equal(t, "A-1", snap.Markets[0].Ticker)
	assert.True(t, snap.Stale)
}

func TestMarketCacheFetchFailureWithoutSnapshot(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return(nil, errors.New("timeout"))

	c := NewMarketCache(source, time.Hour, quietLogger())
	snap, err := c.GetActiveMarkets(context.Background())

	assert.ErrorIs(t, err, models.ErrFetchFailed)
	assert.NotNil(t, snap.Markets)
	assert.Empty(t, snap.Markets)
	assert.True(t, snap.Stale)
}

func TestMarketCacheRecoversAfterFailure(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return(nil, errors.New("timeout")).Once()
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1")}, nil).Once()

	c := NewMarketCache(source, time.Hour, quietLogger())
	ctx := context.Background()

	_, err := c.GetActiveMarkets(ctx)
	require.Error(t, err)

	snap, err := c.GetActiveMarkets(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Stale)
	assert.Len(t, snap.Markets, 1)
}

// gatedSource blocks every fetch until release is closed
type gatedSource struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSource) GetActive(ctx context.Context) ([]*models.Market, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	<-g.release
	return []*models.Market{activeMarket("A-1")}, nil
}

func TestMarketCacheConcurrentCallersShareOneFetch(t *testing.T) {
	source := &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	c := NewMarketCache(source, time.Hour, quietLogger())
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	results := make([]Snapshot, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := c.GetActiveMarkets(ctx)
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}

	<-source.started
	time.Sleep(20 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, snap := range results {
		assert.Len(t, snap.Markets, 1)
	}
}

func TestMarketCachePeekAndDefaults(t *testing.T) {
	source := new(MockMarketSource)
	source.On("GetActive", mock.Anything).Return([]*models.Market{activeMarket("A-1")}, nil)

	c := NewMarketCache(source, 0, nil)
	assert.Equal(t, DefaultTTL, c.TTL())

	_, ok := c.Peek()
	assert.False(t, ok)

	_, err := c.GetActiveMarkets(context.Background())
	require.NoError(t, err)

	snap, ok := c.Peek()
	assert.True(t, ok)
	assert.Len(t, snap.Markets, 1)
}

func TestSnapshotAge(t *testing.T) {
	now := time.Now()
	assert.Equal(t, time.Duration(0), Snapshot{}.Age(now))
	assert.Equal(t, time.Minute, Snapshot{FetchedAt: now.Add(-time.Minute)}.Age(now))
}
