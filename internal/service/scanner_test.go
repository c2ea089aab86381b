package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sports-edge/internal/cache"
	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/edge"
	"github.com/yourusername/sports-edge/internal/matching"
	"github.com/yourusername/sports-edge/internal/models"
	"github.com/yourusername/sports-edge/internal/probability"
	"github.com/yourusername/sports-edge/internal/ranking"
)

// MockSnapshotter mocks the market cache
type MockSnapshotter struct {
	mock.Mock
}

func (m *MockSnapshotter) GetActiveMarkets(ctx context.Context) (cache.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(cache.Snapshot), args.Error(1)
}

// MockEventSource mocks the event feed
type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) FetchEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestScanner(markets MarketSnapshotter, workers int) *Scanner {
	return NewScanner(
		markets,
		matching.NewMatcher(models.SideHome),
		probability.NewModel(probability.DefaultModelConfig()),
		edge.NewCalculator(edge.DefaultEdgeConfig()),
		ranking.NewRanker(ranking.DefaultRankingConfig()),
		workers,
		quietLogger(),
	)
}

func billsTexansMarket() *models.Market {
	return &models.Market{
		Ticker:   "KXNFLGAME-26JAN11BUFHOU-BUF",
		Title:    "Buffalo at Houston Winner?",
		YesPrice: 0.72,
		NoPrice:  0.28,
		HomeTeam: "Houston Texans",
		AwayTeam: "Buffalo Bills",
		Status:   models.MarketStatusActive,
	}
}

func billsTexansEvent() models.Event {
	return models.Event{
		ID:        "401772934",
		Sport:     "nfl",
		HomeTeam:  "Houston Texans",
		AwayTeam:  "Buffalo Bills",
		HomeAbbr:  models.StringPtr("HOU"),
		AwayAbbr:  models.StringPtr("BUF"),
		HomeScore: 17,
		AwayScore: 10,
		Period:    3,
		IsLive:    true,
	}
}

func freshSnapshot(markets ...*models.Market) cache.Snapshot {
	return cache.Snapshot{Markets: markets, FetchedAt: time.Now()}
}

func TestScanBillsTexansEndToEnd(t *testing.T) {
	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).Return(freshSnapshot(billsTexansMarket()), nil)

	events := []models.Event{
		billsTexansEvent(),
		{ID: "2", Sport: "nfl", HomeTeam: "Denver Broncos", AwayTeam: "New York Jets"},
		{ID: "3", Sport: "nfl", HomeTeam: "Kansas City Chiefs"},
	}

	result, err := newTestScanner(markets, 4).Scan(context.Background(), events)

	require.NoError(t, err)
	assert.False(t, result.CacheStale)
	assert.Equal(t, 1, result.MarketCount)
	require.Len(t, result.Enriched, 2)
	assert.True(t, result.Enriched[0].HasOdds())
	assert.Equal(t, models.SideAway, result.Enriched[0].Odds.YesSide)
	assert.False(t, result.Enriched[1].HasOdds())

	require.Len(t, result.Opportunities, 1)
	opp := result.Opportunities[0]
	assert.Equal(t, models.SideHome, opp.Side)
	assert.Equal(t, "Houston Texans", opp.Team)
	assert.Equal(t, "KXNFLGAME-26JAN11BUFHOU-BUF", opp.Ticker)
	assert.InDelta(t, 0.49, opp.ModelProbability, 1e-9)
	assert.InDelta(t, 0.28, opp.MarketProbability, 1e-9)
	assert.InDelta(t, 0.21, opp.Edge, 1e-9)
	assert.InDelta(t, 124.0, opp.ExpectedValue, 1e-6)
	assert.InDelta(t, 0.0729, opp.KellyFraction, 1e-4)
	assert.Equal(t, models.ConfidenceLow, opp.ConfidenceTier)
	assert.Greater(t, opp.CombinedScore, 0.0)

	summary := result.Summary
	assert.Equal(t, 3, summary.Events)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Opportunities)
	assert.NotEqual(t, "", result.RunID.String())
}

func TestScanStaleSnapshotContinues(t *testing.T) {
	stale := freshSnapshot(billsTexansMarket())
	stale.Stale = true

	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).
		Return(stale, fmt.Errorf("%w: %w", models.ErrFetchFailed, errors.New("connection refused")))

	result, err := newTestScanner(markets, 2).Scan(context.Background(), []models.Event{billsTexansEvent()})

	require.NoError(t, err)
	assert.True(t, result.CacheStale)
	assert.Len(t, result.Opportunities, 1)
}

func TestScanHardMarketErrorFails(t *testing.T) {
	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).Return(cache.Snapshot{}, errors.New("boom"))

	_, err := newTestScanner(markets, 2).Scan(context.Background(), []models.Event{billsTexansEvent()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestScanCancelled(t *testing.T) {
	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).Return(freshSnapshot(billsTexansMarket()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(markets, 2).Scan(ctx, []models.Event{billsTexansEvent()})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanEmptyIndexMatchesNothing(t *testing.T) {
	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).Return(freshSnapshot(), nil)

	result, err := newTestScanner(markets, 2).Scan(context.Background(), []models.Event{billsTexansEvent()})

	require.NoError(t, err)
	require.Len(t, result.Enriched, 1)
	assert.False(t, result.Enriched[0].HasOdds())
	assert.Empty(t, result.Opportunities)
	assert.NotNil(t, result.Opportunities)
}

// leagueFixture builds n matched games whose home side carries a growing edge
func leagueFixture(n int) ([]*models.Market, []models.Event) {
	markets := make([]*models.Market, n)
	events := make([]models.Event, n)
	for i := 0; i < n; i++ {
		home := fmt.Sprintf("Home%02d City", i)
		away := fmt.Sprintf("Away%02d Town", i)
		price := 0.30 + float64(i%10)*0.02
		markets[i] = &models.Market{
			Ticker:   fmt.Sprintf("GAME%02d-H%02d", i, i),
			HomeTeam: home,
			AwayTeam: away,
			YesPrice: price,
			NoPrice:  1 - price,
			Status:   models.MarketStatusActive,
		}
		events[i] = models.Event{
			ID:        fmt.Sprintf("%d", i),
			Sport:     "nba",
			HomeTeam:  home,
			AwayTeam:  away,
			HomeAbbr:  models.StringPtr(fmt.Sprintf("H%02d", i)),
			AwayAbbr:  models.StringPtr(fmt.Sprintf("A%02d", i)),
			HomeScore: 20 + i%7,
			AwayScore: 10,
			Period:    2,
			IsLive:    true,
		}
	}
	return markets, events
}

func TestScanOrderingIsDeterministic(t *testing.T) {
	marketList, events := leagueFixture(30)

	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).Return(freshSnapshot(marketList...), nil)

	serial, err := newTestScanner(markets, 1).Scan(context.Background(), events)
	require.NoError(t, err)
	parallel, err := newTestScanner(markets, 8).Scan(context.Background(), events)
	require.NoError(t, err)

	require.Len(t, parallel.Enriched, len(events))
	for i := range events {
		assert.Equal(t, events[i].ID, parallel.Enriched[i].Event.ID)
	}

	require.Equal(t, len(serial.Opportunities), len(parallel.Opportunities))
	require.NotEmpty(t, parallel.Opportunities)
	for i := range serial.Opportunities {
		assert.Equal(t, serial.Opportunities[i].Ticker, parallel.Opportunities[i].Ticker)
	}
	for i := 1; i < len(parallel.Opportunities); i++ {
		assert.GreaterOrEqual(t, parallel.Opportunities[i-1].CombinedScore, parallel.Opportunities[i].CombinedScore)
	}
}

func TestScanFeed(t *testing.T) {
	markets := new(MockSnapshotter)
	markets.On("GetActiveMarkets", mock.Anything).Return(freshSnapshot(billsTexansMarket()), nil)

	feed := new(MockEventSource)
	feed.On("FetchEvents", mock.Anything).Return([]models.Event{billsTexansEvent()}, nil).Once()
	feed.On("FetchEvents", mock.Anything).Return(nil, errors.New("feed down")).Once()

	s := newTestScanner(markets, 2)

	result, err := s.ScanFeed(context.Background(), feed)
	require.NoError(t, err)
	assert.Len(t, result.Opportunities, 1)

	_, err = s.ScanFeed(context.Background(), feed)
	assert.ErrorContains(t, err, "feed down")
	feed.AssertExpectations(t)
}

func TestScanResultFilter(t *testing.T) {
	result := &ScanResult{Opportunities: []models.Opportunity{
		{Ticker: "A", Edge: 0.20, Event: models.Event{Sport: "nfl"}},
		{Ticker: "B", Edge: 0.05, Event: models.Event{Sport: "nba"}},
		{Ticker: "C", Edge: 0.10, Event: models.Event{Sport: "NFL"}},
	}}

	tests := []struct {
		name    string
		sport   string
		minEdge float64
		want    []string
	}{
		{name: "no filter", want: []string{"A", "B", "C"}},
		{name: "sport", sport: "nfl", want: []string{"A", "C"}},
		{name: "min edge", minEdge: 0.08, want: []string{"A", "C"}},
		{name: "both", sport: "nfl", minEdge: 0.15, want: []string{"A"}},
		{name: "nothing left", sport: "nhl", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := result.Filter(tt.sport, tt.minEdge)
			tickers := make([]string, len(got))
			for i, o := range got {
				tickers[i] = o.Ticker
			}
			assert.Equal(t, tt.want, tickers)
		})
	}
}

func TestNewScannerFromConfig(t *testing.T) {
	cfg := &config.Config{
		Matching: config.MatchingConfig{DefaultYesSide: "away"},
		Model:    probability.DefaultModelConfig(),
		Edge:     edge.DefaultEdgeConfig(),
		Ranking:  ranking.DefaultRankingConfig(),
		Scan:     config.ScanConfig{Workers: 3},
	}

	s := NewScannerFromConfig(cfg, new(MockSnapshotter), nil)

	assert.Equal(t, 3, s.workers)
	assert.Equal(t, models.SideAway, s.matcher.DefaultYesSide())
	assert.Equal(t, 0.02, s.Calculator().MinEdge())
}

func TestResultStore(t *testing.T) {
	store := NewResultStore()

	_, ok := store.Latest()
	assert.False(t, ok)

	store.Store(nil)
	_, ok = store.Latest()
	assert.False(t, ok)

	result := &ScanResult{}
	store.Store(result)
	stored, ok := store.Latest()
	require.True(t, ok)
	assert.Same(t, result, stored.Result)
	assert.False(t, stored.StoredAt.IsZero())
}
