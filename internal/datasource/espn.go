package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/metrics"
	"github.com/yourusername/sports-edge/internal/models"
)

const espnSource = "espn"

// sportPaths maps a sport key to its ESPN scoreboard path
var sportPaths = map[string]string{
	"nfl":   "football/nfl",
	"ncaaf": "football/college-football",
	"nba":   "basketball/nba",
	"wnba":  "basketball/wnba",
	"ncaab": "basketball/mens-college-basketball",
	"nhl":   "hockey/nhl",
	"mlb":   "baseball/mlb",
	"mls":   "soccer/usa.1",
	"epl":   "soccer/eng.1",
}

// SupportedSports returns the sport keys the ESPN feed can serve
func SupportedSports() []string {
	sports := make([]string, 0, len(sportPaths))
	for sport := range sportPaths {
		sports = append(sports, sport)
	}
	return sports
}

// ESPNFeed implements EventFeed over the public ESPN scoreboard API
type ESPNFeed struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	sports     []string
	logger     *logrus.Entry
}

type espnScoreboard struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Name         string            `json:"name"`
	Competitions []espnCompetition `json:"competitions"`
	Status       espnStatus        `json:"status"`
}

type espnCompetition struct {
	Competitors []espnCompetitor `json:"competitors"`
	Status      *espnStatus      `json:"status"`
}

type espnCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     espnTeam `json:"team"`
}

type espnTeam struct {
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
}

type espnStatus struct {
	Period int            `json:"period"`
	Type   espnStatusType `json:"type"`
}

type espnStatusType struct {
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Detail      string `json:"detail"`
	ShortDetail string `json:"shortDetail"`
}

// NewESPNFeed creates a scoreboard feed for the given sports
func NewESPNFeed(httpClient *RateLimitedHTTPClient, baseURL string, sports []string, logger *logrus.Logger) *ESPNFeed {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ESPNFeed{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sports:     sports,
		logger:     logger.WithField("component", "espn_feed"),
	}
}

// Name returns the name of the feed
func (f *ESPNFeed) Name() string {
	return espnSource
}

// FetchEvents retrieves events for every configured sport. A failing sport is
// logged and skipped; an error is returned only when every sport fails.
func (f *ESPNFeed) FetchEvents(ctx context.Context) ([]models.Event, error) {
	var (
		events   []models.Event
		failures []error
	)

	for _, sport := range f.sports {
		if err := ctx.Err(); err != nil {
			return events, err
		}

		sportEvents, err := f.FetchSport(ctx, sport)
		if err != nil {
			f.logger.WithError(err).WithField("sport", sport).Warn("Failed to fetch scoreboard")
			failures = append(failures, err)
			continue
		}
		events = append(events, sportEvents...)
	}

	if len(f.sports) > 0 && len(failures) == len(f.sports) {
		return nil, errors.Join(failures...)
	}

	return events, nil
}

// FetchSport retrieves the scoreboard for one sport
func (f *ESPNFeed) FetchSport(ctx context.Context, sport string) ([]models.Event, error) {
	sport = strings.ToLower(sport)
	path, ok := sportPaths[sport]
	if !ok {
		return nil, NewDataSourceError(espnSource, ErrCodeUnsupportedSport, fmt.Sprintf("no scoreboard for sport %q", sport), nil)
	}

	url := fmt.Sprintf("%s/%s/scoreboard", f.baseURL, path)

	resp, err := f.httpClient.Get(ctx, url)
	if err != nil {
		metrics.RecordFeedRequest(sport, "error")
		return nil, NewDataSourceError(espnSource, ErrCodeNetworkError, "failed to fetch scoreboard", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordFeedRequest(sport, "rate_limited")
		return nil, NewDataSourceError(espnSource, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordFeedRequest(sport, "not_found")
		return nil, NewDataSourceError(espnSource, ErrCodeNotFound, "scoreboard not found: "+url, nil)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordFeedRequest(sport, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(espnSource, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var board espnScoreboard
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		metrics.RecordFeedRequest(sport, "invalid")
		return nil, NewDataSourceError(espnSource, ErrCodeInvalidData, "failed to parse scoreboard", err)
	}
	metrics.RecordFeedRequest(sport, "success")

	events := make([]models.Event, 0, len(board.Events))
	for i := range board.Events {
		event, err := convertEvent(sport, &board.Events[i])
		if err != nil {
			f.logger.WithError(err).WithField("event_id", board.Events[i].ID).Debug("Skipping scoreboard entry")
			continue
		}
		events = append(events, *event)
	}

	return events, nil
}

func convertEvent(sport string, raw *espnEvent) (*models.Event, error) {
	if len(raw.Competitions) == 0 {
		return nil, fmt.Errorf("%w: event %s has no competition", models.ErrInvalidEvent, raw.ID)
	}
	comp := raw.Competitions[0]

	status := raw.Status
	if comp.Status != nil {
		status = *comp.Status
	}

	event := &models.Event{
		ID:           raw.ID,
		Sport:        sport,
		Period:       status.Period,
		IsLive:       status.Type.State == "in",
		IsCompleted:  status.Type.Completed || status.Type.State == "post",
		StatusDetail: status.Type.Detail,
		StartTime:    parseESPNTime(raw.Date),
	}
	if event.StatusDetail == "" {
		event.StatusDetail = status.Type.ShortDetail
	}

	for _, c := range comp.Competitors {
		score, _ := strconv.Atoi(strings.TrimSpace(c.Score))
		var abbr *string
		if c.Team.Abbreviation != "" {
			abbr = models.StringPtr(c.Team.Abbreviation)
		}

		switch c.HomeAway {
		case "home":
			event.HomeTeam, event.HomeAbbr, event.HomeScore = c.Team.DisplayName, abbr, score
		case "away":
			event.AwayTeam, event.AwayAbbr, event.AwayScore = c.Team.DisplayName, abbr, score
		}
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

func parseESPNTime(value string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04Z07:00", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
