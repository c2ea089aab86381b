package datasource

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/config"
)

// NewEventFeed builds the configured event feed with its rate-limited HTTP client
func NewEventFeed(feedCfg *config.EventFeedConfig, sports []string, logger *logrus.Logger) (*ESPNFeed, error) {
	if feedCfg == nil {
		return nil, fmt.Errorf("event feed config is required")
	}
	if len(sports) == 0 {
		return nil, fmt.Errorf("at least one sport is required")
	}

	for _, sport := range sports {
		if _, ok := sportPaths[strings.ToLower(sport)]; !ok {
			return nil, NewDataSourceError(espnSource, ErrCodeUnsupportedSport, fmt.Sprintf("no scoreboard for sport %q", sport), nil)
		}
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(feedCfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = feedCfg.MaxRetries
	httpCfg.RateLimit = feedCfg.RateLimit

	client := NewRateLimitedHTTPClient(httpCfg, logger)
	return NewESPNFeed(client, feedCfg.BaseURL, sports, logger), nil
}
