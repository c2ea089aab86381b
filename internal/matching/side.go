package matching

import (
	"strings"

	"github.com/yourusername/sports-edge/internal/models"
)

// ResolveYesSide decides which team the market's "yes" outcome refers to.
// The ticker suffix is compared case-insensitively with the away abbreviation
// first, then the home abbreviation. A malformed ticker or an unmatched suffix
// falls back to defaultSide.
func ResolveYesSide(market *models.Market, homeAbbr, awayAbbr string, defaultSide models.Side) models.Side {
	if !defaultSide.Valid() {
		defaultSide = models.SideHome
	}

	suffix, ok := market.TickerSuffix()
	if !ok {
		return defaultSide
	}
	suffix = strings.ToUpper(suffix)

	if abbrMatches(suffix, awayAbbr) {
		return models.SideAway
	}
	if abbrMatches(suffix, homeAbbr) {
		return models.SideHome
	}
	return defaultSide
}

func abbrMatches(suffix, abbr string) bool {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if abbr == "" {
		return false
	}
	return suffix == abbr || strings.Contains(suffix, abbr)
}

// OddsFor maps a market's yes/no prices onto home and away win prices
func OddsFor(market *models.Market, yesSide models.Side) *models.MatchedOdds {
	odds := &models.MatchedOdds{
		YesSide:   yesSide,
		Ticker:    market.Ticker,
		Title:     market.Title,
		Volume:    market.Volume,
		CloseTime: market.CloseTime,
	}
	if yesSide == models.SideAway {
		odds.AwayWinPrice = market.YesPrice
		odds.HomeWinPrice = market.NoPrice
	} else {
		odds.HomeWinPrice = market.YesPrice
		odds.AwayWinPrice = market.NoPrice
	}
	return odds
}
