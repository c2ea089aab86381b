package models

import "time"

// Side identifies one of the two teams in an event
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Valid reports whether s is home or away
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// MatchedOdds holds per-side win prices derived from a matched market
type MatchedOdds struct {
	AwayWinPrice float64   `json:"away_win_price"`
	HomeWinPrice float64   `json:"home_win_price"`
	YesSide      Side      `json:"yes_side"`
	Ticker       string    `json:"ticker"`
	Title        string    `json:"title"`
	Volume       float64   `json:"volume"`
	CloseTime    time.Time `json:"close_time"`
}

// PriceFor returns the market-implied win probability for a side
func (o *MatchedOdds) PriceFor(side Side) float64 {
	if side == SideAway {
		return o.AwayWinPrice
	}
	return o.HomeWinPrice
}

// EnrichedEvent is an event paired with its matched odds; Odds is nil when
// no market could be matched
type EnrichedEvent struct {
	Event Event        `json:"event"`
	Odds  *MatchedOdds `json:"odds"`
}

// HasOdds reports whether the event was matched to a market
func (e *EnrichedEvent) HasOdds() bool {
	return e.Odds != nil
}
