package models

import (
	"strings"
	"time"
)

// MarketStatus represents the lifecycle state of a prediction market
type MarketStatus string

const (
	MarketStatusActive  MarketStatus = "active"
	MarketStatusClosed  MarketStatus = "closed"
	MarketStatusSettled MarketStatus = "settled"
)

// Market represents a binary prediction market quote
type Market struct {
	Ticker    string       `db:"ticker" json:"ticker" validate:"required"`
	Title     string       `db:"title" json:"title"`
	YesPrice  float64      `db:"yes_price" json:"yes_price" validate:"gte=0,lte=1"`
	NoPrice   float64      `db:"no_price" json:"no_price" validate:"gte=0,lte=1"`
	Volume    float64      `db:"volume" json:"volume" validate:"gte=0"`
	HomeTeam  string       `db:"home_team" json:"home_team"`
	AwayTeam  string       `db:"away_team" json:"away_team"`
	Sector    string       `db:"sector" json:"sector"`
	CloseTime time.Time    `db:"close_time" json:"close_time"`
	Status    MarketStatus `db:"status" json:"status" validate:"oneof=active closed settled"`
}

// IsActive checks if the market is still trading
func (m *Market) IsActive() bool {
	return m.Status == MarketStatusActive
}

// TickerSuffix returns the trailing dash-delimited segment of the ticker.
// ok is false when the ticker has no dash or the segment is empty.
func (m *Market) TickerSuffix() (string, bool) {
	idx := strings.LastIndex(m.Ticker, "-")
	if idx < 0 || idx == len(m.Ticker)-1 {
		return "", false
	}
	return m.Ticker[idx+1:], true
}
