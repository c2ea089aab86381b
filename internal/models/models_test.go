package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarketTickerSuffix(t *testing.T) {
	tests := []struct {
		ticker string
		suffix string
		ok     bool
	}{
		{"KXNFLGAME-25NOV20BUFHOU-BUF", "BUF", true},
		{"NOSUFFIX", "", false},
		{"TRAILING-", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			m := &Market{Ticker: tt.ticker}
			suffix, ok := m.TickerSuffix()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.suffix, suffix)
		})
	}
}

func TestEventValidate(t *testing.T) {
	valid := Event{ID: "1", HomeTeam: "Houston Texans", AwayTeam: "Buffalo Bills"}
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.AwayScore = -3
	assert.ErrorIs(t, negative.Validate(), ErrInvalidEvent)

	contradictory := valid
	contradictory.IsLive = true
	contradictory.IsCompleted = true
	assert.ErrorIs(t, contradictory.Validate(), ErrInvalidEvent)

	missingTeam := valid
	missingTeam.HomeTeam = ""
	assert.ErrorIs(t, missingTeam.Validate(), ErrInvalidEvent)
}

func TestEventAbbreviations(t *testing.T) {
	e := Event{HomeAbbr: StringPtr("HOU")}
	assert.Equal(t, "HOU", e.GetHomeAbbr())
	assert.Equal(t, "", e.GetAwayAbbr())
	assert.Nil(t, StringPtr(""))
}

func TestSoftFailure(t *testing.T) {
	wrapped := fmt.Errorf("refresh markets: %w", ErrFetchFailed)
	assert.True(t, IsSoftFailure(wrapped))
	assert.False(t, IsSoftFailure(errors.New("boom")))
	assert.False(t, IsSoftFailure(nil))
}

func TestMatchedOddsPriceFor(t *testing.T) {
	odds := MatchedOdds{AwayWinPrice: 0.72, HomeWinPrice: 0.28}
	assert.Equal(t, 0.72, odds.PriceFor(SideAway))
	assert.Equal(t, 0.28, odds.PriceFor(SideHome))
	assert.Equal(t, SideAway, SideHome.Opposite())
}
