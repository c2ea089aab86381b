package models

import (
	"fmt"
	"time"
)

// Event represents a live or scheduled sporting event snapshot from the event feed
type Event struct {
	ID           string    `json:"id"`
	Sport        string    `json:"sport"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	HomeAbbr     *string   `json:"home_abbr,omitempty"`
	AwayAbbr     *string   `json:"away_abbr,omitempty"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	Period       int       `json:"period"`
	IsLive       bool      `json:"is_live"`
	IsCompleted  bool      `json:"is_completed"`
	StatusDetail string    `json:"status_detail"`
	StartTime    time.Time `json:"start_time"`
}

// GetHomeAbbr returns the home abbreviation or an empty string if nil
func (e *Event) GetHomeAbbr() string {
	if e.HomeAbbr == nil {
		return ""
	}
	return *e.HomeAbbr
}

// GetAwayAbbr returns the away abbreviation or an empty string if nil
func (e *Event) GetAwayAbbr() string {
	if e.AwayAbbr == nil {
		return ""
	}
	return *e.AwayAbbr
}

// ScoreDifferential returns home score minus away score
func (e *Event) ScoreDifferential() int {
	return e.HomeScore - e.AwayScore
}

// TeamFor returns the team name on the given side
func (e *Event) TeamFor(side Side) string {
	if side == SideAway {
		return e.AwayTeam
	}
	return e.HomeTeam
}

// Validate checks the snapshot invariants of an event
func (e *Event) Validate() error {
	if e.HomeTeam == "" || e.AwayTeam == "" {
		return fmt.Errorf("%w: event %s is missing a team name", ErrInvalidEvent, e.ID)
	}
	if e.HomeScore < 0 || e.AwayScore < 0 {
		return fmt.Errorf("%w: event %s has a negative score", ErrInvalidEvent, e.ID)
	}
	if e.IsCompleted && e.IsLive {
		return fmt.Errorf("%w: event %s is both completed and live", ErrInvalidEvent, e.ID)
	}
	return nil
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
