package matching

import (
	"github.com/yourusername/sports-edge/internal/models"
)

// Matcher finds the market for an event and resolves its yes side
type Matcher struct {
	defaultYesSide models.Side
}

// NewMatcher creates a matcher. defaultYesSide applies when the ticker
// suffix names neither team; an invalid value falls back to home.
func NewMatcher(defaultYesSide models.Side) *Matcher {
	if !defaultYesSide.Valid() {
		defaultYesSide = models.SideHome
	}
	return &Matcher{defaultYesSide: defaultYesSide}
}

// DefaultYesSide returns the configured fallback side
func (m *Matcher) DefaultYesSide() models.Side {
	return m.defaultYesSide
}

// Match probes the index in precedence order and returns the odds of the
// first hit. No match is reported as (nil, false), never as an error.
func (m *Matcher) Match(event *models.Event, idx *Index) (*models.MatchedOdds, bool) {
	if event == nil || idx.Len() == 0 {
		return nil, false
	}

	keys := NewEventKeys(event)
	for _, probe := range ProbeOrder(keys, idx.Strategies()) {
		market, ok := idx.Lookup(probe)
		if !ok {
			continue
		}
		side := ResolveYesSide(market, event.GetHomeAbbr(), event.GetAwayAbbr(), m.defaultYesSide)
		return OddsFor(market, side), true
	}
	return nil, false
}

// Enrich matches every event against the index, preserving input order
func (m *Matcher) Enrich(events []models.Event, idx *Index) []models.EnrichedEvent {
	enriched := make([]models.EnrichedEvent, len(events))
	for i := range events {
		odds, _ := m.Match(&events[i], idx)
		enriched[i] = models.EnrichedEvent{Event: events[i], Odds: odds}
	}
	return enriched
}
