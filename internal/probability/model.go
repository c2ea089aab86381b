// Package probability blends market-implied probability with live game state.
package probability

import (
	"math"
	"strings"

	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/models"
)

const (
	// scoreDivisor converts a score differential into a probability shift
	scoreDivisor = 14.0
	// maxScoreShift caps the shift before time weighting
	maxScoreShift = 0.3
	// timeSlots is the period count the time-weight table is written for
	timeSlots = 4
)

// Estimate is the model's view of one matched event
type Estimate struct {
	HomeProbability   float64     `json:"home_probability"`
	AwayProbability   float64     `json:"away_probability"`
	Winner            models.Side `json:"winner"`
	WinnerTeam        string      `json:"winner_team"`
	WinnerProbability float64     `json:"winner_probability"`
	TimeWeight        float64     `json:"time_weight"`
	Adjusted          bool        `json:"adjusted"`
	ConfidenceScore   float64     `json:"confidence_score"`
}

// ProbabilityFor returns the estimated win probability for a side
func (e Estimate) ProbabilityFor(side models.Side) float64 {
	if side == models.SideAway {
		return e.AwayProbability
	}
	return e.HomeProbability
}

// Model estimates win probabilities from matched odds and game state
type Model struct {
	preGame       float64
	periodWeights [timeSlots]float64
	halftime      float64
	final         float64
	sportPeriods  map[string]int
}

// DefaultModelConfig returns the standard time-weight table
func DefaultModelConfig() config.ModelConfig {
	return config.ModelConfig{
		PreGameWeight:  0.10,
		PeriodWeights:  []float64{0.25, 0.50, 0.70, 0.95},
		HalftimeWeight: 0.50,
		FinalWeight:    0.95,
		SportPeriods: map[string]int{
			"nfl": 4, "ncaaf": 4, "nba": 4, "wnba": 4, "ncaab": 2, "nhl": 3, "mlb": 9,
			"soccer": 2, "mls": 2, "epl": 2,
		},
	}
}

// NewModel creates a model from configuration; missing period weights fall back to defaults
func NewModel(cfg config.ModelConfig) *Model {
	defaults := DefaultModelConfig()

	m := &Model{
		preGame:      cfg.PreGameWeight,
		halftime:     cfg.HalftimeWeight,
		final:        cfg.FinalWeight,
		sportPeriods: make(map[string]int, len(cfg.SportPeriods)),
	}

	weights := cfg.PeriodWeights
	if len(weights) != timeSlots {
		weights = defaults.PeriodWeights
	}
	copy(m.periodWeights[:], weights)

	periods := cfg.SportPeriods
	if len(periods) == 0 {
		periods = defaults.SportPeriods
	}
	for sport, n := range periods {
		m.sportPeriods[strings.ToLower(sport)] = n
	}

	return m
}

// Estimate blends the matched odds with the event's live state
func (m *Model) Estimate(event *models.Event, odds *models.MatchedOdds) Estimate {
	home := clampProbability(odds.HomeWinPrice)
	away := clampProbability(odds.AwayWinPrice)
	weight := m.TimeWeight(event)

	est := Estimate{TimeWeight: weight}

	diff := event.ScoreDifferential()
	if event.IsLive && diff != 0 {
		shift := math.Min(math.Abs(float64(diff))/scoreDivisor, maxScoreShift) * weight
		if diff > 0 {
			home, away = home+shift, away-shift
		} else {
			home, away = home-shift, away+shift
		}
		home, away = clampProbability(home), clampProbability(away)

		if sum := home + away; sum > 0 {
			home, away = home/sum, away/sum
		}
		est.Adjusted = true
	}

	est.HomeProbability = home
	est.AwayProbability = away

	est.Winner = models.SideHome
	if away > home {
		est.Winner = models.SideAway
	}
	est.WinnerTeam = event.TeamFor(est.Winner)
	est.WinnerProbability = est.ProbabilityFor(est.Winner)
	est.ConfidenceScore = Confidence(est.WinnerProbability, weight)

	return est
}

// TimeWeight maps elapsed game time onto [0,1]. Sports with other than four
// periods are rescaled onto the four-slot table.
func (m *Model) TimeWeight(event *models.Event) float64 {
	status := strings.ToLower(event.StatusDetail)

	if event.IsCompleted || strings.Contains(status, "final") {
		return m.final
	}
	if !event.IsLive || event.Period <= 0 {
		return m.preGame
	}
	// "1st Half" and "2nd Half" are game clocks, not the break
	if strings.Contains(status, "halftime") {
		return m.halftime
	}

	periods := m.periodsFor(event.Sport)
	if event.Period >= periods {
		return m.final
	}

	slot := int(math.Ceil(float64(event.Period*timeSlots) / float64(periods)))
	if slot < 1 {
		slot = 1
	}
	if slot > timeSlots {
		slot = timeSlots
	}
	return m.periodWeights[slot-1]
}

func (m *Model) periodsFor(sport string) int {
	if n, ok := m.sportPeriods[strings.ToLower(sport)]; ok && n > 0 {
		return n
	}
	return timeSlots
}

// Confidence scores certainty in a side's probability on a 0-100 scale.
// Later game states weigh more.
func Confidence(probability, timeWeight float64) float64 {
	score := 100 * clampProbability(probability) * (0.6 + 0.4*timeWeight)
	return math.Max(0, math.Min(100, score))
}

// clampProbability bounds p to [0,1]; NaN becomes 0
func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p))
}
