// Package ranking orders opportunities by a weighted combination of edge,
// expected value and model confidence.
package ranking

import (
	"math"
	"sort"

	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/models"
)

// Ranker scores and sorts opportunities
type Ranker struct {
	edgeWeight       float64
	evWeight         float64
	confidenceWeight float64
}

// DefaultRankingConfig returns the standard score weights
func DefaultRankingConfig() config.RankingConfig {
	return config.RankingConfig{
		EdgeWeight:       0.4,
		EVWeight:         40,
		ConfidenceWeight: 20,
	}
}

// NewRanker creates a ranker. An all-zero config falls back to the defaults.
func NewRanker(cfg config.RankingConfig) *Ranker {
	if cfg.EdgeWeight == 0 && cfg.EVWeight == 0 && cfg.ConfidenceWeight == 0 {
		cfg = DefaultRankingConfig()
	}
	return &Ranker{
		edgeWeight:       cfg.EdgeWeight,
		evWeight:         cfg.EVWeight,
		confidenceWeight: cfg.ConfidenceWeight,
	}
}

// Score computes the combined score of an opportunity.
// Edge counts in percentage points, EV is normalized per 100 staked and
// clamped to [0, 1], confidence is taken on a 0-1 scale.
func (r *Ranker) Score(opp *models.Opportunity) float64 {
	ev := math.Max(0, math.Min(1, opp.ExpectedValue/100))
	if math.IsNaN(ev) {
		ev = 0
	}

	score := opp.EdgePercent()*r.edgeWeight +
		ev*r.evWeight +
		(opp.ConfidenceScore/100)*r.confidenceWeight
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// Rank returns a scored copy of opps sorted by combined score, highest first.
// Equal scores keep their input order. The input slice is not modified.
func (r *Ranker) Rank(opps []models.Opportunity) []models.Opportunity {
	ranked := make([]models.Opportunity, len(opps))
	copy(ranked, opps)

	for i := range ranked {
		ranked[i].CombinedScore = r.Score(&ranked[i])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})

	return ranked
}
