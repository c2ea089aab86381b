// Package edge computes edge, expected value and Kelly stake sizing for a
// model probability against a market price, and assigns confidence tiers.
package edge

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/models"
	"github.com/yourusername/sports-edge/internal/probability"
)

const (
	// stakeUnit is the notional stake the expected value is quoted against
	stakeUnit = 100.0

	// maxKellyCap bounds the staked fraction whatever the configuration says
	maxKellyCap = 0.25
)

// Evaluation holds the value metrics for one side of a market
type Evaluation struct {
	Edge          float64               `json:"edge"`
	ExpectedValue float64               `json:"expected_value"`
	KellyFraction float64               `json:"kelly_fraction"`
	Tier          models.ConfidenceTier `json:"tier"`
}

// Calculator evaluates model probabilities against market prices
type Calculator struct {
	minEdge         float64
	kellyMultiplier float64
	kellyCap        float64
	bankroll        float64
	tiers           []config.TierConfig
	now             func() time.Time
}

// DefaultEdgeConfig returns the standard filtering and sizing parameters
func DefaultEdgeConfig() config.EdgeConfig {
	return config.EdgeConfig{
		MinEdge:         0.02,
		KellyMultiplier: 0.25,
		KellyCap:        0.25,
		Bankroll:        1000,
		Tiers: []config.TierConfig{
			{Name: string(models.ConfidenceHigh), MinEdge: 0.15, MinConfidence: 75},
			{Name: string(models.ConfidenceMedium), MinEdge: 0.08, MinConfidence: 60},
		},
	}
}

// NewCalculator creates a calculator. Unset multiplier, cap and tiers fall back to defaults,
// and the cap never exceeds 0.25.
func NewCalculator(cfg config.EdgeConfig) *Calculator {
	defaults := DefaultEdgeConfig()
	if cfg.KellyMultiplier <= 0 {
		cfg.KellyMultiplier = defaults.KellyMultiplier
	}
	if cfg.KellyCap <= 0 {
		cfg.KellyCap = defaults.KellyCap
	}
	cfg.KellyCap = math.Min(cfg.KellyCap, maxKellyCap)
	if len(cfg.Tiers) == 0 {
		cfg.Tiers = defaults.Tiers
	}

	return &Calculator{
		minEdge:         cfg.MinEdge,
		kellyMultiplier: cfg.KellyMultiplier,
		kellyCap:        cfg.KellyCap,
		bankroll:        cfg.Bankroll,
		tiers:           cfg.Tiers,
		now:             time.Now,
	}
}

// MinEdge returns the configured minimum edge
func (c *Calculator) MinEdge() float64 {
	return c.minEdge
}

// Edge returns model probability minus market probability.
// The subtraction is done in decimal so 0.80 - 0.60 yields exactly 0.20.
func (c *Calculator) Edge(modelP, marketP float64) float64 {
	if !finite(modelP) || !finite(marketP) {
		return 0
	}
	return decimal.NewFromFloat(modelP).Sub(decimal.NewFromFloat(marketP)).InexactFloat64()
}

// ExpectedValue returns the expected profit of a 100-unit stake bought at marketP.
// A non-positive market price has no defined payout and yields 0.
func (c *Calculator) ExpectedValue(modelP, marketP float64) float64 {
	if !finite(modelP) || !finite(marketP) || marketP <= 0 {
		return 0
	}
	payout := stakeUnit / marketP
	return modelP*payout - (1-modelP)*stakeUnit
}

// KellyFraction returns the fractional Kelly stake, bounded to [0, cap]
func (c *Calculator) KellyFraction(modelP, marketP float64) float64 {
	if !finite(modelP) || !finite(marketP) || marketP <= 0 {
		return 0
	}

	// net odds per unit staked
	b := 1/marketP - 1
	if b <= 0 {
		return 0
	}

	p := math.Max(0, math.Min(1, modelP))
	kelly := (b*p - (1 - p)) / b
	if kelly <= 0 {
		return 0
	}

	return math.Min(kelly*c.kellyMultiplier, c.kellyCap)
}

// Tier classifies an opportunity by edge and confidence. Rows are checked in order.
func (c *Calculator) Tier(edge, confidence float64) models.ConfidenceTier {
	for _, tier := range c.tiers {
		if edge >= tier.MinEdge && confidence >= tier.MinConfidence {
			return models.ConfidenceTier(tier.Name)
		}
	}
	return models.ConfidenceLow
}

// Evaluate computes all value metrics for one side
func (c *Calculator) Evaluate(modelP, marketP, confidence float64) Evaluation {
	edge := c.Edge(modelP, marketP)
	return Evaluation{
		Edge:          edge,
		ExpectedValue: c.ExpectedValue(modelP, marketP),
		KellyFraction: c.KellyFraction(modelP, marketP),
		Tier:          c.Tier(edge, confidence),
	}
}

// PassesMinEdge reports whether an edge clears the configured threshold
func (c *Calculator) PassesMinEdge(edge float64) bool {
	return edge >= c.minEdge
}

// StakeFor converts a Kelly fraction into a stake rounded to cents
func (c *Calculator) StakeFor(kelly float64) decimal.Decimal {
	if !finite(kelly) || kelly <= 0 || !finite(c.bankroll) || c.bankroll <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(c.bankroll).Mul(decimal.NewFromFloat(kelly)).Round(2)
}

// Opportunity evaluates both sides of a matched event and returns the side with
// the larger edge. Ties go to home. The second result is false when the event
// has no odds, the market has closed, or the best edge is under the minimum.
func (c *Calculator) Opportunity(event *models.Event, odds *models.MatchedOdds, est probability.Estimate) (models.Opportunity, bool) {
	if event == nil || odds == nil {
		return models.Opportunity{}, false
	}
	if !odds.CloseTime.IsZero() && !odds.CloseTime.After(c.now()) {
		return models.Opportunity{}, false
	}

	side := models.SideHome
	homeEdge := c.Edge(est.HomeProbability, odds.HomeWinPrice)
	awayEdge := c.Edge(est.AwayProbability, odds.AwayWinPrice)
	if awayEdge > homeEdge {
		side = models.SideAway
	}

	modelP := est.ProbabilityFor(side)
	marketP := odds.PriceFor(side)
	confidence := probability.Confidence(modelP, est.TimeWeight)
	eval := c.Evaluate(modelP, marketP, confidence)

	if !c.PassesMinEdge(eval.Edge) {
		return models.Opportunity{}, false
	}

	return models.Opportunity{
		Event:             *event,
		Side:              side,
		Team:              event.TeamFor(side),
		Ticker:            odds.Ticker,
		ModelProbability:  modelP,
		MarketProbability: marketP,
		Edge:              eval.Edge,
		ExpectedValue:     eval.ExpectedValue,
		KellyFraction:     eval.KellyFraction,
		ConfidenceScore:   confidence,
		ConfidenceTier:    eval.Tier,
	}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
