package models

// ConfidenceTier is a coarse confidence bucket for an opportunity
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "HIGH"
	ConfidenceMedium ConfidenceTier = "MEDIUM"
	ConfidenceLow    ConfidenceTier = "LOW"
)

// Opportunity represents a ranked value opportunity on one side of an event
type Opportunity struct {
	Event             Event          `json:"event"`
	Side              Side           `json:"side"`
	Team              string         `json:"team"`
	Ticker            string         `json:"ticker"`
	ModelProbability  float64        `json:"model_probability"`
	MarketProbability float64        `json:"market_probability"`
	Edge              float64        `json:"edge"`
	ExpectedValue     float64        `json:"expected_value"`
	KellyFraction     float64        `json:"kelly_fraction"`
	ConfidenceScore   float64        `json:"confidence_score"`
	ConfidenceTier    ConfidenceTier `json:"confidence_tier"`
	CombinedScore     float64        `json:"combined_score"`
}

// EdgePercent returns the edge expressed in percentage points
func (o *Opportunity) EdgePercent() float64 {
	return o.Edge * 100
}
