// Package scoring combines indicator output with fundamental, analyst, news,
// insider and portfolio data into weighted 0-100 score components, a
// composite score, a dip score, a conviction score and buy/exit strategy
// levels. Everything here is a pure function of its inputs plus an explicit
// Thresholds value; missing data degrades to documented defaults instead of
// producing errors.
package scoring

import "fmt"

// Score component categories.
const (
	CategoryFundamental = "fundamental"
	CategoryTechnical   = "technical"
	CategoryAnalyst     = "analyst"
	CategoryNewsInsider = "news_insider"
	CategoryPortfolio   = "portfolio"
)

// Sentiment labels shared by every component.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// ScoreComponent is one weighted slice of the composite score. It is fully
// derived from its inputs and never mutated after creation.
type ScoreComponent struct {
	Category  string   `json:"category"`
	RawScore  float64  `json:"raw_score"`
	RawMax    float64  `json:"raw_max"`
	Percent   float64  `json:"percent"`
	Sentiment string   `json:"sentiment"`
	Details   []string `json:"details,omitempty"`
}

// newComponent clamps the raw score into [0,max], derives the percentage and
// labels the sentiment per the thresholds.
func newComponent(category string, raw, max float64, details []string, th Thresholds) ScoreComponent {
	raw = clamp(raw, 0, max)
	percent := 0.0
	if max > 0 {
		percent = raw / max * 100
	}
	return ScoreComponent{
		Category:  category,
		RawScore:  raw,
		RawMax:    max,
		Percent:   percent,
		Sentiment: th.SentimentLabel(percent),
		Details:   details,
	}
}

// TargetPrice is a resolved target with its provenance, so callers can show
// where the figure came from.
type TargetPrice struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"` // personal, analyst, consensus_estimate
}

// Target price sources in fallback order.
const (
	TargetSourcePersonal  = "personal"
	TargetSourceAnalyst   = "analyst"
	TargetSourceConsensus = "consensus_estimate"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func detailf(details []string, format string, args ...interface{}) []string {
	return append(details, fmt.Sprintf(format, args...))
}
