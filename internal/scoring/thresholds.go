package scoring

// Weights is one composite weighting profile. The weights of the active
// components should sum to 1.0.
type Weights struct {
	Fundamental float64 `json:"fundamental"`
	Technical   float64 `json:"technical"`
	Analyst     float64 `json:"analyst"`
	NewsInsider float64 `json:"news_insider"`
	Portfolio   float64 `json:"portfolio"`
}

// Thresholds is the immutable set of global scoring constants. It is passed
// explicitly into every scoring and signal function so tests can substitute
// alternate sets without touching package state.
type Thresholds struct {
	// Composite weight profiles.
	HoldingsWeights Weights `json:"holdings_weights"`
	ResearchWeights Weights `json:"research_weights"`

	// Sentiment labeling cutoffs on a component's percentage.
	BullishPercent float64 `json:"bullish_percent"`
	BearishPercent float64 `json:"bearish_percent"`

	// Dip score trigger and the quality gate that separates a sound buying
	// opportunity from a statistically oversold but untrustworthy dip.
	DipTrigger         float64 `json:"dip_trigger"`
	DipGateFundamental float64 `json:"dip_gate_fundamental"`
	DipGateAnalyst     float64 `json:"dip_gate_analyst"`
	DipGateNews        float64 `json:"dip_gate_news"`

	// Conviction level bands.
	ConvictionHigh   float64 `json:"conviction_high"`
	ConvictionMedium float64 `json:"conviction_medium"`

	// DCA tier boundaries on position weight (% of portfolio value).
	NoDCAWeight       float64 `json:"no_dca_weight"`
	CautiousDCAWeight float64 `json:"cautious_dca_weight"`
	NormalDCAWeight   float64 `json:"normal_dca_weight"`

	// Stop-loss drawdown per conviction level.
	DrawdownHigh   float64 `json:"drawdown_high"`
	DrawdownMedium float64 `json:"drawdown_medium"`
	DrawdownLow    float64 `json:"drawdown_low"`
}

// DefaultThresholds returns the production threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoldingsWeights: Weights{
			Fundamental: 0.28,
			Technical:   0.24,
			Analyst:     0.16,
			NewsInsider: 0.12,
			Portfolio:   0.20,
		},
		ResearchWeights: Weights{
			Fundamental: 0.35,
			Technical:   0.30,
			Analyst:     0.20,
			NewsInsider: 0.15,
		},

		BullishPercent: 65,
		BearishPercent: 35,

		DipTrigger:         50,
		DipGateFundamental: 35,
		DipGateAnalyst:     25,
		DipGateNews:        20,

		ConvictionHigh:   70,
		ConvictionMedium: 45,

		NoDCAWeight:       12,
		CautiousDCAWeight: 8,
		NormalDCAWeight:   3,

		DrawdownHigh:   0.15,
		DrawdownMedium: 0.12,
		DrawdownLow:    0.08,
	}
}

// SentimentLabel maps a component percentage onto a sentiment label.
func (t Thresholds) SentimentLabel(percent float64) string {
	switch {
	case percent >= t.BullishPercent:
		return SentimentBullish
	case percent <= t.BearishPercent:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
