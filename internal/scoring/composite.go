package scoring

import (
	"math"

	"stock-advisor/internal/market"
)

// CompositeBreakdown carries every component that fed a composite score so a
// recommendation can explain exactly where each point came from.
type CompositeBreakdown struct {
	Fundamental ScoreComponent  `json:"fundamental"`
	Technical   ScoreComponent  `json:"technical"`
	Analyst     ScoreComponent  `json:"analyst"`
	NewsInsider ScoreComponent  `json:"news_insider"`
	Portfolio   *ScoreComponent `json:"portfolio,omitempty"`
	Weights     Weights         `json:"weights"`
	Composite   int             `json:"composite"`
	Sentiment   string          `json:"sentiment"`
}

// ComputeComposite blends the component percentages under the weight profile
// for the given view mode. Holdings mode includes the portfolio component;
// research mode redistributes its weight across the other four. The result is
// rounded to an integer and clamped to 0-100.
func ComputeComposite(mode market.ViewMode, fundamental, technical, analyst, news ScoreComponent,
	portfolio *ScoreComponent, th Thresholds) CompositeBreakdown {

	weights := th.ResearchWeights
	if mode == market.ModeHoldings {
		weights = th.HoldingsWeights
	}

	sum := fundamental.Percent*weights.Fundamental +
		technical.Percent*weights.Technical +
		analyst.Percent*weights.Analyst +
		news.Percent*weights.NewsInsider
	if mode == market.ModeHoldings && portfolio != nil {
		sum += portfolio.Percent * weights.Portfolio
	}

	composite := int(clamp(math.Round(sum), 0, 100))
	b := CompositeBreakdown{
		Fundamental: fundamental,
		Technical:   technical,
		Analyst:     analyst,
		NewsInsider: news,
		Weights:     weights,
		Composite:   composite,
		Sentiment:   th.SentimentLabel(float64(composite)),
	}
	if mode == market.ModeHoldings {
		b.Portfolio = portfolio
	}
	return b
}
