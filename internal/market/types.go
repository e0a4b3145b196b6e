// Package market defines the input data model consumed by the advisor core:
// price history, fundamentals, analyst coverage, news sentiment, insider
// activity and optional portfolio position context. All of it is supplied by
// external collaborators; nothing in this package performs I/O.
package market

import "time"

// PriceBar is a single daily OHLCV bar. Immutable once recorded.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a chronologically ordered (oldest first) sequence of bars.
type PriceSeries []PriceBar

// Validate checks the series ordering invariant: strictly increasing dates,
// no duplicates.
func (s PriceSeries) Validate() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return false
		}
	}
	return true
}

// Closes returns the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high prices in series order.
func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices in series order.
func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volumes in series order.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// LastDate returns the date of the most recent bar.
func (s PriceSeries) LastDate() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// FundamentalMetrics holds valuation, profitability, growth and leverage
// ratios. Every field is independently nullable: a nil pointer means the
// data provider had no figure, which is distinct from zero.
type FundamentalMetrics struct {
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	PEGRatio      *float64 `json:"peg_ratio,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`            // percent
	NetMargin     *float64 `json:"net_margin,omitempty"`     // percent
	GrossMargin   *float64 `json:"gross_margin,omitempty"`   // percent
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"` // percent, yoy
	EPSGrowth     *float64 `json:"eps_growth,omitempty"`     // percent, yoy
	RevenueCAGR5Y *float64 `json:"revenue_cagr_5y,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio  *float64 `json:"current_ratio,omitempty"`
}

// Empty reports whether no fundamental figure is present at all.
func (f *FundamentalMetrics) Empty() bool {
	if f == nil {
		return true
	}
	return f.PERatio == nil && f.ForwardPE == nil && f.PEGRatio == nil &&
		f.PriceToBook == nil && f.ROE == nil && f.NetMargin == nil &&
		f.GrossMargin == nil && f.RevenueGrowth == nil && f.EPSGrowth == nil &&
		f.RevenueCAGR5Y == nil && f.DebtToEquity == nil && f.CurrentRatio == nil
}

// AnalystData holds consensus, coverage and target information.
type AnalystData struct {
	ConsensusScore     *float64 `json:"consensus_score,omitempty"` // roughly -2..+2
	StrongBuy          int      `json:"strong_buy"`
	Buy                int      `json:"buy"`
	Hold               int      `json:"hold"`
	Sell               int      `json:"sell"`
	StrongSell         int      `json:"strong_sell"`
	AnalystCount       int      `json:"analyst_count"`
	TargetPrice        *float64 `json:"target_price,omitempty"`
	ConsensusEstimate  *float64 `json:"consensus_estimate,omitempty"` // fallback target
	EarningsBeatStreak int      `json:"earnings_beat_streak"`         // consecutive beat quarters
}

// RatingCounts returns the per-bucket counts in strong-buy..strong-sell order.
func (a *AnalystData) RatingCounts() []int {
	return []int{a.StrongBuy, a.Buy, a.Hold, a.Sell, a.StrongSell}
}

// TotalRatings returns the number of ratings across all buckets.
func (a *AnalystData) TotalRatings() int {
	return a.StrongBuy + a.Buy + a.Hold + a.Sell + a.StrongSell
}

// NewsArticle carries a precomputed sentiment score per article. Sentiment
// extraction happens upstream; this core only consumes the score.
type NewsArticle struct {
	Tickers        []string `json:"tickers"`
	Headline       string   `json:"headline"`
	SentimentScore float64  `json:"sentiment_score"` // [-1, 1]
	SentimentLabel string   `json:"sentiment_label,omitempty"`
}

// Mentions reports whether the article references the given ticker.
func (n *NewsArticle) Mentions(ticker string) bool {
	for _, t := range n.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// InsiderMonthly is one month of aggregated insider transaction data.
// MSPR is the market sentiment purchase ratio, roughly -100..+100.
type InsiderMonthly struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	MSPR           float64 `json:"mspr"`
	NetShareChange float64 `json:"net_share_change"`
}

// InsiderData is the insider transaction summary for a ticker. Monthly
// breakdowns are preferred; the aggregate figures are a fallback when no
// monthly data exists.
type InsiderData struct {
	Monthly        []InsiderMonthly `json:"monthly,omitempty"` // most-recent-first
	AggregateMSPR  *float64         `json:"aggregate_mspr,omitempty"`
	AggregateShare *float64         `json:"aggregate_share_change,omitempty"`
}

// InsiderTimeRange is the caller-selected lookback window in months.
type InsiderTimeRange int

// Valid insider lookback windows.
const (
	InsiderRange1M  InsiderTimeRange = 1
	InsiderRange2M  InsiderTimeRange = 2
	InsiderRange3M  InsiderTimeRange = 3
	InsiderRange6M  InsiderTimeRange = 6
	InsiderRange12M InsiderTimeRange = 12
)

// IsValid reports whether the range is one of the supported windows.
func (r InsiderTimeRange) IsValid() bool {
	switch r {
	case InsiderRange1M, InsiderRange2M, InsiderRange3M, InsiderRange6M, InsiderRange12M:
		return true
	}
	return false
}

// PortfolioContext describes the user's existing position in a ticker.
// Present only in Holdings mode.
type PortfolioContext struct {
	PositionWeight      float64  `json:"position_weight"` // % of portfolio value
	AverageCost         float64  `json:"average_cost"`
	CurrentValue        float64  `json:"current_value"`
	UnrealizedGainPct   float64  `json:"unrealized_gain_pct"`
	PersonalTargetPrice *float64 `json:"personal_target_price,omitempty"`
}

// ViewMode selects between analyzing an owned position and researching a
// candidate with no position.
type ViewMode string

const (
	ModeHoldings ViewMode = "holdings"
	ModeResearch ViewMode = "research"
)
