package scoring

import (
	"math"
	"sort"

	"stock-advisor/internal/indicator"
	"stock-advisor/internal/market"
)

// DCA stances for the buy strategy.
const (
	DCANone       = "NO_DCA"
	DCACautious   = "CAUTIOUS_DCA"
	DCANormal     = "NORMAL_DCA"
	DCAAggressive = "AGGRESSIVE_DCA"
)

// Holding period horizons for the exit strategy.
const (
	HoldingLong   = "LONG"
	HoldingMedium = "MEDIUM"
	HoldingSwing  = "SWING"
)

// BuyStrategy describes where and how aggressively to accumulate.
type BuyStrategy struct {
	BuyZoneLow  float64  `json:"buy_zone_low"`
	BuyZoneHigh float64  `json:"buy_zone_high"`
	Support     *float64 `json:"support,omitempty"`
	DCAAdvice   string   `json:"dca_advice"`
	RiskReward  *float64 `json:"risk_reward,omitempty"`
	Details     []string `json:"details"`
}

// TakeProfitLevel is one rung of the staged exit ladder.
type TakeProfitLevel struct {
	Price   float64 `json:"price"`
	GainPct float64 `json:"gain_pct"`
}

// ExitStrategy describes how to get out: a resistance reference, a staged
// take-profit ladder, a stop, a trailing stop and a holding horizon.
type ExitStrategy struct {
	Resistance      *float64          `json:"resistance,omitempty"`
	TakeProfits     []TakeProfitLevel `json:"take_profits"`
	StopLoss        float64           `json:"stop_loss"`
	TrailingStopPct float64           `json:"trailing_stop_pct"`
	HoldingPeriod   string            `json:"holding_period"`
	Details         []string          `json:"details"`
}

// supportLevel picks a support reference from the lower Bollinger band, the
// 200-day MA and the 52-week low. With two or more candidates it takes the
// second lowest: the absolute floor is usually a capitulation print, and the
// level just above it is the one that actually holds.
func supportLevel(snap *indicator.TechnicalSnapshot) *float64 {
	if snap == nil {
		return nil
	}
	var candidates []float64
	if snap.Bollinger != nil {
		if l := snap.Bollinger.LatestLower(); l > 0 {
			candidates = append(candidates, l)
		}
	}
	if snap.MA200 != nil && *snap.MA200 > 0 {
		candidates = append(candidates, *snap.MA200)
	}
	if snap.Low52Week != nil && *snap.Low52Week > 0 {
		candidates = append(candidates, *snap.Low52Week)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Float64s(candidates)
	idx := 0
	if len(candidates) >= 2 {
		idx = 1
	}
	s := candidates[idx]
	return &s
}

// BuildBuyStrategy derives the buy zone, DCA stance and risk/reward for the
// current setup. portfolio may be nil in research mode.
func BuildBuyStrategy(snap *indicator.TechnicalSnapshot, portfolio *market.PortfolioContext,
	currentPrice float64, target *TargetPrice, th Thresholds) BuyStrategy {

	var s BuyStrategy
	s.Support = supportLevel(snap)

	// Buy zone: from support (or a 10% discount when no support is known)
	// up to the current price, capped just above the holder's basis so the
	// zone never tells them to add materially above their own cost.
	low := currentPrice * 0.9
	if s.Support != nil && *s.Support < currentPrice {
		low = *s.Support
	}
	high := currentPrice
	if portfolio != nil && portfolio.AverageCost > 0 {
		if limit := portfolio.AverageCost * 1.05; limit < high {
			high = limit
		}
	}
	if low > high {
		low, high = high, low
	}
	s.BuyZoneLow = low
	s.BuyZoneHigh = high
	s.Details = detailf(s.Details, "buy zone %.2f-%.2f", low, high)

	// DCA stance keys off position weight: past the concentration limit no
	// amount of conviction justifies adding more.
	weight := 0.0
	if portfolio != nil {
		weight = portfolio.PositionWeight
	}
	switch {
	case weight > th.NoDCAWeight:
		s.DCAAdvice = DCANone
		s.Details = detailf(s.Details, "position weight %.1f%% over limit, no further buys", weight)
	case weight >= th.CautiousDCAWeight:
		s.DCAAdvice = DCACautious
	case weight >= th.NormalDCAWeight:
		s.DCAAdvice = DCANormal
	default:
		s.DCAAdvice = DCAAggressive
	}

	if target != nil && s.Support != nil && *s.Support < currentPrice && target.Value > currentPrice {
		rr := (target.Value - currentPrice) / (currentPrice - *s.Support)
		rr = math.Round(rr*100) / 100
		s.RiskReward = &rr
		s.Details = detailf(s.Details, "risk/reward %.2f to %s target %.2f", rr, target.Source, target.Value)
	}
	return s
}

// resistanceLevel picks the nearest level above the current price from the
// upper Bollinger band, the 52-week high and, in a downtrend, the Fibonacci
// retracement levels overhead.
func resistanceLevel(snap *indicator.TechnicalSnapshot, currentPrice float64) *float64 {
	if snap == nil {
		return nil
	}
	var candidates []float64
	if snap.Bollinger != nil {
		candidates = append(candidates, snap.Bollinger.LatestUpper())
	}
	if snap.High52Week != nil {
		candidates = append(candidates, *snap.High52Week)
	}
	if snap.Fibonacci != nil && snap.Fibonacci.Trend == "downtrend" {
		for _, lvl := range snap.Fibonacci.Retracements() {
			candidates = append(candidates, lvl)
		}
	}
	var nearest *float64
	for _, c := range candidates {
		if c <= currentPrice {
			continue
		}
		if nearest == nil || c < *nearest {
			v := c
			nearest = &v
		}
	}
	return nearest
}

// BuildExitStrategy derives the take-profit ladder, stop loss, trailing stop
// and holding horizon. Gains scale with conviction and are nudged by the
// composite sentiment; the stop anchors on the holder's cost basis in
// holdings mode and the current price in research mode.
func BuildExitStrategy(snap *indicator.TechnicalSnapshot, portfolio *market.PortfolioContext,
	currentPrice float64, target *TargetPrice, conviction ConvictionScore,
	sentiment string, th Thresholds) ExitStrategy {

	var e ExitStrategy
	e.Resistance = resistanceLevel(snap, currentPrice)

	// Take-profit ladder: three rungs scaled by conviction and sentiment.
	scale := 1.0
	switch conviction.Level {
	case ConvictionHigh:
		scale = 1.3
	case ConvictionLow:
		scale = 0.8
	}
	switch sentiment {
	case SentimentBullish:
		scale *= 1.2
	case SentimentBearish:
		scale *= 0.8
	}
	gains := []float64{8, 15, 25}
	for i := range gains {
		gains[i] *= scale
	}

	// Reconcile the ladder with external reference points: pull the top
	// rung down to the target when the target sits below it, and cap every
	// rung at the 52-week high unless conviction argues for a breakout.
	if target != nil && currentPrice > 0 && target.Value > currentPrice {
		targetGain := (target.Value - currentPrice) / currentPrice * 100
		if targetGain < gains[2] {
			gains[2] = targetGain
		}
	}
	if snap != nil && snap.High52Week != nil && currentPrice > 0 && conviction.Level != ConvictionHigh {
		highGain := (*snap.High52Week - currentPrice) / currentPrice * 100
		for i := range gains {
			if highGain > 0 && gains[i] > highGain {
				gains[i] = highGain
			}
		}
	}
	sort.Float64s(gains)
	for _, g := range gains {
		g = math.Round(g*10) / 10
		e.TakeProfits = append(e.TakeProfits, TakeProfitLevel{
			Price:   math.Round(currentPrice*(1+g/100)*100) / 100,
			GainPct: g,
		})
	}
	e.Details = detailf(e.Details, "take-profit ladder scaled %.2fx for %s conviction", scale, conviction.Level)

	// Stop loss: drawdown tolerance widens with conviction. Holdings mode
	// anchors the stop on average cost; when already underwater the stop
	// is floored at support so a recoverable dip does not force an exit.
	dd := th.DrawdownLow
	switch conviction.Level {
	case ConvictionHigh:
		dd = th.DrawdownHigh
	case ConvictionMedium:
		dd = th.DrawdownMedium
	}
	anchor := currentPrice
	if portfolio != nil && portfolio.AverageCost > 0 {
		anchor = portfolio.AverageCost
	}
	e.StopLoss = math.Round(anchor*(1-dd)*100) / 100
	if portfolio != nil && portfolio.UnrealizedGainPct < 0 {
		if sup := supportLevel(snap); sup != nil && *sup < currentPrice && *sup < e.StopLoss {
			e.StopLoss = math.Round(*sup*0.99*100) / 100
			e.Details = append(e.Details, "position underwater, stop floored below support")
		}
	}

	// Trailing stop tightens as the gain grows.
	gain := 0.0
	if portfolio != nil {
		gain = portfolio.UnrealizedGainPct
	}
	switch {
	case gain >= 50:
		e.TrailingStopPct = 6
	case gain >= 30:
		e.TrailingStopPct = 8
	case gain >= 20:
		e.TrailingStopPct = 10
	default:
		switch conviction.Level {
		case ConvictionHigh:
			e.TrailingStopPct = 10
		case ConvictionMedium:
			e.TrailingStopPct = 12
		default:
			e.TrailingStopPct = 15
		}
	}

	// Holding horizon from conviction, shortened by bearish sentiment, with
	// an override: a big winner held on shaky conviction is a swing trade.
	switch conviction.Level {
	case ConvictionHigh:
		e.HoldingPeriod = HoldingLong
		if sentiment == SentimentBearish {
			e.HoldingPeriod = HoldingMedium
		}
	case ConvictionMedium:
		e.HoldingPeriod = HoldingMedium
		if sentiment == SentimentBearish {
			e.HoldingPeriod = HoldingSwing
		}
	default:
		e.HoldingPeriod = HoldingSwing
	}
	if gain > 50 && conviction.Level != ConvictionHigh {
		e.HoldingPeriod = HoldingSwing
		e.Details = append(e.Details, "large gain on non-high conviction, swing horizon")
	}
	return e
}
