package scoring

import (
	"stock-advisor/internal/indicator"
	"stock-advisor/internal/market"
)

// Conviction levels.
const (
	ConvictionHigh   = "HIGH"
	ConvictionMedium = "MEDIUM"
	ConvictionLow    = "LOW"
)

// ConvictionScore grades how much confidence the engine has in a name over a
// multi-month horizon, as distinct from whether today is a good entry. It
// blends business quality (40), market validation (30) and momentum plus
// smart-money confirmation (30).
type ConvictionScore struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Details []string `json:"details"`
}

// ResolveTargetPrice picks the most personal target available: the holder's
// own target first, then the street consensus target, then the consensus
// earnings-derived estimate. Returns nil when nothing is available.
func ResolveTargetPrice(portfolio *market.PortfolioContext, analyst *market.AnalystData) *TargetPrice {
	if portfolio != nil && portfolio.PersonalTargetPrice != nil {
		return &TargetPrice{Value: *portfolio.PersonalTargetPrice, Source: TargetSourcePersonal}
	}
	if analyst != nil {
		if analyst.TargetPrice != nil {
			return &TargetPrice{Value: *analyst.TargetPrice, Source: TargetSourceAnalyst}
		}
		if analyst.ConsensusEstimate != nil {
			return &TargetPrice{Value: *analyst.ConsensusEstimate, Source: TargetSourceConsensus}
		}
	}
	return nil
}

// ComputeConvictionScore grades long-horizon confidence on a 0-100 scale.
func ComputeConvictionScore(f *market.FundamentalMetrics, a *market.AnalystData,
	snap *indicator.TechnicalSnapshot, insiderMSPR *float64, currentPrice float64,
	target *TargetPrice, th Thresholds) ConvictionScore {

	var c ConvictionScore
	raw := 0.0

	// Business quality, 0-40.
	if f != nil && !f.Empty() {
		if f.ROE != nil {
			switch {
			case *f.ROE >= 20:
				raw += 12
			case *f.ROE >= 12:
				raw += 9
			case *f.ROE >= 5:
				raw += 5
			}
		}
		if f.RevenueCAGR5Y != nil {
			switch {
			case *f.RevenueCAGR5Y >= 15:
				raw += 10
			case *f.RevenueCAGR5Y >= 8:
				raw += 7
			case *f.RevenueCAGR5Y >= 3:
				raw += 4
			}
		}
		if f.NetMargin != nil {
			switch {
			case *f.NetMargin >= 15:
				raw += 10
			case *f.NetMargin >= 8:
				raw += 7
			case *f.NetMargin >= 3:
				raw += 4
			}
		}
		if f.DebtToEquity != nil {
			switch {
			case *f.DebtToEquity < 0.5:
				raw += 8
			case *f.DebtToEquity < 1.0:
				raw += 6
			case *f.DebtToEquity < 2.0:
				raw += 3
			}
		}
		c.Details = detailf(c.Details, "business quality: %.0f/40", raw)
	} else {
		c.Details = append(c.Details, "no fundamentals: 0/40 business quality")
	}

	// Market validation, 0-30.
	mkt := 0.0
	if a != nil && a.ConsensusScore != nil {
		switch {
		case *a.ConsensusScore >= 1.0:
			mkt += 12
		case *a.ConsensusScore >= 0.5:
			mkt += 9
		case *a.ConsensusScore >= 0:
			mkt += 6
		case *a.ConsensusScore >= -0.5:
			mkt += 3
		}
	}
	if target != nil && currentPrice > 0 {
		upside := (target.Value - currentPrice) / currentPrice * 100
		switch {
		case upside >= 25:
			mkt += 10
		case upside >= 10:
			mkt += 7
		case upside >= 0:
			mkt += 4
		}
	}
	if a != nil {
		switch {
		case a.EarningsBeatStreak >= 4:
			mkt += 8
		case a.EarningsBeatStreak >= 2:
			mkt += 5
		case a.EarningsBeatStreak >= 1:
			mkt += 2
		}
	}
	c.Details = detailf(c.Details, "market validation: %.0f/30", mkt)
	raw += mkt

	// Momentum and smart money, 0-30.
	mom := 0.0
	if insiderMSPR != nil {
		switch {
		case *insiderMSPR >= 20:
			mom += 10
		case *insiderMSPR >= 15:
			mom += 7
		case *insiderMSPR >= 10:
			mom += 4
		}
	}
	if snap != nil {
		if dist, ok := snap.DistanceFromMA200(); ok {
			switch {
			case dist > 2 && snap.MA200Rising:
				mom += 12
			case dist > 2:
				mom += 9
			case dist >= -2:
				mom += 6
			default:
				mom += 2
			}
		}
		if snap.OBV != nil {
			switch snap.OBV.Trend {
			case "bullish":
				mom += 8
			case "bearish":
				mom += 2
			default:
				mom += 5
			}
		}
	}
	c.Details = detailf(c.Details, "momentum and insiders: %.0f/30", mom)
	raw += mom

	c.Score = int(clamp(raw, 0, 100))
	switch {
	case float64(c.Score) >= th.ConvictionHigh:
		c.Level = ConvictionHigh
	case float64(c.Score) >= th.ConvictionMedium:
		c.Level = ConvictionMedium
	default:
		c.Level = ConvictionLow
	}
	return c
}
