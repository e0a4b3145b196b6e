package scoring

import "stock-advisor/internal/indicator"

// TechnicalRawMax is the raw ceiling of the technical component.
const TechnicalRawMax = 120

// ComputeTechnicalScore tiers the indicator snapshot into a 0-120 raw score.
// Unlike fundamentals, missing price history is treated as uncertainty rather
// than weakness: a nil snapshot or a missing individual indicator contributes
// its midpoint, so thin-history tickers drift toward neutral instead of
// collapsing to zero.
func ComputeTechnicalScore(snap *indicator.TechnicalSnapshot, th Thresholds) ScoreComponent {
	if snap == nil {
		return newComponent(CategoryTechnical, 60, TechnicalRawMax,
			[]string{"insufficient price history, neutral technical stance"}, th)
	}

	var details []string
	raw := 0.0

	// RSI, 0-15. Lower RSI scores higher: this component rewards entries,
	// so oversold conditions are opportunity and overbought is risk.
	if snap.RSI != nil {
		rsi := *snap.RSI
		score := 0.0
		switch {
		case rsi < 25:
			score = 15
		case rsi < 30:
			score = 13
		case rsi < 40:
			score = 10
		case rsi < 55:
			score = 7
		case rsi < 65:
			score = 4
		case rsi < 75:
			score = 2
		}
		details = detailf(details, "RSI %.1f: %.0f/15", rsi, score)
		raw += score
	} else {
		raw += 7
		details = append(details, "RSI unavailable: 7/15 neutral")
	}

	// MACD, 0-35: trend base plus histogram momentum and divergence.
	if snap.MACD != nil {
		score := 0.0
		switch snap.MACD.Trend {
		case "bullish":
			score = 20
		case "bearish":
			score = 2
		default:
			score = 10
		}
		if snap.MACD.HistogramImproving() {
			score += 8
		}
		if snap.MACD.LatestHistogram() > 0 {
			score += 7
		}
		switch snap.MACDDivergence {
		case "bullish":
			score += 7
		case "bearish":
			score -= 7
		}
		score = clamp(score, 0, 35)
		details = detailf(details, "MACD %s trend, divergence=%q: %.0f/35",
			snap.MACD.Trend, snap.MACDDivergence, score)
		raw += score
	} else {
		raw += 17
		details = append(details, "MACD unavailable: 17/35 neutral")
	}

	// Bollinger position, 0-10, plus a squeeze bonus.
	if snap.Bollinger != nil {
		upper := snap.Bollinger.LatestUpper()
		middle := snap.Bollinger.LatestMiddle()
		lower := snap.Bollinger.LatestLower()
		score := 0.0
		switch {
		case snap.Price <= lower:
			score = 8
		case snap.Price <= lower*1.02:
			score = 6
		case snap.Price < middle:
			score = 4
		case snap.Price <= upper:
			score = 2
		}
		if w := snap.Bollinger.WidthPercent(); w > 0 && w < 5 {
			score += 2
			details = detailf(details, "bollinger squeeze, width %.1f%%", w)
		}
		score = clamp(score, 0, 10)
		details = detailf(details, "bollinger position: %.0f/10", score)
		raw += score
	} else {
		raw += 5
		details = append(details, "bollinger unavailable: 5/10 neutral")
	}

	// ADX, 0-25: trend strength only helps when the direction is up.
	if snap.ADX != nil {
		score := 10.0
		switch snap.ADX.Direction {
		case "bullish":
			switch snap.ADX.Strength {
			case "strong":
				score = 25
			case "moderate":
				score = 19
			case "weak":
				score = 14
			}
		case "bearish":
			switch snap.ADX.Strength {
			case "strong":
				score = 0
			case "moderate":
				score = 4
			case "weak":
				score = 7
			}
		}
		details = detailf(details, "ADX %.1f %s/%s: %.0f/25",
			snap.ADX.ADX, snap.ADX.Strength, snap.ADX.Direction, score)
		raw += score
	} else {
		raw += 12
		details = append(details, "ADX unavailable: 12/25 neutral")
	}

	// 200-day MA regime, 0-25.
	if dist, ok := snap.DistanceFromMA200(); ok {
		score := 0.0
		switch {
		case dist > 2 && snap.MA200Rising:
			score = 25
		case dist > 2:
			score = 20
		case dist >= -2:
			score = 14
		case dist >= -10:
			score = 8
		default:
			score = 3
		}
		details = detailf(details, "price %.1f%% vs 200MA (rising=%v): %.0f/25",
			dist, snap.MA200Rising, score)
		raw += score
	} else {
		raw += 12
		details = append(details, "200MA unavailable: 12/25 neutral")
	}

	// Volume confirmation, 0-10.
	{
		obvBullish := snap.OBV != nil && snap.OBV.Trend == "bullish"
		score := 4.0
		switch {
		case snap.VolumeSpike && obvBullish:
			score = 10
		case snap.VolumeSpike:
			score = 8
		case snap.VolumeRatio > 1.2:
			score = 6
		case obvBullish:
			score = 6
		case snap.VolumeRatio > 0 && snap.VolumeRatio < 0.5:
			score = 1
		}
		details = detailf(details, "volume (spike=%v): %.0f/10", snap.VolumeSpike, score)
		raw += score
	}

	return newComponent(CategoryTechnical, raw, TechnicalRawMax, details, th)
}
