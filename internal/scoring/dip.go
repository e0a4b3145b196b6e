package scoring

import "stock-advisor/internal/indicator"

// DipScore measures how stretched a pullback is, independent of whether the
// underlying business deserves buying. Qualified is the quality gate: the dip
// only becomes an opportunity when the fundamental, analyst and news
// components clear their floors, which keeps the engine from recommending
// knife-catches on deteriorating names.
type DipScore struct {
	Score     int      `json:"score"`
	Qualified bool     `json:"qualified"`
	Details   []string `json:"details"`
}

// ComputeDipScore sums six oversold signals into a 0-100 dip magnitude and
// applies the quality gate against the already-computed components.
func ComputeDipScore(snap *indicator.TechnicalSnapshot, fundamental, analyst, news ScoreComponent, th Thresholds) DipScore {
	var d DipScore
	if snap == nil {
		d.Details = append(d.Details, "no price history, dip score unavailable")
		return d
	}

	raw := 0.0

	// Oversold RSI, up to 25.
	if snap.RSI != nil {
		score := 0.0
		switch {
		case *snap.RSI <= 25:
			score = 25
		case *snap.RSI <= 30:
			score = 20
		case *snap.RSI <= 35:
			score = 14
		case *snap.RSI <= 40:
			score = 8
		}
		if score > 0 {
			d.Details = detailf(d.Details, "RSI %.1f oversold: +%.0f", *snap.RSI, score)
		}
		raw += score
	}

	// Price at or below the lower Bollinger band, up to 20.
	if snap.Bollinger != nil {
		lower := snap.Bollinger.LatestLower()
		middle := snap.Bollinger.LatestMiddle()
		score := 0.0
		switch {
		case snap.Price <= lower:
			score = 20
		case snap.Price <= lower*1.02:
			score = 15
		case snap.Price <= lower*1.05:
			score = 10
		case snap.Price < middle:
			score = 5
		}
		if score > 0 {
			d.Details = detailf(d.Details, "price near lower bollinger band: +%.0f", score)
		}
		raw += score
	}

	// Stretch below the 200-day MA, up to 20.
	if dist, ok := snap.DistanceFromMA200(); ok && dist < 0 {
		below := -dist
		score := 0.0
		switch {
		case below >= 15:
			score = 20
		case below >= 10:
			score = 15
		case below >= 5:
			score = 10
		default:
			score = 5
		}
		d.Details = detailf(d.Details, "%.1f%% below 200MA: +%.0f", below, score)
		raw += score
	}

	// Drawdown from the 52-week high, up to 15.
	if drop, ok := snap.DropFrom52WeekHigh(); ok && drop >= 10 {
		score := 0.0
		switch {
		case drop >= 35:
			score = 15
		case drop >= 25:
			score = 12
		case drop >= 15:
			score = 8
		default:
			score = 4
		}
		d.Details = detailf(d.Details, "%.1f%% off 52-week high: +%.0f", drop, score)
		raw += score
	}

	// Early reversal evidence from MACD, up to 10.
	if snap.MACD != nil {
		score := 0.0
		if snap.MACDDivergence == "bullish" {
			score = 10
			d.Details = append(d.Details, "bullish MACD divergence: +10")
		} else if snap.MACD.HistogramImproving() {
			score = 6
			d.Details = append(d.Details, "MACD histogram improving: +6")
		}
		raw += score
	}

	// Capitulation volume, up to 10.
	switch {
	case snap.VolumeSpike:
		raw += 10
		d.Details = append(d.Details, "volume spike: +10")
	case snap.VolumeRatio > 1.2:
		raw += 5
		d.Details = append(d.Details, "elevated volume: +5")
	}

	d.Score = int(clamp(raw, 0, 100))

	d.Qualified = fundamental.Percent >= th.DipGateFundamental &&
		analyst.Percent >= th.DipGateAnalyst &&
		news.Percent >= th.DipGateNews
	if d.Score > 0 && !d.Qualified {
		d.Details = detailf(d.Details,
			"quality gate failed (fundamental %.0f%%/%.0f%%, analyst %.0f%%/%.0f%%, news %.0f%%/%.0f%%)",
			fundamental.Percent, th.DipGateFundamental,
			analyst.Percent, th.DipGateAnalyst,
			news.Percent, th.DipGateNews)
	}
	return d
}
