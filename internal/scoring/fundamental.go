package scoring

import "stock-advisor/internal/market"

// FundamentalRawMax is the raw ceiling of the fundamental component.
const FundamentalRawMax = 140

// ComputeFundamentalScore tiers valuation, profitability, growth and balance
// sheet ratios into a 0-140 raw score. A ticker with no fundamentals at all
// scores 0: absence of filings is treated as a genuine negative, not as
// uncertainty. Note the deliberate skepticism toward outliers: an extremely
// cheap PEG or P/E scores low and is flagged for verification, because "too
// cheap" usually means the market knows something the screen does not.
func ComputeFundamentalScore(f *market.FundamentalMetrics, th Thresholds) ScoreComponent {
	if f.Empty() {
		return newComponent(CategoryFundamental, 0, FundamentalRawMax,
			[]string{"no fundamental data available"}, th)
	}

	var details []string
	raw := 0.0

	// PEG, 0-20. The ideal band is 0.5-1.2.
	if f.PEGRatio != nil {
		peg := *f.PEGRatio
		score := 0.0
		switch {
		case peg <= 0:
			details = detailf(details, "PEG %.2f non-positive: 0/20", peg)
		case peg < 0.3:
			details = detailf(details, "PEG %.2f suspiciously cheap: 0/20 (verify)", peg)
		case peg < 0.5:
			score = 12
		case peg <= 1.2:
			score = 20
		case peg <= 1.8:
			score = 14
		case peg <= 2.5:
			score = 8
		case peg <= 3.5:
			score = 4
		default:
			details = detailf(details, "PEG %.2f overvalued: 0/20", peg)
		}
		if score > 0 {
			details = detailf(details, "PEG %.2f: %.0f/20", peg, score)
		}
		raw += score
	} else {
		details = append(details, "PEG unavailable: 0/20")
	}

	// Absolute P/E, 0-20, sweet spot 10-20.
	if f.PERatio != nil {
		pe := *f.PERatio
		score := 0.0
		switch {
		case pe <= 0:
			details = detailf(details, "P/E %.1f non-positive: 0/20", pe)
		case pe < 5:
			score = 4
			details = detailf(details, "P/E %.1f extremely low: 4/20 (verify)", pe)
		case pe < 10:
			score = 14
		case pe <= 20:
			score = 20
		case pe <= 30:
			score = 12
		case pe <= 45:
			score = 6
		case pe <= 60:
			score = 3
		default:
			details = detailf(details, "P/E %.1f very expensive: 0/20", pe)
		}
		if score > 0 && pe >= 5 {
			details = detailf(details, "P/E %.1f: %.0f/20", pe, score)
		}
		raw += score
	} else {
		details = append(details, "P/E unavailable: 0/20")
	}

	// ROE, 0-30, penalized when the return is juiced by leverage.
	if f.ROE != nil {
		roe := *f.ROE
		score := 0.0
		switch {
		case roe >= 25:
			score = 30
		case roe >= 20:
			score = 26
		case roe >= 15:
			score = 22
		case roe >= 10:
			score = 15
		case roe >= 5:
			score = 8
		case roe >= 0:
			score = 3
		}
		if f.DebtToEquity != nil && *f.DebtToEquity > 1.5 && score > 0 {
			penalty := 3.0
			if *f.DebtToEquity > 2.5 {
				penalty = 6.0
			}
			score = clamp(score-penalty, 0, 30)
			details = detailf(details, "ROE %.1f%% with D/E %.2f leverage penalty -%.0f: %.0f/30",
				roe, *f.DebtToEquity, penalty, score)
		} else {
			details = detailf(details, "ROE %.1f%%: %.0f/30", roe, score)
		}
		raw += score
	} else {
		details = append(details, "ROE unavailable: 0/30")
	}

	// Net margin, 0-25.
	if f.NetMargin != nil {
		m := *f.NetMargin
		score := 0.0
		switch {
		case m >= 20:
			score = 25
		case m >= 15:
			score = 20
		case m >= 10:
			score = 15
		case m >= 5:
			score = 9
		case m > 0:
			score = 4
		}
		details = detailf(details, "net margin %.1f%%: %.0f/25", m, score)
		raw += score
	} else {
		details = append(details, "net margin unavailable: 0/25")
	}

	// Revenue growth, 0-25.
	if f.RevenueGrowth != nil {
		g := *f.RevenueGrowth
		score := 0.0
		switch {
		case g >= 25:
			score = 25
		case g >= 15:
			score = 20
		case g >= 8:
			score = 14
		case g >= 3:
			score = 8
		case g > 0:
			score = 4
		}
		details = detailf(details, "revenue growth %.1f%%: %.0f/25", g, score)
		raw += score
	} else {
		details = append(details, "revenue growth unavailable: 0/25")
	}

	// Debt/equity, 0-10, lower is better.
	if f.DebtToEquity != nil {
		de := *f.DebtToEquity
		score := 0.0
		switch {
		case de < 0.3:
			score = 10
		case de < 0.6:
			score = 8
		case de < 1.0:
			score = 6
		case de < 1.5:
			score = 4
		case de < 2.5:
			score = 2
		}
		details = detailf(details, "debt/equity %.2f: %.0f/10", de, score)
		raw += score
	} else {
		details = append(details, "debt/equity unavailable: 0/10")
	}

	// Current ratio, 0-10, higher is better.
	if f.CurrentRatio != nil {
		cr := *f.CurrentRatio
		score := 0.0
		switch {
		case cr >= 2.0:
			score = 10
		case cr >= 1.5:
			score = 8
		case cr >= 1.2:
			score = 6
		case cr >= 1.0:
			score = 4
		case cr >= 0.8:
			score = 2
		}
		details = detailf(details, "current ratio %.2f: %.0f/10", cr, score)
		raw += score
	} else {
		details = append(details, "current ratio unavailable: 0/10")
	}

	return newComponent(CategoryFundamental, raw, FundamentalRawMax, details, th)
}
