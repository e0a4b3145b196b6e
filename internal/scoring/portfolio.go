package scoring

import "stock-advisor/internal/market"

// PortfolioRawMax is the raw ceiling of the portfolio-fit component.
const PortfolioRawMax = 100

// ComputePortfolioScore tiers how well adding to an existing position fits the
// holder's book: upside to their own target, entry relative to average cost,
// position sizing, and the state of the unrealized P&L. Only meaningful in
// holdings mode; research mode never calls it.
func ComputePortfolioScore(p *market.PortfolioContext, currentPrice float64, th Thresholds) ScoreComponent {
	if p == nil {
		return newComponent(CategoryPortfolio, 0, PortfolioRawMax,
			[]string{"no portfolio context"}, th)
	}

	var details []string
	raw := 0.0

	// Upside to the holder's personal target, 0-35.
	if p.PersonalTargetPrice != nil && currentPrice > 0 {
		upside := (*p.PersonalTargetPrice - currentPrice) / currentPrice * 100
		score := 0.0
		switch {
		case upside >= 40:
			score = 35
		case upside >= 25:
			score = 28
		case upside >= 15:
			score = 21
		case upside >= 5:
			score = 14
		case upside >= 0:
			score = 8
		}
		details = detailf(details, "personal target upside %.1f%%: %.0f/35", upside, score)
		raw += score
	} else {
		raw += 17
		details = append(details, "no personal target: 17/35 neutral")
	}

	// Price relative to average cost, 0-25. Buying below your own basis
	// improves the position; chasing far above it does not.
	if p.AverageCost > 0 && currentPrice > 0 {
		diff := (currentPrice - p.AverageCost) / p.AverageCost * 100
		score := 0.0
		switch {
		case diff <= -20:
			score = 25
		case diff <= -10:
			score = 20
		case diff < 0:
			score = 15
		case diff <= 10:
			score = 10
		case diff <= 25:
			score = 5
		default:
			score = 2
		}
		details = detailf(details, "price %.1f%% vs avg cost: %.0f/25", diff, score)
		raw += score
	} else {
		details = append(details, "avg cost unavailable: 0/25")
	}

	// Position weight, 0-20, rewarding a sizeable-but-not-concentrated slot.
	{
		w := p.PositionWeight
		score := 3.0
		switch {
		case w >= 3 && w <= 6:
			score = 20
		case (w >= 2 && w < 3) || (w > 6 && w <= 8):
			score = 15
		case (w >= 1 && w < 2) || (w > 8 && w <= 10):
			score = 10
		case (w >= 0.5 && w < 1) || (w > 10 && w <= 12):
			score = 6
		}
		details = detailf(details, "position weight %.1f%%: %.0f/20", w, score)
		raw += score
	}

	// Unrealized gain state, 0-20. A small gain or small loss is the most
	// comfortable add; deep drawdowns and huge winners both argue caution.
	{
		g := p.UnrealizedGainPct
		score := 0.0
		switch {
		case g >= 0 && g <= 15:
			score = 20
		case g > 15 && g <= 30:
			score = 16
		case g >= -10 && g < 0:
			score = 12
		case g > 30 && g <= 60:
			score = 10
		case g >= -25 && g < -10:
			score = 8
		case g > 60:
			score = 6
		default:
			score = 4
		}
		details = detailf(details, "unrealized gain %.1f%%: %.0f/20", g, score)
		raw += score
	}

	return newComponent(CategoryPortfolio, raw, PortfolioRawMax, details, th)
}
