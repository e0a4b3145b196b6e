package scoring

import "stock-advisor/internal/market"

// AnalystRawMax is the raw ceiling of the analyst component.
const AnalystRawMax = 80

// ComputeAnalystScore tiers street coverage into a 0-80 raw score. The
// consensus score dominates; breadth of coverage, target upside and the
// shape of the rating distribution refine it. currentPrice is used for the
// target upside sub-score and may be zero when no quote is available.
func ComputeAnalystScore(a *market.AnalystData, currentPrice float64, th Thresholds) ScoreComponent {
	var details []string
	raw := 0.0

	// Consensus, 0-50, on the -2..+2 scale (strong sell..strong buy).
	if a != nil && a.ConsensusScore != nil {
		c := *a.ConsensusScore
		score := 0.0
		switch {
		case c >= 1.5:
			score = 50
		case c >= 1.0:
			score = 42
		case c >= 0.5:
			score = 34
		case c >= -0.5:
			score = 25
		case c >= -1.0:
			score = 15
		case c >= -1.5:
			score = 7
		}
		details = detailf(details, "consensus %.2f: %.0f/50", c, score)
		raw += score
	} else {
		raw += 25
		details = append(details, "no consensus score: 25/50 neutral")
	}

	// Coverage breadth, 0-15. A consensus built on two analysts is noise.
	count := 0
	if a != nil {
		count = a.AnalystCount
	}
	{
		score := 0.0
		switch {
		case count >= 30:
			score = 15
		case count >= 20:
			score = 12
		case count >= 10:
			score = 9
		case count >= 5:
			score = 6
		case count >= 2:
			score = 3
		}
		details = detailf(details, "%d analysts covering: %.0f/15", count, score)
		raw += score
	}

	// Target upside, 0-10.
	if a != nil && a.TargetPrice != nil && currentPrice > 0 {
		upside := (*a.TargetPrice - currentPrice) / currentPrice * 100
		score := 0.0
		switch {
		case upside >= 30:
			score = 10
		case upside >= 20:
			score = 8
		case upside >= 10:
			score = 6
		case upside >= 0:
			score = 4
		case upside >= -10:
			score = 2
		}
		details = detailf(details, "target upside %.1f%%: %.0f/10", upside, score)
		raw += score
	} else {
		raw += 5
		details = append(details, "no price target: 5/10 neutral")
	}

	// Distribution conviction, 0-5: a lopsided rating mix in either
	// direction means the street actually agrees on something.
	if a != nil && a.TotalRatings() > 0 {
		total := a.TotalRatings()
		largest := 0
		for _, n := range a.RatingCounts() {
			if n > largest {
				largest = n
			}
		}
		majority := float64(largest) / float64(total) * 100
		score := 1.0
		switch {
		case majority > 60:
			score = 5
		case majority > 45:
			score = 3
		}
		details = detailf(details, "majority bucket %.0f%%: %.0f/5", majority, score)
		raw += score
	} else {
		raw += 2
		details = append(details, "no rating distribution: 2/5 neutral")
	}

	return newComponent(CategoryAnalyst, raw, AnalystRawMax, details, th)
}
