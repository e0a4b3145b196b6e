package scoring

import "stock-advisor/internal/market"

// NewsInsiderRawMax is the normalized ceiling of the news/insider component.
// The sub-scores sum to 60 raw points and are scaled up so the component
// reports on the same 0-100 footing as the others.
const NewsInsiderRawMax = 100

// InsiderWindow is the result of restricting insider activity to a trailing
// month window anchored at an as-of date.
type InsiderWindow struct {
	Months        []market.InsiderMonthly
	AvgMSPR       *float64
	NetShareTotal float64
}

// FilterInsiderMonths keeps the monthly records that fall inside the trailing
// window ending at asOf. Records are matched by calendar month distance, so a
// 3-month window anchored in March keeps January through March. When no record
// lands inside the window the most recent min(months, len) records are used as
// a fallback rather than discarding insider data entirely.
func FilterInsiderMonths(data *market.InsiderData, rng market.InsiderTimeRange, asOfYear, asOfMonth int) InsiderWindow {
	months := int(rng)
	if !rng.IsValid() {
		months = int(market.InsiderRange3M)
	}
	var w InsiderWindow
	if data == nil || len(data.Monthly) == 0 {
		return w
	}

	anchor := asOfYear*12 + asOfMonth
	for _, rec := range data.Monthly {
		diff := anchor - (rec.Year*12 + rec.Month)
		if diff >= 0 && diff < months {
			w.Months = append(w.Months, rec)
		}
	}
	if len(w.Months) == 0 {
		n := months
		if n > len(data.Monthly) {
			n = len(data.Monthly)
		}
		w.Months = append(w.Months, data.Monthly[:n]...)
	}

	sum := 0.0
	for _, rec := range w.Months {
		sum += rec.MSPR
		w.NetShareTotal += rec.NetShareChange
	}
	avg := sum / float64(len(w.Months))
	w.AvgMSPR = &avg
	return w
}

// ComputeNewsInsiderScore blends recent headline sentiment (0-35) with insider
// buy/sell pressure (0-25), then normalizes to 0-100. Missing data on either
// side contributes its midpoint.
func ComputeNewsInsiderScore(articles []market.NewsArticle, insider *market.InsiderData,
	rng market.InsiderTimeRange, asOfYear, asOfMonth int, th Thresholds) ScoreComponent {

	var details []string
	raw := 0.0

	// News sentiment, 0-35, average across the retrieved articles.
	if len(articles) > 0 {
		sum := 0.0
		for _, art := range articles {
			sum += art.SentimentScore
		}
		avg := sum / float64(len(articles))
		score := 0.0
		switch {
		case avg > 0.5:
			score = 35
		case avg >= 0.15:
			score = 28
		case avg >= -0.15:
			score = 17
		case avg >= -0.5:
			score = 8
		}
		details = detailf(details, "avg sentiment %.2f over %d articles: %.0f/35", avg, len(articles), score)
		raw += score
	} else {
		raw += 17.5
		details = append(details, "no recent news: 17.5/35 neutral")
	}

	// Insider MSPR, 0-25, over the selected trailing window. MSPR runs
	// -100 (heavy selling) to +100 (heavy buying).
	mspr := insiderMSPR(insider, rng, asOfYear, asOfMonth)
	if mspr != nil {
		score := 0.0
		switch {
		case *mspr > 50:
			score = 25
		case *mspr > 20:
			score = 20
		case *mspr > 0:
			score = 15
		case *mspr > -20:
			score = 10
		case *mspr > -50:
			score = 5
		}
		details = detailf(details, "insider MSPR %.1f over %dM: %.0f/25", *mspr, int(rng), score)
		raw += score
	} else {
		raw += 12.5
		details = append(details, "no insider data: 12.5/25 neutral")
	}

	// Scale the 0-60 raw blend onto the component's 0-100 footing.
	return newComponent(CategoryNewsInsider, raw/60*NewsInsiderRawMax, NewsInsiderRawMax, details, th)
}

func insiderMSPR(insider *market.InsiderData, rng market.InsiderTimeRange, asOfYear, asOfMonth int) *float64 {
	if insider == nil {
		return nil
	}
	if len(insider.Monthly) > 0 {
		return FilterInsiderMonths(insider, rng, asOfYear, asOfMonth).AvgMSPR
	}
	return insider.AggregateMSPR
}
