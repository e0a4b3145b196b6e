package scoring

import (
	"testing"

	"stock-advisor/internal/market"
)

func fp(v float64) *float64 { return &v }

func strongFundamentals() *market.FundamentalMetrics {
	return &market.FundamentalMetrics{
		PERatio:       fp(15),
		PEGRatio:      fp(0.9),
		ROE:           fp(27),
		NetMargin:     fp(22),
		RevenueGrowth: fp(18),
		RevenueCAGR5Y: fp(16),
		DebtToEquity:  fp(0.2),
		CurrentRatio:  fp(2.4),
	}
}

func TestFundamentalScoreStrongCompany(t *testing.T) {
	th := DefaultThresholds()
	c := ComputeFundamentalScore(strongFundamentals(), th)

	// 20 PEG + 20 P/E + 30 ROE + 25 margin + 20 growth + 10 D/E + 10 CR = 135
	if c.RawScore != 135 {
		t.Fatalf("raw score = %.1f, want 135", c.RawScore)
	}
	if c.Sentiment != SentimentBullish {
		t.Errorf("sentiment = %s, want bullish", c.Sentiment)
	}
	if len(c.Details) == 0 {
		t.Error("expected score details")
	}
}

func TestFundamentalScoreEmptyData(t *testing.T) {
	c := ComputeFundamentalScore(&market.FundamentalMetrics{}, DefaultThresholds())
	if c.RawScore != 0 || c.Percent != 0 {
		t.Fatalf("empty fundamentals scored %.1f (%.1f%%), want 0", c.RawScore, c.Percent)
	}
	if c.Sentiment != SentimentBearish {
		t.Errorf("sentiment = %s, want bearish", c.Sentiment)
	}
}

func TestFundamentalROELeveragePenalty(t *testing.T) {
	th := DefaultThresholds()
	clean := ComputeFundamentalScore(&market.FundamentalMetrics{ROE: fp(26)}, th)
	levered := ComputeFundamentalScore(&market.FundamentalMetrics{ROE: fp(26), DebtToEquity: fp(3.0)}, th)

	// The levered variant picks up 0/10 on debt/equity either way; the ROE
	// sub-score drops by the 6-point penalty.
	if clean.RawScore-levered.RawScore != 6 {
		t.Fatalf("penalty = %.1f, want 6 (clean %.1f, levered %.1f)",
			clean.RawScore-levered.RawScore, clean.RawScore, levered.RawScore)
	}
}

func TestFundamentalSuspiciouslyCheapScoresZero(t *testing.T) {
	c := ComputeFundamentalScore(&market.FundamentalMetrics{PEGRatio: fp(0.1)}, DefaultThresholds())
	if c.RawScore != 0 {
		t.Fatalf("PEG 0.1 scored %.1f, want 0", c.RawScore)
	}
}

func TestTechnicalScoreNilSnapshotIsNeutral(t *testing.T) {
	c := ComputeTechnicalScore(nil, DefaultThresholds())
	if c.RawScore != 60 || c.RawMax != TechnicalRawMax {
		t.Fatalf("nil snapshot scored %.1f/%.1f, want 60/120", c.RawScore, c.RawMax)
	}
	if c.Sentiment != SentimentNeutral {
		t.Errorf("sentiment = %s, want neutral", c.Sentiment)
	}
}

func TestAnalystScoreStrongCoverage(t *testing.T) {
	a := &market.AnalystData{
		ConsensusScore: fp(1.6),
		StrongBuy:      20,
		Buy:            8,
		Hold:           2,
		AnalystCount:   30,
		TargetPrice:    fp(140),
	}
	c := ComputeAnalystScore(a, 100, DefaultThresholds())

	// 50 consensus + 15 coverage + 10 upside + 5 distribution = 80.
	if c.RawScore != 80 {
		t.Fatalf("raw score = %.1f, want 80", c.RawScore)
	}
}

func TestAnalystScoreNoData(t *testing.T) {
	c := ComputeAnalystScore(nil, 100, DefaultThresholds())
	// Neutral midpoints: 25 + 0 + 5 + 2 = 32.
	if c.RawScore != 32 {
		t.Fatalf("raw score = %.1f, want 32", c.RawScore)
	}
}

func TestNewsInsiderScoreBullish(t *testing.T) {
	articles := []market.NewsArticle{
		{SentimentScore: 0.8},
		{SentimentScore: 0.6},
	}
	insider := &market.InsiderData{
		Monthly: []market.InsiderMonthly{
			{Year: 2025, Month: 3, MSPR: 60, NetShareChange: 12000},
			{Year: 2025, Month: 2, MSPR: 55, NetShareChange: 8000},
		},
	}
	c := ComputeNewsInsiderScore(articles, insider, market.InsiderRange3M, 2025, 3, DefaultThresholds())

	// 35 news + 25 insider = 60 raw, normalized to 100.
	if c.RawScore != 100 {
		t.Fatalf("raw score = %.1f, want 100", c.RawScore)
	}
}

func TestNewsInsiderScoreNoDataIsNeutral(t *testing.T) {
	c := ComputeNewsInsiderScore(nil, nil, market.InsiderRange3M, 2025, 3, DefaultThresholds())
	if c.Percent != 50 {
		t.Fatalf("percent = %.1f, want 50", c.Percent)
	}
}

func TestFilterInsiderMonthsWindow(t *testing.T) {
	data := &market.InsiderData{
		Monthly: []market.InsiderMonthly{
			{Year: 2025, Month: 3, MSPR: 30},
			{Year: 2025, Month: 2, MSPR: 10},
			{Year: 2025, Month: 1, MSPR: -10},
			{Year: 2024, Month: 11, MSPR: -90},
		},
	}
	w := FilterInsiderMonths(data, market.InsiderRange3M, 2025, 3)
	if len(w.Months) != 3 {
		t.Fatalf("kept %d months, want 3", len(w.Months))
	}
	if *w.AvgMSPR != 10 {
		t.Errorf("avg MSPR = %.1f, want 10", *w.AvgMSPR)
	}
}

func TestFilterInsiderMonthsFallback(t *testing.T) {
	// All records predate the window; the most recent ones are used instead.
	data := &market.InsiderData{
		Monthly: []market.InsiderMonthly{
			{Year: 2023, Month: 6, MSPR: 40},
			{Year: 2023, Month: 5, MSPR: 20},
			{Year: 2023, Month: 4, MSPR: 0},
			{Year: 2023, Month: 3, MSPR: -20},
		},
	}
	w := FilterInsiderMonths(data, market.InsiderRange2M, 2025, 3)
	if len(w.Months) != 2 {
		t.Fatalf("fallback kept %d months, want 2", len(w.Months))
	}
	if *w.AvgMSPR != 30 {
		t.Errorf("avg MSPR = %.1f, want 30", *w.AvgMSPR)
	}
}

func TestPortfolioScoreIdealAdd(t *testing.T) {
	p := &market.PortfolioContext{
		PositionWeight:      4,
		AverageCost:         120,
		UnrealizedGainPct:   10,
		PersonalTargetPrice: fp(150),
	}
	c := ComputePortfolioScore(p, 100, DefaultThresholds())

	// 35 target upside (50%) + 20 below cost (-16.7%) + 20 weight + 20 gain = 95.
	if c.RawScore != 95 {
		t.Fatalf("raw score = %.1f, want 95", c.RawScore)
	}
}

func TestPortfolioScoreNilContext(t *testing.T) {
	c := ComputePortfolioScore(nil, 100, DefaultThresholds())
	if c.RawScore != 0 {
		t.Fatalf("raw score = %.1f, want 0", c.RawScore)
	}
}

func TestComponentPercentInvariant(t *testing.T) {
	th := DefaultThresholds()
	components := []ScoreComponent{
		ComputeFundamentalScore(strongFundamentals(), th),
		ComputeTechnicalScore(nil, th),
		ComputeAnalystScore(nil, 0, th),
		ComputeNewsInsiderScore(nil, nil, market.InsiderRange3M, 2025, 3, th),
		ComputePortfolioScore(nil, 0, th),
	}
	for _, c := range components {
		if c.Percent < 0 || c.Percent > 100 {
			t.Errorf("%s percent %.2f out of range", c.Category, c.Percent)
		}
		want := c.RawScore / c.RawMax * 100
		if diff := c.Percent - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s percent %.4f does not match raw/%0.f", c.Category, c.Percent, c.RawMax)
		}
	}
}

func TestCompositeWeightsByMode(t *testing.T) {
	th := DefaultThresholds()
	full := ScoreComponent{Category: CategoryFundamental, Percent: 100}
	zero := ScoreComponent{Percent: 0}
	port := ScoreComponent{Category: CategoryPortfolio, Percent: 100}

	holdings := ComputeComposite(market.ModeHoldings, full, zero, zero, zero, &port, th)
	// 100*0.28 + 100*0.20 = 48.
	if holdings.Composite != 48 {
		t.Fatalf("holdings composite = %d, want 48", holdings.Composite)
	}
	if holdings.Portfolio == nil {
		t.Error("holdings breakdown missing portfolio component")
	}

	research := ComputeComposite(market.ModeResearch, full, zero, zero, zero, nil, th)
	// 100*0.35 = 35.
	if research.Composite != 35 {
		t.Fatalf("research composite = %d, want 35", research.Composite)
	}
	if research.Portfolio != nil {
		t.Error("research breakdown should omit portfolio component")
	}
}

func TestCompositeBounds(t *testing.T) {
	th := DefaultThresholds()
	hundred := ScoreComponent{Percent: 100}
	port := ScoreComponent{Percent: 100}
	b := ComputeComposite(market.ModeHoldings, hundred, hundred, hundred, hundred, &port, th)
	if b.Composite != 100 {
		t.Fatalf("max composite = %d, want 100", b.Composite)
	}
	if b.Sentiment != SentimentBullish {
		t.Errorf("sentiment = %s, want bullish", b.Sentiment)
	}
}

func TestResolveTargetPriceProvenance(t *testing.T) {
	personal := &market.PortfolioContext{PersonalTargetPrice: fp(200)}
	analyst := &market.AnalystData{TargetPrice: fp(180), ConsensusEstimate: fp(170)}

	if tp := ResolveTargetPrice(personal, analyst); tp == nil || tp.Source != TargetSourcePersonal || tp.Value != 200 {
		t.Fatalf("personal target not preferred: %+v", tp)
	}
	if tp := ResolveTargetPrice(nil, analyst); tp == nil || tp.Source != TargetSourceAnalyst || tp.Value != 180 {
		t.Fatalf("analyst target not used: %+v", tp)
	}
	estimateOnly := &market.AnalystData{ConsensusEstimate: fp(170)}
	if tp := ResolveTargetPrice(nil, estimateOnly); tp == nil || tp.Source != TargetSourceConsensus {
		t.Fatalf("consensus estimate fallback not used: %+v", tp)
	}
	if tp := ResolveTargetPrice(nil, nil); tp != nil {
		t.Fatalf("expected nil target, got %+v", tp)
	}
}

func TestConvictionLevels(t *testing.T) {
	th := DefaultThresholds()
	a := &market.AnalystData{ConsensusScore: fp(1.4), EarningsBeatStreak: 5}
	target := &TargetPrice{Value: 130, Source: TargetSourceAnalyst}

	c := ComputeConvictionScore(strongFundamentals(), a, nil, fp(30), 100, target, th)
	// 40 quality + 30 market validation + 10 insider momentum = 80.
	if c.Score != 80 {
		t.Fatalf("score = %d, want 80", c.Score)
	}
	if c.Level != ConvictionHigh {
		t.Errorf("level = %s, want HIGH", c.Level)
	}

	low := ComputeConvictionScore(nil, nil, nil, nil, 0, nil, th)
	if low.Level != ConvictionLow {
		t.Errorf("empty inputs level = %s, want LOW", low.Level)
	}
}
