package signal

import (
	"testing"

	"stock-advisor/internal/indicator"
	"stock-advisor/internal/market"
	"stock-advisor/internal/scoring"
)

func fp(v float64) *float64 { return &v }

func baseEvaluation() *Evaluation {
	return &Evaluation{
		Mode:       market.ModeResearch,
		Composite:  scoring.CompositeBreakdown{Composite: 50, Sentiment: scoring.SentimentNeutral},
		Conviction: scoring.ConvictionScore{Score: 50, Level: scoring.ConvictionMedium},
		Thresholds: scoring.DefaultThresholds(),
	}
}

func findSignal(res Result, signalType string) *Signal {
	for i := range res.Signals {
		if res.Signals[i].Type == signalType {
			return &res.Signals[i]
		}
	}
	return nil
}

func TestGenerateNeutralFallback(t *testing.T) {
	res := Generate(baseEvaluation())

	if len(res.Signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(res.Signals))
	}
	if res.Signals[0].Type != TypeNeutral || res.Signals[0].Category != CategoryQuality {
		t.Fatalf("unexpected fallback signal %+v", res.Signals[0])
	}
	if len(res.Trace) == 0 {
		t.Error("expected a rule trace")
	}
}

func TestGenerateQualifiedDipFires(t *testing.T) {
	ev := baseEvaluation()
	ev.Dip = scoring.DipScore{Score: 80, Qualified: true}
	res := Generate(ev)

	s := findSignal(res, TypeDipOpportunity)
	if s == nil {
		t.Fatal("qualified deep dip did not fire")
	}
	if s.Strength != 80 {
		t.Errorf("dip strength = %d, want the dip score 80", s.Strength)
	}
	if s.Label != StrengthStrong {
		t.Errorf("dip 80 label = %s, want STRONG", s.Label)
	}
	if s.Priority != 1 {
		t.Errorf("dip priority = %d, want 1", s.Priority)
	}
}

func TestGenerateDeepDipBlockedByQualityGate(t *testing.T) {
	ev := baseEvaluation()
	ev.Dip = scoring.DipScore{Score: 80, Qualified: false}
	res := Generate(ev)

	if findSignal(res, TypeDipOpportunity) != nil {
		t.Fatal("unqualified dip must not emit DIP_OPPORTUNITY")
	}
	for _, tr := range res.Trace {
		if tr.Rule == "dip_opportunity" {
			if tr.Matched {
				t.Error("trace claims the dip rule matched")
			}
			return
		}
	}
	t.Error("dip rule missing from trace")
}

func TestGenerateAtMostOneActionSignal(t *testing.T) {
	// Both dip and accumulate conditions hold; only the higher-priority dip
	// may emit.
	ev := baseEvaluation()
	ev.Dip = scoring.DipScore{Score: 60, Qualified: true}
	ev.Composite.Composite = 80
	ev.Conviction.Level = scoring.ConvictionHigh
	res := Generate(ev)

	actions := 0
	for _, s := range res.Signals {
		if s.Category == CategoryAction {
			actions++
		}
	}
	if actions != 1 {
		t.Fatalf("emitted %d action signals, want 1", actions)
	}
	if res.Signals[0].Type != TypeDipOpportunity {
		t.Errorf("first signal = %s, want DIP_OPPORTUNITY", res.Signals[0].Type)
	}
	if len(res.Signals) > 2 {
		t.Errorf("emitted %d signals, cap is 2", len(res.Signals))
	}
}

func TestGenerateTakeProfitNeedsPositionAndOverbought(t *testing.T) {
	ev := baseEvaluation()
	ev.Mode = market.ModeHoldings
	ev.Portfolio = &market.PortfolioContext{UnrealizedGainPct: 55, PositionWeight: 5}
	ev.Snapshot = &indicator.TechnicalSnapshot{Price: 150, RSI: fp(78)}
	res := Generate(ev)

	s := findSignal(res, TypeTakeProfit)
	if s == nil {
		t.Fatal("expected TAKE_PROFIT")
	}
	if s.Strength != 75 || s.Label != StrengthStrong {
		t.Errorf("55%% gain strength = %d/%s, want 75/STRONG", s.Strength, s.Label)
	}
	// RSI 78 also makes it overbought on the quality side.
	if findSignal(res, TypeOverbought) == nil {
		t.Error("expected OVERBOUGHT quality signal alongside")
	}

	// Same gain without the overbought reading stays quiet.
	ev.Snapshot.RSI = fp(55)
	if s := findSignal(Generate(ev), TypeTakeProfit); s != nil {
		t.Error("TAKE_PROFIT fired without overbought RSI")
	}
}

func TestGenerateTrimOversizedPosition(t *testing.T) {
	ev := baseEvaluation()
	ev.Mode = market.ModeHoldings
	ev.Portfolio = &market.PortfolioContext{PositionWeight: 15}
	res := Generate(ev)

	if findSignal(res, TypeTrimPosition) == nil {
		t.Fatal("expected TRIM_POSITION at 15% weight")
	}
}

func TestGenerateAccumulateBlockedAtConcentration(t *testing.T) {
	ev := baseEvaluation()
	ev.Mode = market.ModeHoldings
	ev.Composite.Composite = 80
	ev.Conviction.Level = scoring.ConvictionHigh
	ev.Portfolio = &market.PortfolioContext{PositionWeight: 14}
	res := Generate(ev)

	if findSignal(res, TypeAccumulate) != nil {
		t.Fatal("ACCUMULATE must not fire past the concentration limit")
	}
	// The overweight position trips the trim rule instead.
	if findSignal(res, TypeTrimPosition) == nil {
		t.Error("expected TRIM_POSITION instead")
	}
}

func TestGenerateWeakStock(t *testing.T) {
	ev := baseEvaluation()
	ev.Composite.Composite = 25
	res := Generate(ev)

	s := findSignal(res, TypeWeakStock)
	if s == nil {
		t.Fatal("expected WEAK_STOCK at composite 25")
	}
	if s.Strength != 55 || s.Label != StrengthModerate {
		t.Errorf("strength = %d/%s, want 55/MODERATE", s.Strength, s.Label)
	}
}

func TestGenerateHighQuality(t *testing.T) {
	ev := baseEvaluation()
	ev.Composite.Composite = 78
	ev.Conviction.Level = scoring.ConvictionHigh
	res := Generate(ev)

	s := findSignal(res, TypeHighQuality)
	if s == nil {
		t.Fatal("expected HIGH_QUALITY")
	}
	if s.Strength != 80 || s.Label != StrengthStrong {
		t.Errorf("strength = %d/%s, want 80/STRONG", s.Strength, s.Label)
	}
	// It should also produce the ACCUMULATE action with no position held.
	if findSignal(res, TypeAccumulate) == nil {
		t.Error("expected ACCUMULATE action")
	}
	if len(res.Signals) != 2 {
		t.Errorf("emitted %d signals, want 2", len(res.Signals))
	}
}

func TestTraceRecordsEveryRule(t *testing.T) {
	res := Generate(baseEvaluation())
	want := len(actionRules) + len(qualityRules) + 1 // neutral fallback entry
	if len(res.Trace) != want {
		t.Fatalf("trace has %d entries, want %d", len(res.Trace), want)
	}
	for _, tr := range res.Trace {
		if tr.Reason == "" {
			t.Errorf("rule %s has an empty reason", tr.Rule)
		}
	}
}

func TestSignalStrengthIsNumeric(t *testing.T) {
	evals := []*Evaluation{baseEvaluation()}

	dip := baseEvaluation()
	dip.Dip = scoring.DipScore{Score: 100, Qualified: true}
	evals = append(evals, dip)

	gain := baseEvaluation()
	gain.Mode = market.ModeHoldings
	gain.Portfolio = &market.PortfolioContext{UnrealizedGainPct: 95, PositionWeight: 5}
	gain.Snapshot = &indicator.TechnicalSnapshot{Price: 150, RSI: fp(78)}
	evals = append(evals, gain)

	for _, ev := range evals {
		for _, s := range Generate(ev).Signals {
			if s.Strength < 0 || s.Strength > 100 {
				t.Errorf("%s strength %d out of [0,100]", s.Type, s.Strength)
			}
			if s.Label != StrengthLabel(s.Strength) {
				t.Errorf("%s label %s does not derive from strength %d", s.Type, s.Label, s.Strength)
			}
		}
	}
}

func TestStrengthLabelBands(t *testing.T) {
	cases := []struct {
		strength int
		want     string
	}{
		{100, StrengthStrong},
		{70, StrengthStrong},
		{69, StrengthModerate},
		{40, StrengthModerate},
		{39, StrengthWeak},
		{0, StrengthWeak},
	}
	for _, tc := range cases {
		if got := StrengthLabel(tc.strength); got != tc.want {
			t.Errorf("StrengthLabel(%d) = %s, want %s", tc.strength, got, tc.want)
		}
	}
}

func TestPriorityOrdering(t *testing.T) {
	if Priority(TypeDipOpportunity) >= Priority(TypeAccumulate) {
		t.Error("dip must outrank accumulate")
	}
	if Priority(TypeAccumulate) >= Priority(TypeNeutral) {
		t.Error("actions must outrank the neutral label")
	}
	if Priority("bogus") != 99 {
		t.Errorf("unknown type priority = %d, want 99", Priority("bogus"))
	}
}
