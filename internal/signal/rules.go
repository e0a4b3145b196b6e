package signal

import (
	"fmt"

	"stock-advisor/internal/scoring"
)

// rule is one entry in an ordered rule list. predicate reports whether the
// rule fires and returns the human-readable comparison either way; build
// constructs the signal when it does.
type rule struct {
	name      string
	predicate func(ev *Evaluation) (bool, string)
	build     func(ev *Evaluation) Signal
}

// actionRules in evaluation order. The first match wins; later action rules
// are still traced but cannot emit.
var actionRules = []rule{
	{
		name: "dip_opportunity",
		predicate: func(ev *Evaluation) (bool, string) {
			ok := float64(ev.Dip.Score) >= ev.Thresholds.DipTrigger && ev.Dip.Qualified
			return ok, fmt.Sprintf("dip score %d (need >= %.0f) qualified=%v",
				ev.Dip.Score, ev.Thresholds.DipTrigger, ev.Dip.Qualified)
		},
		build: func(ev *Evaluation) Signal {
			// The dip score already is a 0-100 measure of the setup.
			return newSignal(TypeDipOpportunity, CategoryAction, ev.Dip.Score,
				"Dip buying opportunity",
				fmt.Sprintf("Quality stock pulled back hard (dip score %d/100) while fundamentals, analyst coverage and news hold up.", ev.Dip.Score))
		},
	},
	{
		name: "take_profit",
		predicate: func(ev *Evaluation) (bool, string) {
			if ev.Portfolio == nil {
				return false, "no position held"
			}
			gain := ev.Portfolio.UnrealizedGainPct
			rsi := latestRSI(ev)
			ok := gain >= 30 && rsi != nil && *rsi >= 70
			return ok, fmt.Sprintf("gain %.1f%% (need >= 30) RSI %s (need >= 70)", gain, fmtRSI(rsi))
		},
		build: func(ev *Evaluation) Signal {
			// Gain 30 (the floor) maps to 50, gain 80+ saturates.
			strength := clampStrength(int(ev.Portfolio.UnrealizedGainPct) + 20)
			return newSignal(TypeTakeProfit, CategoryAction, strength,
				"Take partial profits",
				fmt.Sprintf("Position up %.1f%% into overbought conditions; consider selling a tranche.", ev.Portfolio.UnrealizedGainPct))
		},
	},
	{
		name: "trim_position",
		predicate: func(ev *Evaluation) (bool, string) {
			if ev.Portfolio == nil {
				return false, "no position held"
			}
			w := ev.Portfolio.PositionWeight
			ok := w > ev.Thresholds.NoDCAWeight
			return ok, fmt.Sprintf("position weight %.1f%% (need > %.0f%%)", w, ev.Thresholds.NoDCAWeight)
		},
		build: func(ev *Evaluation) Signal {
			return newSignal(TypeTrimPosition, CategoryAction, 55,
				"Trim oversized position",
				fmt.Sprintf("Position is %.1f%% of the portfolio, past the concentration limit; trim back toward target weight.", ev.Portfolio.PositionWeight))
		},
	},
	{
		name: "accumulate",
		predicate: func(ev *Evaluation) (bool, string) {
			w := 0.0
			if ev.Portfolio != nil {
				w = ev.Portfolio.PositionWeight
			}
			ok := float64(ev.Composite.Composite) >= ev.Thresholds.BullishPercent &&
				ev.Conviction.Level != scoring.ConvictionLow &&
				w <= ev.Thresholds.NoDCAWeight
			return ok, fmt.Sprintf("composite %d (need >= %.0f) conviction %s (need > LOW) weight %.1f%% (need <= %.0f%%)",
				ev.Composite.Composite, ev.Thresholds.BullishPercent, ev.Conviction.Level, w, ev.Thresholds.NoDCAWeight)
		},
		build: func(ev *Evaluation) Signal {
			strength := 55
			if ev.Conviction.Level == scoring.ConvictionHigh {
				strength = 80
			}
			return newSignal(TypeAccumulate, CategoryAction, strength,
				"Accumulate on strength",
				fmt.Sprintf("Composite %d/100 with %s conviction supports building the position.", ev.Composite.Composite, ev.Conviction.Level))
		},
	},
}

// qualityRules in evaluation order. Exactly one quality signal always emits;
// the neutral fallback lives in the generator, not here.
var qualityRules = []rule{
	{
		name: "overbought",
		predicate: func(ev *Evaluation) (bool, string) {
			rsi := latestRSI(ev)
			if rsi == nil {
				return false, "RSI unavailable"
			}
			aboveBand := ev.Snapshot != nil && ev.Snapshot.Bollinger != nil &&
				ev.Snapshot.Price > ev.Snapshot.Bollinger.LatestUpper()
			ok := *rsi >= 75 || (*rsi >= 70 && aboveBand)
			return ok, fmt.Sprintf("RSI %s (need >= 75, or >= 70 above upper band=%v)", fmtRSI(rsi), aboveBand)
		},
		build: func(ev *Evaluation) Signal {
			rsi := latestRSI(ev)
			return newSignal(TypeOverbought, CategoryQuality, clampStrength(int(*rsi)),
				"Overbought",
				fmt.Sprintf("RSI %.1f is stretched; expect mean reversion before the next leg.", *rsi))
		},
	},
	{
		name: "weak_stock",
		predicate: func(ev *Evaluation) (bool, string) {
			ok := float64(ev.Composite.Composite) <= ev.Thresholds.BearishPercent
			return ok, fmt.Sprintf("composite %d (need <= %.0f)", ev.Composite.Composite, ev.Thresholds.BearishPercent)
		},
		build: func(ev *Evaluation) Signal {
			strength := 55
			if ev.Composite.Composite <= 20 {
				strength = 80
			}
			return newSignal(TypeWeakStock, CategoryQuality, strength,
				"Weak stock",
				fmt.Sprintf("Composite %d/100; the weight of evidence is against this name.", ev.Composite.Composite))
		},
	},
	{
		name: "high_quality",
		predicate: func(ev *Evaluation) (bool, string) {
			ok := float64(ev.Composite.Composite) >= ev.Thresholds.BullishPercent &&
				ev.Conviction.Level != scoring.ConvictionLow
			return ok, fmt.Sprintf("composite %d (need >= %.0f) conviction %s (need > LOW)",
				ev.Composite.Composite, ev.Thresholds.BullishPercent, ev.Conviction.Level)
		},
		build: func(ev *Evaluation) Signal {
			strength := 55
			if ev.Conviction.Level == scoring.ConvictionHigh && ev.Composite.Composite >= 75 {
				strength = 80
			}
			return newSignal(TypeHighQuality, CategoryQuality, strength,
				"High quality",
				fmt.Sprintf("Composite %d/100 with %s conviction across fundamentals, street and momentum.", ev.Composite.Composite, ev.Conviction.Level))
		},
	},
}

func newSignal(signalType, category string, strength int, title, description string) Signal {
	strength = clampStrength(strength)
	return Signal{
		Type:        signalType,
		Category:    category,
		Strength:    strength,
		Label:       StrengthLabel(strength),
		Priority:    Priority(signalType),
		Title:       title,
		Description: description,
	}
}

func clampStrength(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func latestRSI(ev *Evaluation) *float64 {
	if ev.Snapshot == nil {
		return nil
	}
	return ev.Snapshot.RSI
}

func fmtRSI(rsi *float64) string {
	if rsi == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *rsi)
}
