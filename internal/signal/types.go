// Package signal turns a scored evaluation into at most two actionable
// signals: one action signal (what to do) and one quality signal (what the
// stock is). Rules are evaluated in a fixed order with first-match-wins
// semantics, and every rule evaluation is recorded in a trace so a
// recommendation can show not just what fired but what almost fired.
package signal

import (
	"stock-advisor/internal/indicator"
	"stock-advisor/internal/market"
	"stock-advisor/internal/scoring"
)

// Signal types. The set is closed: consumers switch over these and the
// generator never emits anything outside them.
const (
	TypeDipOpportunity = "DIP_OPPORTUNITY"
	TypeTakeProfit     = "TAKE_PROFIT"
	TypeTrimPosition   = "TRIM_POSITION"
	TypeAccumulate     = "ACCUMULATE"

	TypeHighQuality = "HIGH_QUALITY"
	TypeOverbought  = "OVERBOUGHT"
	TypeWeakStock   = "WEAK_STOCK"
	TypeNeutral     = "NEUTRAL"
)

// Signal categories.
const (
	CategoryAction  = "action"
	CategoryQuality = "quality"
)

// Strength bands. The numeric strength is the canonical value; the band is a
// display label derived from it.
const (
	StrengthStrong   = "STRONG"
	StrengthModerate = "MODERATE"
	StrengthWeak     = "WEAK"

	strongFloor   = 70
	moderateFloor = 40
)

// StrengthLabel maps a 0-100 strength to its display band.
func StrengthLabel(strength int) string {
	switch {
	case strength >= strongFloor:
		return StrengthStrong
	case strength >= moderateFloor:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// signalPriority orders signals for display and persistence: lower is more
// urgent. Action signals always outrank quality labels.
var signalPriority = map[string]int{
	TypeDipOpportunity: 1,
	TypeTakeProfit:     2,
	TypeTrimPosition:   3,
	TypeAccumulate:     4,
	TypeOverbought:     5,
	TypeWeakStock:      6,
	TypeHighQuality:    8,
	TypeNeutral:        9,
}

// Priority returns the static priority for a signal type. Unknown types sink
// to the bottom.
func Priority(signalType string) int {
	if p, ok := signalPriority[signalType]; ok {
		return p
	}
	return 99
}

// Signal is one emitted recommendation signal. Strength is a 0-100 measure of
// how decisively the rule's driving quantity cleared its bar; Label is the
// band derived from it.
type Signal struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Strength    int    `json:"strength"`
	Label       string `json:"strength_label"`
	Priority    int    `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RuleTrace records one rule evaluation, fired or not, with the comparison
// that decided it.
type RuleTrace struct {
	Rule    string `json:"rule"`
	Matched bool   `json:"matched"`
	Reason  string `json:"reason"`
}

// Evaluation is everything the rule set looks at. It is assembled by the
// advisor after scoring completes.
type Evaluation struct {
	Mode       market.ViewMode
	Composite  scoring.CompositeBreakdown
	Dip        scoring.DipScore
	Conviction scoring.ConvictionScore
	Snapshot   *indicator.TechnicalSnapshot
	Portfolio  *market.PortfolioContext
	Thresholds scoring.Thresholds
}

// Result is the generator output: at most one action signal, exactly one
// quality signal, and the full evaluation trace.
type Result struct {
	Signals []Signal    `json:"signals"`
	Trace   []RuleTrace `json:"trace"`
}
