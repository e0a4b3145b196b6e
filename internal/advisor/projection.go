package advisor

import "stock-advisor/internal/signal"

// SignalLogEntry is the flattened projection of one emitted signal, shaped
// for the signal log store. One recommendation projects to one entry per
// signal.
type SignalLogEntry struct {
	Ticker          string  `json:"ticker"`
	SignalType      string  `json:"signal_type"`
	Category        string  `json:"category"`
	Strength        int     `json:"strength"`
	StrengthLabel   string  `json:"strength_label"`
	Priority        int     `json:"priority"`
	PriceAtSignal   float64 `json:"price_at_signal"`
	CompositeScore  int     `json:"composite_score"`
	DipScore        int     `json:"dip_score"`
	ConvictionScore int     `json:"conviction_score"`
	Mode            string  `json:"mode"`
	Description     string  `json:"description"`
}

// ProjectSignals flattens a recommendation into signal log entries, preserving
// the recommendation's signal order.
func ProjectSignals(rec *Recommendation) []SignalLogEntry {
	if rec == nil {
		return nil
	}
	entries := make([]SignalLogEntry, 0, len(rec.Signals))
	for _, s := range rec.Signals {
		entries = append(entries, projectSignal(rec, s))
	}
	return entries
}

func projectSignal(rec *Recommendation, s signal.Signal) SignalLogEntry {
	return SignalLogEntry{
		Ticker:          rec.Ticker,
		SignalType:      s.Type,
		Category:        s.Category,
		Strength:        s.Strength,
		StrengthLabel:   s.Label,
		Priority:        s.Priority,
		PriceAtSignal:   rec.Price,
		CompositeScore:  rec.Composite.Composite,
		DipScore:        rec.Dip.Score,
		ConvictionScore: rec.Conviction.Score,
		Mode:            string(rec.Mode),
		Description:     s.Description,
	}
}
