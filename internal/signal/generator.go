package signal

// Generate runs both rule lists over the evaluation. The action list emits at
// most one signal; the quality list emits exactly one, falling back to a
// neutral label when nothing else matched. Every rule is traced regardless of
// whether an earlier rule already won, so the trace always shows the full
// decision surface.
func Generate(ev *Evaluation) Result {
	var res Result

	actionDone := false
	for _, r := range actionRules {
		matched, reason := r.predicate(ev)
		res.Trace = append(res.Trace, RuleTrace{Rule: r.name, Matched: matched, Reason: reason})
		if matched && !actionDone {
			res.Signals = append(res.Signals, r.build(ev))
			actionDone = true
		}
	}

	qualityDone := false
	for _, r := range qualityRules {
		matched, reason := r.predicate(ev)
		res.Trace = append(res.Trace, RuleTrace{Rule: r.name, Matched: matched, Reason: reason})
		if matched && !qualityDone {
			res.Signals = append(res.Signals, r.build(ev))
			qualityDone = true
		}
	}
	if !qualityDone {
		res.Signals = append(res.Signals, newSignal(TypeNeutral, CategoryQuality, 30,
			"Neutral",
			"No strong quality read in either direction."))
		res.Trace = append(res.Trace, RuleTrace{Rule: "neutral", Matched: true, Reason: "fallback, no quality rule matched"})
	}

	return res
}
