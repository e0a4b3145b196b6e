// Package advisor assembles indicator, scoring and signal output into a full
// recommendation. Recommend is a pure function of its input: the same Input
// always yields a byte-identical Recommendation, which is what makes the
// cache layer and the determinism guarantees possible. Anything stateful
// (request IDs, persistence, timestamps) lives with the callers.
package advisor

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"stock-advisor/internal/indicator"
	"stock-advisor/internal/market"
	"stock-advisor/internal/scoring"
	"stock-advisor/internal/signal"
)

var (
	ErrEmptyTicker   = errors.New("advisor: ticker is required")
	ErrInvalidSeries = errors.New("advisor: price series is not chronologically ordered")
)

// Input is everything a recommendation is computed from. Series must be
// oldest-first; all other collaborator data is optional and scoring degrades
// per component when it is missing.
type Input struct {
	Ticker       string                     `json:"ticker"`
	Mode         market.ViewMode            `json:"mode"`
	Series       market.PriceSeries         `json:"series"`
	Fundamentals *market.FundamentalMetrics `json:"fundamentals,omitempty"`
	Analyst      *market.AnalystData        `json:"analyst,omitempty"`
	News         []market.NewsArticle       `json:"news,omitempty"`
	Insider      *market.InsiderData        `json:"insider,omitempty"`
	InsiderRange market.InsiderTimeRange    `json:"insider_range"`
	Portfolio    *market.PortfolioContext   `json:"portfolio,omitempty"`
}

// Recommendation is the complete advisor output for one ticker.
type Recommendation struct {
	Ticker       string                  `json:"ticker"`
	Mode         market.ViewMode         `json:"mode"`
	InsiderRange market.InsiderTimeRange `json:"insider_range"`
	Price        float64                 `json:"price"`
	AsOf         time.Time               `json:"as_of"`

	Composite  scoring.CompositeBreakdown `json:"composite"`
	Dip        scoring.DipScore           `json:"dip"`
	Conviction scoring.ConvictionScore    `json:"conviction"`
	Target     *scoring.TargetPrice       `json:"target,omitempty"`

	Buy  scoring.BuyStrategy  `json:"buy_strategy"`
	Exit scoring.ExitStrategy `json:"exit_strategy"`

	Signals []signal.Signal    `json:"signals"`
	Trace   []signal.RuleTrace `json:"trace"`

	Technical *indicator.TechnicalSnapshot `json:"technical,omitempty"`
	Notes     []string                     `json:"notes,omitempty"`
}

// Advisor runs recommendations under a fixed threshold set.
type Advisor struct {
	thresholds scoring.Thresholds
}

// New returns an advisor using the given thresholds.
func New(th scoring.Thresholds) *Advisor {
	return &Advisor{thresholds: th}
}

// Recommend computes the full recommendation for one input. The only errors
// are input-shape errors; missing collaborator data never fails, it degrades.
func (a *Advisor) Recommend(in Input) (*Recommendation, error) {
	if in.Ticker == "" {
		return nil, ErrEmptyTicker
	}
	if !in.Series.Validate() {
		return nil, ErrInvalidSeries
	}

	mode := in.Mode
	var notes []string
	if mode == market.ModeHoldings && in.Portfolio == nil {
		// Holdings weighting is meaningless without a position; fall back
		// to the research profile rather than scoring a phantom position.
		mode = market.ModeResearch
		notes = append(notes, "holdings mode without portfolio context, using research weighting")
	}
	if mode != market.ModeHoldings && mode != market.ModeResearch {
		mode = market.ModeResearch
	}
	rng := in.InsiderRange
	if !rng.IsValid() {
		rng = market.InsiderRange3M
	}

	snap := indicator.BuildSnapshot(in.Series)
	price := in.Series.LastClose()

	// The insider window anchors on the latest bar, not the wall clock, so
	// replaying a historical input reproduces the historical answer.
	asOf := in.Series.LastDate()
	asOfYear, asOfMonth := asOf.Year(), int(asOf.Month())

	th := a.thresholds
	fundamentals := in.Fundamentals
	if fundamentals == nil {
		fundamentals = &market.FundamentalMetrics{}
	}
	fundamental := scoring.ComputeFundamentalScore(fundamentals, th)
	technical := scoring.ComputeTechnicalScore(snap, th)
	analyst := scoring.ComputeAnalystScore(in.Analyst, price, th)
	news := scoring.ComputeNewsInsiderScore(in.News, in.Insider, rng, asOfYear, asOfMonth, th)

	var portfolio *scoring.ScoreComponent
	if mode == market.ModeHoldings {
		pc := scoring.ComputePortfolioScore(in.Portfolio, price, th)
		portfolio = &pc
	}

	composite := scoring.ComputeComposite(mode, fundamental, technical, analyst, news, portfolio, th)
	dip := scoring.ComputeDipScore(snap, fundamental, analyst, news, th)

	target := scoring.ResolveTargetPrice(in.Portfolio, in.Analyst)
	mspr := insiderWindowMSPR(in.Insider, rng, asOfYear, asOfMonth)
	conviction := scoring.ComputeConvictionScore(in.Fundamentals, in.Analyst, snap, mspr, price, target, th)

	buy := scoring.BuildBuyStrategy(snap, in.Portfolio, price, target, th)
	exit := scoring.BuildExitStrategy(snap, in.Portfolio, price, target, conviction, composite.Sentiment, th)

	res := signal.Generate(&signal.Evaluation{
		Mode:       mode,
		Composite:  composite,
		Dip:        dip,
		Conviction: conviction,
		Snapshot:   snap,
		Portfolio:  in.Portfolio,
		Thresholds: th,
	})
	signals := res.Signals
	if !hasBuySignal(signals) {
		buy = tightenDCA(buy)
	}
	if buy.DCAAdvice == scoring.DCACautious {
		signals = downgradeAccumulate(signals)
	}

	return &Recommendation{
		Ticker:       in.Ticker,
		Mode:         mode,
		InsiderRange: rng,
		Price:        price,
		AsOf:         asOf,
		Composite:    composite,
		Dip:          dip,
		Conviction:   conviction,
		Target:       target,
		Buy:          buy,
		Exit:         exit,
		Signals:      signals,
		Trace:        res.Trace,
		Technical:    snap,
		Notes:        notes,
	}, nil
}

func hasBuySignal(signals []signal.Signal) bool {
	for _, s := range signals {
		if s.Type == signal.TypeDipOpportunity || s.Type == signal.TypeAccumulate {
			return true
		}
	}
	return false
}

// tightenDCA pulls an aggressive or normal stance back to cautious when no
// buy signal fired: the sizing math alone is not a reason to add.
func tightenDCA(buy scoring.BuyStrategy) scoring.BuyStrategy {
	if buy.DCAAdvice != scoring.DCANormal && buy.DCAAdvice != scoring.DCAAggressive {
		return buy
	}
	buy.DCAAdvice = scoring.DCACautious
	buy.Details = append(buy.Details, "no active buy signal, holding DCA to cautious")
	return buy
}

// downgradeAccumulate softens an ACCUMULATE signal by one strength notch when
// the DCA stance is cautious: the setup is right but the position sizing
// argues for smaller adds.
func downgradeAccumulate(signals []signal.Signal) []signal.Signal {
	for i := range signals {
		if signals[i].Type != signal.TypeAccumulate {
			continue
		}
		signals[i].Strength -= 30
		if signals[i].Strength < 0 {
			signals[i].Strength = 0
		}
		signals[i].Label = signal.StrengthLabel(signals[i].Strength)
		signals[i].Description += " Position weight argues for smaller increments."
	}
	return signals
}

func insiderWindowMSPR(insider *market.InsiderData, rng market.InsiderTimeRange, asOfYear, asOfMonth int) *float64 {
	if insider == nil {
		return nil
	}
	if len(insider.Monthly) > 0 {
		return scoring.FilterInsiderMonths(insider, rng, asOfYear, asOfMonth).AvgMSPR
	}
	return insider.AggregateMSPR
}

// CacheKey derives a stable cache key for the input. It hashes the facets
// that change the answer so a refreshed bar or a different view naturally
// misses while identical requests collide onto the cached recommendation.
func (in Input) CacheKey() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%d|%s",
		in.Ticker, in.Mode, in.InsiderRange, len(in.Series),
		in.Series.LastDate().Format("2006-01-02"))
	if in.Portfolio != nil {
		fmt.Fprintf(h, "|%f|%f|%f", in.Portfolio.PositionWeight, in.Portfolio.AverageCost, in.Portfolio.UnrealizedGainPct)
	}
	return fmt.Sprintf("advisor:rec:%s:%x", in.Ticker, h.Sum64())
}
