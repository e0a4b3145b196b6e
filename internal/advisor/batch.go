package advisor

import (
	"context"
	"sort"
	"sync"

	"stock-advisor/internal/signal"
)

// BatchResult pairs one batch entry with its outcome. Err is set instead of
// the recommendation when the input failed validation.
type BatchResult struct {
	Ticker         string          `json:"ticker"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Err            error           `json:"-"`
	Error          string          `json:"error,omitempty"`
}

// RecommendBatch fans the inputs across a worker pool and returns the
// results ordered by urgency: best signal priority first, composite score as
// the tiebreak, ticker as the final deterministic ordering. A cancelled
// context stops dispatching; already-running computations finish.
func (a *Advisor) RecommendBatch(ctx context.Context, inputs []Input, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	type job struct {
		idx int
		in  Input
	}
	jobs := make(chan job)
	results := make([]BatchResult, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rec, err := a.Recommend(j.in)
				br := BatchResult{Ticker: j.in.Ticker, Recommendation: rec, Err: err}
				if err != nil {
					br.Error = err.Error()
				}
				results[j.idx] = br
			}
		}()
	}

dispatch:
	for i, in := range inputs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{idx: i, in: in}:
		}
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := bestPriority(results[i]), bestPriority(results[j])
		if pi != pj {
			return pi < pj
		}
		ci, cj := compositeOf(results[i]), compositeOf(results[j])
		if ci != cj {
			return ci > cj
		}
		return results[i].Ticker < results[j].Ticker
	})
	return results
}

func bestPriority(r BatchResult) int {
	if r.Recommendation == nil {
		return 100
	}
	best := 100
	for _, s := range r.Recommendation.Signals {
		if s.Priority < best {
			best = s.Priority
		}
	}
	if best == 100 {
		best = signal.Priority(signal.TypeNeutral)
	}
	return best
}

func compositeOf(r BatchResult) int {
	if r.Recommendation == nil {
		return -1
	}
	return r.Recommendation.Composite.Composite
}
