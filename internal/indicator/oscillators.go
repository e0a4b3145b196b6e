package indicator

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// CalculateRSI computes the Relative Strength Index over the trailing period
// changes using simple averages. Returns nil when fewer than period+1 prices
// are available. RSI is 100 when the window contains no losses.
func CalculateRSI(prices []float64, period int) *float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	gains := 0.0
	losses := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		rsi := 100.0
		return &rsi
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))
	return &rsi
}

// CalculateRSISeries computes an RSI value for every bar at which the window
// is complete. result[i] corresponds to source index period+i.
func CalculateRSISeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	out := make([]float64, 0, len(prices)-period)
	for end := period + 1; end <= len(prices); end++ {
		if v := CalculateRSI(prices[:end], period); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// StochasticResult holds the %K and %D series, aligned so that K[i] and D[i]
// describe the same source bar. StartIndex is the source index of element 0.
type StochasticResult struct {
	K          []float64 `json:"k"`
	D          []float64 `json:"d"`
	StartIndex int       `json:"start_index"`
}

// LatestK returns the most recent %K value.
func (r *StochasticResult) LatestK() float64 { return r.K[len(r.K)-1] }

// LatestD returns the most recent %D value.
func (r *StochasticResult) LatestD() float64 { return r.D[len(r.D)-1] }

// CalculateStochastic computes the stochastic oscillator. %K is the position
// of the close inside the kPeriod high/low range scaled to [0,100], with 50
// substituted when the range is zero; %D is the dPeriod SMA of %K. Requires
// kPeriod+dPeriod-1 bars.
func CalculateStochastic(closes, highs, lows []float64, kPeriod, dPeriod int) *StochasticResult {
	if kPeriod <= 0 || dPeriod <= 0 {
		return nil
	}
	n := len(closes)
	if n != len(highs) || n != len(lows) || n < kPeriod+dPeriod-1 {
		return nil
	}

	kSeries := make([]float64, 0, n-kPeriod+1)
	for end := kPeriod; end <= n; end++ {
		start := end - kPeriod
		highest := highs[start]
		lowest := lows[start]
		for i := start + 1; i < end; i++ {
			if highs[i] > highest {
				highest = highs[i]
			}
			if lows[i] < lowest {
				lowest = lows[i]
			}
		}

		k := 50.0
		if highest != lowest {
			k = (closes[end-1] - lowest) / (highest - lowest) * 100
		}
		kSeries = append(kSeries, k)
	}

	dSeries := CalculateSMASeries(kSeries, dPeriod)

	return &StochasticResult{
		K:          kSeries[dPeriod-1:],
		D:          dSeries,
		StartIndex: kPeriod + dPeriod - 2,
	}
}
