// Package indicator converts a raw price/volume series into the technical
// measures the scoring engine consumes: moving averages, oscillators,
// volatility channels, volume accumulation, trend strength and retracement
// levels. Every function declares a minimum input length; below it the
// function returns nil (scalar) or an empty slice rather than an error.
// Callers treat "no data" as a valid, expected state.
package indicator

// CalculateSMA computes the simple moving average of the first period prices.
// The caller controls ordering and windowing of the input slice.
// Returns nil when fewer than period prices are available.
func CalculateSMA(prices []float64, period int) *float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	avg := sum / float64(period)
	return &avg
}

// CalculateSMASeries computes a rolling SMA. The result has length
// len(prices)-period+1; result[i] is the mean of the window ending at source
// index i+period-1, so the first value corresponds to source index period-1.
func CalculateSMASeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	out := make([]float64, 0, len(prices)-period+1)
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// CalculateEMASeries computes an exponential moving average series seeded
// with the SMA of the first period values. The multiplier is 2/(period+1).
// The result has length len(prices)-period+1, aligned so that result[0]
// corresponds to source index period-1.
func CalculateEMASeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	seed := CalculateSMA(prices, period)
	multiplier := 2.0 / float64(period+1)

	out := make([]float64, 0, len(prices)-period+1)
	ema := *seed
	out = append(out, ema)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out
}

// CalculateEMA returns the latest EMA value, or nil with insufficient data.
func CalculateEMA(prices []float64, period int) *float64 {
	series := CalculateEMASeries(prices, period)
	if len(series) == 0 {
		return nil
	}
	latest := series[len(series)-1]
	return &latest
}
