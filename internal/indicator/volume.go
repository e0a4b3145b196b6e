package indicator

import "math"

// OBV trend parameters: the running total is compared to its own 20-bar SMA
// and labeled when it deviates by more than 5% either way.
const (
	obvTrendPeriod    = 20
	obvTrendDeviation = 0.05
)

// OBVResult is the on-balance-volume accumulation series with its trend and
// divergence labels.
type OBVResult struct {
	Values     []float64 `json:"values"`
	Trend      string    `json:"trend"`                // bullish, bearish, neutral
	Divergence string    `json:"divergence,omitempty"` // bullish, bearish or empty
}

// Latest returns the most recent OBV value.
func (r *OBVResult) Latest() float64 { return r.Values[len(r.Values)-1] }

// CalculateOBV computes on-balance volume: a running sum that adds volume on
// up days, subtracts it on down days and holds steady on flat days. The trend
// label compares the latest OBV to its 20-bar SMA; divergence compares the
// direction of price and OBV over the trailing 20 bars.
func CalculateOBV(closes, volumes []float64) *OBVResult {
	n := len(closes)
	if n == 0 || n != len(volumes) {
		return nil
	}

	values := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			values[i] = values[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			values[i] = values[i-1] - volumes[i]
		default:
			values[i] = values[i-1]
		}
	}

	// Below a full trend window there is no meaningful mean to deviate
	// from, so the label stays neutral.
	result := &OBVResult{Values: values, Trend: "neutral"}
	if n >= obvTrendPeriod {
		if sma := CalculateSMA(values[n-obvTrendPeriod:], obvTrendPeriod); sma != nil {
			latest := values[n-1]
			margin := obvTrendDeviation * math.Abs(*sma)
			switch {
			case latest > *sma+margin:
				result.Trend = "bullish"
			case latest < *sma-margin:
				result.Trend = "bearish"
			}
		}
	}

	result.Divergence = obvDivergence(closes, values)
	return result
}

// obvDivergence compares price direction against OBV direction over the
// trailing window. Price down with OBV up is bullish (accumulation under
// weakness); price up with OBV down is bearish (distribution into strength).
func obvDivergence(closes, obv []float64) string {
	n := len(closes)
	if n < divergenceWindow {
		return ""
	}

	priceDelta := closes[n-1] - closes[n-divergenceWindow]
	obvDelta := obv[n-1] - obv[n-divergenceWindow]

	switch {
	case priceDelta < 0 && obvDelta > 0:
		return "bullish"
	case priceDelta > 0 && obvDelta < 0:
		return "bearish"
	default:
		return ""
	}
}

// CalculateAverageVolume returns the mean volume of the trailing period bars,
// shrinking the window to the data available.
func CalculateAverageVolume(volumes []float64, period int) *float64 {
	if len(volumes) == 0 || period <= 0 {
		return nil
	}
	if len(volumes) < period {
		period = len(volumes)
	}

	sum := 0.0
	for i := len(volumes) - period; i < len(volumes); i++ {
		sum += volumes[i]
	}
	avg := sum / float64(period)
	return &avg
}

// IsVolumeSpike reports whether the latest volume exceeds the trailing
// average (excluding the latest bar) by the given multiplier.
func IsVolumeSpike(volumes []float64, period int, multiplier float64) bool {
	if len(volumes) < 2 {
		return false
	}
	avg := CalculateAverageVolume(volumes[:len(volumes)-1], period)
	if avg == nil || *avg == 0 {
		return false
	}
	return volumes[len(volumes)-1] >= *avg*multiplier
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
