package indicator

import "math"

// Bollinger defaults: a 20-bar SMA channel at 2 standard deviations.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
)

// BollingerResult holds the three aligned band series. Upper[i], Middle[i]
// and Lower[i] describe source bar StartIndex+i.
type BollingerResult struct {
	Upper      []float64 `json:"upper"`
	Middle     []float64 `json:"middle"`
	Lower      []float64 `json:"lower"`
	StartIndex int       `json:"start_index"`
}

// LatestUpper returns the most recent upper band value.
func (r *BollingerResult) LatestUpper() float64 { return r.Upper[len(r.Upper)-1] }

// LatestMiddle returns the most recent middle band value.
func (r *BollingerResult) LatestMiddle() float64 { return r.Middle[len(r.Middle)-1] }

// LatestLower returns the most recent lower band value.
func (r *BollingerResult) LatestLower() float64 { return r.Lower[len(r.Lower)-1] }

// WidthPercent returns the latest band width as a percentage of the middle
// band, or 0 when the middle band is zero. A narrow width marks a squeeze.
func (r *BollingerResult) WidthPercent() float64 {
	mid := r.LatestMiddle()
	if mid == 0 {
		return 0
	}
	return (r.LatestUpper() - r.LatestLower()) / mid * 100
}

// CalculateBollinger computes Bollinger Bands: middle = SMA(period),
// upper/lower = middle +/- k standard deviations of the same window.
// Requires period bars. Upper >= middle >= lower holds at every index.
func CalculateBollinger(prices []float64, period int, k float64) *BollingerResult {
	if period <= 0 || len(prices) < period {
		return nil
	}

	count := len(prices) - period + 1
	result := &BollingerResult{
		Upper:      make([]float64, count),
		Middle:     make([]float64, count),
		Lower:      make([]float64, count),
		StartIndex: period - 1,
	}

	for w := 0; w < count; w++ {
		window := prices[w : w+period]
		sum := 0.0
		for _, p := range window {
			sum += p
		}
		mean := sum / float64(period)

		variance := 0.0
		for _, p := range window {
			diff := p - mean
			variance += diff * diff
		}
		stddev := math.Sqrt(variance / float64(period))

		result.Middle[w] = mean
		result.Upper[w] = mean + k*stddev
		result.Lower[w] = mean - k*stddev
	}

	return result
}

// CalculateATRSeries computes the Average True Range with Wilder smoothing.
// The first ATR is the simple mean of the first period true ranges; each
// subsequent value is (prevATR*(period-1)+TR)/period. result[i] describes
// source bar period+i. Requires period+1 bars.
func CalculateATRSeries(closes, highs, lows []float64, period int) []float64 {
	n := len(closes)
	if period <= 0 || n != len(highs) || n != len(lows) || n < period+1 {
		return nil
	}

	trs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		trs = append(trs, math.Max(hl, math.Max(hc, lc)))
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trs[i]
	}

	out := make([]float64, 0, len(trs)-period+1)
	atr := sum / float64(period)
	out = append(out, atr)
	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
		out = append(out, atr)
	}
	return out
}

// CalculateATR returns the latest ATR value, or nil with insufficient data.
func CalculateATR(closes, highs, lows []float64, period int) *float64 {
	series := CalculateATRSeries(closes, highs, lows, period)
	if len(series) == 0 {
		return nil
	}
	latest := series[len(series)-1]
	return &latest
}
