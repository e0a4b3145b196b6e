package indicator

import (
	"fmt"
	"math"
)

// DefaultADXPeriod is the conventional ADX lookback; a series needs twice
// that many bars before the first ADX value exists.
const DefaultADXPeriod = 14

// adxDirectionGap is the +DI/-DI spread required before the trend direction
// is labeled rather than neutral.
const adxDirectionGap = 5.0

// ADXResult holds the latest trend-strength readings.
type ADXResult struct {
	ADX       float64 `json:"adx"`
	PlusDI    float64 `json:"plus_di"`
	MinusDI   float64 `json:"minus_di"`
	Strength  string  `json:"strength"`  // strong, moderate, weak, none
	Direction string  `json:"direction"` // bullish, bearish, neutral
}

// CalculateADX computes the Average Directional Index with Wilder smoothing
// of true range and directional movement. The first ADX value is the simple
// mean of the first period DX values; later values use Wilder smoothing.
// Requires at least 2*period bars.
func CalculateADX(highs, lows, closes []float64, period int) *ADXResult {
	n := len(closes)
	if period <= 0 || n != len(highs) || n != len(lows) || n < 2*period {
		return nil
	}

	trs := make([]float64, 0, n-1)
	plusDM := make([]float64, 0, n-1)
	minusDM := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		trs = append(trs, math.Max(hl, math.Max(hc, lc)))

		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			plusDM = append(plusDM, upMove)
		} else {
			plusDM = append(plusDM, 0)
		}
		if downMove > upMove && downMove > 0 {
			minusDM = append(minusDM, downMove)
		} else {
			minusDM = append(minusDM, 0)
		}
	}

	// Wilder running sums seeded with the first period entries.
	var smTR, smPlus, smMinus float64
	for i := 0; i < period; i++ {
		smTR += trs[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	var plusDI, minusDI float64
	dxs := make([]float64, 0, len(trs)-period+1)
	appendDX := func() {
		plusDI, minusDI = 0, 0
		if smTR > 0 {
			plusDI = smPlus / smTR * 100
			minusDI = smMinus / smTR * 100
		}
		dx := 0.0
		if plusDI+minusDI > 0 {
			dx = math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
		}
		dxs = append(dxs, dx)
	}

	appendDX()
	for i := period; i < len(trs); i++ {
		smTR = smTR - smTR/float64(period) + trs[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		appendDX()
	}

	// ADX seeds with a simple mean of the first period DX values, then
	// applies Wilder smoothing.
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += dxs[i]
	}
	adx := sum / float64(period)
	for i := period; i < len(dxs); i++ {
		adx = (adx*float64(period-1) + dxs[i]) / float64(period)
	}

	result := &ADXResult{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}

	switch {
	case adx >= 40:
		result.Strength = "strong"
	case adx >= 25:
		result.Strength = "moderate"
	case adx >= 20:
		result.Strength = "weak"
	default:
		result.Strength = "none"
	}

	switch {
	case plusDI-minusDI > adxDirectionGap:
		result.Direction = "bullish"
	case minusDI-plusDI > adxDirectionGap:
		result.Direction = "bearish"
	default:
		result.Direction = "neutral"
	}

	return result
}

// Fibonacci parameters: retracements are taken over the trailing window and a
// level is reported as current when the close sits within the tolerance
// (as a fraction of the high/low range) of it.
const (
	fibonacciWindow    = 50
	fibonacciTolerance = 0.02
)

// FibonacciLevels holds swing-based retracement levels between the trailing
// window's high and low.
type FibonacciLevels struct {
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Level0       float64 `json:"level_0"`   // 0% (high)
	Level236     float64 `json:"level_236"` // 23.6%
	Level382     float64 `json:"level_382"` // 38.2%
	Level50      float64 `json:"level_50"`  // 50%
	Level618     float64 `json:"level_618"` // 61.8%
	Level786     float64 `json:"level_786"` // 78.6%
	Level100     float64 `json:"level_100"` // 100% (low)
	Trend        string  `json:"trend"`     // uptrend, downtrend
	CurrentLevel string  `json:"current_level,omitempty"`
}

// Retracements returns the named levels in high-to-low order.
func (f *FibonacciLevels) Retracements() []float64 {
	return []float64{f.Level0, f.Level236, f.Level382, f.Level50, f.Level618, f.Level786, f.Level100}
}

// CalculateFibonacci computes retracement levels over the trailing window
// (at most fibonacciWindow bars). The trend is an uptrend when the latest
// close sits at or above the midpoint of the range. CurrentLevel names the
// nearest level when the close is within 2% of the full range of it.
func CalculateFibonacci(closes, highs, lows []float64) *FibonacciLevels {
	n := len(closes)
	if n == 0 || n != len(highs) || n != len(lows) {
		return nil
	}

	start := 0
	if n > fibonacciWindow {
		start = n - fibonacciWindow
	}

	high := highs[start]
	low := lows[start]
	for i := start + 1; i < n; i++ {
		if highs[i] > high {
			high = highs[i]
		}
		if lows[i] < low {
			low = lows[i]
		}
	}

	diff := high - low
	levels := &FibonacciLevels{
		High:     high,
		Low:      low,
		Level0:   high,
		Level236: high - diff*0.236,
		Level382: high - diff*0.382,
		Level50:  high - diff*0.50,
		Level618: high - diff*0.618,
		Level786: high - diff*0.786,
		Level100: low,
	}

	close := closes[n-1]
	if close >= levels.Level50 {
		levels.Trend = "uptrend"
	} else {
		levels.Trend = "downtrend"
	}

	if diff > 0 {
		names := []string{"0%", "23.6%", "38.2%", "50%", "61.8%", "78.6%", "100%"}
		bestDist := math.MaxFloat64
		bestName := ""
		for i, lvl := range levels.Retracements() {
			dist := math.Abs(close - lvl)
			if dist < bestDist {
				bestDist = dist
				bestName = names[i]
			}
		}
		if bestDist <= diff*fibonacciTolerance {
			levels.CurrentLevel = bestName
		}
	}

	return levels
}

// String renders the retracement band for logs.
func (f *FibonacciLevels) String() string {
	return fmt.Sprintf("fib[%.2f..%.2f %s]", f.Low, f.High, f.Trend)
}
