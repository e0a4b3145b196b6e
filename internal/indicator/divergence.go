package indicator

import "math"

// divergenceWindow is the trailing span inspected for price/oscillator
// disagreement, and swingMatchTolerance the maximum bar distance between a
// price swing and its matching oscillator swing.
const (
	divergenceWindow    = 20
	swingMatchTolerance = 3
)

// swingPoint is a local extremum inside a divergence window.
type swingPoint struct {
	index int
	value float64
}

// findSwingLows returns local minima: points lower than their two neighbors
// on each side, ordered oldest first.
func findSwingLows(values []float64) []swingPoint {
	var swings []swingPoint
	for i := 2; i < len(values)-2; i++ {
		v := values[i]
		if v < values[i-1] && v < values[i-2] && v < values[i+1] && v < values[i+2] {
			swings = append(swings, swingPoint{index: i, value: v})
		}
	}
	return swings
}

// findSwingHighs returns local maxima: points higher than their two neighbors
// on each side, ordered oldest first.
func findSwingHighs(values []float64) []swingPoint {
	var swings []swingPoint
	for i := 2; i < len(values)-2; i++ {
		v := values[i]
		if v > values[i-1] && v > values[i-2] && v > values[i+1] && v > values[i+2] {
			swings = append(swings, swingPoint{index: i, value: v})
		}
	}
	return swings
}

// DetectMACDDivergence inspects the trailing divergenceWindow bars of price
// and MACD line for disagreement. Bullish: the two most recent price swing
// lows descend while the two most recent MACD swing lows ascend, with the
// matched swings within swingMatchTolerance bars of each other. Bearish is
// the mirror on swing highs. Returns "bullish", "bearish" or "" when no
// divergence is present.
func DetectMACDDivergence(prices, macdLine []float64) string {
	if len(prices) < divergenceWindow || len(macdLine) < divergenceWindow {
		return ""
	}
	priceWin := prices[len(prices)-divergenceWindow:]
	macdWin := macdLine[len(macdLine)-divergenceWindow:]

	priceLows := findSwingLows(priceWin)
	macdLows := findSwingLows(macdWin)
	if swingsDiverge(priceLows, macdLows, true) {
		return "bullish"
	}

	priceHighs := findSwingHighs(priceWin)
	macdHighs := findSwingHighs(macdWin)
	if swingsDiverge(priceHighs, macdHighs, false) {
		return "bearish"
	}

	return ""
}

// swingsDiverge checks the two most recent swings of each side. For bullish
// (lows) the price swings must descend and the oscillator swings ascend; for
// bearish (highs) price ascends while the oscillator descends.
func swingsDiverge(priceSwings, oscSwings []swingPoint, lows bool) bool {
	if len(priceSwings) < 2 || len(oscSwings) < 2 {
		return false
	}

	p1 := priceSwings[len(priceSwings)-2]
	p2 := priceSwings[len(priceSwings)-1]
	o1 := oscSwings[len(oscSwings)-2]
	o2 := oscSwings[len(oscSwings)-1]

	if math.Abs(float64(p1.index-o1.index)) > swingMatchTolerance ||
		math.Abs(float64(p2.index-o2.index)) > swingMatchTolerance {
		return false
	}

	if lows {
		return p2.value < p1.value && o2.value > o1.value
	}
	return p2.value > p1.value && o2.value < o1.value
}
