package indicator

// MACD parameters. The fast/slow/signal periods are the conventional 12/26/9;
// a series must carry at least slow+signal-1 bars (34) before any of the
// three lines is computable.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9

	// MinMACDBars is the minimum series length for a MACD computation.
	MinMACDBars = macdSlowPeriod + macdSignalPeriod - 1
)

// MACDResult holds the three length-aligned MACD output series. StartIndex is
// the index into the source price series at which all three lines become
// valid; MACD[i], Signal[i] and Histogram[i] all describe source bar
// StartIndex+i.
type MACDResult struct {
	MACD       []float64 `json:"macd"`
	Signal     []float64 `json:"signal"`
	Histogram  []float64 `json:"histogram"`
	StartIndex int       `json:"start_index"`
	Trend      string    `json:"trend"` // bullish, bearish, neutral
}

// LatestMACD returns the most recent MACD line value.
func (r *MACDResult) LatestMACD() float64 { return r.MACD[len(r.MACD)-1] }

// LatestSignal returns the most recent signal line value.
func (r *MACDResult) LatestSignal() float64 { return r.Signal[len(r.Signal)-1] }

// LatestHistogram returns the most recent histogram value.
func (r *MACDResult) LatestHistogram() float64 { return r.Histogram[len(r.Histogram)-1] }

// HistogramImproving reports whether the latest histogram value is above the
// previous one, an early recovery hint used by the dip score.
func (r *MACDResult) HistogramImproving() bool {
	n := len(r.Histogram)
	if n < 2 {
		return false
	}
	return r.Histogram[n-1] > r.Histogram[n-2]
}

// CalculateMACD computes the MACD line (EMA12-EMA26), the signal line (EMA9
// of the MACD line) and the histogram. Requires at least MinMACDBars prices;
// below that it returns nil.
func CalculateMACD(prices []float64) *MACDResult {
	if len(prices) < MinMACDBars {
		return nil
	}

	fast := CalculateEMASeries(prices, macdFastPeriod) // valid from index fast-1
	slow := CalculateEMASeries(prices, macdSlowPeriod) // valid from index slow-1

	// MACD line is valid from the slow EMA's first index.
	macdLine := make([]float64, len(slow))
	offset := macdSlowPeriod - macdFastPeriod
	for i := range slow {
		macdLine[i] = fast[i+offset] - slow[i]
	}

	signal := CalculateEMASeries(macdLine, macdSignalPeriod)

	// Trim the MACD line so all three slices align on the signal's start.
	aligned := macdLine[macdSignalPeriod-1:]
	histogram := make([]float64, len(signal))
	for i := range signal {
		histogram[i] = aligned[i] - signal[i]
	}

	result := &MACDResult{
		MACD:       aligned,
		Signal:     signal,
		Histogram:  histogram,
		StartIndex: macdSlowPeriod + macdSignalPeriod - 2,
	}
	result.Trend = macdTrend(result.LatestMACD(), result.LatestHistogram())
	return result
}

// macdTrend labels the latest MACD state. Bullish requires both the
// histogram and the MACD line above zero; bearish requires both below.
func macdTrend(macd, histogram float64) string {
	switch {
	case histogram > 0 && macd > 0:
		return "bullish"
	case histogram < 0 && macd < 0:
		return "bearish"
	default:
		return "neutral"
	}
}
