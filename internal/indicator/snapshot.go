package indicator

import (
	"time"

	"stock-advisor/internal/market"
)

// Snapshot parameters: histories are bounded so a snapshot stays small no
// matter how much price history was supplied, and the 52-week extremes use
// one year of daily bars.
const (
	historyBound    = 60
	yearTradingDays = 252

	longMAPeriod      = 200
	volumeAvgPeriod   = 20
	volumeSpikeFactor = 1.5
	stochasticKPeriod = 14
	stochasticDPeriod = 3
)

// TechnicalSnapshot is the latest value of every indicator plus bounded
// history slices. It is created fresh per request and recomputed wholesale
// when new bars arrive; nothing mutates it afterward. Nil members mean the
// series was too short for that indicator, which every consumer treats as a
// valid state.
type TechnicalSnapshot struct {
	AsOf  time.Time `json:"as_of"`
	Price float64   `json:"price"`
	Bars  int       `json:"bars"`

	RSI        *float64  `json:"rsi,omitempty"`
	RSIHistory []float64 `json:"rsi_history,omitempty"`

	MACD           *MACDResult `json:"macd,omitempty"`
	MACDDivergence string      `json:"macd_divergence,omitempty"`

	Bollinger  *BollingerResult  `json:"bollinger,omitempty"`
	Stochastic *StochasticResult `json:"stochastic,omitempty"`

	ATR        *float64  `json:"atr,omitempty"`
	ATRHistory []float64 `json:"atr_history,omitempty"`

	OBV *OBVResult `json:"obv,omitempty"`
	ADX *ADXResult `json:"adx,omitempty"`

	MA200       *float64 `json:"ma_200,omitempty"`
	MA200Rising bool     `json:"ma_200_rising"`
	MA50        *float64 `json:"ma_50,omitempty"`

	Fibonacci *FibonacciLevels `json:"fibonacci,omitempty"`

	High52Week *float64 `json:"high_52_week,omitempty"`
	Low52Week  *float64 `json:"low_52_week,omitempty"`

	AvgVolume    *float64 `json:"avg_volume,omitempty"`
	LatestVolume float64  `json:"latest_volume"`
	VolumeRatio  float64  `json:"volume_ratio"`
	VolumeSpike  bool     `json:"volume_spike"`
}

// BuildSnapshot computes every indicator over the series. Indicators whose
// minimum length exceeds the series are left nil. Returns nil for an empty
// series.
func BuildSnapshot(series market.PriceSeries) *TechnicalSnapshot {
	if len(series) == 0 {
		return nil
	}

	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	snap := &TechnicalSnapshot{
		AsOf:  series.LastDate(),
		Price: series.LastClose(),
		Bars:  len(series),
	}

	snap.RSI = CalculateRSI(closes, DefaultRSIPeriod)
	snap.RSIHistory = boundHistory(CalculateRSISeries(closes, DefaultRSIPeriod))

	if macd := CalculateMACD(closes); macd != nil {
		snap.MACDDivergence = DetectMACDDivergence(closes, macd.MACD)
		snap.MACD = boundMACD(macd)
	}

	if bb := CalculateBollinger(closes, DefaultBollingerPeriod, DefaultBollingerK); bb != nil {
		snap.Bollinger = boundBollinger(bb)
	}

	if st := CalculateStochastic(closes, highs, lows, stochasticKPeriod, stochasticDPeriod); st != nil {
		snap.Stochastic = boundStochastic(st)
	}

	snap.ATR = CalculateATR(closes, highs, lows, DefaultADXPeriod)
	snap.ATRHistory = boundHistory(CalculateATRSeries(closes, highs, lows, DefaultADXPeriod))

	if obv := CalculateOBV(closes, volumes); obv != nil {
		obv.Values = boundHistory(obv.Values)
		snap.OBV = obv
	}

	snap.ADX = CalculateADX(highs, lows, closes, DefaultADXPeriod)

	if ma := CalculateSMASeries(closes, longMAPeriod); len(ma) > 0 {
		latest := ma[len(ma)-1]
		snap.MA200 = &latest
		snap.MA200Rising = len(ma) > 1 && ma[len(ma)-1] > ma[len(ma)-2]
	}
	snap.MA50 = CalculateSMA(tail(closes, 50), 50)

	snap.Fibonacci = CalculateFibonacci(closes, highs, lows)

	window := min(len(series), yearTradingDays)
	hi := highs[len(highs)-window]
	lo := lows[len(lows)-window]
	for i := len(highs) - window; i < len(highs); i++ {
		if highs[i] > hi {
			hi = highs[i]
		}
		if lows[i] < lo {
			lo = lows[i]
		}
	}
	snap.High52Week = &hi
	snap.Low52Week = &lo

	snap.LatestVolume = volumes[len(volumes)-1]
	snap.AvgVolume = CalculateAverageVolume(volumes, volumeAvgPeriod)
	if snap.AvgVolume != nil && *snap.AvgVolume > 0 {
		snap.VolumeRatio = snap.LatestVolume / *snap.AvgVolume
	}
	snap.VolumeSpike = IsVolumeSpike(volumes, volumeAvgPeriod, volumeSpikeFactor)

	return snap
}

// DistanceFromMA200 returns the latest close's distance from the 200-bar SMA
// as a percentage, negative below it. False when the MA is unavailable.
func (s *TechnicalSnapshot) DistanceFromMA200() (float64, bool) {
	if s.MA200 == nil || *s.MA200 == 0 {
		return 0, false
	}
	return (s.Price - *s.MA200) / *s.MA200 * 100, true
}

// DropFrom52WeekHigh returns the percentage the latest close sits below the
// 52-week high. False when the high is unavailable or zero.
func (s *TechnicalSnapshot) DropFrom52WeekHigh() (float64, bool) {
	if s.High52Week == nil || *s.High52Week == 0 {
		return 0, false
	}
	return (*s.High52Week - s.Price) / *s.High52Week * 100, true
}

func boundHistory(values []float64) []float64 {
	if len(values) > historyBound {
		return values[len(values)-historyBound:]
	}
	return values
}

func boundMACD(m *MACDResult) *MACDResult {
	n := len(m.MACD)
	if n <= historyBound {
		return m
	}
	trimmed := *m
	trimmed.MACD = m.MACD[n-historyBound:]
	trimmed.Signal = m.Signal[n-historyBound:]
	trimmed.Histogram = m.Histogram[n-historyBound:]
	trimmed.StartIndex = m.StartIndex + n - historyBound
	return &trimmed
}

func boundBollinger(b *BollingerResult) *BollingerResult {
	n := len(b.Middle)
	if n <= historyBound {
		return b
	}
	trimmed := *b
	trimmed.Upper = b.Upper[n-historyBound:]
	trimmed.Middle = b.Middle[n-historyBound:]
	trimmed.Lower = b.Lower[n-historyBound:]
	trimmed.StartIndex = b.StartIndex + n - historyBound
	return &trimmed
}

func boundStochastic(s *StochasticResult) *StochasticResult {
	n := len(s.K)
	if n <= historyBound {
		return s
	}
	trimmed := *s
	trimmed.K = s.K[n-historyBound:]
	trimmed.D = s.D[n-historyBound:]
	trimmed.StartIndex = s.StartIndex + n - historyBound
	return &trimmed
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
