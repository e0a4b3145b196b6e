package indicator

import (
	"math"
	"testing"
	"time"

	"stock-advisor/internal/market"
)

// testSeries builds n daily bars around an oscillating close.
func testSeries(n int) market.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(market.PriceSeries, n)
	for i := 0; i < n; i++ {
		c := 100 + 10*math.Sin(float64(i)/5)
		series[i] = market.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10000 + float64(i%7)*500,
		}
	}
	return series
}

func TestBuildSnapshotFullSeries(t *testing.T) {
	series := testSeries(300)
	snap := BuildSnapshot(series)
	if snap == nil {
		t.Fatal("expected snapshot")
	}

	if snap.Price != series.LastClose() {
		t.Errorf("price = %v, want %v", snap.Price, series.LastClose())
	}
	if snap.RSI == nil || snap.MACD == nil || snap.Bollinger == nil ||
		snap.Stochastic == nil || snap.ATR == nil || snap.OBV == nil ||
		snap.ADX == nil || snap.MA200 == nil || snap.Fibonacci == nil {
		t.Fatal("all indicators should be computable with 300 bars")
	}
	if snap.High52Week == nil || snap.Low52Week == nil {
		t.Fatal("52-week extremes should be present")
	}
	if *snap.High52Week < *snap.Low52Week {
		t.Errorf("52w high %v below 52w low %v", *snap.High52Week, *snap.Low52Week)
	}
}

func TestBuildSnapshotShortSeriesDegrades(t *testing.T) {
	snap := BuildSnapshot(testSeries(10))
	if snap == nil {
		t.Fatal("expected snapshot even for a short series")
	}
	if snap.RSI != nil {
		t.Error("RSI should be nil with 10 bars")
	}
	if snap.MACD != nil {
		t.Error("MACD should be nil with 10 bars")
	}
	if snap.MA200 != nil {
		t.Error("200-bar MA should be nil with 10 bars")
	}
	if snap.High52Week == nil {
		t.Error("52-week high should fall back to the available window")
	}
}

func TestBuildSnapshotEmptySeries(t *testing.T) {
	if got := BuildSnapshot(nil); got != nil {
		t.Error("empty series should produce a nil snapshot")
	}
}

func TestSnapshotHistoriesBounded(t *testing.T) {
	snap := BuildSnapshot(testSeries(400))
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if len(snap.RSIHistory) > historyBound {
		t.Errorf("RSI history length = %d, want <= %d", len(snap.RSIHistory), historyBound)
	}
	if len(snap.MACD.Histogram) > historyBound {
		t.Errorf("MACD history length = %d, want <= %d", len(snap.MACD.Histogram), historyBound)
	}
	if len(snap.OBV.Values) > historyBound {
		t.Errorf("OBV history length = %d, want <= %d", len(snap.OBV.Values), historyBound)
	}
}

func TestDistanceHelpers(t *testing.T) {
	ma := 200.0
	hi := 150.0
	snap := &TechnicalSnapshot{Price: 100, MA200: &ma, High52Week: &hi}

	dist, ok := snap.DistanceFromMA200()
	if !ok || dist != -50 {
		t.Errorf("MA200 distance = %v (%v), want -50", dist, ok)
	}
	drop, ok := snap.DropFrom52WeekHigh()
	if !ok || math.Abs(drop-33.333333) > 0.001 {
		t.Errorf("52w drop = %v (%v), want ~33.33", drop, ok)
	}

	var bare TechnicalSnapshot
	if _, ok := bare.DistanceFromMA200(); ok {
		t.Error("missing MA should report not-ok")
	}
}
