package indicator

import (
	"math"
	"testing"
)

func TestMACDRequiresMinimumBars(t *testing.T) {
	if got := CalculateMACD(sineSeries(MinMACDBars - 1)); got != nil {
		t.Errorf("MACD with %d bars should be nil", MinMACDBars-1)
	}
	if got := CalculateMACD(sineSeries(MinMACDBars)); got == nil {
		t.Errorf("MACD with %d bars should be computable", MinMACDBars)
	}
}

func TestMACDAlignmentAndIdentity(t *testing.T) {
	prices := sineSeries(120)
	macd := CalculateMACD(prices)
	if macd == nil {
		t.Fatal("expected MACD result")
	}

	if len(macd.MACD) != len(macd.Signal) || len(macd.Signal) != len(macd.Histogram) {
		t.Fatalf("output lengths differ: %d/%d/%d", len(macd.MACD), len(macd.Signal), len(macd.Histogram))
	}
	wantLen := len(prices) - MinMACDBars + 1
	if len(macd.MACD) != wantLen {
		t.Errorf("output length = %d, want %d", len(macd.MACD), wantLen)
	}
	if macd.StartIndex != MinMACDBars-1 {
		t.Errorf("start index = %d, want %d", macd.StartIndex, MinMACDBars-1)
	}

	for i := range macd.Histogram {
		if math.Abs(macd.Histogram[i]-(macd.MACD[i]-macd.Signal[i])) > 1e-9 {
			t.Errorf("histogram[%d] != macd-signal: %v vs %v",
				i, macd.Histogram[i], macd.MACD[i]-macd.Signal[i])
		}
	}
}

func TestMACDTrendLabels(t *testing.T) {
	tests := []struct {
		macd, histogram float64
		want            string
	}{
		{1.5, 0.4, "bullish"},
		{-1.5, -0.4, "bearish"},
		{1.5, -0.4, "neutral"},
		{-1.5, 0.4, "neutral"},
	}
	for _, tt := range tests {
		if got := macdTrend(tt.macd, tt.histogram); got != tt.want {
			t.Errorf("macdTrend(%v, %v) = %q, want %q", tt.macd, tt.histogram, got, tt.want)
		}
	}
}

func TestDetectMACDDivergenceBullish(t *testing.T) {
	// Price makes descending swing lows while the MACD line makes ascending
	// swing lows at the same bar positions.
	prices := flatWithDips(20, 10, map[int]float64{5: 8, 13: 7})
	macdLine := flatWithDips(20, 1, map[int]float64{5: -2, 13: -1})

	if got := DetectMACDDivergence(prices, macdLine); got != "bullish" {
		t.Errorf("divergence = %q, want bullish", got)
	}
}

func TestDetectMACDDivergenceBearish(t *testing.T) {
	prices := flatWithDips(20, 10, map[int]float64{5: 12, 13: 13})
	macdLine := flatWithDips(20, 1, map[int]float64{5: 3, 13: 2})

	if got := DetectMACDDivergence(prices, macdLine); got != "bearish" {
		t.Errorf("divergence = %q, want bearish", got)
	}
}

func TestDetectMACDDivergenceNone(t *testing.T) {
	// Price and MACD lows both descending: confirmation, not divergence.
	prices := flatWithDips(20, 10, map[int]float64{5: 8, 13: 7})
	macdLine := flatWithDips(20, 1, map[int]float64{5: -1, 13: -2})

	if got := DetectMACDDivergence(prices, macdLine); got != "" {
		t.Errorf("divergence = %q, want none", got)
	}
}

func TestDetectMACDDivergenceMismatchedSwings(t *testing.T) {
	// Swings more than 3 bars apart must not match.
	prices := flatWithDips(20, 10, map[int]float64{5: 8, 13: 7})
	macdLine := flatWithDips(20, 1, map[int]float64{10: -2, 17: -1})

	if got := DetectMACDDivergence(prices, macdLine); got != "" {
		t.Errorf("divergence = %q, want none for mismatched swing positions", got)
	}
}

// flatWithDips builds a flat series with single-bar deviations at the given
// indices, producing clean isolated swing points.
func flatWithDips(n int, base float64, dips map[int]float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base
	}
	for i, v := range dips {
		out[i] = v
	}
	return out
}
