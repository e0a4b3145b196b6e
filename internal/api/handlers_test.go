package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stock-advisor/config"
	"stock-advisor/internal/advisor"
	"stock-advisor/internal/market"
	"stock-advisor/internal/scoring"
)

func testServer() *Server {
	cfg := config.ServerConfig{Port: 0, ProductionMode: true, RateLimit: 1000, RateLimitWindow: 60}
	advisorCfg := config.AdvisorConfig{BatchWorkers: 2, MaxBatchSize: 5, RecentSignalDays: 7}
	adv := advisor.New(scoring.DefaultThresholds())
	return NewServer(cfg, advisorCfg, adv, nil, nil, zerolog.Nop())
}

func testInput(ticker string, bars int) advisor.Input {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(market.PriceSeries, bars)
	for i := 0; i < bars; i++ {
		c := 100 + 10*math.Sin(float64(i)/9)
		series[i] = market.PriceBar{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1_000_000,
		}
	}
	return advisor.Input{Ticker: ticker, Mode: market.ModeResearch, Series: series}
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer()
	w := doJSON(t, s, http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["cache"] != "disabled" || body["database"] != "disabled" {
		t.Errorf("expected disabled backends, got %v", body)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	s := testServer()
	w := doJSON(t, s, http.MethodPost, "/api/v1/recommendations", testInput("acme", 300))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("missing request ID header")
	}

	var body struct {
		Recommendation advisor.Recommendation `json:"recommendation"`
		Cached         bool                   `json:"cached"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Recommendation.Ticker != "ACME" {
		t.Errorf("ticker = %s, want ACME (uppercased)", body.Recommendation.Ticker)
	}
	if body.Cached {
		t.Error("no cache configured, response cannot be cached")
	}
	if len(body.Recommendation.Signals) == 0 {
		t.Error("expected at least the quality signal")
	}
}

func TestRecommendDefaultsInsiderRangeFromConfig(t *testing.T) {
	s := testServer()
	s.advisorCfg.InsiderRange = 6

	w := doJSON(t, s, http.MethodPost, "/api/v1/recommendations", testInput("acme", 300))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Recommendation advisor.Recommendation `json:"recommendation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Recommendation.InsiderRange != market.InsiderRange6M {
		t.Errorf("insider range = %d, want configured 6 months", body.Recommendation.InsiderRange)
	}

	// An explicit request window still wins over the configured default.
	in := testInput("acme", 300)
	in.InsiderRange = market.InsiderRange1M
	w = doJSON(t, s, http.MethodPost, "/api/v1/recommendations", in)
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Recommendation.InsiderRange != market.InsiderRange1M {
		t.Errorf("insider range = %d, want requested 1 month", body.Recommendation.InsiderRange)
	}
}

func TestDefaultInsiderRangeFallsBack(t *testing.T) {
	s := testServer()
	s.advisorCfg.InsiderRange = 7 // not a recognized window

	if r := s.defaultInsiderRange(); r != market.InsiderRange3M {
		t.Errorf("default range = %d, want 3 months", r)
	}
}

func TestRecommendRejectsEmptyTicker(t *testing.T) {
	s := testServer()
	w := doJSON(t, s, http.MethodPost, "/api/v1/recommendations", testInput("", 50))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRecommendRejectsBadBody(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBatchEndpoint(t *testing.T) {
	s := testServer()
	body := map[string]interface{}{
		"inputs": []advisor.Input{testInput("aaa", 120), testInput("bbb", 120)},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/recommendations/batch", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []advisor.BatchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
}

func TestBatchSizeLimit(t *testing.T) {
	s := testServer()
	inputs := make([]advisor.Input, 6) // limit is 5
	for i := range inputs {
		inputs[i] = testInput("t", 40)
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/recommendations/batch", map[string]interface{}{"inputs": inputs})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBatchRejectsEmpty(t *testing.T) {
	s := testServer()
	w := doJSON(t, s, http.MethodPost, "/api/v1/recommendations/batch", map[string]interface{}{"inputs": []advisor.Input{}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSignalEndpointsWithoutDatabase(t *testing.T) {
	s := testServer()

	if w := doJSON(t, s, http.MethodGet, "/api/v1/signals/recent", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("recent signals status = %d, want 503", w.Code)
	}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/signals/ACME", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ticker signals status = %d, want 503", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("client") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("client") {
		t.Error("4th request should be blocked")
	}
	if !rl.Allow("other") {
		t.Error("other clients must have their own budget")
	}
}
