package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stock-advisor/internal/advisor"
	"stock-advisor/internal/cache"
	"stock-advisor/internal/market"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware tags every request with a UUID for log correlation.
// Client-supplied IDs are honored so callers can trace across services.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recommendRequest is the body of POST /api/v1/recommendations.
type recommendRequest struct {
	advisor.Input
	SkipCache bool `json:"skip_cache"`
}

// handleRecommend computes (or serves from cache) one recommendation.
func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.InsiderRange == 0 {
		req.InsiderRange = s.defaultInsiderRange()
	}

	logger := s.logger.With().
		Str("request_id", c.GetString("request_id")).
		Str("ticker", req.Ticker).
		Logger()

	key := req.Input.CacheKey()
	if s.cache != nil && !req.SkipCache {
		rec, err := s.cache.Get(c.Request.Context(), key)
		if err == nil {
			logger.Debug().Msg("recommendation served from cache")
			c.JSON(http.StatusOK, gin.H{"recommendation": rec, "cached": true})
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn().Err(err).Msg("cache read failed")
		}
	}

	rec, err := s.advisor.Recommend(req.Input)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, advisor.ErrEmptyTicker) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if s.cache != nil {
		s.cache.Put(c.Request.Context(), key, rec)
	}
	s.persistAndBroadcast(c, rec)

	logger.Info().
		Int("composite", rec.Composite.Composite).
		Int("signals", len(rec.Signals)).
		Msg("recommendation computed")

	c.JSON(http.StatusOK, gin.H{"recommendation": rec, "cached": false})
}

// batchRequest is the body of POST /api/v1/recommendations/batch.
type batchRequest struct {
	Inputs []advisor.Input `json:"inputs"`
}

// handleRecommendBatch fans a batch across the advisor worker pool and
// returns results ordered by urgency.
func (s *Server) handleRecommendBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Inputs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inputs is empty"})
		return
	}
	if maxBatch := s.advisorCfg.MaxBatchSize; maxBatch > 0 && len(req.Inputs) > maxBatch {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch exceeds maximum size"})
		return
	}
	for i := range req.Inputs {
		req.Inputs[i].Ticker = strings.ToUpper(strings.TrimSpace(req.Inputs[i].Ticker))
		if req.Inputs[i].InsiderRange == 0 {
			req.Inputs[i].InsiderRange = s.defaultInsiderRange()
		}
	}

	workers := s.advisorCfg.BatchWorkers
	if workers <= 0 {
		workers = 4
	}

	results := s.advisor.RecommendBatch(c.Request.Context(), req.Inputs, workers)
	for _, r := range results {
		if r.Recommendation != nil {
			s.persistAndBroadcast(c, r.Recommendation)
		}
	}

	s.logger.Info().
		Str("request_id", c.GetString("request_id")).
		Int("count", len(results)).
		Msg("batch recommendations computed")

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleRecentSignals serves the trailing signal log.
func (s *Server) handleRecentSignals(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "signal log is not enabled"})
		return
	}

	days := s.advisorCfg.RecentSignalDays
	if days <= 0 {
		days = 7
	}
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 90 {
			days = parsed
		}
	}
	limit := queryLimit(c, 100)

	signals, err := s.repo.RecentSignals(c.Request.Context(), days, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("recent signals query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query signal log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": signals, "days": days})
}

// handleTickerSignals serves the signal history for one ticker.
func (s *Server) handleTickerSignals(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "signal log is not enabled"})
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}
	limit := queryLimit(c, 50)

	signals, err := s.repo.SignalsByTicker(c.Request.Context(), ticker, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("ticker", ticker).Msg("ticker signals query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query signal log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "signals": signals})
}

// persistAndBroadcast logs the recommendation's signals and pushes them to
// WebSocket subscribers. Both are best-effort.
func (s *Server) persistAndBroadcast(c *gin.Context, rec *advisor.Recommendation) {
	entries := advisor.ProjectSignals(rec)
	if len(entries) == 0 {
		return
	}

	if s.repo != nil {
		if err := s.repo.LogSignals(c.Request.Context(), entries); err != nil {
			s.logger.Warn().Err(err).Str("ticker", rec.Ticker).Msg("signal log write failed")
		}
	}
	s.hub.BroadcastSignals(entries)
}

// defaultInsiderRange fills an omitted insider window from the advisor
// config, falling back to three months when the configured value is not a
// recognized window.
func (s *Server) defaultInsiderRange() market.InsiderTimeRange {
	if r := market.InsiderTimeRange(s.advisorCfg.InsiderRange); r.IsValid() {
		return r
	}
	return market.InsiderRange3M
}

func queryLimit(c *gin.Context, fallback int) int {
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			return parsed
		}
	}
	return fallback
}
