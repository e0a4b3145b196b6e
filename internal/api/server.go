// Package api exposes the recommendation engine over HTTP: recommendation
// endpoints, signal history queries, a health check and a WebSocket feed of
// freshly emitted signals.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stock-advisor/config"
	"stock-advisor/internal/advisor"
	"stock-advisor/internal/cache"
	"stock-advisor/internal/database"
)

// RateLimiter provides simple in-memory rate limiting per client.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks whether a request is allowed for the given key.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// Server is the HTTP API server. The cache and repository are optional; a
// nil cache means every request recomputes and a nil repository disables
// signal history.
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	advisor     *advisor.Advisor
	cache       *cache.RecommendationCache
	repo        *database.Repository
	hub         *WSHub
	config      config.ServerConfig
	advisorCfg  config.AdvisorConfig
	rateLimiter *RateLimiter
	logger      zerolog.Logger
}

// NewServer wires the router and returns the server ready to Start.
func NewServer(
	cfg config.ServerConfig,
	advisorCfg config.AdvisorConfig,
	adv *advisor.Advisor,
	recCache *cache.RecommendationCache,
	repo *database.Repository,
	logger zerolog.Logger,
) *Server {
	if cfg.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	window := time.Duration(cfg.RateLimitWindow) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 120
	}

	server := &Server{
		router:      router,
		advisor:     adv,
		cache:       recCache,
		repo:        repo,
		hub:         NewWSHub(logger),
		config:      cfg,
		advisorCfg:  advisorCfg,
		rateLimiter: NewRateLimiter(limit, window),
		logger:      logger.With().Str("component", "api").Logger(),
	}

	router.Use(server.requestIDMiddleware())
	router.Use(server.rateLimitMiddleware())
	server.setupRoutes()

	go server.hub.Run()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/recommendations", s.handleRecommend)
		v1.POST("/recommendations/batch", s.handleRecommendBatch)
		v1.GET("/signals/recent", s.handleRecentSignals)
		v1.GET("/signals/:ticker", s.handleTickerSignals)
		v1.GET("/ws", s.handleWebSocket)
	}
}

// rateLimitMiddleware limits requests per client IP. The health endpoint is
// exempt so orchestration probes never see 429s.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		if !s.rateLimiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if s.cache != nil {
		status["cache"] = map[bool]string{true: "healthy", false: "degraded"}[s.cache.IsHealthy()]
	} else {
		status["cache"] = "disabled"
	}

	if s.repo != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.repo.HealthCheck(ctx); err != nil {
			status["database"] = "unreachable"
			status["status"] = "degraded"
		} else {
			status["database"] = "healthy"
		}
	} else {
		status["database"] = "disabled"
	}

	c.JSON(http.StatusOK, status)
}
