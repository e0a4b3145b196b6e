// Package cache provides Redis-based memoization of recommendations with
// graceful degradation. When Redis is unavailable the cache reports misses
// and the caller recomputes; a simple circuit breaker keeps a dead Redis
// from adding latency to every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stock-advisor/config"
	"stock-advisor/internal/advisor"
)

// ErrMiss is returned when the key is absent or the cache is degraded.
var ErrMiss = errors.New("cache: miss")

// RecommendationCache memoizes advisor output keyed by Input.CacheKey().
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	mu           sync.RWMutex
	healthy      bool
	failureCount int
	lastCheck    time.Time

	maxFailures   int
	checkInterval time.Duration
}

// New connects to Redis and returns the cache. A failed initial connection is
// not fatal: the cache starts degraded and recovers in the background.
func New(cfg config.RedisConfig, logger zerolog.Logger) (*RecommendationCache, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is not enabled in configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	c := &RecommendationCache{
		client:        client,
		ttl:           cfg.RecommendationTTL(),
		logger:        logger.With().Str("component", "cache").Logger(),
		maxFailures:   3,
		checkInterval: 30 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("initial redis connection failed, starting degraded")
		return c, nil
	}

	c.healthy = true
	c.lastCheck = time.Now()
	c.logger.Info().Str("address", cfg.Address).Msg("redis connected")
	return c, nil
}

// IsHealthy reports whether Redis is currently usable.
func (c *RecommendationCache) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

func (c *RecommendationCache) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount++
	if c.failureCount >= c.maxFailures {
		if c.healthy {
			c.logger.Warn().Int("failures", c.failureCount).Msg("circuit breaker open, redis marked unhealthy")
		}
		c.healthy = false
	}
}

func (c *RecommendationCache) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.healthy {
		c.logger.Info().Msg("circuit breaker closed, redis recovered")
	}
	c.healthy = true
	c.failureCount = 0
	c.lastCheck = time.Now()
}

// checkHealth probes Redis in the background once the breaker is open and
// enough time has passed since the last attempt.
func (c *RecommendationCache) checkHealth() {
	c.mu.RLock()
	shouldCheck := !c.healthy && time.Since(c.lastCheck) >= c.checkInterval
	c.mu.RUnlock()

	if !shouldCheck {
		return
	}
	c.mu.Lock()
	c.lastCheck = time.Now()
	c.mu.Unlock()

	go func() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.client.Ping(pingCtx).Err(); err == nil {
			c.recordSuccess()
		}
	}()
}

// Get returns the cached recommendation for the key, or ErrMiss.
func (c *RecommendationCache) Get(ctx context.Context, key string) (*advisor.Recommendation, error) {
	c.checkHealth()

	if !c.IsHealthy() {
		return nil, ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		c.recordFailure()
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	c.recordSuccess()

	var rec advisor.Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.client.Del(ctx, key)
		return nil, ErrMiss
	}
	return &rec, nil
}

// Put stores the recommendation under the key with the configured TTL.
// Failures are recorded and swallowed; caching is best-effort.
func (c *RecommendationCache) Put(ctx context.Context, key string, rec *advisor.Recommendation) {
	c.checkHealth()

	if !c.IsHealthy() {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.recordFailure()
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
		return
	}
	c.recordSuccess()
}

// Invalidate removes a cached recommendation.
func (c *RecommendationCache) Invalidate(ctx context.Context, key string) {
	if !c.IsHealthy() {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.recordFailure()
	}
}

// Close releases the Redis client.
func (c *RecommendationCache) Close() error {
	return c.client.Close()
}
