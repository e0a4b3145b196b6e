package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerConfig   ServerConfig   `json:"server"`
	DatabaseConfig DatabaseConfig `json:"database"`
	RedisConfig    RedisConfig    `json:"redis"`
	LoggingConfig  LoggingConfig  `json:"logging"`
	AdvisorConfig  AdvisorConfig  `json:"advisor"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	ProductionMode  bool   `json:"production_mode"`
	RateLimit       int    `json:"rate_limit"`        // requests per window per client
	RateLimitWindow int    `json:"rate_limit_window"` // window length in seconds
}

// DatabaseConfig holds the PostgreSQL connection settings for the signal log.
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
	TTL      int    `json:"ttl"` // recommendation TTL in seconds
}

type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Pretty bool   `json:"pretty"` // console writer instead of JSON
}

// AdvisorConfig holds the recommendation engine settings.
type AdvisorConfig struct {
	BatchWorkers     int `json:"batch_workers"`      // worker pool size for batch requests
	MaxBatchSize     int `json:"max_batch_size"`     // largest accepted batch request
	InsiderRange     int `json:"insider_range"`      // default insider window in months
	RecentSignalDays int `json:"recent_signal_days"` // lookback for the recent-signals endpoint
}

// Load reads config.json when present and applies environment overrides on
// top. Environment variables always win.
func Load() (*Config, error) {
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = &Config{}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Server config
	cfg.ServerConfig.Host = getEnvOrDefault("SERVER_HOST", defaultString(cfg.ServerConfig.Host, "0.0.0.0"))
	cfg.ServerConfig.Port = getEnvIntOrDefault("SERVER_PORT", defaultInt(cfg.ServerConfig.Port, 8080))
	cfg.ServerConfig.ProductionMode = getEnvOrDefault("SERVER_PRODUCTION", boolString(cfg.ServerConfig.ProductionMode)) == "true"
	cfg.ServerConfig.RateLimit = getEnvIntOrDefault("SERVER_RATE_LIMIT", defaultInt(cfg.ServerConfig.RateLimit, 120))
	cfg.ServerConfig.RateLimitWindow = getEnvIntOrDefault("SERVER_RATE_LIMIT_WINDOW", defaultInt(cfg.ServerConfig.RateLimitWindow, 60))

	// Database config
	cfg.DatabaseConfig.Enabled = getEnvOrDefault("DATABASE_ENABLED", boolString(cfg.DatabaseConfig.Enabled)) == "true"
	cfg.DatabaseConfig.Host = getEnvOrDefault("DATABASE_HOST", defaultString(cfg.DatabaseConfig.Host, "localhost"))
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DATABASE_PORT", defaultInt(cfg.DatabaseConfig.Port, 5432))
	cfg.DatabaseConfig.User = getEnvOrDefault("DATABASE_USER", defaultString(cfg.DatabaseConfig.User, "advisor"))
	cfg.DatabaseConfig.Password = getEnvOrDefault("DATABASE_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DATABASE_NAME", defaultString(cfg.DatabaseConfig.Database, "stock_advisor"))
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DATABASE_SSL_MODE", defaultString(cfg.DatabaseConfig.SSLMode, "disable"))

	// Redis config
	cfg.RedisConfig.Enabled = getEnvOrDefault("REDIS_ENABLED", boolString(cfg.RedisConfig.Enabled)) == "true"
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", defaultString(cfg.RedisConfig.Address, "localhost:6379"))
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)
	cfg.RedisConfig.PoolSize = getEnvIntOrDefault("REDIS_POOL_SIZE", defaultInt(cfg.RedisConfig.PoolSize, 10))
	cfg.RedisConfig.TTL = getEnvIntOrDefault("REDIS_TTL", defaultInt(cfg.RedisConfig.TTL, 900))

	// Logging config
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", defaultString(cfg.LoggingConfig.Level, "info"))
	cfg.LoggingConfig.Pretty = getEnvOrDefault("LOG_PRETTY", boolString(cfg.LoggingConfig.Pretty)) == "true"

	// Advisor config
	cfg.AdvisorConfig.BatchWorkers = getEnvIntOrDefault("ADVISOR_BATCH_WORKERS", defaultInt(cfg.AdvisorConfig.BatchWorkers, 8))
	cfg.AdvisorConfig.MaxBatchSize = getEnvIntOrDefault("ADVISOR_MAX_BATCH_SIZE", defaultInt(cfg.AdvisorConfig.MaxBatchSize, 50))
	cfg.AdvisorConfig.InsiderRange = getEnvIntOrDefault("ADVISOR_INSIDER_RANGE", defaultInt(cfg.AdvisorConfig.InsiderRange, 3))
	cfg.AdvisorConfig.RecentSignalDays = getEnvIntOrDefault("ADVISOR_RECENT_SIGNAL_DAYS", defaultInt(cfg.AdvisorConfig.RecentSignalDays, 7))
}

// RecommendationTTL returns the cache TTL as a duration.
func (r RedisConfig) RecommendationTTL() time.Duration {
	return time.Duration(r.TTL) * time.Second
}

func loadFromFile(filename string) (*Config, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func defaultString(current, fallback string) string {
	if current != "" {
		return current
	}
	return fallback
}

func defaultInt(current, fallback int) int {
	if current != 0 {
		return current
	}
	return fallback
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
