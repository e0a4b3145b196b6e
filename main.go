package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-advisor/config"
	"stock-advisor/internal/advisor"
	"stock-advisor/internal/api"
	"stock-advisor/internal/cache"
	"stock-advisor/internal/database"
	"stock-advisor/internal/logging"
	"stock-advisor/internal/scoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Load only fails on a malformed config file; a missing file is fine.
		panic(err)
	}

	logger := logging.New(cfg.LoggingConfig)
	logger.Info().Msg("starting stock advisor")

	var repo *database.Repository
	if cfg.DatabaseConfig.Enabled {
		db, err := database.NewDB(cfg.DatabaseConfig, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.RunMigrations(ctx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("database migrations failed")
		}
		cancel()
		repo = database.NewRepository(db)
	} else {
		logger.Info().Msg("database disabled, signal log persistence off")
	}

	var recCache *cache.RecommendationCache
	if cfg.RedisConfig.Enabled {
		recCache, err = cache.New(cfg.RedisConfig, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("cache initialization failed")
		}
		defer recCache.Close()
	} else {
		logger.Info().Msg("redis disabled, recommendations recomputed per request")
	}

	adv := advisor.New(scoring.DefaultThresholds())
	server := api.NewServer(cfg.ServerConfig, cfg.AdvisorConfig, adv, recCache, repo, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("stopped")
}
