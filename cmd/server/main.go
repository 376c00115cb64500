// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package main is the entry point for the Crowdlens server.
//
// Crowdlens is a self-hosted backend that analyzes YouTube comment
// sentiment. It fetches video metadata and comments from the YouTube Data
// API v3 through a quota-aware, key-rotating client, scores each comment
// with an ensemble of sentiment classifiers, and serves aggregate
// statistics, chronological trends and visualization artifacts over a
// REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered load (defaults, config.yaml, env)
//  2. Logging: zerolog global logger per the logging config
//  3. Store: BadgerDB for analysis history, settings and artifact index
//  4. YouTube client: key pool, rate limiter, circuit breaker
//  5. Pipeline: bounded worker pool with an engine per worker
//  6. HTTP server: Chi router with CORS, rate limits and Prometheus metrics
//
// # Configuration
//
// Required:
//   - YOUTUBE_API_KEYS: comma-separated Data API keys (rotation pool)
//
// Common options:
//   - HTTP_PORT: listen port (default 8300)
//   - STORE_PATH: BadgerDB directory (default /data/crowdlens)
//   - CACHE_TTL: analysis cache TTL (default 15m)
//   - LOG_LEVEL, LOG_FORMAT: logging configuration
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests, then
// closes the store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crowdlens/crowdlens/internal/analysis"
	"github.com/crowdlens/crowdlens/internal/api"
	"github.com/crowdlens/crowdlens/internal/config"
	"github.com/crowdlens/crowdlens/internal/logging"
	"github.com/crowdlens/crowdlens/internal/sentiment"
	"github.com/crowdlens/crowdlens/internal/store"
	"github.com/crowdlens/crowdlens/internal/viz"
	"github.com/crowdlens/crowdlens/internal/youtube"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

// storeGCInterval controls how often Badger value-log GC runs.
const storeGCInterval = 30 * time.Minute

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Default logger; config not yet available
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Int("key_pool_size", len(cfg.YouTube.APIKeys)).
		Str("store_path", cfg.Store.Path).
		Int("max_workers", cfg.Analysis.MaxWorkers).
		Msg("Starting Crowdlens")

	st, err := store.Open(&cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	client, err := youtube.NewClient(&cfg.YouTube)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create YouTube client")
	}

	pipeline := analysis.NewPipeline(func() *sentiment.Engine {
		return sentiment.NewEngineFromConfig(&cfg.Sentiment)
	}, cfg.Analysis.MaxWorkers)

	vizGen := viz.NewGenerator(cfg.Viz.ArtifactDir, cfg.Viz.MaxWords)

	handler := api.NewHandler(client, pipeline, st, vizGen, cfg)
	chiMW := api.NewChiMiddlewareFromConfig(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMW)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	// Background store maintenance
	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()
	go func() {
		ticker := time.NewTicker(storeGCInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gcCtx.Done():
				return
			case <-ticker.C:
				st.RunGC()
			}
		}
	}()

	// Start the server and wait for a shutdown signal
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed, forcing close")
		if err := server.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}

	logging.Info().Msg("Crowdlens stopped")
}
