// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"time"

	"github.com/crowdlens/crowdlens/internal/analysis"
	"github.com/crowdlens/crowdlens/internal/cache"
	"github.com/crowdlens/crowdlens/internal/config"
	"github.com/crowdlens/crowdlens/internal/logging"
	"github.com/crowdlens/crowdlens/internal/store"
	"github.com/crowdlens/crowdlens/internal/viz"
	"github.com/crowdlens/crowdlens/internal/youtube"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_analyze.go: Analysis pipeline endpoints
//   - handlers_search.go: Video search and analysis history endpoints
//   - handlers_settings.go: Settings and provider endpoints
//   - handlers_health.go: Health/monitoring endpoints
type Handler struct {
	client    youtube.ClientInterface
	pipeline  *analysis.Pipeline
	store     *store.Store
	viz       *viz.Generator
	config    *config.Config
	cache     *cache.Cache
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
// The handler serves the analysis pipeline endpoints plus search, settings,
// visualization and health endpoints. Analysis results are cached with the
// configured TTL so repeat requests for the same video skip the upstream
// fetch and the pipeline entirely.
//
// Example:
//
//	handler := api.NewHandler(client, pipeline, st, vizGen, cfg)
//	router := api.NewRouter(handler, chiMW)
//	http.ListenAndServe(":8300", router.SetupChi())
func NewHandler(client youtube.ClientInterface, pipeline *analysis.Pipeline, st *store.Store, vizGen *viz.Generator, cfg *config.Config) *Handler {
	return &Handler{
		client:    client,
		pipeline:  pipeline,
		store:     st,
		viz:       vizGen,
		config:    cfg,
		cache:     cache.New(cfg.Cache.TTL, "analysis"),
		startTime: time.Now(),
	}
}

// ClearCache invalidates all cached analyses. The next request for any
// video will re-fetch comments and re-run the pipeline.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
		logging.Info().Msg("Analysis cache cleared")
	}
}
