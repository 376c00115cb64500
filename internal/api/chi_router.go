// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crowdlens/crowdlens/internal/middleware"
)

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router from a handler and middleware factory.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so existing middleware works with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints: permissive rate limiting for monitoring tools
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealthGroup())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Analysis endpoints: each cache miss costs upstream quota and a full
	// pipeline pass, so the limit is tighter than the API default
	r.Route("/api/v1/videos", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAnalyzeGroup())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/{id}/analysis", router.handler.VideoAnalysis)
		r.Get("/{id}/visualizations", router.handler.Visualizations)
	})

	// Stored analysis history and artifacts: local data only
	r.Route("/api/v1/analyses", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.ListAnalyses)
		r.Get("/{id}", router.handler.GetAnalysis)
		r.Delete("/{id}", router.handler.DeleteAnalysis)
	})

	r.Route("/api/v1/visualizations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.ListVizArtifacts)
		r.Get("/{id}", router.handler.VizArtifact)
	})

	// Search: costs upstream quota per call
	r.Route("/api/v1/search", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitSearchGroup())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.Search)
	})

	// Providers and settings
	r.Route("/api/v1/providers", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.Providers)
	})

	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.GetSettings)
		r.Post("/", router.handler.UpdateSettings)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
