// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"net/http"
	"time"

	"github.com/crowdlens/crowdlens/internal/models"
)

// HealthStatus is the payload of the full health endpoint.
type HealthStatus struct {
	Status         string   `json:"status"`
	Version        string   `json:"version"`
	StoreConnected bool     `json:"store_connected"`
	KeyPoolSize    int      `json:"key_pool_size"`
	KeyUsage       []uint64 `json:"key_usage"`
	CacheHitRate   float64  `json:"cache_hit_rate"`
	Uptime         float64  `json:"uptime"`
}

// Health handles GET /api/v1/health: overall status with dependency
// detail. Degraded when the store is unavailable or no API keys are
// configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil
	keyUsage := h.client.KeyUsage()

	status := "healthy"
	if !storeConnected || len(keyUsage) == 0 {
		status = "degraded"
	}

	health := HealthStatus{
		Status:         status,
		Version:        "1.0.0",
		StoreConnected: storeConnected,
		KeyPoolSize:    len(keyUsage),
		KeyUsage:       keyUsage,
		CacheHitRate:   h.cache.HitRate(),
		Uptime:         time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only when the store is open and at least one API key is
// configured; 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil
	keysConfigured := len(h.client.KeyUsage()) > 0
	ready := storeConnected && keysConfigured

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"store_connected": storeConnected,
			"keys_configured": keysConfigured,
			"ready_to_serve":  ready,
			"uptime":          time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
