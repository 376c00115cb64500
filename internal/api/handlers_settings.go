// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/crowdlens/crowdlens/internal/models"
	"github.com/crowdlens/crowdlens/internal/sentiment"
)

// maxSettingsBodySize caps the settings request body (64KB).
const maxSettingsBodySize = 64 * 1024

// Provider describes one sentiment model available to the engine.
type Provider struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Enabled     bool   `json:"enabled"`
	Combined    bool   `json:"combined"`
	Description string `json:"description"`
}

// Providers handles GET /api/v1/providers: the classifier roster with
// enablement state derived from config.
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	combined := make(map[string]bool, len(h.config.Sentiment.CombineModels))
	for _, m := range h.config.Sentiment.CombineModels {
		combined[m] = true
	}

	providers := []Provider{
		{
			Name:        sentiment.ModelVader,
			Kind:        "lexicon",
			Enabled:     true,
			Combined:    combined[sentiment.ModelVader],
			Description: "VADER polarity scoring tuned for short social-media text",
		},
		{
			Name:        sentiment.ModelEmotion,
			Kind:        "lexicon",
			Enabled:     true,
			Combined:    combined[sentiment.ModelEmotion],
			Description: "Emotion lexicon producing a dominant emotion and signed valence",
		},
		{
			Name:        sentiment.ModelAspect,
			Kind:        "lexicon",
			Enabled:     h.config.Sentiment.AspectEnabled,
			Combined:    combined[sentiment.ModelAspect],
			Description: "Aspect-window scoring around audio/visual/content trigger terms",
		},
		{
			Name:        sentiment.ModelTransformer,
			Kind:        "remote",
			Enabled:     h.config.Sentiment.RemoteEndpoint != "",
			Combined:    combined[sentiment.ModelTransformer],
			Description: "Remote transformer inference endpoint",
		},
	}

	respondJSON(w, http.StatusOK, okResponse(providers, start, false))
}

// GetSettings handles GET /api/v1/settings: returns saved user settings,
// or the defaults when none have been saved.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to load settings", err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse(settings, start, false))
}

// UpdateSettings handles POST /api/v1/settings: validates and persists
// user settings, returning the stored value.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var settings models.Settings
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "Invalid settings payload", err)
		return
	}

	if apiErr := validateRequest(&settings); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to save settings", err)
		return
	}

	saved, err := h.store.GetSettings(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to load settings", err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse(saved, start, false))
}
