// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/crowdlens/crowdlens/internal/models"
)

// SearchRequest is the validated form of GET /api/v1/search parameters.
type SearchRequest struct {
	Query      string `validate:"required,min=1,max=200"`
	MaxResults int    `validate:"min=0,max=50"`
}

// Search handles GET /api/v1/search?q=...&max_results=N: a video search
// against the Data API. The query is required; results are summaries
// suitable for picking a video to analyze.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := SearchRequest{
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		MaxResults: getIntParam(r, "max_results", 10),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	var results []models.VideoSummary
	err := h.client.Retry(r.Context(), func(ctx context.Context) error {
		found, err := h.client.Search(ctx, req.Query, req.MaxResults)
		if err != nil {
			return err
		}
		results = found
		return nil
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if results == nil {
		results = []models.VideoSummary{}
	}

	respondJSON(w, http.StatusOK, okResponse(results, start, false))
}
