// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crowdlens/crowdlens/internal/cache"
	"github.com/crowdlens/crowdlens/internal/logging"
	"github.com/crowdlens/crowdlens/internal/models"
	"github.com/crowdlens/crowdlens/internal/validation"
)

// VideoAnalysis handles GET /api/v1/videos/{id}/analysis.
//
// Runs the full pipeline for a video: metadata + comments are fetched from
// the Data API (with quota-rotation retry), the comment batch is scored by
// the sentiment engine pool, and chronological trend buckets are computed.
// The result is cached by video ID and persisted to the store. A repeat
// request within the cache TTL is served without touching the upstream API.
//
// Query parameters:
//   - max_comments: cap on comments fetched (default from saved settings)
//   - refresh: bypass and replace the cached result
func (h *Handler) VideoAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	videoID := chi.URLParam(r, "id")
	if !validation.IsVideoID(videoID) {
		respondError(w, http.StatusBadRequest, CodeValidationError, "video id must be a valid YouTube video ID", nil)
		return
	}

	refresh := getBoolParam(r, "refresh", false)
	maxComments := getIntParam(r, "max_comments", 0)
	if maxComments <= 0 {
		maxComments = h.defaultMaxComments(ctx)
	}

	key := cache.AnalysisKey(videoID)
	if refresh {
		// Drop the stale entry up front so a failed refresh does not keep
		// serving it within the TTL.
		h.cache.Delete(key)
	} else if cached, ok := h.cache.Get(key); ok {
		respondJSON(w, http.StatusOK, okResponse(cached, start, true))
		return
	}

	result, err := h.runAnalysis(ctx, videoID, maxComments)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	h.cache.Set(key, result)
	respondJSON(w, http.StatusOK, okResponse(result, start, false))
}

// GetAnalysis handles GET /api/v1/analyses/{id}: a persisted analysis
// lookup that never touches the upstream API.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	videoID := chi.URLParam(r, "id")
	if !validation.IsVideoID(videoID) {
		respondError(w, http.StatusBadRequest, CodeValidationError, "video id must be a valid YouTube video ID", nil)
		return
	}

	record, err := h.store.GetAnalysis(r.Context(), videoID)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse(record, start, false))
}

// ListAnalyses handles GET /api/v1/analyses: the stored analysis history,
// optionally filtered by a q= substring over title, channel and video ID.
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query().Get("q")
	records, err := h.store.SearchAnalyses(r.Context(), query)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if records == nil {
		records = []*models.AnalysisRecord{}
	}

	respondJSON(w, http.StatusOK, okResponse(records, start, false))
}

// DeleteAnalysis handles DELETE /api/v1/analyses/{id}: removes the persisted
// record and invalidates any cached result for the video. Deleting an absent
// record succeeds.
func (h *Handler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	videoID := chi.URLParam(r, "id")
	if !validation.IsVideoID(videoID) {
		respondError(w, http.StatusBadRequest, CodeValidationError, "video id must be a valid YouTube video ID", nil)
		return
	}

	if err := h.store.DeleteAnalysis(r.Context(), videoID); err != nil {
		respondUpstreamError(w, err)
		return
	}
	h.cache.Delete(cache.AnalysisKey(videoID))

	respondJSON(w, http.StatusOK, okResponse(map[string]string{"video_id": videoID, "status": "deleted"}, start, false))
}

// Visualizations handles GET /api/v1/videos/{id}/visualizations.
//
// Renders the artifact set (word frequency, distribution, engagement,
// trend) for a video's persisted analysis. Artifacts are written under
// fresh UUID filenames on every call and indexed in the store.
func (h *Handler) Visualizations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	videoID := chi.URLParam(r, "id")
	if !validation.IsVideoID(videoID) {
		respondError(w, http.StatusBadRequest, CodeValidationError, "video id must be a valid YouTube video ID", nil)
		return
	}

	record, err := h.store.GetAnalysis(ctx, videoID)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	payload := &models.VideoAnalysis{
		Metadata:          record.Metadata,
		Comments:          record.Comments,
		SentimentAnalysis: record.Results,
		SentimentTrends:   record.Trends,
	}

	artifacts, err := h.viz.Generate(payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to generate visualizations", err)
		return
	}

	for _, artifact := range artifacts {
		if err := h.store.SaveVizArtifact(ctx, artifact); err != nil {
			logging.Warn().Err(err).Str("artifact_id", artifact.ID).Msg("Failed to index visualization artifact")
		}
	}

	respondJSON(w, http.StatusOK, okResponse(artifacts, start, false))
}

// ListVizArtifacts handles GET /api/v1/visualizations: the artifact index,
// optionally filtered by a video_id query parameter.
func (h *Handler) ListVizArtifacts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	artifacts, err := h.store.ListVizArtifacts(r.Context(), r.URL.Query().Get("video_id"))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if artifacts == nil {
		artifacts = []*models.VizArtifact{}
	}

	respondJSON(w, http.StatusOK, okResponse(artifacts, start, false))
}

// VizArtifact handles GET /api/v1/visualizations/{id}: returns the raw
// JSON payload of a previously generated artifact.
func (h *Handler) VizArtifact(w http.ResponseWriter, r *http.Request) {
	artifactID := chi.URLParam(r, "id")

	artifact, err := h.store.GetVizArtifact(r.Context(), artifactID)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	raw, err := h.viz.Read(artifact)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to read visualization artifact", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		logging.Error().Err(err).Msg("Failed to write artifact response")
	}
}

// runAnalysis executes the fetch-and-analyze pipeline for one video.
// Each upstream call goes through the client's bounded quota-rotation
// retry. Zero comments yields an empty-but-valid analysis.
func (h *Handler) runAnalysis(ctx context.Context, videoID string, maxComments int) (*models.VideoAnalysis, error) {
	var metadata *models.VideoMetadata
	err := h.client.Retry(ctx, func(ctx context.Context) error {
		m, err := h.client.GetMetadata(ctx, videoID)
		if err != nil {
			return err
		}
		metadata = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	err = h.client.Retry(ctx, func(ctx context.Context) error {
		c, err := h.client.GetComments(ctx, videoID, maxComments)
		if err != nil {
			return err
		}
		comments = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(comments))
	timestamps := make([]time.Time, len(comments))
	for i, c := range comments {
		texts[i] = c.Text
		timestamps[i] = c.PublishedAt
	}

	batch := h.pipeline.AnalyzeBatch(ctx, texts)

	trends, err := h.pipeline.Trends(ctx, texts, timestamps)
	if err != nil {
		return nil, err
	}

	result := &models.VideoAnalysis{
		Metadata:          *metadata,
		Comments:          comments,
		SentimentAnalysis: batch,
		SentimentTrends:   trends,
	}

	record := &models.AnalysisRecord{
		VideoID:   videoID,
		Timestamp: time.Now().UTC(),
		Comments:  comments,
		Results:   batch,
		Trends:    trends,
		Metadata:  *metadata,
	}
	if err := h.store.SaveAnalysis(ctx, record); err != nil {
		// The analysis itself succeeded; losing persistence is not fatal
		logging.Warn().Err(err).Str("video_id", videoID).Msg("Failed to persist analysis record")
	}

	logging.Info().
		Str("video_id", videoID).
		Int("comments", len(comments)).
		Float64("average_sentiment", batch.AverageSentiment).
		Msg("Video analysis completed")

	return result, nil
}

// defaultMaxComments resolves the comment cap from saved settings, falling
// back to the server config.
func (h *Handler) defaultMaxComments(ctx context.Context) int {
	settings, err := h.store.GetSettings(ctx)
	if err == nil && settings.MaxComments > 0 {
		return settings.MaxComments
	}
	return h.config.YouTube.MaxComments
}
