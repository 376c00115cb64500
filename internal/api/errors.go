// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/crowdlens/crowdlens/internal/store"
	"github.com/crowdlens/crowdlens/internal/youtube"
)

// Error codes returned in the JSON error envelope.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeVideoNotFound       = "VIDEO_NOT_FOUND"
	CodeAnalysisNotFound    = "ANALYSIS_NOT_FOUND"
	CodeQuotaExceeded       = "QUOTA_EXCEEDED"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUnauthorizedKey     = "UPSTREAM_UNAUTHORIZED"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeRequestTimeout      = "REQUEST_TIMEOUT"
)

// classifyUpstreamError maps the YouTube client's error taxonomy onto an
// HTTP status and error code for the response envelope. Quota exhaustion
// surfaces as 429 so clients can back off; a rejected key surfaces as 401
// with an UPSTREAM_UNAUTHORIZED code so it is not mistaken for a client
// credential failure.
func classifyUpstreamError(err error) (int, string, string) {
	var notFound *youtube.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, CodeVideoNotFound, "Video not found"
	}

	var quota *youtube.QuotaError
	if errors.As(err, &quota) {
		return http.StatusTooManyRequests, CodeQuotaExceeded, "YouTube API quota exceeded on all configured keys"
	}

	if errors.Is(err, youtube.ErrUnauthorized) {
		return http.StatusUnauthorized, CodeUnauthorizedKey, "YouTube API rejected the configured key"
	}

	if errors.Is(err, youtube.ErrUpstreamUnavailable) {
		return http.StatusServiceUnavailable, CodeUpstreamUnavailable, "YouTube API is unavailable"
	}

	var upstream *youtube.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusInternalServerError, CodeUpstreamError, "Unexpected YouTube API response"
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusGatewayTimeout, CodeRequestTimeout, "Request timed out"
	}

	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, CodeAnalysisNotFound, "Analysis not found"
	}

	return http.StatusInternalServerError, CodeInternalError, "Internal server error"
}
