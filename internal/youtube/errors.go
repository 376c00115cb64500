// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package youtube wraps the YouTube Data API v3 behind a typed client with
// API-key rotation, outbound rate limiting, and a classified error taxonomy.
//
// errors.go - typed error taxonomy for Data API failures
//
// Classification by upstream status:
//   - 403: *QuotaError (recoverable by key rotation when an alternate exists)
//   - 404: *NotFoundError
//   - 401: ErrUnauthorized
//   - 500/503: ErrUpstreamUnavailable
//   - anything else: *UpstreamError carrying the original status and message
//
// All errors are matchable with errors.Is / errors.As. The client never
// surfaces raw transport errors past this taxonomy.
package youtube

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that carry no extra data.
var (
	// ErrUnauthorized indicates the current API key was rejected outright
	// (HTTP 401). Not retried automatically: a rejected key is rejected on
	// every attempt.
	ErrUnauthorized = errors.New("youtube: api key rejected")

	// ErrUpstreamUnavailable indicates a transient upstream failure
	// (HTTP 500/503, transport failure, or an open circuit breaker). Safe to
	// retry with backoff at the caller's discretion; the client does not
	// retry it automatically.
	ErrUpstreamUnavailable = errors.New("youtube: upstream unavailable")
)

// ConfigError indicates invalid client configuration, such as an empty API
// key pool. Fatal at startup.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("youtube: invalid configuration: %s", e.Reason)
}

// NotFoundError indicates the requested video does not exist upstream, either
// reported as HTTP 404 or as an empty item list for an ID lookup.
type NotFoundError struct {
	VideoID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("youtube: video not found: %s", e.VideoID)
}

// QuotaError indicates the current API key's daily quota is exhausted
// (HTTP 403).
//
// Rotated reports whether the pool held an alternate key and was advanced
// before the error was surfaced. A rotated quota error is the retryable
// signal: the caller may re-invoke the operation, which will use the new
// current key. When Rotated is false the pool has no alternate and the
// failure is terminal for this call.
type QuotaError struct {
	Rotated bool
}

func (e *QuotaError) Error() string {
	if e.Rotated {
		return "youtube: api quota exceeded (rotated to alternate key)"
	}
	return "youtube: api quota exceeded (no alternate key available)"
}

// UpstreamError is the catch-all classified failure, carrying the original
// HTTP status and upstream message.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube: upstream error (status %d): %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether err is a quota error that rotated the key pool,
// i.e. whether re-invoking the failed operation can succeed with the now
// current key. This is the predicate the Retry orchestrator loops on.
func IsRetryable(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe) && qe.Rotated
}
