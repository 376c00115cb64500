// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

/*
client.go - Core YouTube Data API v3 client

This file provides the Client struct and HTTP communication layer for the
Data API endpoints Crowdlens consumes: videos.list, commentThreads.list and
search.list.

Client Features:
  - HTTP client with configurable timeout
  - API key authentication from a rotating KeyPool
  - Outbound rate limiting (minimum inter-request spacing)
  - Circuit breaker protection on the transport
  - Typed error classification (see errors.go)
  - Context support for cancellation and timeouts

Resilience Mechanisms:
  - Key Rotation: HTTP 403 rotates the pool once per call when an alternate
    key exists and surfaces a retryable QuotaError; Retry re-invokes the
    operation at most once per pool key
  - Circuit Breaker: opens after 3 consecutive transport failures (30s open
    period); open-circuit calls surface as ErrUpstreamUnavailable
  - Non-quota HTTP failures are never retried with a different key: they are
    not credential-dependent
*/
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/crowdlens/crowdlens/internal/config"
	"github.com/crowdlens/crowdlens/internal/logging"
	"github.com/crowdlens/crowdlens/internal/metrics"
	"github.com/crowdlens/crowdlens/internal/models"
)

// DefaultBaseURL is the production Data API endpoint. Overridable through
// configuration for testing against a local server.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// commentPageSize is the Data API maximum page size for commentThreads.list.
const commentPageSize = 100

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// ClientInterface defines the Data API operations consumed by the rest of
// the application. Implemented by Client for production use and by mocks in
// handler tests.
//
// All methods accept a context for cancellation, call the rate limiter
// before each outbound request, and return errors from the taxonomy in
// errors.go. Thread safety: all methods are safe for concurrent use.
type ClientInterface interface {
	GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error)
	GetComments(ctx context.Context, videoID string, maxResults int) ([]models.Comment, error)
	Search(ctx context.Context, query string, maxResults int) ([]models.VideoSummary, error)
	Retry(ctx context.Context, fn func(ctx context.Context) error) error
	KeyUsage() []uint64
}

// Client handles communication with the YouTube Data API v3.
//
// Thread Safety: safe for concurrent use. The key pool serializes rotation
// internally; each request creates its own HTTP request and reads the
// current key at send time, so a rotation performed by one caller is picked
// up by the next request of every caller.
type Client struct {
	baseURL string
	pool    *KeyPool
	limiter *RateLimiter
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]

	maxComments int // default cap for GetComments when the caller passes <= 0
}

// NewClient creates a Data API client from configuration. Returns a
// *ConfigError when the key list is empty.
func NewClient(cfg *config.YouTubeConfig) (*Client, error) {
	pool, err := NewKeyPool(cfg.APIKeys)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxComments := cfg.MaxComments
	if maxComments <= 0 {
		maxComments = 500
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "youtube-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("YouTube circuit breaker state change")
		},
	})

	return &Client{
		baseURL:     baseURL,
		pool:        pool,
		limiter:     NewRateLimiter(cfg.MinRequestInterval),
		client:      &http.Client{Timeout: timeout},
		breaker:     breaker,
		maxComments: maxComments,
	}, nil
}

// Retry invokes fn with an explicit, bounded retry loop: at most one attempt
// per key in the pool, re-invoking only after a rotated quota failure. Every
// other error is returned as-is on the first occurrence.
//
// The per-attempt rotation happens inside the client's error classification,
// so each retry automatically uses the new current key.
func (c *Client) Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := c.pool.Size()
	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}
		logging.Warn().Int("attempt", i+1).Msg("Quota exhausted, retrying with rotated API key")
	}
	return err
}

// KeyUsage exposes the pool's per-key request counters for health reporting.
func (c *Client) KeyUsage() []uint64 {
	return c.pool.Usage()
}

// GetMetadata fetches metadata for a single video. An empty item list is a
// *NotFoundError, never a silent nil.
func (c *Client) GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", videoID)

	var resp models.YTVideoListResponse
	if err := c.makeRequest(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, &NotFoundError{VideoID: videoID}
	}

	meta := normalizeVideo(&resp.Items[0])
	return &meta, nil
}

// GetComments fetches up to maxResults comments for a video, paginating with
// the continuation token and flattening nested replies into independent
// comments. A failure on any page aborts the whole call with that page's
// error; partial results are discarded. A video with zero comments yields an
// empty slice, not an error.
//
// maxResults <= 0 applies the configured default cap.
func (c *Client) GetComments(ctx context.Context, videoID string, maxResults int) ([]models.Comment, error) {
	if maxResults <= 0 {
		maxResults = c.maxComments
	}

	comments := make([]models.Comment, 0, min(maxResults, commentPageSize))
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet,replies")
		params.Set("videoId", videoID)
		params.Set("maxResults", strconv.Itoa(min(commentPageSize, maxResults-len(comments))))
		params.Set("textFormat", "plainText")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp models.YTCommentThreadsResponse
		if err := c.makeRequest(ctx, "commentThreads", params, &resp); err != nil {
			return nil, err
		}

		for i := range resp.Items {
			item := &resp.Items[i]
			comments = append(comments, normalizeComment(&item.Snippet.TopLevelComment.Snippet))
			for j := range item.Replies.Comments {
				comments = append(comments, normalizeComment(&item.Replies.Comments[j].Snippet))
			}
		}

		if len(comments) >= maxResults || resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(comments) > maxResults {
		comments = comments[:maxResults]
	}
	return comments, nil
}

// Search runs a first-page video search for the given query. No pagination
// loop: a single request capped at maxResults (Data API maximum 50).
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.VideoSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > 50 {
		maxResults = 50
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp models.YTSearchResponse
	if err := c.makeRequest(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]models.VideoSummary, 0, len(resp.Items))
	for i := range resp.Items {
		item := &resp.Items[i]
		results = append(results, models.VideoSummary{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.Default.URL,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return results, nil
}

// makeRequest is the shared request path: throttle, build the URL with the
// current pool key, send through the circuit breaker, classify non-200
// statuses into the error taxonomy, and decode the JSON body.
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Throttle(ctx); err != nil {
		return err
	}

	params.Set("key", c.pool.Current())
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if reqErr != nil {
			return nil, reqErr
		}
		return c.client.Do(req)
	})
	if err != nil {
		metrics.RecordYouTubeRequest(endpoint, "transport_error", time.Since(start))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit breaker open", ErrUpstreamUnavailable)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.RecordYouTubeRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	metrics.UpdateKeyUsage(c.pool.Usage())

	if resp.StatusCode != http.StatusOK {
		return c.classifyStatus(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// classifyStatus translates a non-200 Data API response into the typed error
// taxonomy. A 403 rotates the key pool when an alternate key exists, so the
// next request (this caller's retry or anyone else's) uses the new key. The
// rotation happens at most once per failed call.
func (c *Client) classifyStatus(endpoint string, resp *http.Response) error {
	body := readBodyForError(resp.Body)
	message := upstreamMessage(body)

	switch resp.StatusCode {
	case http.StatusForbidden:
		if c.pool.HasAlternate() {
			c.pool.Rotate()
			metrics.RecordKeyRotation()
			logging.Warn().Str("endpoint", endpoint).Msg("YouTube quota exceeded, rotated API key")
			return &QuotaError{Rotated: true}
		}
		logging.Error().Str("endpoint", endpoint).Msg("YouTube quota exceeded, no alternate key")
		return &QuotaError{Rotated: false}
	case http.StatusNotFound:
		return &NotFoundError{VideoID: message}
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s returned status %d", ErrUpstreamUnavailable, endpoint, resp.StatusCode)
	default:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}
}

// upstreamMessage extracts the error message from a Data API error body,
// falling back to the raw body when it does not parse.
func upstreamMessage(body []byte) string {
	var ytErr models.YTErrorResponse
	if err := json.Unmarshal(body, &ytErr); err == nil && ytErr.Error.Message != "" {
		return ytErr.Error.Message
	}
	return string(body)
}

// readBodyForError reads the response body for error reporting (max 64KB).
// Uses io.LimitReader to prevent unbounded memory allocation.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

func normalizeVideo(item *models.YTVideoItem) models.VideoMetadata {
	thumb := item.Snippet.Thumbnails.High.URL
	if thumb == "" {
		thumb = item.Snippet.Thumbnails.Default.URL
	}
	return models.VideoMetadata{
		ID: item.ID,
		Snippet: models.VideoSnippet{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			ThumbnailURL: thumb,
		},
		Statistics: models.VideoStatistics{
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
		},
		ContentDetails: models.VideoContentInfo{
			Duration:   item.ContentDetails.Duration,
			Definition: item.ContentDetails.Definition,
		},
	}
}

func normalizeComment(s *models.YTCommentSnippet) models.Comment {
	return models.Comment{
		Text:        s.TextDisplay,
		Author:      s.AuthorDisplayName,
		PublishedAt: s.PublishedAt,
		LikeCount:   s.LikeCount,
	}
}

// parseCount converts the Data API's string-encoded counters. Missing or
// malformed counts decode as zero.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
