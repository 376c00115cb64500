// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/crowdlens/crowdlens/internal/analysis"
	"github.com/crowdlens/crowdlens/internal/config"
	"github.com/crowdlens/crowdlens/internal/models"
	"github.com/crowdlens/crowdlens/internal/sentiment"
	"github.com/crowdlens/crowdlens/internal/store"
	"github.com/crowdlens/crowdlens/internal/viz"
	"github.com/crowdlens/crowdlens/internal/youtube"
)

// mockClient implements youtube.ClientInterface with function fields and
// call counters.
type mockClient struct {
	metadataFn    func(ctx context.Context, videoID string) (*models.VideoMetadata, error)
	commentsFn    func(ctx context.Context, videoID string, maxResults int) ([]models.Comment, error)
	searchFn      func(ctx context.Context, query string, maxResults int) ([]models.VideoSummary, error)
	metadataCalls int
	searchCalls   int
}

func (m *mockClient) GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	m.metadataCalls++
	if m.metadataFn == nil {
		return &models.VideoMetadata{
			ID:      videoID,
			Snippet: models.VideoSnippet{Title: "Mock Video", ChannelTitle: "Mock Channel"},
		}, nil
	}
	return m.metadataFn(ctx, videoID)
}

func (m *mockClient) GetComments(ctx context.Context, videoID string, maxResults int) ([]models.Comment, error) {
	if m.commentsFn == nil {
		base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		return []models.Comment{
			{Text: "I love this video!", Author: "alice", PublishedAt: base, LikeCount: 5},
			{Text: "Terrible content, hated it.", Author: "bob", PublishedAt: base.Add(time.Hour), LikeCount: 1},
			{Text: "It exists.", Author: "carol", PublishedAt: base.Add(2 * time.Hour), LikeCount: 0},
		}, nil
	}
	return m.commentsFn(ctx, videoID, maxResults)
}

func (m *mockClient) Search(ctx context.Context, query string, maxResults int) ([]models.VideoSummary, error) {
	m.searchCalls++
	if m.searchFn == nil {
		return []models.VideoSummary{{VideoID: "abc123def45", Title: "Result"}}, nil
	}
	return m.searchFn(ctx, query, maxResults)
}

func (m *mockClient) Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil && youtube.IsRetryable(err) {
		err = fn(ctx)
	}
	return err
}

func (m *mockClient) KeyUsage() []uint64 {
	return []uint64{3, 1}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		YouTube: config.YouTubeConfig{
			APIKeys:     []string{"test-key"},
			MaxComments: 500,
		},
		Sentiment: config.SentimentConfig{
			CombineModels: []string{sentiment.ModelVader, sentiment.ModelEmotion},
			AspectEnabled: true,
		},
		Analysis: config.AnalysisConfig{MaxWorkers: 2},
		Cache:    config.CacheConfig{TTL: 1 * time.Minute},
		Viz:      config.VizConfig{ArtifactDir: t.TempDir(), MaxWords: 50},
	}
}

func newTestServer(t *testing.T, client youtube.ClientInterface) (*httptest.Server, *Handler, *store.Store) {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("Failed to open in-memory badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	st := store.NewWithDB(db)

	cfg := testConfig(t)
	pipeline := analysis.NewPipeline(func() *sentiment.Engine {
		return sentiment.NewEngineFromConfig(&cfg.Sentiment)
	}, cfg.Analysis.MaxWorkers)
	vizGen := viz.NewGenerator(cfg.Viz.ArtifactDir, cfg.Viz.MaxWords)

	handler := NewHandler(client, pipeline, st, vizGen, cfg)
	chiMW := NewChiMiddlewareFromConfig([]string{"*"}, 1000, time.Minute, true)
	router := NewRouter(handler, chiMW)

	server := httptest.NewServer(router.SetupChi())
	t.Cleanup(server.Close)
	return server, handler, st
}

func decodeEnvelope(t *testing.T, resp *http.Response) *models.APIResponse {
	t.Helper()
	defer resp.Body.Close()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response envelope: %v", err)
	}
	return &envelope
}

func TestVideoAnalysisEndpoint(t *testing.T) {
	client := &mockClient{}
	server, _, st := newTestServer(t, client)

	resp, err := http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope.Status != "success" {
		t.Errorf("Expected success status, got %s", envelope.Status)
	}
	if envelope.Metadata.Cached {
		t.Error("First request must not be served from cache")
	}

	data, _ := json.Marshal(envelope.Data)
	var result models.VideoAnalysis
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to decode analysis payload: %v", err)
	}
	if result.Metadata.ID != "dQw4w9WgXcQ" {
		t.Errorf("Expected video id in payload, got %s", result.Metadata.ID)
	}
	if result.SentimentAnalysis.TotalComments != 3 {
		t.Errorf("Expected 3 analyzed comments, got %d", result.SentimentAnalysis.TotalComments)
	}
	if len(result.SentimentTrends) == 0 {
		t.Error("Expected non-empty trend series")
	}

	// The analysis is persisted for later retrieval.
	record, err := st.GetAnalysis(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Expected persisted record, got %v", err)
	}
	if record.Results.TotalComments != 3 {
		t.Errorf("Persisted record incomplete: %+v", record.Results)
	}
}

func TestVideoAnalysisCached(t *testing.T) {
	client := &mockClient{}
	server, _, _ := newTestServer(t, client)

	url := server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis"

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	decodeEnvelope(t, resp)
	if client.metadataCalls != 1 {
		t.Fatalf("Expected 1 upstream call, got %d", client.metadataCalls)
	}

	resp, err = http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)
	if !envelope.Metadata.Cached {
		t.Error("Second request should be served from cache")
	}
	if client.metadataCalls != 1 {
		t.Errorf("Cached request must not call upstream, got %d calls", client.metadataCalls)
	}

	// refresh=true bypasses the cache.
	resp, err = http.Get(url + "?refresh=true")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope = decodeEnvelope(t, resp)
	if envelope.Metadata.Cached {
		t.Error("refresh=true must bypass the cache")
	}
	if client.metadataCalls != 2 {
		t.Errorf("Expected refresh to call upstream, got %d calls", client.metadataCalls)
	}
}

func TestVideoAnalysisRefreshDropsStaleEntry(t *testing.T) {
	client := &mockClient{}
	server, _, _ := newTestServer(t, client)
	url := server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis"

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	decodeEnvelope(t, resp)

	// A refresh that fails upstream must not leave the old entry behind.
	client.metadataFn = func(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
		return nil, youtube.ErrUpstreamUnavailable
	}
	resp, err = http.Get(url + "?refresh=true")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 from failed refresh, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	client.metadataFn = nil
	resp, err = http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Metadata.Cached {
		t.Error("Expected stale entry dropped by the failed refresh")
	}
	if client.metadataCalls != 3 {
		t.Errorf("Expected 3 upstream calls, got %d", client.metadataCalls)
	}
}

func TestVideoAnalysisInvalidID(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	resp, err := http.Get(server.URL + "/api/v1/videos/not-valid/analysis")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != CodeValidationError {
		t.Errorf("Expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
}

func TestVideoAnalysisQuotaExhausted(t *testing.T) {
	client := &mockClient{
		metadataFn: func(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
			return nil, &youtube.QuotaError{Rotated: false}
		},
	}
	server, _, _ := newTestServer(t, client)

	resp, err := http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != CodeQuotaExceeded {
		t.Errorf("Expected QUOTA_EXCEEDED, got %+v", envelope.Error)
	}
}

func TestVideoAnalysisNotFoundUpstream(t *testing.T) {
	client := &mockClient{
		metadataFn: func(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
			return nil, &youtube.NotFoundError{VideoID: videoID}
		},
	}
	server, _, _ := newTestServer(t, client)

	resp, err := http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != CodeVideoNotFound {
		t.Errorf("Expected VIDEO_NOT_FOUND, got %+v", envelope.Error)
	}
}

func TestGetAnalysisEndpoint(t *testing.T) {
	server, _, st := newTestServer(t, &mockClient{})

	// Nothing stored yet.
	resp, err := http.Get(server.URL + "/api/v1/analyses/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown analysis, got %d", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != CodeAnalysisNotFound {
		t.Errorf("Expected ANALYSIS_NOT_FOUND, got %+v", envelope.Error)
	}

	record := &models.AnalysisRecord{
		VideoID:   "dQw4w9WgXcQ",
		Timestamp: time.Now().UTC(),
		Metadata:  models.VideoMetadata{ID: "dQw4w9WgXcQ", Snippet: models.VideoSnippet{Title: "Stored"}},
	}
	if err := st.SaveAnalysis(context.Background(), record); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	resp, err = http.Get(server.URL + "/api/v1/analyses/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	decodeEnvelope(t, resp)
}

func TestDeleteAnalysisEndpoint(t *testing.T) {
	client := &mockClient{}
	server, _, st := newTestServer(t, client)

	// Analyze once so both the store and the cache hold the result.
	resp, err := http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	decodeEnvelope(t, resp)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/analyses/dQw4w9WgXcQ", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	decodeEnvelope(t, resp)

	if _, err := st.GetAnalysis(context.Background(), "dQw4w9WgXcQ"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected record removed from store, got %v", err)
	}

	// The cached entry must be invalidated too: the next analysis request
	// goes back upstream instead of serving the deleted result.
	resp, err = http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/analysis")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Metadata.Cached {
		t.Error("Expected cache invalidation after delete")
	}
	if client.metadataCalls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", client.metadataCalls)
	}
}

func TestDeleteAnalysisInvalidID(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/analyses/not-valid", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != CodeValidationError {
		t.Errorf("Expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
}

func TestListAnalysesEndpoint(t *testing.T) {
	server, _, st := newTestServer(t, &mockClient{})
	ctx := context.Background()

	for _, title := range []string{"Golang Tutorial", "Cooking Show"} {
		id := "aaa11111111"
		if title == "Cooking Show" {
			id = "bbb22222222"
		}
		record := &models.AnalysisRecord{
			VideoID:  id,
			Metadata: models.VideoMetadata{ID: id, Snippet: models.VideoSnippet{Title: title}},
		}
		if err := st.SaveAnalysis(ctx, record); err != nil {
			t.Fatalf("SaveAnalysis failed: %v", err)
		}
	}

	resp, err := http.Get(server.URL + "/api/v1/analyses?q=golang")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)

	data, _ := json.Marshal(envelope.Data)
	var records []models.AnalysisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Failed to decode records: %v", err)
	}
	if len(records) != 1 || records[0].VideoID != "aaa11111111" {
		t.Errorf("Expected the golang record only, got %+v", records)
	}

	// Empty history with no match still yields an empty array, not null.
	resp, err = http.Get(server.URL + "/api/v1/analyses?q=nomatch")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope = decodeEnvelope(t, resp)
	if envelope.Data == nil {
		t.Error("Expected empty array data, got null")
	}
}

func TestSearchEndpoint(t *testing.T) {
	client := &mockClient{}
	server, _, _ := newTestServer(t, client)

	resp, err := http.Get(server.URL + "/api/v1/search?q=gophers")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)

	data, _ := json.Marshal(envelope.Data)
	var results []models.VideoSummary
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("Failed to decode results: %v", err)
	}
	if len(results) != 1 || results[0].VideoID != "abc123def45" {
		t.Errorf("Unexpected search results: %+v", results)
	}
	if client.searchCalls != 1 {
		t.Errorf("Expected 1 upstream search call, got %d", client.searchCalls)
	}
}

func TestSearchEndpointMissingQuery(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	resp, err := http.Get(server.URL + "/api/v1/search")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400 without q, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != CodeValidationError {
		t.Errorf("Expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
}

func TestProvidersEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	resp, err := http.Get(server.URL + "/api/v1/providers")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)

	data, _ := json.Marshal(envelope.Data)
	var providers []Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		t.Fatalf("Failed to decode providers: %v", err)
	}
	if len(providers) != 4 {
		t.Fatalf("Expected 4 providers, got %d", len(providers))
	}

	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}
	if !byName[sentiment.ModelVader].Enabled || !byName[sentiment.ModelVader].Combined {
		t.Errorf("Expected vader enabled and combined, got %+v", byName[sentiment.ModelVader])
	}
	if !byName[sentiment.ModelAspect].Enabled {
		t.Error("Expected aspect enabled per config")
	}
	if byName[sentiment.ModelTransformer].Enabled {
		t.Error("Expected transformer disabled without a remote endpoint")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	// Defaults before anything is saved.
	resp, err := http.Get(server.URL + "/api/v1/settings")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)

	data, _ := json.Marshal(envelope.Data)
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("Failed to decode settings: %v", err)
	}
	defaults := models.DefaultSettings()
	if settings.MaxComments != defaults.MaxComments {
		t.Errorf("Expected default max comments %d, got %d", defaults.MaxComments, settings.MaxComments)
	}

	body := `{"max_comments": 250, "preferred_models": ["vader"], "theme": "dark"}`
	resp, err = http.Post(server.URL+"/api/v1/settings", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	envelope = decodeEnvelope(t, resp)

	data, _ = json.Marshal(envelope.Data)
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("Failed to decode saved settings: %v", err)
	}
	if settings.MaxComments != 250 || settings.Theme != "dark" {
		t.Errorf("Settings did not round-trip: %+v", settings)
	}
	if settings.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt stamped on save")
	}
}

func TestSettingsValidation(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	tests := []struct {
		name string
		body string
	}{
		{"out of range max comments", `{"max_comments": 99999}`},
		{"unknown model", `{"preferred_models": ["bogus"]}`},
		{"unknown theme", `{"theme": "hotdog"}`},
		{"unknown field", `{"nope": true}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/v1/settings", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
			resp.Body.Close()
		})
	}
}

func TestVisualizationsEndpoint(t *testing.T) {
	server, _, st := newTestServer(t, &mockClient{})
	ctx := context.Background()

	// No analysis yet: 404.
	resp, err := http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/visualizations")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 without a stored analysis, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	record := &models.AnalysisRecord{
		VideoID:  "dQw4w9WgXcQ",
		Comments: []models.Comment{{Text: "great tutorial", LikeCount: 2}},
		Results: models.BatchResult{
			AggregateStats: models.AggregateStats{
				TotalComments:         1,
				SentimentDistribution: map[string]float64{models.SentimentPositive: 100},
			},
			IndividualResults: []models.SentimentResult{{Text: "great tutorial", CombinedScore: 0.6, Label: models.SentimentPositive}},
		},
		Metadata: models.VideoMetadata{ID: "dQw4w9WgXcQ"},
	}
	if err := st.SaveAnalysis(ctx, record); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	resp, err = http.Get(server.URL + "/api/v1/videos/dQw4w9WgXcQ/visualizations")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)

	data, _ := json.Marshal(envelope.Data)
	var artifacts []models.VizArtifact
	if err := json.Unmarshal(data, &artifacts); err != nil {
		t.Fatalf("Failed to decode artifacts: %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("Expected 4 artifacts, got %d", len(artifacts))
	}

	// Each artifact is retrievable by ID as raw JSON.
	resp, err = http.Get(server.URL + "/api/v1/visualizations/" + artifacts[0].ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for artifact fetch, got %d", resp.StatusCode)
	}
	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Artifact payload not valid JSON: %v", err)
	}
	if payload["video_id"] != "dQw4w9WgXcQ" {
		t.Errorf("Expected artifact payload for video, got %v", payload["video_id"])
	}
}

func TestListVizArtifactsEndpoint(t *testing.T) {
	server, _, st := newTestServer(t, &mockClient{})
	ctx := context.Background()

	// Empty index still yields an array, not null.
	resp, err := http.Get(server.URL + "/api/v1/visualizations")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Data == nil {
		t.Error("Expected empty array data, got null")
	}

	for i, videoID := range []string{"aaa11111111", "aaa11111111", "bbb22222222"} {
		artifact := &models.VizArtifact{
			ID:      "art-" + string(rune('0'+i)),
			VideoID: videoID,
			Kind:    viz.KindDistribution,
		}
		if err := st.SaveVizArtifact(ctx, artifact); err != nil {
			t.Fatalf("SaveVizArtifact failed: %v", err)
		}
	}

	resp, err = http.Get(server.URL + "/api/v1/visualizations?video_id=aaa11111111")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope = decodeEnvelope(t, resp)
	data, _ := json.Marshal(envelope.Data)
	var artifacts []models.VizArtifact
	if err := json.Unmarshal(data, &artifacts); err != nil {
		t.Fatalf("Failed to decode artifacts: %v", err)
	}
	if len(artifacts) != 2 {
		t.Errorf("Expected 2 artifacts for the video, got %d", len(artifacts))
	}

	resp, err = http.Get(server.URL + "/api/v1/visualizations")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope = decodeEnvelope(t, resp)
	data, _ = json.Marshal(envelope.Data)
	artifacts = nil
	if err := json.Unmarshal(data, &artifacts); err != nil {
		t.Fatalf("Failed to decode artifacts: %v", err)
	}
	if len(artifacts) != 3 {
		t.Errorf("Expected 3 artifacts in total, got %d", len(artifacts))
	}
}

func TestHealthEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	resp, err := http.Get(server.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected liveness 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/v1/health/ready")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected readiness 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Status != "success" {
		t.Errorf("Expected success envelope, got %s", envelope.Status)
	}

	data, _ := json.Marshal(envelope.Data)
	var health HealthStatus
	if err := json.Unmarshal(data, &health); err != nil {
		t.Fatalf("Failed to decode health payload: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Expected healthy status, got %s", health.Status)
	}
	if health.KeyPoolSize != 2 {
		t.Errorf("Expected key pool size 2, got %d", health.KeyPoolSize)
	}
}

func TestSecurityHeaders(t *testing.T) {
	server, _, _ := newTestServer(t, &mockClient{})

	resp, err := http.Get(server.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected nosniff header, got %q", got)
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected DENY frame options, got %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("Expected ETag header")
	}
}
