// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package sentiment

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/crowdlens/crowdlens/internal/models"
)

// RemoteClassifier scores text against a transformer model served over HTTP
// (a HuggingFace-style inference endpoint). It is optional: the engine only
// includes it when an endpoint is configured, and its failures are contained
// by the engine's per-model boundary like any other classifier.
type RemoteClassifier struct {
	endpoint string
	client   *http.Client
}

// remoteRequest is the inference request body.
type remoteRequest struct {
	Text string `json:"text"`
}

// remoteResponse is the inference response body.
type remoteResponse struct {
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
	Confidence     float64 `json:"confidence"`
}

// NewRemoteClassifier builds a remote classifier for the given endpoint.
// A non-positive timeout defaults to 10 seconds.
func NewRemoteClassifier(endpoint string, timeout time.Duration) *RemoteClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Classifier.
func (c *RemoteClassifier) Name() string { return ModelTransformer }

// Score implements Classifier. The remote label is normalized to lowercase
// tri-state; the remote score is expected signed in [-1, 1] and clamped.
func (c *RemoteClassifier) Score(ctx context.Context, text string) (models.ModelScore, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return models.ModelScore{}, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.ModelScore{}, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.ModelScore{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ModelScore{}, fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.ModelScore{}, fmt.Errorf("decode inference response: %w", err)
	}

	score := out.SentimentScore
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	label := strings.ToLower(out.SentimentLabel)
	switch label {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		label = LabelFor(score)
	}

	return models.ModelScore{
		Model:      ModelTransformer,
		Label:      label,
		Score:      score,
		Confidence: out.Confidence,
	}, nil
}
