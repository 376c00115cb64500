// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package viz renders analysis results into JSON visualization artifacts
// that frontends plot directly. Each artifact is written to disk under a
// random UUID filename and indexed in the store.
package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/crowdlens/crowdlens/internal/models"
)

// Artifact kinds
const (
	KindWordFrequency = "word_frequency"
	KindDistribution  = "sentiment_distribution"
	KindEngagement    = "engagement"
	KindTrend         = "sentiment_trend"
)

// defaultMaxWords caps the word frequency chart size when config leaves it
// unset.
const defaultMaxWords = 50

// stopwords excluded from word frequency charts. Short function words only;
// anything domain-bearing stays in.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "he": true, "her": true, "his": true,
	"i": true, "in": true, "is": true, "it": true, "its": true, "me": true,
	"my": true, "of": true, "on": true, "or": true, "our": true, "she": true,
	"so": true, "that": true, "the": true, "their": true, "them": true,
	"they": true, "this": true, "to": true, "was": true, "we": true,
	"were": true, "will": true, "with": true, "you": true, "your": true,
}

// Generator writes visualization artifacts for completed analyses.
type Generator struct {
	dir      string
	maxWords int
}

// NewGenerator creates a Generator writing artifacts under dir. The
// directory is created on first use.
func NewGenerator(dir string, maxWords int) *Generator {
	if maxWords <= 0 {
		maxWords = defaultMaxWords
	}
	return &Generator{dir: dir, maxWords: maxWords}
}

// wordCount is one bar of a word frequency chart.
type wordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// engagementPoint correlates a comment's like count with its sentiment.
type engagementPoint struct {
	LikeCount int64   `json:"like_count"`
	Score     float64 `json:"score"`
	Label     string  `json:"label"`
}

// artifactPayload is the on-disk artifact format.
type artifactPayload struct {
	ID          string      `json:"id"`
	VideoID     string      `json:"video_id"`
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Data        interface{} `json:"data"`
}

// Generate writes the full artifact set for an analysis and returns the
// index records. A failure writing one artifact aborts the set.
func (g *Generator) Generate(analysis *models.VideoAnalysis) ([]*models.VizArtifact, error) {
	if err := os.MkdirAll(g.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	videoID := analysis.Metadata.ID
	artifacts := make([]*models.VizArtifact, 0, 4)

	sets := []struct {
		kind string
		data interface{}
	}{
		{KindWordFrequency, g.wordFrequencies(analysis.Comments)},
		{KindDistribution, analysis.SentimentAnalysis.SentimentDistribution},
		{KindEngagement, engagementPoints(analysis)},
		{KindTrend, analysis.SentimentTrends},
	}

	for _, set := range sets {
		artifact, err := g.write(videoID, set.kind, set.data)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

// write persists one artifact under a fresh UUID filename.
func (g *Generator) write(videoID, kind string, data interface{}) (*models.VizArtifact, error) {
	id := uuid.NewString()
	path := filepath.Join(g.dir, id+".json")

	payload := artifactPayload{
		ID:          id,
		VideoID:     videoID,
		Kind:        kind,
		GeneratedAt: time.Now().UTC(),
		Data:        data,
	}

	raw, err := json.Marshal(&payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s artifact: %w", kind, err)
	}

	if err := os.WriteFile(path, raw, 0o640); err != nil {
		return nil, fmt.Errorf("write %s artifact: %w", kind, err)
	}

	return &models.VizArtifact{
		ID:        id,
		VideoID:   videoID,
		Kind:      kind,
		Path:      path,
		CreatedAt: payload.GeneratedAt,
	}, nil
}

// Read loads an artifact payload back from disk.
func (g *Generator) Read(artifact *models.VizArtifact) (json.RawMessage, error) {
	raw, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", artifact.ID, err)
	}
	return raw, nil
}

// wordFrequencies counts non-stopword tokens across all comments and
// returns the top entries by count, ties broken alphabetically.
func (g *Generator) wordFrequencies(comments []models.Comment) []wordCount {
	counts := make(map[string]int)
	for _, c := range comments {
		for _, tok := range tokenizeWords(c.Text) {
			if stopwords[tok] || len(tok) < 2 {
				continue
			}
			counts[tok]++
		}
	}

	words := make([]wordCount, 0, len(counts))
	for w, n := range counts {
		words = append(words, wordCount{Word: w, Count: n})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if len(words) > g.maxWords {
		words = words[:g.maxWords]
	}
	return words
}

// engagementPoints pairs each comment's like count with its sentiment
// score. Comment and result slices are index-aligned.
func engagementPoints(analysis *models.VideoAnalysis) []engagementPoint {
	results := analysis.SentimentAnalysis.IndividualResults
	n := len(analysis.Comments)
	if len(results) < n {
		n = len(results)
	}

	points := make([]engagementPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, engagementPoint{
			LikeCount: analysis.Comments[i].LikeCount,
			Score:     results[i].CombinedScore,
			Label:     results[i].Label,
		})
	}
	return points
}

// tokenizeWords lowercases and splits on non-letter runes.
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
