// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package models

import "time"

// Sentiment category labels used throughout the analysis pipeline.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ModelScore is the unified per-classifier output. Every classifier, whatever
// its internal scoring scheme, is normalized to this shape at the engine
// boundary: a label, a signed score in [-1, 1], and a confidence in [0, 1].
type ModelScore struct {
	Model      string  `json:"model"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// SentimentResult is the per-text analysis output. CombinedScore is always
// defined and finite: failed classifiers are replaced by the neutral default
// before combination.
type SentimentResult struct {
	Text          string       `json:"text"`
	Scores        []ModelScore `json:"scores"`
	CombinedScore float64      `json:"combined_score"`
	Label         string       `json:"label"`
}

// AggregateStats summarizes a batch of sentiment results.
//
// SentimentDistribution maps category name to percentage; the categories
// partition into {positive, negative, neutral} and the percentages sum to
// ~100 subject to rounding. The map is empty when TotalComments is zero.
type AggregateStats struct {
	TotalComments         int                `json:"total_comments"`
	SentimentDistribution map[string]float64 `json:"sentiment_distribution"`
	AverageSentiment      float64            `json:"average_sentiment"`
	SentimentVariance     float64            `json:"sentiment_variance"`
}

// BatchResult is the full output of a batch analysis: aggregate statistics
// plus per-comment results in input order.
type BatchResult struct {
	AggregateStats
	IndividualResults []SentimentResult `json:"individual_results"`
}

// TrendPoint is one time bucket of the sentiment trend series: the mean
// timestamp of the bucket's comments, the bucket's average sentiment, and the
// bucket's comment count.
type TrendPoint struct {
	Timestamp        time.Time `json:"timestamp"`
	AverageSentiment float64   `json:"average_sentiment"`
	NumComments      int       `json:"num_comments"`
}

// VideoAnalysis is the complete analysis payload for one video, as returned
// by the analysis endpoint and cached/persisted by the stores.
type VideoAnalysis struct {
	Metadata          VideoMetadata `json:"metadata"`
	Comments          []Comment     `json:"comments"`
	SentimentAnalysis BatchResult   `json:"sentiment_analysis"`
	SentimentTrends   []TrendPoint  `json:"sentiment_trends"`
}

// AnalysisRecord is the persisted form of a video analysis: one record per
// video ID, upserted on each successful analysis.
type AnalysisRecord struct {
	VideoID   string        `json:"video_id"`
	Timestamp time.Time     `json:"timestamp"`
	Comments  []Comment     `json:"comments"`
	Results   BatchResult   `json:"results"`
	Trends    []TrendPoint  `json:"trends"`
	Metadata  VideoMetadata `json:"metadata"`
}
