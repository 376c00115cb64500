// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package sentiment provides multi-model text sentiment analysis.
//
// An Engine holds a set of independent classifiers (lexicon polarity,
// emotion, aspect, optional remote transformer), runs each inside a local
// failure boundary, and combines a designated subset of their scores into a
// single combined score. One broken model never blocks the whole analysis:
// its output is replaced by the neutral default and the failure is logged.
package sentiment

import (
	"context"

	"github.com/crowdlens/crowdlens/internal/models"
)

// Classifier names used for registration and score combination.
const (
	ModelVader       = "vader"
	ModelEmotion     = "emotion"
	ModelAspect      = "aspect"
	ModelTransformer = "transformer"
)

// Threshold is the tri-state classification boundary on the combined score:
// >= +Threshold is positive, <= -Threshold is negative, else neutral.
// A design constant, not derived.
const Threshold = 0.05

// neutralConfidence is the confidence assigned to neutral default scores
// substituted for failed or skipped classifiers.
const neutralConfidence = 0.5

// Classifier scores a single text. Implementations normalize their native
// output (signed polarity, label probabilities, remote inference JSON) to
// one ModelScore at this boundary, so nothing heterogeneous flows
// downstream.
//
// Score may fail; the Engine contains the failure. Implementations are not
// required to be safe for concurrent use: each pipeline worker owns its own
// classifier instances.
type Classifier interface {
	Name() string
	Score(ctx context.Context, text string) (models.ModelScore, error)
}

// NeutralScore returns the fixed neutral default substituted when a
// classifier fails or when the input text is empty.
func NeutralScore(model string) models.ModelScore {
	return models.ModelScore{
		Model:      model,
		Label:      models.SentimentNeutral,
		Score:      0,
		Confidence: neutralConfidence,
	}
}

// LabelFor maps a signed score in [-1, 1] to a tri-state label using the
// fixed threshold.
func LabelFor(score float64) string {
	switch {
	case score >= Threshold:
		return models.SentimentPositive
	case score <= -Threshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
