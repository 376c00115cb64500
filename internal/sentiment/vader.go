// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package sentiment

import (
	"context"

	"github.com/jonreiter/govader"

	"github.com/crowdlens/crowdlens/internal/models"
)

// VaderClassifier is the primary polarity classifier, backed by the VADER
// lexicon. Its compound score is already a signed polarity in [-1, 1].
//
// Not safe for concurrent use; each pipeline worker constructs its own.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderClassifier builds a classifier with the default VADER lexicon.
func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Name implements Classifier.
func (c *VaderClassifier) Name() string { return ModelVader }

// Score scores text with VADER. Confidence is the dominant proportion among
// the positive/negative/neutral components.
func (c *VaderClassifier) Score(_ context.Context, text string) (models.ModelScore, error) {
	s := c.analyzer.PolarityScores(text)

	confidence := s.Neutral
	if s.Positive > confidence {
		confidence = s.Positive
	}
	if s.Negative > confidence {
		confidence = s.Negative
	}

	return models.ModelScore{
		Model:      ModelVader,
		Label:      LabelFor(s.Compound),
		Score:      s.Compound,
		Confidence: confidence,
	}, nil
}
