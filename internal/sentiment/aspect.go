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

// aspectWindow is the number of tokens scored on each side of a matched
// aspect term.
const aspectWindow = 5

// DefaultAspectTerms are the aspect vocabularies scored when none are
// configured. Keys are aspect names, values the trigger terms.
var DefaultAspectTerms = map[string][]string{
	"audio":   {"audio", "sound", "music", "volume", "mic"},
	"visual":  {"video", "quality", "resolution", "camera", "editing", "visuals"},
	"content": {"content", "story", "topic", "explanation", "tutorial", "information"},
}

// AspectClassifier scores sentiment in the token windows around aspect
// terms. The label is the tri-state classification of the mean window
// polarity; texts mentioning no aspect term score neutral.
//
// Not safe for concurrent use (owns a VADER analyzer).
type AspectClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
	terms    map[string][]string
}

// NewAspectClassifier builds an aspect classifier. A nil or empty terms map
// falls back to DefaultAspectTerms.
func NewAspectClassifier(terms map[string][]string) *AspectClassifier {
	if len(terms) == 0 {
		terms = DefaultAspectTerms
	}
	return &AspectClassifier{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		terms:    terms,
	}
}

// Name implements Classifier.
func (c *AspectClassifier) Name() string { return ModelAspect }

// Score implements Classifier.
func (c *AspectClassifier) Score(_ context.Context, text string) (models.ModelScore, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return NeutralScore(ModelAspect), nil
	}

	trigger := make(map[string]bool)
	for _, terms := range c.terms {
		for _, t := range terms {
			trigger[t] = true
		}
	}

	sum := 0.0
	windows := 0
	for i, tok := range tokens {
		if !trigger[tok] {
			continue
		}
		lo := max(0, i-aspectWindow)
		hi := min(len(tokens), i+aspectWindow+1)
		window := joinTokens(tokens[lo:hi])
		sum += c.analyzer.PolarityScores(window).Compound
		windows++
	}
	if windows == 0 {
		return NeutralScore(ModelAspect), nil
	}

	score := sum / float64(windows)
	return models.ModelScore{
		Model:      ModelAspect,
		Label:      LabelFor(score),
		Score:      score,
		Confidence: neutralConfidence + 0.1*float64(min(windows, 5)),
	}, nil
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}
