// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package sentiment

import (
	"context"
	"strings"

	"github.com/crowdlens/crowdlens/internal/config"
	"github.com/crowdlens/crowdlens/internal/logging"
	"github.com/crowdlens/crowdlens/internal/metrics"
	"github.com/crowdlens/crowdlens/internal/models"
)

// Engine runs every configured classifier over a text and combines a
// designated subset of their scores into one combined score.
//
// The combination rule is fixed and documented: CombinedScore is the
// arithmetic mean of the scores of the classifiers named in the combine set
// (default: vader + emotion). Changing the set changes classification
// boundaries, so it is configuration, not inference.
//
// Engines are as thread-safe as their classifiers. The analysis pipeline
// constructs one engine per worker, so no instance is shared.
type Engine struct {
	classifiers []Classifier
	combine     map[string]bool
}

// NewEngine builds an engine over the given classifiers. combineModels names
// the classifiers whose scores enter the combined mean; an empty list means
// all of them.
func NewEngine(classifiers []Classifier, combineModels []string) *Engine {
	combine := make(map[string]bool, len(combineModels))
	for _, name := range combineModels {
		combine[strings.ToLower(name)] = true
	}
	return &Engine{classifiers: classifiers, combine: combine}
}

// NewEngineFromConfig assembles the standard classifier set: VADER polarity
// and the emotion lexicon always, the aspect classifier and the remote
// transformer when configured.
func NewEngineFromConfig(cfg *config.SentimentConfig) *Engine {
	classifiers := []Classifier{
		NewVaderClassifier(),
		NewEmotionClassifier(),
	}
	if cfg.AspectEnabled {
		classifiers = append(classifiers, NewAspectClassifier(nil))
	}
	if cfg.RemoteEndpoint != "" {
		classifiers = append(classifiers, NewRemoteClassifier(cfg.RemoteEndpoint, cfg.RemoteTimeout))
	}

	combine := cfg.CombineModels
	if len(combine) == 0 {
		combine = []string{ModelVader, ModelEmotion}
	}
	return NewEngine(classifiers, combine)
}

// Analyze scores a single text with every classifier.
//
// Empty or blank text short-circuits to the all-neutral result with
// CombinedScore == 0 without invoking any classifier. A classifier failure
// is contained: the neutral default is substituted for that model only and
// the failure is logged, never propagated.
func (e *Engine) Analyze(ctx context.Context, text string) models.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return e.neutralResult(text)
	}

	scores := make([]models.ModelScore, 0, len(e.classifiers))
	for _, c := range e.classifiers {
		score, err := c.Score(ctx, text)
		if err != nil {
			logging.Warn().Err(err).Str("model", c.Name()).Msg("Classifier failed, substituting neutral default")
			metrics.RecordClassifierFailure(c.Name())
			score = NeutralScore(c.Name())
		}
		scores = append(scores, score)
	}

	combined := e.combinedScore(scores)
	return models.SentimentResult{
		Text:          text,
		Scores:        scores,
		CombinedScore: combined,
		Label:         LabelFor(combined),
	}
}

// neutralResult is the fixed default for empty input: one neutral score per
// configured classifier, combined score exactly 0.
func (e *Engine) neutralResult(text string) models.SentimentResult {
	scores := make([]models.ModelScore, 0, len(e.classifiers))
	for _, c := range e.classifiers {
		scores = append(scores, NeutralScore(c.Name()))
	}
	return models.SentimentResult{
		Text:          text,
		Scores:        scores,
		CombinedScore: 0,
		Label:         models.SentimentNeutral,
	}
}

// combinedScore averages the scores of the combine set. Models outside the
// set do not move the combined score; they are reported only. When no score
// matches the set (misconfiguration), all scores are averaged so the result
// stays defined.
func (e *Engine) combinedScore(scores []models.ModelScore) float64 {
	sum, n := 0.0, 0
	for _, s := range scores {
		if len(e.combine) == 0 || e.combine[s.Model] {
			sum += s.Score
			n++
		}
	}
	if n == 0 {
		for _, s := range scores {
			sum += s.Score
		}
		n = len(scores)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
