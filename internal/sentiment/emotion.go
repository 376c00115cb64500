// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package sentiment

import (
	"context"
	"strings"
	"unicode"

	"github.com/crowdlens/crowdlens/internal/models"
)

// emotionEntry maps a lexicon word to its emotion category and signed
// valence contribution.
type emotionEntry struct {
	emotion string
	valence float64
}

// emotionLexicon is a compact NRC-style word list. Coverage is intentionally
// small: the emotion model contributes a valence signal to the combined
// score, not a full emotion taxonomy.
var emotionLexicon = map[string]emotionEntry{
	// joy
	"love": {"joy", 1.0}, "loved": {"joy", 1.0}, "lovely": {"joy", 0.9},
	"great": {"joy", 0.8}, "awesome": {"joy", 1.0}, "amazing": {"joy", 1.0},
	"happy": {"joy", 0.9}, "fantastic": {"joy", 1.0}, "excellent": {"joy", 0.9},
	"fun": {"joy", 0.7}, "enjoy": {"joy", 0.8}, "enjoyed": {"joy", 0.8},
	"wonderful": {"joy", 0.9}, "best": {"joy", 0.8}, "beautiful": {"joy", 0.8},
	"perfect": {"joy", 0.9}, "brilliant": {"joy", 0.9}, "good": {"joy", 0.6},
	"thanks": {"joy", 0.5}, "thank": {"joy", 0.5}, "helpful": {"joy", 0.6},
	// anger
	"hate": {"anger", -1.0}, "hated": {"anger", -1.0}, "angry": {"anger", -0.9},
	"furious": {"anger", -1.0}, "annoying": {"anger", -0.7}, "stupid": {"anger", -0.8},
	"trash": {"anger", -0.9}, "garbage": {"anger", -0.9}, "worst": {"anger", -1.0},
	"awful": {"anger", -0.9}, "terrible": {"anger", -0.9}, "horrible": {"anger", -0.9},
	"bad": {"anger", -0.6}, "useless": {"anger", -0.7}, "pathetic": {"anger", -0.8},
	// sadness
	"sad": {"sadness", -0.7}, "disappointed": {"sadness", -0.7},
	"disappointing": {"sadness", -0.7}, "cry": {"sadness", -0.6},
	"depressing": {"sadness", -0.8}, "miss": {"sadness", -0.3},
	"boring": {"sadness", -0.6}, "bored": {"sadness", -0.5},
	// fear
	"scary": {"fear", -0.5}, "afraid": {"fear", -0.6}, "terrifying": {"fear", -0.7},
	"worried": {"fear", -0.5}, "creepy": {"fear", -0.5},
	// surprise
	"wow": {"surprise", 0.5}, "unbelievable": {"surprise", 0.3},
	"incredible": {"surprise", 0.7}, "unexpected": {"surprise", 0.1},
	"surprised": {"surprise", 0.2}, "mindblowing": {"surprise", 0.8},
}

// EmotionClassifier scores text by dominant emotion category. The label is
// the most frequent emotion among matched tokens; the score is the mean
// valence of matched tokens (0 when nothing matches); confidence reflects
// lexicon coverage of the text.
type EmotionClassifier struct{}

// NewEmotionClassifier builds the lexicon-backed emotion classifier.
func NewEmotionClassifier() *EmotionClassifier { return &EmotionClassifier{} }

// Name implements Classifier.
func (c *EmotionClassifier) Name() string { return ModelEmotion }

// Score implements Classifier.
func (c *EmotionClassifier) Score(_ context.Context, text string) (models.ModelScore, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return NeutralScore(ModelEmotion), nil
	}

	counts := make(map[string]int)
	valenceSum := 0.0
	matched := 0
	for _, tok := range tokens {
		entry, ok := emotionLexicon[tok]
		if !ok {
			continue
		}
		counts[entry.emotion]++
		valenceSum += entry.valence
		matched++
	}
	if matched == 0 {
		return NeutralScore(ModelEmotion), nil
	}

	dominant := ""
	for emotion, n := range counts {
		if dominant == "" || n > counts[dominant] {
			dominant = emotion
		}
	}

	score := valenceSum / float64(matched)
	confidence := float64(matched) / float64(len(tokens))
	if confidence > 1 {
		confidence = 1
	}

	return models.ModelScore{
		Model:      ModelEmotion,
		Label:      dominant,
		Score:      score,
		Confidence: confidence,
	}, nil
}

// tokenize lowercases and splits text on non-letter runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
