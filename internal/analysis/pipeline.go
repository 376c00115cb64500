// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package analysis runs the sentiment engine over comment batches and
// aggregates the results into distribution statistics and a time-bucketed
// trend series.
package analysis

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/crowdlens/crowdlens/internal/metrics"
	"github.com/crowdlens/crowdlens/internal/models"
	"github.com/crowdlens/crowdlens/internal/sentiment"
)

// DefaultMaxWorkers bounds the analysis worker pool. Model inference is
// CPU-bound; oversubscription buys nothing.
const DefaultMaxWorkers = 4

// trendBuckets is the target number of windows in a trend series.
const trendBuckets = 10

// ErrMismatchedInput is returned by Trends when the comment and timestamp
// slices differ in length. It is the only input-shape error the pipeline
// propagates; per-comment failures are absorbed inside the engine.
var ErrMismatchedInput = errors.New("analysis: comments and timestamps must be the same length")

// EngineFactory constructs a sentiment engine. Each pipeline worker calls it
// exactly once and owns the returned engine for its lifetime: model state is
// never shared across workers (arena-per-worker, not a cache).
type EngineFactory func() *sentiment.Engine

// Pipeline fans comment batches out over a bounded worker pool and
// aggregates the per-comment results.
type Pipeline struct {
	newEngine  EngineFactory
	maxWorkers int
}

// NewPipeline builds a pipeline. maxWorkers <= 0 applies the default bound.
func NewPipeline(factory EngineFactory, maxWorkers int) *Pipeline {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Pipeline{newEngine: factory, maxWorkers: maxWorkers}
}

// AnalyzeBatch analyzes every text concurrently and aggregates the results.
//
// IndividualResults preserves input order regardless of completion order.
// Empty input yields a zero-total result with an empty distribution. The
// worker count is min(len(texts), maxWorkers); each worker constructs its
// engine once and processes indices from a shared channel.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, texts []string) models.BatchResult {
	if len(texts) == 0 {
		return models.BatchResult{
			AggregateStats: models.AggregateStats{
				SentimentDistribution: map[string]float64{},
			},
			IndividualResults: []models.SentimentResult{},
		}
	}

	start := time.Now()
	results := make([]models.SentimentResult, len(texts))

	workers := min(len(texts), p.maxWorkers)
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			engine := p.newEngine()
			for i := range jobs {
				results[i] = engine.Analyze(ctx, texts[i])
			}
		}()
	}
	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	metrics.RecordAnalysisBatch(len(texts), time.Since(start))

	return models.BatchResult{
		AggregateStats:    aggregate(results),
		IndividualResults: results,
	}
}

// Trends buckets the comments into ≈10 contiguous timestamp-ordered windows
// and emits one trend point per window.
//
// comments and timestamps are paired positionally and must be equal length.
// The pairs are sorted by timestamp ascending before windowing, so the
// output series is ascending as well. Window size is max(1, n/10); the last
// window may be shorter. Empty input yields an empty series.
func (p *Pipeline) Trends(ctx context.Context, comments []string, timestamps []time.Time) ([]models.TrendPoint, error) {
	if len(comments) != len(timestamps) {
		return nil, ErrMismatchedInput
	}
	if len(comments) == 0 {
		return []models.TrendPoint{}, nil
	}

	type pair struct {
		text string
		ts   time.Time
	}
	pairs := make([]pair, len(comments))
	for i := range comments {
		pairs[i] = pair{text: comments[i], ts: timestamps[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].ts.Before(pairs[j].ts)
	})

	windowSize := max(1, len(pairs)/trendBuckets)

	points := make([]models.TrendPoint, 0, (len(pairs)+windowSize-1)/windowSize)
	for lo := 0; lo < len(pairs); lo += windowSize {
		hi := min(lo+windowSize, len(pairs))
		window := pairs[lo:hi]

		// Average as offsets from the window's first timestamp; summing
		// absolute UnixNano values overflows int64 for windows of six or
		// more modern timestamps.
		base := window[0].ts
		texts := make([]string, len(window))
		var offsetSum time.Duration
		for i, pr := range window {
			texts[i] = pr.text
			offsetSum += pr.ts.Sub(base)
		}

		batch := p.AnalyzeBatch(ctx, texts)
		points = append(points, models.TrendPoint{
			Timestamp:        base.Add(offsetSum / time.Duration(len(window))).UTC(),
			AverageSentiment: batch.AverageSentiment,
			NumComments:      len(window),
		})
	}
	return points, nil
}

// aggregate tallies tri-state labels and computes the distribution, mean and
// population variance of the combined scores.
func aggregate(results []models.SentimentResult) models.AggregateStats {
	total := len(results)

	counts := map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	sum := 0.0
	for _, r := range results {
		counts[r.Label]++
		sum += r.CombinedScore
	}
	mean := sum / float64(total)

	variance := 0.0
	for _, r := range results {
		d := r.CombinedScore - mean
		variance += d * d
	}
	variance /= float64(total)

	distribution := make(map[string]float64, len(counts))
	for label, n := range counts {
		distribution[label] = roundPct(float64(n) / float64(total) * 100)
	}

	return models.AggregateStats{
		TotalComments:         total,
		SentimentDistribution: distribution,
		AverageSentiment:      mean,
		SentimentVariance:     variance,
	}
}

// roundPct rounds a percentage to one decimal place.
func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}
