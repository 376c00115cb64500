// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package youtube

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinRequestInterval is the default minimum spacing between outbound
// Data API requests (at most 10 requests/second per process).
const DefaultMinRequestInterval = 100 * time.Millisecond

// RateLimiter enforces a minimum interval between consecutive outbound
// requests. It is a local, in-process limiter: it does not coordinate across
// processes sharing the same API key.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter builds a limiter with the given minimum inter-request
// interval. Non-positive intervals fall back to the default.
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	if minInterval <= 0 {
		minInterval = DefaultMinRequestInterval
	}
	// Burst 1: the first call passes immediately, every later call waits out
	// the full interval since the previous one.
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Throttle blocks until at least the configured interval has elapsed since
// the previous Throttle call on this instance, or until ctx is done.
func (l *RateLimiter) Throttle(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
