// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package youtube

import (
	"strings"
	"sync"
)

// KeyPool owns an ordered, non-empty set of Data API keys and tracks which
// one is active. Quota exhaustion is recovered by rotating to the next key;
// rotation wraps around modulo the pool size.
//
// The current index is the only mutable state and is mutex-serialized so a
// single client may be shared by concurrent requests hitting quota at the
// same time. Keys themselves are never mutated.
//
// Per-key usage counters are telemetry only; they do not enforce a cap.
type KeyPool struct {
	mu    sync.Mutex
	keys  []string
	index int
	usage []uint64
}

// NewKeyPool builds a pool from the configured key list. Blank entries are
// dropped. Returns a *ConfigError when no usable key remains: a client
// without at least one key is a fatal startup condition.
func NewKeyPool(keys []string) (*KeyPool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, &ConfigError{Reason: "at least one YouTube API key is required"}
	}
	return &KeyPool{
		keys:  cleaned,
		usage: make([]uint64, len(cleaned)),
	}, nil
}

// Current returns the active key and counts one use against it.
func (p *KeyPool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.usage[p.index]++
	return p.keys[p.index]
}

// Rotate advances the current index by one, wrapping around, and returns the
// new active key. Callers holding request state bound to the old key must
// re-read Current before the next request.
func (p *KeyPool) Rotate() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = (p.index + 1) % len(p.keys)
	return p.keys[p.index]
}

// HasAlternate reports whether rotation can select a different key, i.e.
// whether the pool holds more than one key. When false, quota exhaustion is
// terminal for the call rather than recoverable.
func (p *KeyPool) HasAlternate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys) > 1
}

// Size returns the number of keys in the pool. It bounds how many attempts
// the Retry orchestrator makes.
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Usage returns a snapshot of the per-key request counts, in pool order.
func (p *KeyPool) Usage() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uint64, len(p.usage))
	copy(out, p.usage)
	return out
}
