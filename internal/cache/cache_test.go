// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package cache

import (
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1*time.Minute, "test")

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(100*time.Millisecond, "test")

	c.Set("key1", "value1")

	_, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	_, exists = c.Get("key1")
	if exists {
		t.Error("Expected key1 to be expired")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(1*time.Minute, "test")

	c.SetWithTTL("key1", "value1", 100*time.Millisecond)

	_, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}

	time.Sleep(150 * time.Millisecond)

	_, exists = c.Get("key1")
	if exists {
		t.Error("Expected key1 to be expired despite longer default TTL")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1*time.Minute, "test")

	c.Set("key1", "value1")
	c.Delete("key1")

	_, exists := c.Get("key1")
	if exists {
		t.Error("Expected key1 to be deleted")
	}

	// Deleting a missing key is a no-op.
	c.Delete("missing")
}

func TestCacheClear(t *testing.T) {
	c := New(1*time.Minute, "test")

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Clear()

	for _, key := range []string{"key1", "key2", "key3"} {
		_, exists := c.Get(key)
		if exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1*time.Minute, "test")

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()

	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	hitRate := c.HitRate()
	expected := 100.0 * 2 / 3
	if hitRate < expected-0.01 || hitRate > expected+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", expected, hitRate)
	}
}

func TestCacheHitRateEmpty(t *testing.T) {
	c := New(1*time.Minute, "test")
	if rate := c.HitRate(); rate != 0 {
		t.Errorf("Expected 0%% hit rate with no lookups, got %f", rate)
	}
}

func TestAnalysisKey(t *testing.T) {
	if got := AnalysisKey("dQw4w9WgXcQ"); got != "analysis:dQw4w9WgXcQ" {
		t.Errorf("Unexpected analysis key %s", got)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		VideoID     string
		MaxComments int
	}

	k1 := GenerateKey("analyze", params{"abc", 100})
	k2 := GenerateKey("analyze", params{"abc", 100})
	k3 := GenerateKey("analyze", params{"abc", 200})

	if k1 != k2 {
		t.Error("Expected identical params to produce identical keys")
	}
	if k1 == k3 {
		t.Error("Expected different params to produce different keys")
	}
	if len(k1) == 0 {
		t.Error("Expected non-empty key")
	}
}
