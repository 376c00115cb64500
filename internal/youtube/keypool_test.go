// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package youtube

import (
	"errors"
	"testing"
)

func TestKeyPoolRotation(t *testing.T) {
	keys := []string{"key-a", "key-b", "key-c"}
	pool, err := NewKeyPool(keys)
	if err != nil {
		t.Fatalf("NewKeyPool failed: %v", err)
	}

	// Rotation is cyclic: two full laps land on the same sequence.
	for lap := 0; lap < 2; lap++ {
		for i := 0; i < len(keys); i++ {
			got := pool.Current()
			if got != keys[i] {
				t.Errorf("lap %d position %d: expected %s, got %s", lap, i, keys[i], got)
			}
			pool.Rotate()
		}
	}
}

func TestKeyPoolFiltersBlankKeys(t *testing.T) {
	pool, err := NewKeyPool([]string{"", "key-a", "  ", "key-b"})
	if err != nil {
		t.Fatalf("NewKeyPool failed: %v", err)
	}
	if pool.Size() != 2 {
		t.Errorf("Expected size 2 after filtering blanks, got %d", pool.Size())
	}
	if got := pool.Current(); got != "key-a" {
		t.Errorf("Expected first usable key key-a, got %s", got)
	}
}

func TestKeyPoolEmpty(t *testing.T) {
	for _, keys := range [][]string{nil, {}, {"", "   "}} {
		_, err := NewKeyPool(keys)
		if err == nil {
			t.Errorf("Expected error for keys %v", keys)
			continue
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Expected *ConfigError for keys %v, got %T", keys, err)
		}
	}
}

func TestKeyPoolHasAlternate(t *testing.T) {
	single, err := NewKeyPool([]string{"only-key"})
	if err != nil {
		t.Fatalf("NewKeyPool failed: %v", err)
	}
	if single.HasAlternate() {
		t.Error("Single-key pool should not report an alternate")
	}

	multi, err := NewKeyPool([]string{"key-a", "key-b"})
	if err != nil {
		t.Fatalf("NewKeyPool failed: %v", err)
	}
	if !multi.HasAlternate() {
		t.Error("Two-key pool should report an alternate")
	}
}

func TestKeyPoolUsageCounters(t *testing.T) {
	pool, err := NewKeyPool([]string{"key-a", "key-b"})
	if err != nil {
		t.Fatalf("NewKeyPool failed: %v", err)
	}

	pool.Current()
	pool.Current()
	pool.Rotate()
	pool.Current()

	usage := pool.Usage()
	if len(usage) != 2 {
		t.Fatalf("Expected 2 usage slots, got %d", len(usage))
	}
	if usage[0] != 2 {
		t.Errorf("Expected slot 0 usage 2, got %d", usage[0])
	}
	if usage[1] != 1 {
		t.Errorf("Expected slot 1 usage 1, got %d", usage[1])
	}

	// Usage returns a copy, not the live slice.
	usage[0] = 99
	if pool.Usage()[0] != 2 {
		t.Error("Usage should return a copy of the counters")
	}
}
