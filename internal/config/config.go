// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package config defines the application configuration and its layered
// loading (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	YouTube   YouTubeConfig   `koanf:"youtube"`
	Sentiment SentimentConfig `koanf:"sentiment"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Server    ServerConfig    `koanf:"server"`
	Cache     CacheConfig     `koanf:"cache"`
	Store     StoreConfig     `koanf:"store"`
	Viz       VizConfig       `koanf:"visualization"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// YouTubeConfig configures the Data API client.
//
// APIKeys is the rotation pool: one or more keys, consumed in order and
// rotated past on quota exhaustion. At least one key is a fatal startup
// requirement.
type YouTubeConfig struct {
	APIKeys            []string      `koanf:"api_keys"`
	BaseURL            string        `koanf:"base_url"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	MinRequestInterval time.Duration `koanf:"min_request_interval"`
	MaxComments        int           `koanf:"max_comments"`
}

// SentimentConfig configures the classifier set and the combination rule.
//
// CombineModels names the classifiers whose scores are averaged into the
// combined score. The default (vader + emotion) is the canonical rule;
// changing it moves classification boundaries.
type SentimentConfig struct {
	CombineModels  []string      `koanf:"combine_models"`
	AspectEnabled  bool          `koanf:"aspect_enabled"`
	RemoteEndpoint string        `koanf:"remote_endpoint"`
	RemoteTimeout  time.Duration `koanf:"remote_timeout"`
}

// AnalysisConfig configures the batch pipeline.
type AnalysisConfig struct {
	MaxWorkers int `koanf:"max_workers"`
}

// ServerConfig configures the HTTP server and its inbound middleware.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CacheConfig configures the in-memory analysis cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// StoreConfig configures the Badger persistence store.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// VizConfig configures visualization artifact generation.
type VizConfig struct {
	ArtifactDir string `koanf:"artifact_dir"`
	MaxWords    int    `koanf:"max_words"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks invariants that must hold before the application starts.
// The YouTube key requirement is checked again by the client constructor;
// failing here gives a clearer startup error.
func (c *Config) Validate() error {
	hasKey := false
	for _, k := range c.YouTube.APIKeys {
		if k != "" {
			hasKey = true
			break
		}
	}
	if !hasKey {
		return fmt.Errorf("youtube.api_keys: at least one API key is required (set YOUTUBE_API_KEYS)")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d is out of range", c.Server.Port)
	}

	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path: required unless store.in_memory is set")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl: must not be negative")
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format: %q is not one of json, console", c.Logging.Format)
	}

	return nil
}
