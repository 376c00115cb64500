// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/crowdlens/config.yaml",
	"/etc/crowdlens/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults load
// first and are overridden by the config file and then environment variables.
func defaultConfig() *Config {
	return &Config{
		YouTube: YouTubeConfig{
			APIKeys:            nil, // Must be provided; validated at startup
			BaseURL:            "https://www.googleapis.com/youtube/v3",
			RequestTimeout:     15 * time.Second,
			MinRequestInterval: 100 * time.Millisecond,
			MaxComments:        500,
		},
		Sentiment: SentimentConfig{
			CombineModels:  []string{"vader", "emotion"},
			AspectEnabled:  true,
			RemoteEndpoint: "", // Remote transformer classifier is opt-in
			RemoteTimeout:  10 * time.Second,
		},
		Analysis: AnalysisConfig{
			MaxWorkers: 4,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8300,
			Timeout:           60 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Cache: CacheConfig{
			TTL: 15 * time.Minute,
		},
		Store: StoreConfig{
			Path:     "/data/crowdlens",
			InMemory: false,
		},
		Viz: VizConfig{
			ArtifactDir: "/data/crowdlens/visualizations",
			MaxWords:    50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence is ENV > file > defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// YOUTUBE_API_KEYS -> youtube.api_keys, LOG_LEVEL -> logging.level
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns empty string if none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when supplied through environment variables.
var sliceConfigPaths = []string{
	"youtube.api_keys",
	"sentiment.combine_models",
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - YOUTUBE_API_KEYS -> youtube.api_keys
//   - YOUTUBE_MAX_COMMENTS -> youtube.max_comments
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// YouTube client mappings
		"youtube_api_keys":             "youtube.api_keys",
		"youtube_api_key":              "youtube.api_keys", // single-key deployments
		"youtube_base_url":             "youtube.base_url",
		"youtube_request_timeout":      "youtube.request_timeout",
		"youtube_min_request_interval": "youtube.min_request_interval",
		"youtube_max_comments":         "youtube.max_comments",

		// Sentiment mappings
		"sentiment_combine_models":  "sentiment.combine_models",
		"sentiment_aspect_enabled":  "sentiment.aspect_enabled",
		"sentiment_remote_endpoint": "sentiment.remote_endpoint",
		"sentiment_remote_timeout":  "sentiment.remote_timeout",

		// Analysis mappings
		"analysis_max_workers": "analysis.max_workers",

		// Server mappings
		"http_port":           "server.port",
		"http_host":           "server.host",
		"http_timeout":        "server.timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",
		"disable_rate_limit":  "server.rate_limit_disabled",

		// Cache mappings
		"cache_ttl": "cache.ttl",

		// Store mappings
		"store_path":      "store.path",
		"store_in_memory": "store.in_memory",

		// Visualization mappings
		"viz_artifact_dir": "visualization.artifact_dir",
		"viz_max_words":    "visualization.max_words",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables do not
	// pollute the config.
	return ""
}
