// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

// Package store persists analysis results, settings and visualization
// artifact records in BadgerDB. Results survive restarts so past analyses
// remain searchable and retrievable without re-running the pipeline.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/crowdlens/crowdlens/internal/config"
	"github.com/crowdlens/crowdlens/internal/metrics"
	"github.com/crowdlens/crowdlens/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	analysisKeyPrefix = "analysis:"
	vizKeyPrefix      = "viz:"
	settingsKey       = "settings:user"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Store wraps a BadgerDB instance with typed accessors for the
// application's record kinds.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the BadgerDB database per config and returns a
// Store. The caller owns the store and must Close it on shutdown.
func Open(cfg *config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open BadgerDB. Used by tests with in-memory
// databases.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAnalysis upserts a video's analysis record, keyed by video ID.
// A repeat analysis of the same video replaces the previous record.
func (s *Store) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	start := time.Now()

	data, err := json.Marshal(record)
	if err != nil {
		metrics.RecordStoreOperation("set", "error", time.Since(start))
		return fmt.Errorf("marshal analysis record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := []byte(analysisKeyPrefix + record.VideoID)
		return txn.Set(key, data)
	})
	if err != nil {
		metrics.RecordStoreOperation("set", "error", time.Since(start))
		return fmt.Errorf("save analysis: %w", err)
	}

	metrics.RecordStoreOperation("set", "ok", time.Since(start))
	return nil
}

// GetAnalysis retrieves a video's analysis record by video ID.
// Returns ErrNotFound when the video has never been analyzed.
func (s *Store) GetAnalysis(ctx context.Context, videoID string) (*models.AnalysisRecord, error) {
	start := time.Now()
	var record models.AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		key := []byte(analysisKeyPrefix + videoID)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get analysis: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})

	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOperation("get", "miss", time.Since(start))
		return nil, err
	}
	if err != nil {
		metrics.RecordStoreOperation("get", "error", time.Since(start))
		return nil, err
	}

	metrics.RecordStoreOperation("get", "ok", time.Since(start))
	return &record, nil
}

// ListAnalyses returns all stored analysis records. Records are scanned in
// key order (video ID order); callers sort as needed.
func (s *Store) ListAnalyses(ctx context.Context) ([]*models.AnalysisRecord, error) {
	start := time.Now()
	var records []*models.AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(analysisKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var record models.AnalysisRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				continue // Skip corrupt records rather than failing the scan
			}

			records = append(records, &record)
		}
		return nil
	})

	if err != nil {
		metrics.RecordStoreOperation("list", "error", time.Since(start))
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	metrics.RecordStoreOperation("list", "ok", time.Since(start))
	return records, nil
}

// SearchAnalyses returns stored records whose video title, channel or
// video ID contains the query, case-insensitively.
func (s *Store) SearchAnalyses(ctx context.Context, query string) ([]*models.AnalysisRecord, error) {
	records, err := s.ListAnalyses(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records, nil
	}

	matched := make([]*models.AnalysisRecord, 0, len(records))
	for _, r := range records {
		title := strings.ToLower(r.Metadata.Snippet.Title)
		channel := strings.ToLower(r.Metadata.Snippet.ChannelTitle)
		if strings.Contains(title, q) || strings.Contains(channel, q) || strings.Contains(strings.ToLower(r.VideoID), q) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// DeleteAnalysis removes a video's analysis record. No-op if absent.
func (s *Store) DeleteAnalysis(ctx context.Context, videoID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(analysisKeyPrefix + videoID)
		if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete analysis: %w", err)
		}
		return nil
	})
}

// GetSettings retrieves the persisted user settings, or defaults when none
// have been saved yet.
func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(settingsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Defaults apply
		}
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &settings)
		})
	})
	if err != nil {
		return models.Settings{}, err
	}

	return settings, nil
}

// SaveSettings persists the user settings, stamping UpdatedAt.
func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	settings.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(settingsKey), data)
	})
}

// SaveVizArtifact records a generated visualization artifact.
func (s *Store) SaveVizArtifact(ctx context.Context, artifact *models.VizArtifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("marshal viz artifact: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(vizKeyPrefix + artifact.ID)
		return txn.Set(key, data)
	})
}

// GetVizArtifact retrieves a visualization artifact record by ID.
func (s *Store) GetVizArtifact(ctx context.Context, id string) (*models.VizArtifact, error) {
	var artifact models.VizArtifact

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(vizKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get viz artifact: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &artifact)
		})
	})
	if err != nil {
		return nil, err
	}

	return &artifact, nil
}

// ListVizArtifacts returns artifact records for a video, or all records
// when videoID is empty.
func (s *Store) ListVizArtifacts(ctx context.Context, videoID string) ([]*models.VizArtifact, error) {
	var artifacts []*models.VizArtifact

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(vizKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var artifact models.VizArtifact
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &artifact)
			})
			if err != nil {
				continue
			}

			if videoID == "" || artifact.VideoID == videoID {
				artifacts = append(artifacts, &artifact)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list viz artifacts: %w", err)
	}

	return artifacts, nil
}

// RunGC runs Badger value-log garbage collection until no more rewrites are
// needed. Called periodically from the server's maintenance loop.
func (s *Store) RunGC() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			return
		}
	}
}
