// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package models

import "time"

// Settings holds user-adjustable preferences persisted across restarts.
// Values here override the server defaults per request where applicable.
type Settings struct {
	MaxComments     int      `json:"max_comments" validate:"min=0,max=1000"`
	PreferredModels []string `json:"preferred_models" validate:"omitempty,dive,oneof=vader emotion aspect transformer"`
	Theme           string   `json:"theme" validate:"omitempty,oneof=light dark"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings used before a user saves any.
func DefaultSettings() Settings {
	return Settings{
		MaxComments:     500,
		PreferredModels: []string{"vader", "emotion"},
		Theme:           "light",
	}
}

// VizArtifact describes a generated visualization payload on disk.
type VizArtifact struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
