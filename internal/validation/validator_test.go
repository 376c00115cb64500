// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package validation

import (
	"strings"
	"testing"
)

func TestIsVideoID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"abc-DEF_123", true},
		{"", false},
		{"short", false},
		{"twelve-chars", false},
		{"has spaces!!", false},
		{"abc;DROP--x", false},
	}
	for _, tt := range tests {
		if got := IsVideoID(tt.id); got != tt.want {
			t.Errorf("IsVideoID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidateStructVideoID(t *testing.T) {
	type req struct {
		VideoID string `validate:"required,video_id"`
	}

	if err := ValidateStruct(&req{VideoID: "dQw4w9WgXcQ"}); err != nil {
		t.Errorf("Expected valid video id to pass, got %v", err)
	}

	err := ValidateStruct(&req{VideoID: "nope"})
	if err == nil {
		t.Fatal("Expected invalid video id to fail")
	}
	if !strings.Contains(err.Error(), "valid YouTube video ID") {
		t.Errorf("Expected translated message, got %q", err.Error())
	}
}

func TestValidateStructMinMax(t *testing.T) {
	type req struct {
		MaxComments int `validate:"min=0,max=1000"`
	}

	if err := ValidateStruct(&req{MaxComments: 500}); err != nil {
		t.Errorf("Expected in-range value to pass, got %v", err)
	}

	err := ValidateStruct(&req{MaxComments: 5000})
	if err == nil {
		t.Fatal("Expected out-of-range value to fail")
	}
	if !strings.Contains(err.Error(), "at most 1000") {
		t.Errorf("Expected max message, got %q", err.Error())
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	type req struct {
		Query string `validate:"required"`
	}

	err := ValidateStruct(&req{})
	if err == nil {
		t.Fatal("Expected validation failure")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "required") {
		t.Errorf("Expected required message, got %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Query" {
		t.Errorf("Expected field detail Query, got %v", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	type req struct {
		Query       string `validate:"required"`
		MaxComments int    `validate:"min=0,max=100"`
	}

	err := ValidateStruct(&req{MaxComments: 500})
	if err == nil {
		t.Fatal("Expected validation failure")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("Expected 2 field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected fields detail for multiple errors")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("Expected the same validator instance")
	}
}
