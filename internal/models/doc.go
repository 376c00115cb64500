// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

/*
Package models defines data structures for the Crowdlens application.

It is the single source of truth for data shapes shared across packages:
YouTube Data API wire models, normalized video/comment records, sentiment
analysis results, and the standard API response envelope.

Model Categories:

 1. YouTube Models:
    - VideoMetadata, Comment, VideoSummary: normalized records used by the rest
      of the application
    - YTVideoListResponse, YTCommentThreadsResponse, YTSearchResponse: raw
      Data API v3 wire shapes decoded by the client

 2. Analysis Models:
    - ModelScore: unified per-classifier output
    - SentimentResult: per-text result with combined score
    - BatchResult, AggregateStats, TrendPoint: batch aggregation outputs
    - VideoAnalysis, AnalysisRecord: full per-video payloads (API and store)

 3. API Models:
    - APIResponse, Metadata, APIError: standard response envelope
*/
package models
