// Crowdlens - YouTube Comment Sentiment Analytics
// Copyright 2026 Crowdlens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crowdlens/crowdlens

package models

import "time"

// VideoMetadata is the normalized metadata record for a single YouTube video.
// The snippet/statistics/contentDetails blocks are passed through from the
// Data API without further validation beyond existence of the item.
type VideoMetadata struct {
	ID             string           `json:"id"`
	Snippet        VideoSnippet     `json:"snippet"`
	Statistics     VideoStatistics  `json:"statistics"`
	ContentDetails VideoContentInfo `json:"content_details"`
}

// VideoSnippet holds the descriptive fields of a video.
type VideoSnippet struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
}

// VideoStatistics holds the count block of a video. The Data API serializes
// all counts as strings; the client converts them on decode.
type VideoStatistics struct {
	ViewCount    int64 `json:"view_count"`
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

// VideoContentInfo holds content details such as the ISO-8601 duration.
type VideoContentInfo struct {
	Duration   string `json:"duration"`
	Definition string `json:"definition"`
}

// Comment is a single YouTube comment or reply. Replies are flattened into
// independent Comment values during fetching. Comments are immutable once
// fetched; ordering follows the Data API's pagination order, which is not
// guaranteed chronological.
type Comment struct {
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	LikeCount   int64     `json:"like_count"`
}

// VideoSummary is one result row from a video search.
type VideoSummary struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PublishedAt  time.Time `json:"published_at"`
}

// Raw YouTube Data API v3 wire types. These mirror the JSON the API returns
// (counts as strings, nested snippet wrappers) and are decoded by hand; the
// client converts them into the normalized types above.

// YTVideoListResponse is the wire response of videos.list.
type YTVideoListResponse struct {
	Items []YTVideoItem `json:"items"`
}

// YTVideoItem is one item of a videos.list response.
type YTVideoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ChannelID    string    `json:"channelId"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
		Thumbnails   struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
	ContentDetails struct {
		Duration   string `json:"duration"`
		Definition string `json:"definition"`
	} `json:"contentDetails"`
}

// YTCommentSnippet is the snippet of a single comment or reply.
type YTCommentSnippet struct {
	TextDisplay       string    `json:"textDisplay"`
	AuthorDisplayName string    `json:"authorDisplayName"`
	PublishedAt       time.Time `json:"publishedAt"`
	LikeCount         int64     `json:"likeCount"`
}

// YTCommentThreadsResponse is the wire response of commentThreads.list.
type YTCommentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet YTCommentSnippet `json:"snippet"`
			} `json:"topLevelComment"`
			TotalReplyCount int64 `json:"totalReplyCount"`
		} `json:"snippet"`
		Replies struct {
			Comments []struct {
				Snippet YTCommentSnippet `json:"snippet"`
			} `json:"comments"`
		} `json:"replies"`
	} `json:"items"`
}

// YTSearchResponse is the wire response of search.list.
type YTSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// YTErrorResponse is the wire shape of a Data API error body.
type YTErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
