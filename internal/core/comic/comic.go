// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package comic defines the core content lifecycle domain for Komiko.

It manages how an uploaded work moves from raw file references to a
published artifact, how ancillary data (page order, contributors,
thumbnail) is reconciled across the two accepted upload shapes, and how
creators stage, schedule, publish and archive their work.

Core Responsibility:

  - Linkage: Resolves single-file and multi-page uploads into one internal file reference.
  - Lifecycle: Drives the draft, scheduled, published and archived transitions.
  - Ownership: Scopes every mutation to the uploading user.

This package acts as the source of truth for all comic content data models.
*/
package comic

import "time"

// # Domain Enums

// Status is the coarse visibility state of a comic.
type Status string

const (
	// StatusDraft indicates the comic is only visible to its owner.
	StatusDraft Status = "draft"

	// StatusPublished indicates the comic is publicly visible.
	StatusPublished Status = "published"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// PublishStatus is the fine-grained lifecycle state of a comic.
//
// The coarse [Status] and this field coexist on the record. Call sites
// choose which one to read; neither is derived from the other.
type PublishStatus string

const (
	// PublishStatusDraft is the initial state of every comic.
	PublishStatusDraft PublishStatus = "draft"

	// PublishStatusScheduled indicates a future publication time is set.
	PublishStatusScheduled PublishStatus = "scheduled"

	// PublishStatusPublished indicates the comic has gone live.
	PublishStatusPublished PublishStatus = "published"

	// PublishStatusArchived indicates the comic was withdrawn from the feed.
	PublishStatusArchived PublishStatus = "archived"
)

// IsValid reports whether s is a recognised [PublishStatus] value.
func (s PublishStatus) IsValid() bool {
	switch s {
	case
		PublishStatusDraft,
		PublishStatusScheduled,
		PublishStatusPublished,
		PublishStatusArchived:
		return true
	}
	return false
}

// # Core Entities

// FileReference is the resolved pointer from a comic to its stored file.
//
// For multi-page uploads the key is synthetic (see [ResolveUploadReference])
// and carries no retrievable content of its own.
type FileReference struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// ContributorGroup maps a creative role to the people credited under it.
type ContributorGroup struct {
	Role  string   `json:"role"`
	Names []string `json:"names"`
}

// Comic is the central aggregate of the Komiko content domain.
// It represents a single uploaded work and its lifecycle state.
type Comic struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"` // Exclusive uploading user
	SeriesID    *string  `json:"series_id,omitempty"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Slug        string   `json:"slug"` // URL-safe identifier
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// # Lifecycle State
	Status        Status        `json:"status"`
	PublishStatus PublishStatus `json:"publish_status"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	ScheduledAt   *time.Time    `json:"scheduled_at,omitempty"`

	// # Upload Linkage
	// Exactly one linkage mode carries content: single-file uploads leave
	// PageOrder empty, multi-page uploads carry a synthetic File key.
	File      FileReference `json:"file"`
	PageOrder []string      `json:"page_order,omitempty"`

	// # Thumbnail
	// At most one of the pair is meaningful; both empty is valid.
	ThumbnailKey string `json:"-"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	Contributors []ContributorGroup `json:"contributors,omitempty"`

	AgreedAt  *time.Time `json:"agreed_at,omitempty"` // Upload consent timestamp
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted
}

// Preview is the read-only projection returned for owner draft previews.
// It deliberately does not expose the full record.
type Preview struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Description  string    `json:"description,omitempty"`
	PageOrder    []string  `json:"page_order,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered comic list query.
type Filter struct {
	OwnerID       string          `json:"owner_id,omitempty"`
	SeriesID      string          `json:"series_id,omitempty"`
	Status        []Status        `json:"status,omitempty"`
	PublishStatus []PublishStatus `json:"publish_status,omitempty"`
	Genre         string          `json:"genre,omitempty"`
	Tag           string          `json:"tag,omitempty"`
	Query         string          `json:"q,omitempty"`        // Title search term
	Sort          string          `json:"sort,omitempty"`     // latest, az, za
	SortDir       string          `json:"sort_dir,omitempty"` // "asc" or "desc"
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID            = "id"
	FieldTitle         = "title"
	FieldSubtitle      = "subtitle"
	FieldSlug          = "slug"
	FieldDescription   = "description"
	FieldGenres        = "genres"
	FieldTags          = "tags"
	FieldStatus        = "status"
	FieldPublishStatus = "publish_status"
	FieldScheduledAt   = "scheduled_at"
	FieldSeriesID      = "series_id"
	FieldFileID        = "file_id"
	FieldPageOrder     = "page_order"
	FieldThumbnailURL  = "thumbnail_url"
	FieldContributors  = "contributors"
	FieldAgreement     = "upload_agreement"
)

// MaxTitleLen is the upper bound on comic titles.
const MaxTitleLen = 255
