// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package creator implements the CreatorHub membership lifecycle.

CreatorHub is an opt-in mode that unlocks publishing and a richer public
profile. Members may toggle it freely. Disabling does not destroy any
data immediately: the account is stamped with a disable timestamp and the
creator profile survives until the retention sweep finds the stamp older
than the retention window.

Core Responsibilities:

  - Toggle: Enable or disable CreatorHub on an account.
  - Profile: Maintain the creator-facing public profile.
  - Retention: Sweep and purge profiles disabled beyond the window.
*/
package creator

import "time"

// # Domain Model

// CreatorProfile is the public-facing profile of a CreatorHub member.
type CreatorProfile struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Bio         string            `json:"bio"`
	AvatarKey   string            `json:"-"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SweepResult summarizes one retention sweep run.
type SweepResult struct {
	DeletedCount int `json:"deleted_count"`
	ScannedCount int `json:"scanned_count"`
}

// Validated field names.
const (
	FieldDisplayName = "display_name"
	FieldBio         = "bio"
	FieldEnabled     = "enabled"
)

// Field length limits.
const (
	MaxDisplayNameLen = 64
	MaxBioLen         = 2000
)
