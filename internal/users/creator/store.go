// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package creator

import (
	"context"
	"time"
)

// # CreatorHub Flag Access

// FlagRepository mutates the CreatorHub flags on user accounts.
type FlagRepository interface {
	// SetCreatorHub writes the creator flags and the disable timestamp.
	// A nil disabledAt clears the stamp.
	SetCreatorHub(context context.Context, userID string, enabled bool, disabledAt *time.Time) error

	// ListExpired returns the IDs of disabled accounts whose disable
	// stamp is strictly older than the cutoff.
	ListExpired(context context.Context, cutoff time.Time) ([]string, error)

	// ClearDisabledAt removes the disable stamp without touching flags.
	ClearDisabledAt(context context.Context, userID string) error
}

// # Profile Access

// ProfileRepository is the data access contract for creator profiles.
type ProfileRepository interface {
	// Find returns the profile for the given user.
	Find(context context.Context, userID string) (*CreatorProfile, error)

	// Upsert writes the full profile state, inserting when absent.
	Upsert(context context.Context, profile *CreatorProfile) error

	// Delete destroys the profile. It reports whether a row existed.
	Delete(context context.Context, userID string) (bool, error)
}
