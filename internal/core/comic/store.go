// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic

import (
	"context"
	"time"
)

// # Lifecycle Change Descriptor

// LifecycleChange describes a single publish-state transition to persist.
//
// Pointer fields distinguish "stamp this value" from "leave untouched";
// the Clear flags force a column back to null.
type LifecycleChange struct {
	PublishStatus    PublishStatus
	Status           *Status
	SetPublishedAt   *time.Time
	ClearPublishedAt bool
	SetScheduledAt   *time.Time
	ClearScheduledAt bool
}

// # Comic Data Access

// ComicRepository defines the data access contract for the comic domain.
type ComicRepository interface {
	/*
		List returns a filtered, paginated slice of comics and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Criteria for status, owner, search, etc.)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Comic: Slice of matching records
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Comic, int, error)

	/*
		FindByID returns the active comic with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Comic: The hydrated domain entity
		  - error: apperr.NotFound if missing or soft-deleted
	*/
	FindByID(context context.Context, id string) (*Comic, error)

	/*
		FindOwned returns the active comic with the given ID scoped to its owner.

		Ownership and existence failures are indistinguishable in the returned
		error so record existence never leaks across accounts.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - ownerID: string (UUID of the required owner)

		Returns:
		  - *Comic: The hydrated domain entity
		  - error: apperr.NotFound if missing, soft-deleted or owned by someone else
	*/
	FindOwned(context context.Context, id string, ownerID string) (*Comic, error)

	/*
		Create persists a new comic and its contributor groups.

		Parameters:
		  - context: context.Context
		  - comic: *Comic (Metadata and initial state)

		Returns:
		  - error: Storage or constraint failures
	*/
	Create(context context.Context, comic *Comic) error

	/*
		Update applies a partial patch to an owned comic.

		A non-nil Contributors slice destroys and fully replaces the stored
		contributor set inside the same transaction.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - ownerID: string (UUID of the required owner)
		  - patch: Patch (Whitelisted field updates)

		Returns:
		  - error: apperr.NotFound if no active owned row matched, otherwise execution errors
	*/
	Update(context context.Context, id string, ownerID string, patch Patch) error

	/*
		SetLifecycle persists a publish-state transition on an owned comic.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - ownerID: string (UUID of the required owner)
		  - change: LifecycleChange (Target state and timestamp effects)

		Returns:
		  - error: apperr.NotFound if no active owned row matched, otherwise execution errors
	*/
	SetLifecycle(context context.Context, id string, ownerID string, change LifecycleChange) error

	/*
		SoftDelete marks an owned comic as deleted without physical row removal.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - ownerID: string (UUID of the required owner)

		Returns:
		  - error: apperr.NotFound if no active owned row matched
	*/
	SoftDelete(context context.Context, id string, ownerID string) error
}
