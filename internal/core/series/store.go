// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package series

import "context"

// # Series Data Access

// SeriesRepository defines the data access contract for the series domain.
type SeriesRepository interface {
	// List returns a filtered, paginated slice of series and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error)

	// FindByID returns the active series with the given ID.
	FindByID(context context.Context, id string) (*Series, error)

	// Create persists a new series.
	Create(context context.Context, entry *Series) error

	// Update applies partial changes to an owned series. Nil pointers
	// leave the stored value untouched.
	Update(context context.Context, id string, ownerID string, title, description *string) error

	// SoftDelete marks an owned series as deleted.
	SoftDelete(context context.Context, id string, ownerID string) error
}
