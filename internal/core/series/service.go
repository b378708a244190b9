// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package series

import (
	"context"
	"log/slog"

	"github.com/hoangbui/komiko/internal/platform/validate"
	"github.com/hoangbui/komiko/pkg/slug"
	"github.com/hoangbui/komiko/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the business logic for comic series.
type Service struct {
	seriesRepo SeriesRepository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(seriesRepo SeriesRepository, logger *slog.Logger) *Service {
	return &Service{
		seriesRepo: seriesRepo,
		logger:     logger,
	}
}

// # Lookups

// ListSeries retrieves a paginated and filtered collection of series.
func (service *Service) ListSeries(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error) {
	return service.seriesRepo.List(context, filter, limit, offset)
}

// GetSeries fetches a single series record by its UUID.
func (service *Service) GetSeries(context context.Context, id string) (*Series, error) {
	return service.seriesRepo.FindByID(context, id)
}

// # Management

/*
CreateSeries initialises a new series owned by the given user.

Parameters:
  - context: context.Context
  - title: string (Required, 1-255 chars)
  - description: string
  - ownerID: string (UUID of the creating user)

Returns:
  - *Series: The persisted entity
  - error: Validation or persistence errors
*/
func (service *Service) CreateSeries(context context.Context, title, description, ownerID string) (*Series, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Series{
		ID:          uuidv7.New(),
		OwnerID:     ownerID,
		Title:       title,
		Slug:        slug.From(title),
		Description: description,
	}

	if err := service.seriesRepo.Create(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("series_created",
		slog.String("series_id", entry.ID),
		slog.String("owner_id", ownerID),
	)

	return entry, nil
}

/*
UpdateSeries applies title/description changes to an owned series.

Ownership and existence failures are collapsed into a single not-found
error, matching the comic domain.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - ownerID: string (UUID of the requesting user)
  - title: *string (nil leaves the stored value untouched)
  - description: *string (nil leaves the stored value untouched)

Returns:
  - *Series: The updated entity
  - error: apperr.NotFound, validation or persistence errors
*/
func (service *Service) UpdateSeries(context context.Context, id, ownerID string, title, description *string) (*Series, error) {
	validator := &validate.Validator{}
	if title != nil {
		validator.Required(FieldTitle, *title).MaxLen(FieldTitle, *title, MaxTitleLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.seriesRepo.Update(context, id, ownerID, title, description); err != nil {
		return nil, err
	}

	service.logger.Info("series_updated", slog.String("series_id", id))

	return service.seriesRepo.FindByID(context, id)
}

// DeleteSeries soft-deletes an owned series. Member comics keep their
// dangling reference; readers treat a missing series as "no series".
func (service *Service) DeleteSeries(context context.Context, id, ownerID string) error {
	if err := service.seriesRepo.SoftDelete(context, id, ownerID); err != nil {
		return err
	}

	service.logger.Warn("series_deleted", slog.String("series_id", id))

	return nil
}
