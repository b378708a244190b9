// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic

import (
	"context"
	"log/slog"
	"time"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/notify"
)

// previewURLTTL bounds how long a signed draft-preview thumbnail URL lives.
const previewURLTTL = 15 * time.Minute

// # Lifecycle Transitions

/*
PublishComic moves an owned comic into the published state.

Description: Sets publishStatus to published, mirrors the coarse status
field and stamps publishedAt with the current time. Publishing an already
published comic is idempotent on publishStatus but re-stamps publishedAt
to the later time.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) PublishComic(context context.Context, id, ownerID string) error {
	now := time.Now().UTC()
	status := StatusPublished

	change := LifecycleChange{
		PublishStatus:  PublishStatusPublished,
		Status:         &status,
		SetPublishedAt: &now,
	}

	if err := service.comicRepo.SetLifecycle(context, id, ownerID, change); err != nil {
		return err
	}

	service.logger.Info("comic_published",
		slog.String("comic_id", id),
		slog.String("owner_id", ownerID),
	)

	service.notifier.Send(context, notify.KindComicPublished, ownerID, map[string]any{
		"comic_id":     id,
		"published_at": now,
	})

	return nil
}

/*
ScheduleComic queues an owned comic for future publication.

Description: Sets publishStatus to scheduled and records the publication
time. An existing publishedAt stamp is left untouched.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)
  - when: time.Time (Intended publication time)

Returns:
  - error: apperr.NotFound, validation or persistence errors
*/
func (service *Service) ScheduleComic(context context.Context, id, ownerID string, when time.Time) error {
	if when.IsZero() {
		return apperr.ValidationError("A schedule time is required", apperr.FieldError{
			Field:   FieldScheduledAt,
			Message: "must be a valid timestamp",
		})
	}

	change := LifecycleChange{
		PublishStatus:  PublishStatusScheduled,
		SetScheduledAt: &when,
	}

	if err := service.comicRepo.SetLifecycle(context, id, ownerID, change); err != nil {
		return err
	}

	service.logger.Info("comic_scheduled",
		slog.String("comic_id", id),
		slog.String("owner_id", ownerID),
		slog.Time("scheduled_at", when),
	)

	return nil
}

/*
DraftComic returns an owned comic to the draft state.

Description: Clears both publishedAt and scheduledAt and mirrors the
coarse status field. The transition is reachable from every state,
including archived.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) DraftComic(context context.Context, id, ownerID string) error {
	status := StatusDraft

	change := LifecycleChange{
		PublishStatus:    PublishStatusDraft,
		Status:           &status,
		ClearPublishedAt: true,
		ClearScheduledAt: true,
	}

	if err := service.comicRepo.SetLifecycle(context, id, ownerID, change); err != nil {
		return err
	}

	service.logger.Info("comic_drafted",
		slog.String("comic_id", id),
		slog.String("owner_id", ownerID),
	)

	return nil
}

/*
ArchiveComic withdraws an owned comic from the public feed.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) ArchiveComic(context context.Context, id, ownerID string) error {
	change := LifecycleChange{
		PublishStatus: PublishStatusArchived,
	}

	if err := service.comicRepo.SetLifecycle(context, id, ownerID, change); err != nil {
		return err
	}

	service.logger.Info("comic_archived",
		slog.String("comic_id", id),
		slog.String("owner_id", ownerID),
	)

	return nil
}

// # Draft Preview

/*
GetDraftPreview returns the owner-only read projection of a draft comic.

Description: Valid only while the coarse status is draft; the projection
exposes descriptive fields, the page order and a time-limited thumbnail
URL rather than the full record. When URL signing fails the stored
thumbnail URL is used as a fallback.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)

Returns:
  - *Preview: The read-only projection
  - error: apperr.NotFound, apperr.PreviewUnavailable or persistence errors
*/
func (service *Service) GetDraftPreview(context context.Context, id, ownerID string) (*Preview, error) {

	// 1. Ownership-scoped lookup
	comic, err := service.comicRepo.FindOwned(context, id, ownerID)
	if err != nil {
		return nil, err
	}

	// 2. Previews exist only for drafts
	if comic.Status != StatusDraft {
		return nil, apperr.PreviewUnavailable()
	}

	// 3. Projection assembly
	preview := &Preview{
		ID:           comic.ID,
		Title:        comic.Title,
		Subtitle:     comic.Subtitle,
		Description:  comic.Description,
		PageOrder:    comic.PageOrder,
		ThumbnailURL: comic.ThumbnailURL,
		CreatedAt:    comic.CreatedAt,
		UpdatedAt:    comic.UpdatedAt,
	}

	// 4. Prefer a time-limited URL for stored thumbnails
	if comic.ThumbnailKey != "" {
		signed, err := service.blobs.SignedURL(comic.ThumbnailKey, previewURLTTL)
		if err != nil {
			service.logger.Warn("preview_sign_failed",
				slog.String("comic_id", comic.ID),
				slog.Any("error", err),
			)
		} else {
			preview.ThumbnailURL = signed
		}
	}

	return preview, nil
}
