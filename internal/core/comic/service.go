// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/blob"
	"github.com/hoangbui/komiko/internal/platform/notify"
	"github.com/hoangbui/komiko/internal/platform/validate"
	"github.com/hoangbui/komiko/pkg/slug"
	"github.com/hoangbui/komiko/pkg/uuidv7"
)

// thumbnailNamespace is the blob store namespace for comic thumbnails.
const thumbnailNamespace = "thumbnails"

// # Service Layer

// Service orchestrates the content lifecycle business logic.
// It acts as the primary entry point for managing uploaded works.
type Service struct {
	comicRepo ComicRepository
	blobs     blob.Store
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its injected dependencies.
func NewService(comicRepo ComicRepository, blobs blob.Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		comicRepo: comicRepo,
		blobs:     blobs,
		notifier:  notifier,
		logger:    logger,
	}
}

// # Input Payloads

// CreateInput carries the fields accepted when creating a comic.
type CreateInput struct {
	Title           string
	Subtitle        string
	Description     string
	Genres          []string
	Tags            []string
	SeriesID        *string
	Upload          UploadInput
	ThumbnailURL    string
	Contributors    []ContributorGroup
	UploadAgreement bool
}

// Patch carries the whitelisted fields accepted on a metadata patch.
// Nil pointers and nil slices leave the stored value untouched.
type Patch struct {
	Title        *string
	Subtitle     *string
	Description  *string
	Genres       []string
	Tags         []string
	SeriesID     *string
	ThumbnailURL *string
	Status       *Status
	Contributors []ContributorGroup

	// Derived fields stamped by the service, never set by callers.
	thumbnailKey  *string
	publishStatus *PublishStatus
	publishedAt   *time.Time
}

// ThumbnailUpload is an in-flight thumbnail file from a multipart request.
type ThumbnailUpload struct {
	FileName string
	Reader   io.Reader
}

// # Comic Lookups

/*
ListComics retrieves a paginated and filtered collection of comics.

Parameters:
  - context: context.Context
  - filter: Filter (Criteria for status, owner, search, etc.)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Comic: Slice of matching records
  - int: Total count of records matching the filter
  - error: System or repository level errors
*/
func (service *Service) ListComics(context context.Context, filter Filter, limit, offset int) ([]*Comic, int, error) {
	return service.comicRepo.List(context, filter, limit, offset)
}

/*
GetComic fetches a single comic record by its UUID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Comic: The hydrated domain entity
  - error: apperr.NotFound if no match is found
*/
func (service *Service) GetComic(context context.Context, id string) (*Comic, error) {
	return service.comicRepo.FindByID(context, id)
}

// # Comic Management

/*
CreateComic initialises a new comic record from an upload payload.

Description: Requires the explicit upload consent flag, resolves the
upload linkage into a primary file reference (single-file or synthetic
archive), resolves thumbnail precedence (uploaded file over explicit URL
over none) and persists the record in the draft state. Contributor groups
are stored as provided.

Parameters:
  - context: context.Context
  - input: CreateInput (Metadata and upload linkage fields)
  - ownerID: string (UUID of the uploading user)
  - thumbnail: *ThumbnailUpload (Optional uploaded thumbnail file)

Returns:
  - *Comic: The persisted entity in its initial draft state
  - error: apperr.AgreementRequired, apperr.MissingUploadReference, validation or persistence errors
*/
func (service *Service) CreateComic(context context.Context, input CreateInput, ownerID string, thumbnail *ThumbnailUpload) (*Comic, error) {

	// 1. Consent gate
	if !input.UploadAgreement {
		return nil, apperr.AgreementRequired()
	}

	// 2. Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 3. Upload linkage resolution
	now := time.Now().UTC()
	linkage, err := ResolveUploadReference(input.Upload, now)
	if err != nil {
		return nil, err
	}

	// 4. Entity assembly
	comic := &Comic{
		ID:            uuidv7.New(),
		OwnerID:       ownerID,
		SeriesID:      input.SeriesID,
		Title:         input.Title,
		Subtitle:      input.Subtitle,
		Slug:          slug.From(input.Title),
		Description:   input.Description,
		Genres:        input.Genres,
		Tags:          input.Tags,
		Status:        StatusDraft,
		PublishStatus: PublishStatusDraft,
		File:          linkage.Primary,
		PageOrder:     linkage.PageOrder,
		Contributors:  input.Contributors,
		AgreedAt:      &now,
	}

	// 5. Thumbnail precedence: uploaded file > explicit URL > none
	if thumbnail != nil {
		object, err := service.blobs.Put(context, thumbnailNamespace, thumbnail.FileName, thumbnail.Reader)
		if err != nil {
			return nil, err
		}
		comic.ThumbnailKey = object.Key
		comic.ThumbnailURL = object.URL
	} else if input.ThumbnailURL != "" {
		comic.ThumbnailURL = input.ThumbnailURL
	}

	// 6. Persistence via Repository
	if err := service.comicRepo.Create(context, comic); err != nil {
		return nil, err
	}

	service.logger.Info("comic_created",
		slog.String("comic_id", comic.ID),
		slog.String("owner_id", ownerID),
		slog.String("title", comic.Title),
		slog.Int("page_count", len(comic.PageOrder)),
	)

	return comic, nil
}

/*
PatchComic applies a partial metadata update to an owned comic.

Description: The record must exist, be active and be owned by ownerID;
ownership and existence failures are deliberately collapsed into a single
not-found error so callers cannot probe other users' records. A newly
uploaded thumbnail replaces the stored one and the previous blob is
deleted best-effort. A contributors field, when present, destroys and
replaces the entire existing contributor set. Patching status to
published also stamps publishStatus and publishedAt.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)
  - patch: Patch (Whitelisted field updates)
  - thumbnail: *ThumbnailUpload (Optional replacement thumbnail file)

Returns:
  - *Comic: The updated entity
  - error: apperr.NotFound, validation or persistence errors
*/
func (service *Service) PatchComic(context context.Context, id, ownerID string, patch Patch, thumbnail *ThumbnailUpload) (*Comic, error) {

	// 1. Ownership-scoped lookup
	existing, err := service.comicRepo.FindOwned(context, id, ownerID)
	if err != nil {
		return nil, err
	}

	// 2. Integrity validation for updated fields
	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, MaxTitleLen)
	}
	if patch.Status != nil {
		validator.OneOf(FieldStatus, string(*patch.Status),
			string(StatusDraft),
			string(StatusPublished),
		)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 3. Thumbnail replacement with best-effort old-blob cleanup
	if thumbnail != nil {
		object, err := service.blobs.Put(context, thumbnailNamespace, thumbnail.FileName, thumbnail.Reader)
		if err != nil {
			return nil, err
		}

		service.deleteBlobBestEffort(context, existing.ThumbnailKey, "old_thumbnail")

		key, url := object.Key, object.URL
		patch.ThumbnailURL = &url
		patch.thumbnailKey = &key
	}

	// 4. Publishing via patch stamps the fine-grained state as well
	if patch.Status != nil && *patch.Status == StatusPublished {
		publishedAt := time.Now().UTC()
		published := PublishStatusPublished
		patch.publishStatus = &published
		patch.publishedAt = &publishedAt
	}

	// 5. Persist the partial update and the contributor replacement
	if err := service.comicRepo.Update(context, id, ownerID, patch); err != nil {
		return nil, err
	}

	service.logger.Info("comic_patched",
		slog.String("comic_id", id),
		slog.String("owner_id", ownerID),
	)

	return service.comicRepo.FindOwned(context, id, ownerID)
}

/*
DeleteComic soft-deletes an owned comic after advisory storage cleanup.

Description: The primary file and the stored thumbnail are removed from
the blob store first, each independently best-effort; a failure on one
does not block the other or the soft delete itself. Storage cleanup is
advisory, not transactional with the record flip.

Parameters:
  - context: context.Context
  - id: string (UUID of the target comic)
  - ownerID: string (UUID of the requesting user)

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) DeleteComic(context context.Context, id, ownerID string) error {

	// 1. Ownership-scoped lookup
	existing, err := service.comicRepo.FindOwned(context, id, ownerID)
	if err != nil {
		return err
	}

	// 2. Advisory blob cleanup, each key independently
	service.deleteBlobBestEffort(context, existing.File.Key, "primary_file")
	service.deleteBlobBestEffort(context, existing.ThumbnailKey, "thumbnail")

	// 3. Soft delete
	if err := service.comicRepo.SoftDelete(context, id, ownerID); err != nil {
		return err
	}

	service.logger.Warn("comic_deleted",
		slog.String("comic_id", id),
		slog.String("owner_id", ownerID),
	)

	return nil
}

// # Internal Helpers

// deleteBlobBestEffort removes a stored object, logging failures instead
// of surfacing them.
func (service *Service) deleteBlobBestEffort(context context.Context, key string, label string) {
	if key == "" {
		return
	}

	if err := service.blobs.Delete(context, key); err != nil {
		service.logger.Warn("blob_cleanup_failed",
			slog.String("kind", label),
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
