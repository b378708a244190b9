// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package comic provides the HTTP interface for the content lifecycle.

It exposes endpoints for browsing published comics, uploading new works,
patching metadata, and driving the draft/scheduled/published/archived
transitions.

# Routing Strategy

  - Public (v1): Discovery endpoints accessible to all visitors (GET /comics).
  - Restricted (v1): Mutative endpoints requiring an authenticated owner (POST, PATCH, DELETE).

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package comic

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/middleware"
	requestutil "github.com/hoangbui/komiko/internal/platform/request"
	"github.com/hoangbui/komiko/internal/platform/respond"
	"github.com/hoangbui/komiko/internal/platform/validate"
	"github.com/hoangbui/komiko/pkg/pagination"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 10 << 20 // 10 MiB

// # Handler Implementation

// Handler implements the HTTP layer for comic lifecycle management.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comic [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the comic domain's endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Accessible by all visitors for browsing published work.
//   - Lifecycle (Restricted): Requires authentication; ownership is enforced by the service.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listComics)
	router.Get("/{id}", handler.getComic)

	// ## Content Lifecycle (Owner Protected)
	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)

		owner.Post("/", handler.createComic)
		owner.Patch("/{id}", handler.patchComic)
		owner.Delete("/{id}", handler.deleteComic)

		// Lifecycle transitions
		owner.Post("/{id}/publish", handler.publishComic)
		owner.Post("/{id}/schedule", handler.scheduleComic)
		owner.Post("/{id}/draft", handler.draftComic)
		owner.Post("/{id}/archive", handler.archiveComic)

		// Draft preview
		owner.Get("/{id}/preview", handler.getDraftPreview)
	})

	return router
}

// # Comic Endpoints

/*
GET /api/v1/comics.

Description: Retrieves a paginated list of published comics. Owners can
pass mine=true to list their own works in every lifecycle state.

Request:
  - q: string (Title search)
  - genre: string
  - tag: string
  - series: string (Series UUID)
  - publishstatus: []string (draft, scheduled, published, archived; owner listing only)
  - mine: bool (Restrict to the authenticated user's comics)
  - sort: string (latest, published, az, za)
  - dir: string (asc, desc)
  - limit: int
  - page: int

Response:
  - 200: []Comic: Paginated list of comics
*/
func (handler *Handler) listComics(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:    queryParams.Get("q"),
		Genre:    queryParams.Get("genre"),
		Tag:      queryParams.Get("tag"),
		SeriesID: queryParams.Get("series"),
		Sort:     queryParams.Get("sort"),
		SortDir:  queryParams.Get("dir"),
	}

	// Anonymous browsing only ever sees published work
	claims := requestutil.Claims(request)
	if queryParams.Get("mine") == "true" && claims != nil {
		filter.OwnerID = claims.UserID
		filter.PublishStatus = parsePublishStatusSlice(queryParams["publishstatus"])
	} else {
		filter.Status = []Status{StatusPublished}
	}

	comics, total, err := handler.service.ListComics(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comics, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/comics/{id}.

Description: Retrieves detailed metadata for a single comic.

Request:
  - id: string (UUID)

Response:
  - 200: Comic: Success
  - 404: 404: ErrNotFound: Comic not found
*/
func (handler *Handler) getComic(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.ID(request, "id")

	comic, err := handler.service.GetComic(request.Context(), comicID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comic)
}

// # Request Payloads

// comicPayload defines the inbound JSON schema for comic creation and patching.
type comicPayload struct {
	Title           *string            `json:"title"`
	Subtitle        *string            `json:"subtitle"`
	Description     *string            `json:"description"`
	Genres          []string           `json:"genres"`
	Tags            []string           `json:"tags"`
	SeriesID        *string            `json:"series_id"`
	FileID          string             `json:"file_id"`
	FileURL         string             `json:"file_url"`
	FileName        string             `json:"file_name"`
	FileSize        int64              `json:"file_size"`
	FileType        string             `json:"file_type"`
	PageOrder       []string           `json:"page_order"`
	ThumbnailURL    *string            `json:"thumbnail_url"`
	Status          *Status            `json:"status"`
	Contributors    []ContributorGroup `json:"contributors"`
	UploadAgreement bool               `json:"upload_agreement"`
}

// scheduleRequest defines the inbound JSON schema for scheduling.
type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

// # Mutation Endpoints

/*
POST /api/v1/comics.

Description: Creates a new comic in the draft state. Accepts either a
plain JSON body or multipart/form-data with a 'payload' JSON part and an
optional 'thumbnail' file part. An uploaded thumbnail takes precedence
over a thumbnail_url field.

Request (Body):
  - comicPayload: JSON object (requires upload_agreement and a file_id or page_order)

Response:
  - 201: Comic: Created comic in the draft state
  - 400: 400: AGREEMENT_REQUIRED / MISSING_UPLOAD_REFERENCE / Validation
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) createComic(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, thumbnail, cleanup, err := decodeComicPayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	// Contributor groups with names must carry a role
	if err := validateContributors(payload.Contributors); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{
		Subtitle:        deref(payload.Subtitle),
		Description:     deref(payload.Description),
		Genres:          payload.Genres,
		Tags:            payload.Tags,
		SeriesID:        payload.SeriesID,
		ThumbnailURL:    deref(payload.ThumbnailURL),
		Contributors:    payload.Contributors,
		UploadAgreement: payload.UploadAgreement,
		Upload: UploadInput{
			FileID:    payload.FileID,
			FileURL:   payload.FileURL,
			FileName:  payload.FileName,
			FileSize:  payload.FileSize,
			FileType:  payload.FileType,
			PageOrder: payload.PageOrder,
		},
	}
	if payload.Title != nil {
		input.Title = *payload.Title
	}

	comic, err := handler.service.CreateComic(request.Context(), input, ownerID, thumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comic)
}

/*
PATCH /api/v1/comics/{id}.

Description: Applies partial updates to an owned comic. Supplying a
contributors array destroys and fully replaces the stored contributor
set. Patching status to published also stamps publish_status and
published_at. A multipart 'thumbnail' part replaces the stored thumbnail.

Request:
  - id: string (UUID)
  - body: comicPayload (Partial JSON or multipart)

Response:
  - 200: Comic: Updated comic object
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) patchComic(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, thumbnail, cleanup, err := decodeComicPayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	if err := validateContributors(payload.Contributors); err != nil {
		respond.Error(writer, request, err)
		return
	}

	patch := Patch{
		Title:        payload.Title,
		Subtitle:     payload.Subtitle,
		Description:  payload.Description,
		Genres:       payload.Genres,
		Tags:         payload.Tags,
		SeriesID:     payload.SeriesID,
		ThumbnailURL: payload.ThumbnailURL,
		Status:       payload.Status,
		Contributors: payload.Contributors,
	}

	comic, err := handler.service.PatchComic(request.Context(), comicID, ownerID, patch, thumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comic)
}

/*
DELETE /api/v1/comics/{id}.

Description: Soft-deletes an owned comic after best-effort removal of its
stored file and thumbnail.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) deleteComic(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComic(request.Context(), comicID, ownerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Lifecycle Endpoints

/*
POST /api/v1/comics/{id}/publish.

Description: Publishes an owned comic immediately. Re-publishing leaves
publish_status unchanged but re-stamps published_at.

Response:
  - 200: message: Success
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) publishComic(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.service.PublishComic, "published")
}

/*
POST /api/v1/comics/{id}/schedule.

Description: Queues an owned comic for future publication.

Request (Body):
  - scheduled_at: string (RFC 3339 timestamp)

Response:
  - 200: message: Success
  - 400: 400: Validation: Missing or invalid schedule time
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) scheduleComic(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input scheduleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ScheduleComic(request.Context(), comicID, ownerID, input.ScheduledAt); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "scheduled"})
}

/*
POST /api/v1/comics/{id}/draft.

Description: Returns an owned comic to the draft state, clearing the
published and scheduled timestamps. Reachable from every state.

Response:
  - 200: message: Success
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) draftComic(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.service.DraftComic, "draft")
}

/*
POST /api/v1/comics/{id}/archive.

Description: Withdraws an owned comic from the public feed.

Response:
  - 200: message: Success
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) archiveComic(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.service.ArchiveComic, "archived")
}

/*
GET /api/v1/comics/{id}/preview.

Description: Returns the owner-only read projection of a draft comic.
Stored thumbnails are served through a time-limited signed URL.

Response:
  - 200: Preview: The draft projection
  - 400: 400: PREVIEW_UNAVAILABLE: Comic is not in the draft state
  - 404: 404: ErrNotFound: Comic not found or not owned
*/
func (handler *Handler) getDraftPreview(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	preview, err := handler.service.GetDraftPreview(request.Context(), comicID, ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, preview)
}

// transition runs a parameterless lifecycle operation shared by several endpoints.
func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request, operation func(ctx stdctx.Context, id, ownerID string) error, resultStatus string) {
	comicID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := operation(request.Context(), comicID, ownerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": resultStatus})
}

// # Helpers

/*
decodeComicPayload extracts the comic payload and optional thumbnail file.

Description: Accepts plain application/json bodies as well as
multipart/form-data requests carrying a 'payload' JSON field and an
optional 'thumbnail' file part.

Parameters:
  - request: *http.Request

Returns:
  - comicPayload: The decoded metadata fields
  - *ThumbnailUpload: The uploaded thumbnail, or nil
  - func(): Cleanup closure releasing any open file handles
  - error: apperr on malformed bodies
*/
func decodeComicPayload(request *http.Request) (comicPayload, *ThumbnailUpload, func(), error) {
	var payload comicPayload
	noop := func() {}

	contentType := request.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := requestutil.DecodeJSON(request, &payload); err != nil {
			return payload, nil, noop, err
		}
		return payload, nil, noop, nil
	}

	// Multipart branch: JSON metadata rides in the 'payload' field
	if err := request.ParseMultipartForm(maxUploadMemory); err != nil {
		return payload, nil, noop, validate.ErrInvalidJSON
	}

	raw := request.FormValue("payload")
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return payload, nil, noop, validate.ErrInvalidJSON
		}
	}

	file, header, err := request.FormFile("thumbnail")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return payload, nil, noop, nil
		}
		return payload, nil, noop, validate.ErrInvalidJSON
	}

	thumbnail := &ThumbnailUpload{
		FileName: header.Filename,
		Reader:   file,
	}
	cleanup := func() { _ = file.Close() }

	return payload, thumbnail, cleanup, nil
}

// validateContributors rejects groups that credit names without a role,
// and duplicate names within one role group.
func validateContributors(groups []ContributorGroup) error {
	for _, group := range groups {
		if len(group.Names) > 0 && strings.TrimSpace(group.Role) == "" {
			return apperr.ContributorRoleMissing()
		}

		seen := make(map[string]struct{}, len(group.Names))
		for _, name := range group.Names {
			if _, duplicate := seen[name]; duplicate {
				return apperr.ValidationError("Invalid input data", apperr.FieldError{
					Field:   FieldContributors,
					Message: "duplicate contributor name in role " + group.Role,
				})
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

// parsePublishStatusSlice converts query values to valid [PublishStatus] entries.
func parsePublishStatusSlice(values []string) []PublishStatus {
	var result []PublishStatus
	for _, value := range values {
		status := PublishStatus(value)
		if status.IsValid() {
			result = append(result, status)
		}
	}
	return result
}

// deref returns the pointed-to string or the empty string.
func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
