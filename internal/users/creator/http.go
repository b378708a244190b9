// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package creator

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/middleware"
	requestutil "github.com/hoangbui/komiko/internal/platform/request"
	"github.com/hoangbui/komiko/internal/platform/respond"
	"github.com/hoangbui/komiko/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for CreatorHub membership.
type Handler struct {
	service *Service
}

// NewHandler constructs a new creator [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the member-facing CreatorHub endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.setCreatorHub)

	return router
}

// ProfileRoutes returns the creator profile endpoints.
func (handler *Handler) ProfileRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getProfile)
	router.Patch("/", handler.patchProfile)

	return router
}

// AdminRoutes returns the operator-only retention endpoints.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Post("/creatorhub/cleanup", handler.runCleanup)

	return router
}

// # Request Payloads

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

type profilePayload struct {
	DisplayName *string           `json:"display_name"`
	Bio         *string           `json:"bio"`
	Links       map[string]string `json:"links"`
}

// # Endpoints

/*
POST /api/v1/creatorhub.

Description: Enables or disables CreatorHub for the caller. Disabling
starts the retention clock, enabling stops it.

Response:
  - 204: No Content: Success
  - 400: 400: Validation: Missing enabled flag
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) setCreatorHub(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input toggleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Enabled == nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid input data", apperr.FieldError{
			Field:   FieldEnabled,
			Message: "This field is required",
		}))
		return
	}

	if err := handler.service.SetCreatorHub(request.Context(), userID, *input.Enabled); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/v1/account/profile.

Description: Returns the caller's creator profile.

Response:
  - 200: CreatorProfile: The profile
  - 404: 404: ErrNotFound: No profile yet
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
PATCH /api/v1/account/profile.

Description: Applies a partial update to the caller's creator profile,
creating it on first write.

Response:
  - 200: CreatorProfile: Updated profile
  - 400: 400: Validation: Invalid input data
*/
func (handler *Handler) patchProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profilePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.UpdateProfile(request.Context(), userID, ProfilePatch{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Links:       input.Links,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
POST /api/v1/admin/creatorhub/cleanup.

Description: Runs the retention sweep immediately. The same routine is
invoked by the daily scheduler.

Response:
  - 200: SweepResult: Scanned and deleted counts
  - 403: 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) runCleanup(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.CleanupExpiredCreatorData(request.Context(), time.Now().UTC())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
