// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package series

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoangbui/komiko/internal/platform/middleware"
	requestutil "github.com/hoangbui/komiko/internal/platform/request"
	"github.com/hoangbui/komiko/internal/platform/respond"
	"github.com/hoangbui/komiko/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for series management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new series [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the series endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listSeries)
	router.Get("/{id}", handler.getSeries)

	// ## Series Management (Owner Protected)
	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)

		owner.Post("/", handler.createSeries)
		owner.Patch("/{id}", handler.updateSeries)
		owner.Delete("/{id}", handler.deleteSeries)
	})

	return router
}

// seriesPayload defines the inbound JSON schema for series mutations.
type seriesPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// GET /api/v1/series.
func (handler *Handler) listSeries(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:   queryParams.Get("q"),
		OwnerID: queryParams.Get("owner"),
	}

	entries, total, err := handler.service.ListSeries(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// GET /api/v1/series/{id}.
func (handler *Handler) getSeries(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.service.GetSeries(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// POST /api/v1/series.
func (handler *Handler) createSeries(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input seriesPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title := ""
	if input.Title != nil {
		title = *input.Title
	}
	description := ""
	if input.Description != nil {
		description = *input.Description
	}

	entry, err := handler.service.CreateSeries(request.Context(), title, description, ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

// PATCH /api/v1/series/{id}.
func (handler *Handler) updateSeries(writer http.ResponseWriter, request *http.Request) {
	seriesID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input seriesPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.UpdateSeries(request.Context(), seriesID, ownerID, input.Title, input.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// DELETE /api/v1/series/{id}.
func (handler *Handler) deleteSeries(writer http.ResponseWriter, request *http.Request) {
	seriesID := requestutil.ID(request, "id")

	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteSeries(request.Context(), seriesID, ownerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
