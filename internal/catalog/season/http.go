// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package season

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/middleware"
	"github.com/dramirezb/cinemateca/internal/platform/request"
	"github.com/dramirezb/cinemateca/internal/platform/respond"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
	"github.com/dramirezb/cinemateca/pkg/pointer"
)

// Handler implements the HTTP layer for seasons.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the season endpoints.
//
// Reads are public; mutations require [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listSeasons)
	router.Get("/{id}", handler.getSeason)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createSeason)
		admin.Patch("/{id}", handler.updateSeason)
		admin.Delete("/{id}", handler.deleteSeason)
	})

	return router
}

func (handler *Handler) listSeasons(writer http.ResponseWriter, httpRequest *http.Request) {
	var filter Filter

	if serieID := httpRequest.URL.Query().Get("serieId"); serieID != "" {
		filter.SerieID = pointer.To(serieID)
	}

	page := pagination.FromRequest(httpRequest)

	seasons, meta, err := handler.service.ListSeasons(httpRequest.Context(), filter, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Seasons retrieved successfully", seasons, meta)
}

// ListBySerie serves GET /series/{id}/seasons; the route is mounted by
// the composition root under the serie subtree.
func (handler *Handler) ListBySerie(writer http.ResponseWriter, httpRequest *http.Request) {
	serieID := request.Param(httpRequest, "id")

	page := pagination.FromRequest(httpRequest)

	seasons, meta, err := handler.service.ListSeasons(httpRequest.Context(), Filter{SerieID: &serieID}, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Seasons retrieved successfully", seasons, meta)
}

func (handler *Handler) getSeason(writer http.ResponseWriter, httpRequest *http.Request) {
	season, err := handler.service.GetSeason(httpRequest.Context(), request.Param(httpRequest, "id"))
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Season retrieved successfully", season)
}

func (handler *Handler) createSeason(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := CreateSeasonInput{
		SerieID: form.String("serieId"),
		Title:   form.String("title"),
	}

	if value, _, err := form.Int("seasonNumber"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else {
		input.SeasonNumber = value
	}

	if value, present, err := form.Int("releaseYear"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.ReleaseYear = &value
	}

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	season, err := handler.service.CreateSeason(httpRequest.Context(), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "Season created successfully", season)
}

func (handler *Handler) updateSeason(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := UpdateSeasonInput{Title: form.StringPtr("title")}

	if value, present, err := form.Int("seasonNumber"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.SeasonNumber = &value
	}

	if value, present, err := form.Int("releaseYear"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.ReleaseYear = &value
	}

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	season, err := handler.service.UpdateSeason(httpRequest.Context(), request.Param(httpRequest, "id"), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Season updated successfully", season)
}

func (handler *Handler) deleteSeason(writer http.ResponseWriter, httpRequest *http.Request) {
	if err := handler.service.DeleteSeason(httpRequest.Context(), request.Param(httpRequest, "id")); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Season deleted successfully", nil)
}

// parseFiles extracts the two season media parts.
func parseFiles(form *request.Form) (map[string]*upload.FileInput, error) {
	files := make(map[string]*upload.FileInput)

	fields := []struct {
		name     string
		maxBytes int64
	}{
		{"coverUrl", constants.MaxImageBytes},
		{"trailerUrl", constants.MaxVideoBytes},
	}

	for _, field := range fields {
		file, present, err := form.File(field.name, field.maxBytes)
		if err != nil {
			return nil, err
		}
		if present {
			files[field.name] = file
		}
	}

	return files, nil
}
