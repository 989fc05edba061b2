// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package episode

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

// Handler implements the HTTP layer for episodes.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the episode endpoints.
//
// Reads are public; mutations require [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listEpisodes)
	router.Get("/{id}", handler.getEpisode)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createEpisode)
		admin.Patch("/{id}", handler.updateEpisode)
		admin.Delete("/{id}", handler.deleteEpisode)
	})

	return router
}

func (handler *Handler) listEpisodes(writer http.ResponseWriter, httpRequest *http.Request) {
	var filter Filter

	if seasonID := httpRequest.URL.Query().Get("seasonId"); seasonID != "" {
		filter.SeasonID = pointer.To(seasonID)
	}

	page := pagination.FromRequest(httpRequest)

	episodes, meta, err := handler.service.ListEpisodes(httpRequest.Context(), filter, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Episodes retrieved successfully", episodes, meta)
}

// ListBySeason serves GET /seasons/{id}/episodes; the route is mounted
// by the composition root under the season subtree.
func (handler *Handler) ListBySeason(writer http.ResponseWriter, httpRequest *http.Request) {
	seasonID := request.Param(httpRequest, "id")

	page := pagination.FromRequest(httpRequest)

	episodes, meta, err := handler.service.ListEpisodes(httpRequest.Context(), Filter{SeasonID: &seasonID}, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Episodes retrieved successfully", episodes, meta)
}

func (handler *Handler) getEpisode(writer http.ResponseWriter, httpRequest *http.Request) {
	episode, err := handler.service.GetEpisode(httpRequest.Context(), request.Param(httpRequest, "id"))
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Episode retrieved successfully", episode)
}

func (handler *Handler) createEpisode(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := CreateEpisodeInput{
		SeasonID: form.String("seasonId"),
		Title:    form.String("title"),
		Synopsis: form.StringPtr("synopsis"),
	}

	if value, _, err := form.Int("episodeNumber"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else {
		input.EpisodeNumber = value
	}

	if value, present, err := form.Int("duration"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.Duration = &value
	}

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	episode, err := handler.service.CreateEpisode(httpRequest.Context(), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "Episode created successfully", episode)
}

func (handler *Handler) updateEpisode(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := UpdateEpisodeInput{
		Title:    form.StringPtr("title"),
		Synopsis: form.StringPtr("synopsis"),
	}

	if value, present, err := form.Int("episodeNumber"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.EpisodeNumber = &value
	}

	if value, present, err := form.Int("duration"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.Duration = &value
	}

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	episode, err := handler.service.UpdateEpisode(httpRequest.Context(), request.Param(httpRequest, "id"), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Episode updated successfully", episode)
}

func (handler *Handler) deleteEpisode(writer http.ResponseWriter, httpRequest *http.Request) {
	if err := handler.service.DeleteEpisode(httpRequest.Context(), request.Param(httpRequest, "id")); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Episode deleted successfully", nil)
}

// parseFiles extracts the two episode media parts.
func parseFiles(form *request.Form) (map[string]*upload.FileInput, error) {
	files := make(map[string]*upload.FileInput)

	fields := []struct {
		name     string
		maxBytes int64
	}{
		{"coverUrl", constants.MaxImageBytes},
		{"episodeUrl", constants.MaxVideoBytes},
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
