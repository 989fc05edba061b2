// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dramirezb/cinemateca/internal/platform/middleware"
	"github.com/dramirezb/cinemateca/internal/platform/request"
	"github.com/dramirezb/cinemateca/internal/platform/respond"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
)

// Handler implements the HTTP layer for the genre catalog.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the genre endpoints.
//
// Reads are public; mutations require [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGenres)
	router.Get("/{id}", handler.getGenre)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createGenre)
		admin.Patch("/{id}", handler.updateGenre)
		admin.Delete("/{id}", handler.deleteGenre)
	})

	return router
}

func (handler *Handler) listGenres(writer http.ResponseWriter, httpRequest *http.Request) {
	genres, err := handler.service.ListGenres(httpRequest.Context())
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Genres retrieved successfully", genres)
}

func (handler *Handler) getGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	id, err := request.ID(httpRequest, "id")
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	genre, err := handler.service.GetGenre(httpRequest.Context(), id)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Genre retrieved successfully", genre)
}

func (handler *Handler) createGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	var payload CreateGenreRequest
	if err := request.DecodeJSON(httpRequest, &payload); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	genre, err := handler.service.CreateGenre(httpRequest.Context(), payload)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "Genre created successfully", genre)
}

func (handler *Handler) updateGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	id, err := request.ID(httpRequest, "id")
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	var payload UpdateGenreRequest
	if err := request.DecodeJSON(httpRequest, &payload); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	genre, err := handler.service.UpdateGenre(httpRequest.Context(), id, payload)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Genre updated successfully", genre)
}

func (handler *Handler) deleteGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	id, err := request.ID(httpRequest, "id")
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if err := handler.service.DeleteGenre(httpRequest.Context(), id); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Genre deleted successfully", nil)
}
