// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package movie

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/middleware"
	"github.com/dramirezb/cinemateca/internal/platform/request"
	"github.com/dramirezb/cinemateca/internal/platform/respond"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// Handler implements the HTTP layer for the movie catalog, including the
// per-movie genre association endpoints.
type Handler struct {
	service *Service
	links   *genrelink.Manager
}

func NewHandler(service *Service, links *genrelink.Manager) *Handler {
	return &Handler{service: service, links: links}
}

// Routes returns a [chi.Router] with the movie endpoints.
//
// Reads are public; mutations require [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listMovies)
	router.Get("/{id}", handler.getMovie)
	router.Get("/{id}/genres", handler.listMovieGenres)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createMovie)
		admin.Patch("/{id}", handler.updateMovie)
		admin.Delete("/{id}", handler.deleteMovie)

		admin.Post("/{id}/genres", handler.addMovieGenre)
		admin.Delete("/{id}/genres/{genreId}", handler.removeMovieGenre)
	})

	return router
}

// # Catalog Endpoints

func (handler *Handler) listMovies(writer http.ResponseWriter, httpRequest *http.Request) {
	var filter Filter

	if genreID, present, err := request.QueryInt(httpRequest, "genreId"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		filter.GenreID = &genreID
	}

	page := pagination.FromRequest(httpRequest)

	movies, meta, err := handler.service.ListMovies(httpRequest.Context(), filter, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Movies retrieved successfully", movies, meta)
}

// ListByGenre serves GET /genres/{id}/movies; the route is mounted by the
// composition root under the genre subtree.
func (handler *Handler) ListByGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	genreID, err := request.ID(httpRequest, "id")
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	page := pagination.FromRequest(httpRequest)

	movies, meta, err := handler.service.ListMovies(httpRequest.Context(), Filter{GenreID: &genreID}, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Movies retrieved successfully", movies, meta)
}

func (handler *Handler) getMovie(writer http.ResponseWriter, httpRequest *http.Request) {
	movie, err := handler.service.GetMovie(httpRequest.Context(), request.Param(httpRequest, "id"))
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Movie retrieved successfully", movie)
}

func (handler *Handler) createMovie(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := CreateMovieInput{Title: form.String("title")}

	if err := parseScalars(form,
		&input.Synopsis, &input.ReleaseYear, &input.Director,
		&input.Duration, &input.Classification, &input.Rating,
	); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if genreIDs, present, err := form.IntSlice("genres"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.GenreIDs = genreIDs
		input.HasGenres = true
	}

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	movie, err := handler.service.CreateMovie(httpRequest.Context(), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "Movie created successfully", movie)
}

func (handler *Handler) updateMovie(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := UpdateMovieInput{Title: form.StringPtr("title")}

	if err := parseScalars(form,
		&input.Synopsis, &input.ReleaseYear, &input.Director,
		&input.Duration, &input.Classification, &input.Rating,
	); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if genreIDs, present, err := form.IntSlice("genres"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		input.GenreIDs = genreIDs
		input.HasGenres = true
	}

	input.Files, err = parseFiles(form)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	movie, err := handler.service.UpdateMovie(httpRequest.Context(), request.Param(httpRequest, "id"), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Movie updated successfully", movie)
}

func (handler *Handler) deleteMovie(writer http.ResponseWriter, httpRequest *http.Request) {
	if err := handler.service.DeleteMovie(httpRequest.Context(), request.Param(httpRequest, "id")); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Movie deleted successfully", nil)
}

// # Genre Association Endpoints

type genreLinkRequest struct {
	GenreID int `json:"genreId"`
}

func (handler *Handler) listMovieGenres(writer http.ResponseWriter, httpRequest *http.Request) {
	genres, err := handler.links.List(httpRequest.Context(), request.Param(httpRequest, "id"))
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Movie genres retrieved successfully", genres)
}

func (handler *Handler) addMovieGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	var payload genreLinkRequest
	if err := request.DecodeJSON(httpRequest, &payload); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	association, err := handler.links.Add(httpRequest.Context(), request.Param(httpRequest, "id"), payload.GenreID)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "Genre associated successfully", association)
}

func (handler *Handler) removeMovieGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	genreID, err := request.ID(httpRequest, "genreId")
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	if err := handler.links.Remove(httpRequest.Context(), request.Param(httpRequest, "id"), genreID); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Genre association removed successfully", nil)
}

// # Form Parsing

// parseScalars fills the shared optional movie fields from the form.
func parseScalars(form *request.Form, synopsis **string, releaseYear **int, director **string, duration **int, classification **string, rating **float64) error {

	*synopsis = form.StringPtr("synopsis")
	*director = form.StringPtr("director")
	*classification = form.StringPtr("classification")

	if value, present, err := form.Int("releaseYear"); err != nil {
		return err
	} else if present {
		*releaseYear = &value
	}

	if value, present, err := form.Int("duration"); err != nil {
		return err
	} else if present {
		*duration = &value
	}

	if value, present, err := form.Float("rating"); err != nil {
		return err
	} else if present {
		*rating = &value
	}

	return nil
}

// parseFiles extracts the three movie media parts.
func parseFiles(form *request.Form) (map[string]*upload.FileInput, error) {
	files := make(map[string]*upload.FileInput)

	fields := []struct {
		name     string
		maxBytes int64
	}{
		{"coverUrl", constants.MaxImageBytes},
		{"trailerUrl", constants.MaxVideoBytes},
		{"movieUrl", constants.MaxVideoBytes},
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
