// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package serie

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

// Handler implements the HTTP layer for the series catalog, including the
// per-serie genre association endpoints.
type Handler struct {
	service *Service
	links   *genrelink.Manager
}

func NewHandler(service *Service, links *genrelink.Manager) *Handler {
	return &Handler{service: service, links: links}
}

// Routes returns a [chi.Router] with the serie endpoints.
//
// Reads are public; mutations require [sec.RoleAdmin]. The nested
// season listing lives under this subtree but is registered by the
// composition root.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listSeries)
	router.Get("/{id}", handler.getSerie)
	router.Get("/{id}/genres", handler.listSerieGenres)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createSerie)
		admin.Patch("/{id}", handler.updateSerie)
		admin.Delete("/{id}", handler.deleteSerie)

		admin.Post("/{id}/genres", handler.addSerieGenre)
		admin.Delete("/{id}/genres/{genreId}", handler.removeSerieGenre)
	})

	return router
}

// # Catalog Endpoints

func (handler *Handler) listSeries(writer http.ResponseWriter, httpRequest *http.Request) {
	var filter Filter

	if genreID, present, err := request.QueryInt(httpRequest, "genreId"); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	} else if present {
		filter.GenreID = &genreID
	}

	page := pagination.FromRequest(httpRequest)

	series, meta, err := handler.service.ListSeries(httpRequest.Context(), filter, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Series retrieved successfully", series, meta)
}

// ListByGenre serves GET /genres/{id}/series; the route is mounted by the
// composition root under the genre subtree.
func (handler *Handler) ListByGenre(writer http.ResponseWriter, httpRequest *http.Request) {
	genreID, err := request.ID(httpRequest, "id")
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	page := pagination.FromRequest(httpRequest)

	series, meta, err := handler.service.ListSeries(httpRequest.Context(), Filter{GenreID: &genreID}, page)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Paginated(writer, "Series retrieved successfully", series, meta)
}

func (handler *Handler) getSerie(writer http.ResponseWriter, httpRequest *http.Request) {
	serie, err := handler.service.GetSerie(httpRequest.Context(), request.Param(httpRequest, "id"))
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Serie retrieved successfully", serie)
}

func (handler *Handler) createSerie(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := CreateSerieInput{Title: form.String("title")}

	if err := parseScalars(form,
		&input.Synopsis, &input.ReleaseYear, &input.Director,
		&input.Classification, &input.Rating,
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

	serie, err := handler.service.CreateSerie(httpRequest.Context(), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.Created(writer, "Serie created successfully", serie)
}

func (handler *Handler) updateSerie(writer http.ResponseWriter, httpRequest *http.Request) {
	form, err := request.Multipart(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	input := UpdateSerieInput{Title: form.StringPtr("title")}

	if err := parseScalars(form,
		&input.Synopsis, &input.ReleaseYear, &input.Director,
		&input.Classification, &input.Rating,
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

	serie, err := handler.service.UpdateSerie(httpRequest.Context(), request.Param(httpRequest, "id"), input)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Serie updated successfully", serie)
}

func (handler *Handler) deleteSerie(writer http.ResponseWriter, httpRequest *http.Request) {
	if err := handler.service.DeleteSerie(httpRequest.Context(), request.Param(httpRequest, "id")); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Serie deleted successfully", nil)
}

// # Genre Association Endpoints

type genreLinkRequest struct {
	GenreID int `json:"genreId"`
}

func (handler *Handler) listSerieGenres(writer http.ResponseWriter, httpRequest *http.Request) {
	genres, err := handler.links.List(httpRequest.Context(), request.Param(httpRequest, "id"))
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}
	respond.OK(writer, "Serie genres retrieved successfully", genres)
}

func (handler *Handler) addSerieGenre(writer http.ResponseWriter, httpRequest *http.Request) {
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

func (handler *Handler) removeSerieGenre(writer http.ResponseWriter, httpRequest *http.Request) {
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

// parseScalars fills the shared optional serie fields from the form.
func parseScalars(form *request.Form, synopsis **string, releaseYear **int, director **string, classification **string, rating **float64) error {

	*synopsis = form.StringPtr("synopsis")
	*director = form.StringPtr("director")
	*classification = form.StringPtr("classification")

	if value, present, err := form.Int("releaseYear"); err != nil {
		return err
	} else if present {
		*releaseYear = &value
	}

	if value, present, err := form.Float("rating"); err != nil {
		return err
	} else if present {
		*rating = &value
	}

	return nil
}

// parseFiles extracts the serie cover part.
func parseFiles(form *request.Form) (map[string]*upload.FileInput, error) {
	files := make(map[string]*upload.FileInput)

	file, present, err := form.File("coverUrl", constants.MaxImageBytes)
	if err != nil {
		return nil, err
	}
	if present {
		files["coverUrl"] = file
	}

	return files, nil
}
