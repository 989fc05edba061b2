// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package serie

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
	"github.com/dramirezb/cinemateca/pkg/pointer"
	"github.com/dramirezb/cinemateca/pkg/uuidv7"
)

// earliestReleaseYear predates every film ever made.
const earliestReleaseYear = 1878

type Service struct {
	repo    Repository
	links   GenreLister
	uploads *upload.Coordinator
	logger  *slog.Logger
}

func NewService(repo Repository, links GenreLister, uploads *upload.Coordinator, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		links:   links,
		uploads: uploads,
		logger:  logger,
	}
}

// ListSeries returns a page of series, optionally filtered by genre,
// ordered by release year (newest first).
func (service *Service) ListSeries(context context.Context, filter Filter, page pagination.Params) ([]*Serie, pagination.Meta, error) {

	series, total, err := service.repo.ListSeries(context, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return series, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// GetSerie loads one serie with its genre associations.
func (service *Service) GetSerie(context context.Context, id string) (*Serie, error) {

	serie, err := service.repo.GetSerieByID(context, id)
	if err != nil {
		return nil, err
	}

	genres, err := service.links.List(context, serie.ID)
	if err != nil {
		return nil, err
	}
	serie.Genres = genres

	return serie, nil
}

/*
CreateSerie runs the full mutation workflow for a new serie.

Order is load-bearing: field validation and genre existence checks run
before any storage call; the cover upload runs before the transaction;
a failed transaction discards the fresh blob so nothing is orphaned.
*/
func (service *Service) CreateSerie(context context.Context, input CreateSerieInput) (*Serie, error) {

	// 1. Field validation, zero side effects
	if err := service.validateCreate(input); err != nil {
		return nil, err
	}

	// 2. Referential pre-checks, still before any upload
	if input.HasGenres {
		if err := service.ensureGenresExist(context, input.GenreIDs); err != nil {
			return nil, err
		}
	}

	// 3. Upload phase
	resolution, err := service.uploads.Apply(context, nil, input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	serie := &Serie{
		ID:             uuidv7.New(),
		Title:          strings.TrimSpace(input.Title),
		Synopsis:       input.Synopsis,
		ReleaseYear:    input.ReleaseYear,
		Director:       input.Director,
		Classification: input.Classification,
		Rating:         input.Rating,
		CoverURL:       resolution.URLs["coverUrl"],
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	// 4. Persist phase; compensate the upload if it fails
	if err := service.repo.CreateSerie(context, serie, input.GenreIDs, input.HasGenres); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	genres, err := service.links.List(context, serie.ID)
	if err == nil {
		serie.Genres = genres
	}

	service.logger.InfoContext(context, "serie_created",
		slog.String("serie_id", serie.ID),
		slog.String("title", serie.Title),
		slog.Int("uploads", len(resolution.Uploaded)),
	)

	return serie, nil
}

/*
UpdateSerie applies a partial update, replacing the cover and syncing
genres as requested. The old blob is removed only after the new row
state is committed.
*/
func (service *Service) UpdateSerie(context context.Context, id string, input UpdateSerieInput) (*Serie, error) {

	serie, err := service.repo.GetSerieByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.validateUpdate(input); err != nil {
		return nil, err
	}

	if input.HasGenres {
		if err := service.ensureGenresExist(context, input.GenreIDs); err != nil {
			return nil, err
		}
	}

	resolution, err := service.uploads.Apply(context, serie.currentURLs(), input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		serie.Title = strings.TrimSpace(*input.Title)
	}
	if input.Synopsis != nil {
		serie.Synopsis = emptyToNil(input.Synopsis)
	}
	if input.ReleaseYear != nil {
		serie.ReleaseYear = input.ReleaseYear
	}
	if input.Director != nil {
		serie.Director = emptyToNil(input.Director)
	}
	if input.Classification != nil {
		serie.Classification = emptyToNil(input.Classification)
	}
	if input.Rating != nil {
		serie.Rating = input.Rating
	}

	serie.CoverURL = resolution.URLs["coverUrl"]
	serie.UpdatedAt = time.Now()

	if err := service.repo.UpdateSerie(context, serie, input.GenreIDs, input.HasGenres); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	// The old blob is unreachable once the commit succeeded
	service.uploads.Discard(context, resolution.Replaced)

	genres, err := service.links.List(context, serie.ID)
	if err == nil {
		serie.Genres = genres
	}

	service.logger.InfoContext(context, "serie_updated",
		slog.String("serie_id", serie.ID),
		slog.Int("uploads", len(resolution.Uploaded)),
		slog.Int("replaced", len(resolution.Replaced)),
	)

	return serie, nil
}

/*
DeleteSerie removes the serie and its whole subtree.

Seasons and episodes go in the same transaction as the serie row; their
media blobs, collected by the repository before the rows disappear, are
deleted best-effort after the commit together with the serie cover.
*/
func (service *Service) DeleteSerie(context context.Context, id string) error {

	serie, err := service.repo.GetSerieByID(context, id)
	if err != nil {
		return err
	}

	childBlobs, err := service.repo.DeleteSerie(context, serie.ID)
	if err != nil {
		return err
	}

	service.uploads.Discard(context, append(serie.blobURLs(), childBlobs...))

	service.logger.InfoContext(context, "serie_deleted",
		slog.String("serie_id", serie.ID),
		slog.Int("child_blobs", len(childBlobs)),
	)
	return nil
}

// # Validation

func (service *Service) validateCreate(input CreateSerieInput) error {
	validator := &validate.Validator{}

	validator.
		Required("title", input.Title).
		LenBetween("title", strings.TrimSpace(input.Title), 1, 255)

	service.validateCommon(validator, input.ReleaseYear, input.Director, input.Rating)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateUpdate(input UpdateSerieInput) error {
	validator := &validate.Validator{}

	if input.Title != nil {
		validator.
			Required("title", *input.Title).
			LenBetween("title", strings.TrimSpace(*input.Title), 1, 255)
	}

	service.validateCommon(validator, input.ReleaseYear, input.Director, input.Rating)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateCommon(validator *validate.Validator, releaseYear *int, director *string, rating *float64) {
	if releaseYear != nil {
		validator.Min("releaseYear", *releaseYear, earliestReleaseYear)
	}
	if director != nil && *director != "" {
		validator.LenBetween("director", *director, 2, 100)
	}
	if rating != nil {
		validator.FloatRange("rating", *rating, 0, 10)
	}
}

func (service *Service) ensureGenresExist(context context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	missing, err := service.repo.MissingGenres(context, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.ValidationError("Unknown genre ids").
			WithFields(map[string]string{"genres": fmt.Sprintf("Genres %v do not exist", missing)})
	}

	return nil
}

// emptyToNil maps an explicitly submitted empty string to a NULL column.
func emptyToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return pointer.To(strings.TrimSpace(*value))
}
