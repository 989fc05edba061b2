// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package movie

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

// ListMovies returns a page of movies, optionally filtered by genre,
// ordered by release year (newest first).
func (service *Service) ListMovies(context context.Context, filter Filter, page pagination.Params) ([]*Movie, pagination.Meta, error) {

	movies, total, err := service.repo.ListMovies(context, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return movies, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// GetMovie loads one movie with its genre associations.
func (service *Service) GetMovie(context context.Context, id string) (*Movie, error) {

	movie, err := service.repo.GetMovieByID(context, id)
	if err != nil {
		return nil, err
	}

	genres, err := service.links.List(context, movie.ID)
	if err != nil {
		return nil, err
	}
	movie.Genres = genres

	return movie, nil
}

/*
CreateMovie runs the full mutation workflow for a new movie.

Order is load-bearing: field validation and genre existence checks run
before any storage call; uploads run before the transaction; a failed
transaction discards the fresh blobs so nothing is orphaned.
*/
func (service *Service) CreateMovie(context context.Context, input CreateMovieInput) (*Movie, error) {

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

	movie := &Movie{
		ID:             uuidv7.New(),
		Title:          strings.TrimSpace(input.Title),
		Synopsis:       input.Synopsis,
		ReleaseYear:    input.ReleaseYear,
		Director:       input.Director,
		Duration:       input.Duration,
		Classification: input.Classification,
		Rating:         input.Rating,
		CoverURL:       resolution.URLs["coverUrl"],
		TrailerURL:     resolution.URLs["trailerUrl"],
		MovieURL:       resolution.URLs["movieUrl"],
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	// 4. Persist phase; compensate the uploads if it fails
	if err := service.repo.CreateMovie(context, movie, input.GenreIDs, input.HasGenres); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	genres, err := service.links.List(context, movie.ID)
	if err == nil {
		movie.Genres = genres
	}

	service.logger.InfoContext(context, "movie_created",
		slog.String("movie_id", movie.ID),
		slog.String("title", movie.Title),
		slog.Int("uploads", len(resolution.Uploaded)),
	)

	return movie, nil
}

/*
UpdateMovie applies a partial update, replacing media files and syncing
genres as requested. Old blobs are removed only after the new row state
is committed.
*/
func (service *Service) UpdateMovie(context context.Context, id string, input UpdateMovieInput) (*Movie, error) {

	movie, err := service.repo.GetMovieByID(context, id)
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

	resolution, err := service.uploads.Apply(context, movie.currentURLs(), input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		movie.Title = strings.TrimSpace(*input.Title)
	}
	if input.Synopsis != nil {
		movie.Synopsis = emptyToNil(input.Synopsis)
	}
	if input.ReleaseYear != nil {
		movie.ReleaseYear = input.ReleaseYear
	}
	if input.Director != nil {
		movie.Director = emptyToNil(input.Director)
	}
	if input.Duration != nil {
		movie.Duration = input.Duration
	}
	if input.Classification != nil {
		movie.Classification = emptyToNil(input.Classification)
	}
	if input.Rating != nil {
		movie.Rating = input.Rating
	}

	movie.CoverURL = resolution.URLs["coverUrl"]
	movie.TrailerURL = resolution.URLs["trailerUrl"]
	movie.MovieURL = resolution.URLs["movieUrl"]
	movie.UpdatedAt = time.Now()

	if err := service.repo.UpdateMovie(context, movie, input.GenreIDs, input.HasGenres); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	// The old blobs are unreachable once the commit succeeded
	service.uploads.Discard(context, resolution.Replaced)

	genres, err := service.links.List(context, movie.ID)
	if err == nil {
		movie.Genres = genres
	}

	service.logger.InfoContext(context, "movie_updated",
		slog.String("movie_id", movie.ID),
		slog.Int("uploads", len(resolution.Uploaded)),
		slog.Int("replaced", len(resolution.Replaced)),
	)

	return movie, nil
}

// DeleteMovie removes the row, its genre links and, after the commit,
// its stored media.
func (service *Service) DeleteMovie(context context.Context, id string) error {

	movie, err := service.repo.GetMovieByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteMovie(context, movie.ID); err != nil {
		return err
	}

	service.uploads.Discard(context, movie.blobURLs())

	service.logger.InfoContext(context, "movie_deleted", slog.String("movie_id", movie.ID))
	return nil
}

// # Validation

func (service *Service) validateCreate(input CreateMovieInput) error {
	validator := &validate.Validator{}

	validator.
		Required("title", input.Title).
		LenBetween("title", strings.TrimSpace(input.Title), 1, 255)

	service.validateCommon(validator, input.ReleaseYear, input.Director, input.Duration, input.Rating)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateUpdate(input UpdateMovieInput) error {
	validator := &validate.Validator{}

	if input.Title != nil {
		validator.
			Required("title", *input.Title).
			LenBetween("title", strings.TrimSpace(*input.Title), 1, 255)
	}

	service.validateCommon(validator, input.ReleaseYear, input.Director, input.Duration, input.Rating)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateCommon(validator *validate.Validator, releaseYear *int, director *string, duration *int, rating *float64) {
	if releaseYear != nil {
		validator.Min("releaseYear", *releaseYear, earliestReleaseYear)
	}
	if director != nil && *director != "" {
		validator.LenBetween("director", *director, 2, 100)
	}
	if duration != nil {
		validator.Min("duration", *duration, 1)
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
