// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package season

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
	"github.com/dramirezb/cinemateca/pkg/uuidv7"
)

// earliestReleaseYear predates every film ever made.
const earliestReleaseYear = 1878

type Service struct {
	repo    Repository
	uploads *upload.Coordinator
	logger  *slog.Logger
}

func NewService(repo Repository, uploads *upload.Coordinator, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		uploads: uploads,
		logger:  logger,
	}
}

// ListSeasons returns a page of seasons, optionally scoped to one serie,
// ordered by season number.
func (service *Service) ListSeasons(context context.Context, filter Filter, page pagination.Params) ([]*Season, pagination.Meta, error) {

	seasons, total, err := service.repo.ListSeasons(context, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return seasons, pagination.NewMeta(page.Page, page.Limit, total), nil
}

func (service *Service) GetSeason(context context.Context, id string) (*Season, error) {
	return service.repo.GetSeasonByID(context, id)
}

/*
CreateSeason runs the full mutation workflow for a new season.

The parent serie must exist and the season number must be free within it
before any storage call happens; a failed persist discards the fresh
blobs.
*/
func (service *Service) CreateSeason(context context.Context, input CreateSeasonInput) (*Season, error) {

	// 1. Field validation, zero side effects
	if err := service.validateCreate(input); err != nil {
		return nil, err
	}

	// 2. Referential pre-checks, still before any upload
	exists, err := service.repo.SerieExists(context, input.SerieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Serie").WithFields(fieldRequirements)
	}

	taken, err := service.repo.SeasonNumberTaken(context, input.SerieID, input.SeasonNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Season number already exists for this serie").WithFields(fieldRequirements)
	}

	// 3. Upload phase
	resolution, err := service.uploads.Apply(context, nil, input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	season := &Season{
		ID:           uuidv7.New(),
		SerieID:      input.SerieID,
		Title:        strings.TrimSpace(input.Title),
		SeasonNumber: input.SeasonNumber,
		ReleaseYear:  input.ReleaseYear,
		CoverURL:     resolution.URLs["coverUrl"],
		TrailerURL:   resolution.URLs["trailerUrl"],
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// 4. Persist phase; compensate the uploads if it fails
	if err := service.repo.CreateSeason(context, season); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	service.logger.InfoContext(context, "season_created",
		slog.String("season_id", season.ID),
		slog.String("serie_id", season.SerieID),
		slog.Int("season_number", season.SeasonNumber),
	)

	return season, nil
}

/*
UpdateSeason applies a partial update. A changed season number is checked
for uniqueness against the siblings; old blobs are removed only after
the new row state is committed.
*/
func (service *Service) UpdateSeason(context context.Context, id string, input UpdateSeasonInput) (*Season, error) {

	season, err := service.repo.GetSeasonByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.validateUpdate(input); err != nil {
		return nil, err
	}

	if input.SeasonNumber != nil && *input.SeasonNumber != season.SeasonNumber {
		taken, err := service.repo.SeasonNumberTaken(context, season.SerieID, *input.SeasonNumber, season.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Season number already exists for this serie").WithFields(fieldRequirements)
		}
	}

	resolution, err := service.uploads.Apply(context, season.currentURLs(), input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		season.Title = strings.TrimSpace(*input.Title)
	}
	if input.SeasonNumber != nil {
		season.SeasonNumber = *input.SeasonNumber
	}
	if input.ReleaseYear != nil {
		season.ReleaseYear = input.ReleaseYear
	}

	season.CoverURL = resolution.URLs["coverUrl"]
	season.TrailerURL = resolution.URLs["trailerUrl"]
	season.UpdatedAt = time.Now()

	if err := service.repo.UpdateSeason(context, season); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	// The old blobs are unreachable once the commit succeeded
	service.uploads.Discard(context, resolution.Replaced)

	service.logger.InfoContext(context, "season_updated",
		slog.String("season_id", season.ID),
		slog.Int("uploads", len(resolution.Uploaded)),
		slog.Int("replaced", len(resolution.Replaced)),
	)

	return season, nil
}

/*
DeleteSeason removes the season and its episodes.

Episode rows go in the same transaction as the season row; their media,
collected by the repository before the rows disappear, is deleted
best-effort after the commit together with the season's own blobs.
*/
func (service *Service) DeleteSeason(context context.Context, id string) error {

	season, err := service.repo.GetSeasonByID(context, id)
	if err != nil {
		return err
	}

	childBlobs, err := service.repo.DeleteSeason(context, season.ID)
	if err != nil {
		return err
	}

	service.uploads.Discard(context, append(season.blobURLs(), childBlobs...))

	service.logger.InfoContext(context, "season_deleted",
		slog.String("season_id", season.ID),
		slog.Int("child_blobs", len(childBlobs)),
	)
	return nil
}

// # Validation

func (service *Service) validateCreate(input CreateSeasonInput) error {
	validator := &validate.Validator{}

	validator.
		Required("serieId", input.SerieID).
		Required("title", input.Title).
		LenBetween("title", strings.TrimSpace(input.Title), 1, 255).
		Min("seasonNumber", input.SeasonNumber, 1)

	if input.ReleaseYear != nil {
		validator.Min("releaseYear", *input.ReleaseYear, earliestReleaseYear)
	}

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateUpdate(input UpdateSeasonInput) error {
	validator := &validate.Validator{}

	if input.Title != nil {
		validator.
			Required("title", *input.Title).
			LenBetween("title", strings.TrimSpace(*input.Title), 1, 255)
	}
	if input.SeasonNumber != nil {
		validator.Min("seasonNumber", *input.SeasonNumber, 1)
	}
	if input.ReleaseYear != nil {
		validator.Min("releaseYear", *input.ReleaseYear, earliestReleaseYear)
	}

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}
