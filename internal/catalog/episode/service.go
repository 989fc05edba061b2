// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package episode

import (
	"context"
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

// ListEpisodes returns a page of episodes, optionally scoped to one
// season, ordered by episode number.
func (service *Service) ListEpisodes(context context.Context, filter Filter, page pagination.Params) ([]*Episode, pagination.Meta, error) {

	episodes, total, err := service.repo.ListEpisodes(context, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return episodes, pagination.NewMeta(page.Page, page.Limit, total), nil
}

func (service *Service) GetEpisode(context context.Context, id string) (*Episode, error) {
	return service.repo.GetEpisodeByID(context, id)
}

/*
CreateEpisode runs the full mutation workflow for a new episode.

The parent season must exist and the episode number must be free within
it before any storage call happens; a failed persist discards the fresh
blobs.
*/
func (service *Service) CreateEpisode(context context.Context, input CreateEpisodeInput) (*Episode, error) {

	// 1. Field validation, zero side effects
	if err := service.validateCreate(input); err != nil {
		return nil, err
	}

	// 2. Referential pre-checks, still before any upload
	exists, err := service.repo.SeasonExists(context, input.SeasonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Season").WithFields(fieldRequirements)
	}

	taken, err := service.repo.EpisodeNumberTaken(context, input.SeasonID, input.EpisodeNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Episode number already exists for this season").WithFields(fieldRequirements)
	}

	// 3. Upload phase
	resolution, err := service.uploads.Apply(context, nil, input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	episode := &Episode{
		ID:            uuidv7.New(),
		SeasonID:      input.SeasonID,
		Title:         strings.TrimSpace(input.Title),
		Synopsis:      input.Synopsis,
		EpisodeNumber: input.EpisodeNumber,
		Duration:      input.Duration,
		CoverURL:      resolution.URLs["coverUrl"],
		EpisodeURL:    resolution.URLs["episodeUrl"],
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// 4. Persist phase; compensate the uploads if it fails
	if err := service.repo.CreateEpisode(context, episode); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	service.logger.InfoContext(context, "episode_created",
		slog.String("episode_id", episode.ID),
		slog.String("season_id", episode.SeasonID),
		slog.Int("episode_number", episode.EpisodeNumber),
	)

	return episode, nil
}

/*
UpdateEpisode applies a partial update. A changed episode number is
checked for uniqueness against the siblings; old blobs are removed only
after the new row state is committed.
*/
func (service *Service) UpdateEpisode(context context.Context, id string, input UpdateEpisodeInput) (*Episode, error) {

	episode, err := service.repo.GetEpisodeByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.validateUpdate(input); err != nil {
		return nil, err
	}

	if input.EpisodeNumber != nil && *input.EpisodeNumber != episode.EpisodeNumber {
		taken, err := service.repo.EpisodeNumberTaken(context, episode.SeasonID, *input.EpisodeNumber, episode.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Episode number already exists for this season").WithFields(fieldRequirements)
		}
	}

	resolution, err := service.uploads.Apply(context, episode.currentURLs(), input.Files, fileSpecs)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		episode.Title = strings.TrimSpace(*input.Title)
	}
	if input.Synopsis != nil {
		episode.Synopsis = emptyToNil(input.Synopsis)
	}
	if input.EpisodeNumber != nil {
		episode.EpisodeNumber = *input.EpisodeNumber
	}
	if input.Duration != nil {
		episode.Duration = input.Duration
	}

	episode.CoverURL = resolution.URLs["coverUrl"]
	episode.EpisodeURL = resolution.URLs["episodeUrl"]
	episode.UpdatedAt = time.Now()

	if err := service.repo.UpdateEpisode(context, episode); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	// The old blobs are unreachable once the commit succeeded
	service.uploads.Discard(context, resolution.Replaced)

	service.logger.InfoContext(context, "episode_updated",
		slog.String("episode_id", episode.ID),
		slog.Int("uploads", len(resolution.Uploaded)),
		slog.Int("replaced", len(resolution.Replaced)),
	)

	return episode, nil
}

// DeleteEpisode removes the row and, after the commit, its stored media.
func (service *Service) DeleteEpisode(context context.Context, id string) error {

	episode, err := service.repo.GetEpisodeByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteEpisode(context, episode.ID); err != nil {
		return err
	}

	service.uploads.Discard(context, episode.blobURLs())

	service.logger.InfoContext(context, "episode_deleted", slog.String("episode_id", episode.ID))
	return nil
}

// # Validation

func (service *Service) validateCreate(input CreateEpisodeInput) error {
	validator := &validate.Validator{}

	validator.
		Required("seasonId", input.SeasonID).
		Required("title", input.Title).
		LenBetween("title", strings.TrimSpace(input.Title), 1, 255).
		Min("episodeNumber", input.EpisodeNumber, 1)

	if input.Duration != nil {
		validator.Min("duration", *input.Duration, 1)
	}

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateUpdate(input UpdateEpisodeInput) error {
	validator := &validate.Validator{}

	if input.Title != nil {
		validator.
			Required("title", *input.Title).
			LenBetween("title", strings.TrimSpace(*input.Title), 1, 255)
	}
	if input.EpisodeNumber != nil {
		validator.Min("episodeNumber", *input.EpisodeNumber, 1)
	}
	if input.Duration != nil {
		validator.Min("duration", *input.Duration, 1)
	}

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
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
