// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package genre

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.repo.ListGenres(context)
}

func (service *Service) GetGenre(context context.Context, id int) (*Genre, error) {
	return service.repo.GetGenreByID(context, id)
}

/*
CreateGenre validates the name, enforces uniqueness and inserts the row.

# Returns
  - *Genre: The created genre with its assigned integer key.
  - error: ValidationError on a bad name, Conflict when the name is taken.
*/
func (service *Service) CreateGenre(context context.Context, input CreateGenreRequest) (*Genre, error) {

	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	if err := validator.
		Required("name", name).
		LenBetween("name", name, 2, 100).
		Err(); err != nil {
		return nil, apperr.As(err).WithFields(fieldRequirements)
	}

	// Uniqueness pre-check; the unique index backstops races.
	if existing, err := service.repo.GetGenreByName(context, name); err == nil && existing != nil {
		return nil, apperr.Conflict("Genre name already exists").WithFields(fieldRequirements)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	genre := &Genre{Name: name}
	if err := service.repo.CreateGenre(context, genre); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "genre_created",
		slog.Int("genre_id", genre.ID),
		slog.String("name", genre.Name),
	)

	return genre, nil
}

// UpdateGenre renames an existing genre, keeping the name unique.
func (service *Service) UpdateGenre(context context.Context, id int, input UpdateGenreRequest) (*Genre, error) {

	genre, err := service.repo.GetGenreByID(context, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	if err := validator.
		Required("name", name).
		LenBetween("name", name, 2, 100).
		Err(); err != nil {
		return nil, apperr.As(err).WithFields(fieldRequirements)
	}

	if existing, err := service.repo.GetGenreByName(context, name); err == nil && existing != nil && existing.ID != id {
		return nil, apperr.Conflict("Genre name already exists").WithFields(fieldRequirements)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	genre.Name = name
	if err := service.repo.UpdateGenre(context, genre); err != nil {
		return nil, err
	}

	return genre, nil
}

/*
DeleteGenre removes a genre unless any movie or serie still references it.

# Returns
  - error: NotFound for an unknown id, Conflict while references exist.
*/
func (service *Service) DeleteGenre(context context.Context, id int) error {

	if _, err := service.repo.GetGenreByID(context, id); err != nil {
		return err
	}

	references, err := service.repo.CountReferences(context, id)
	if err != nil {
		return err
	}
	if references > 0 {
		return apperr.Conflict("Genre is still referenced by movies or series and cannot be deleted")
	}

	if err := service.repo.DeleteGenre(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "genre_deleted", slog.Int("genre_id", id))
	return nil
}
