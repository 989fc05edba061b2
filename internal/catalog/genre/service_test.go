// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package genre_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/catalog/genre"
	"github.com/dramirezb/cinemateca/internal/platform/apperr"
)

type fakeRepository struct {
	genres     map[int]*genre.Genre
	references map[int]int
	nextID     int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		genres:     make(map[int]*genre.Genre),
		references: make(map[int]int),
		nextID:     1,
	}
}

func (repo *fakeRepository) ListGenres(_ context.Context) ([]*genre.Genre, error) {
	result := make([]*genre.Genre, 0, len(repo.genres))
	for _, g := range repo.genres {
		result = append(result, g)
	}
	return result, nil
}

func (repo *fakeRepository) GetGenreByID(_ context.Context, id int) (*genre.Genre, error) {
	g, found := repo.genres[id]
	if !found {
		return nil, apperr.NotFound("Genre")
	}
	clone := *g
	return &clone, nil
}

func (repo *fakeRepository) GetGenreByName(_ context.Context, name string) (*genre.Genre, error) {
	for _, g := range repo.genres {
		if strings.EqualFold(g.Name, name) {
			clone := *g
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Genre")
}

func (repo *fakeRepository) CreateGenre(_ context.Context, g *genre.Genre) error {
	g.ID = repo.nextID
	repo.nextID++
	clone := *g
	repo.genres[g.ID] = &clone
	return nil
}

func (repo *fakeRepository) UpdateGenre(_ context.Context, g *genre.Genre) error {
	if _, found := repo.genres[g.ID]; !found {
		return apperr.NotFound("Genre")
	}
	clone := *g
	repo.genres[g.ID] = &clone
	return nil
}

func (repo *fakeRepository) DeleteGenre(_ context.Context, id int) error {
	if _, found := repo.genres[id]; !found {
		return apperr.NotFound("Genre")
	}
	delete(repo.genres, id)
	return nil
}

func (repo *fakeRepository) CountReferences(_ context.Context, id int) (int, error) {
	return repo.references[id], nil
}

/*
TestCreateGenre_TrimsAndAssignsID covers the happy path.
*/
func TestCreateGenre_TrimsAndAssignsID(t *testing.T) {
	service := genre.NewService(newFakeRepository(), slog.Default())

	created, err := service.CreateGenre(context.Background(), genre.CreateGenreRequest{Name: "  Drama  "})
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Drama", created.Name)
}

/*
TestCreateGenre_DuplicateNameConflicts checks case-insensitive uniqueness.
*/
func TestCreateGenre_DuplicateNameConflicts(t *testing.T) {
	service := genre.NewService(newFakeRepository(), slog.Default())
	ctx := context.Background()

	_, err := service.CreateGenre(ctx, genre.CreateGenreRequest{Name: "Drama"})
	require.NoError(t, err)

	_, err = service.CreateGenre(ctx, genre.CreateGenreRequest{Name: "drama"})
	assert.True(t, apperr.IsConflict(err))
}

/*
TestUpdateGenre_OwnNameIsNotAConflict allows renames that only change
casing or whitespace of the genre's current name.
*/
func TestUpdateGenre_OwnNameIsNotAConflict(t *testing.T) {
	service := genre.NewService(newFakeRepository(), slog.Default())
	ctx := context.Background()

	created, err := service.CreateGenre(ctx, genre.CreateGenreRequest{Name: "Drama"})
	require.NoError(t, err)

	updated, err := service.UpdateGenre(ctx, created.ID, genre.UpdateGenreRequest{Name: "DRAMA"})
	require.NoError(t, err)
	assert.Equal(t, "DRAMA", updated.Name)
}

/*
TestDeleteGenre_ReferencedGenreConflicts keeps genres that movies or
series still point at.
*/
func TestDeleteGenre_ReferencedGenreConflicts(t *testing.T) {
	repo := newFakeRepository()
	service := genre.NewService(repo, slog.Default())
	ctx := context.Background()

	created, err := service.CreateGenre(ctx, genre.CreateGenreRequest{Name: "Drama"})
	require.NoError(t, err)

	repo.references[created.ID] = 3
	err = service.DeleteGenre(ctx, created.ID)
	assert.True(t, apperr.IsConflict(err))

	repo.references[created.ID] = 0
	require.NoError(t, service.DeleteGenre(ctx, created.ID))
	assert.Empty(t, repo.genres)
}
