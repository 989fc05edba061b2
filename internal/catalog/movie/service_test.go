// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package movie_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/catalog/movie"
	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
	"github.com/dramirezb/cinemateca/pkg/pointer"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	movies       map[string]*movie.Movie
	missing      []int
	createErr    error
	updateErr    error
	deleteErr    error
	lastGenreIDs []int
	lastSync     bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{movies: make(map[string]*movie.Movie)}
}

func (repo *fakeRepository) ListMovies(_ context.Context, _ movie.Filter, _ pagination.Params) ([]*movie.Movie, int, error) {
	result := make([]*movie.Movie, 0, len(repo.movies))
	for _, m := range repo.movies {
		result = append(result, m)
	}
	return result, len(result), nil
}

func (repo *fakeRepository) GetMovieByID(_ context.Context, id string) (*movie.Movie, error) {
	m, found := repo.movies[id]
	if !found {
		return nil, apperr.NotFound("Movie")
	}
	clone := *m
	return &clone, nil
}

func (repo *fakeRepository) CreateMovie(_ context.Context, m *movie.Movie, genreIDs []int, syncGenres bool) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	repo.lastGenreIDs = genreIDs
	repo.lastSync = syncGenres
	clone := *m
	repo.movies[m.ID] = &clone
	return nil
}

func (repo *fakeRepository) UpdateMovie(_ context.Context, m *movie.Movie, genreIDs []int, syncGenres bool) error {
	if repo.updateErr != nil {
		return repo.updateErr
	}
	if _, found := repo.movies[m.ID]; !found {
		return apperr.NotFound("Movie")
	}
	repo.lastGenreIDs = genreIDs
	repo.lastSync = syncGenres
	clone := *m
	repo.movies[m.ID] = &clone
	return nil
}

func (repo *fakeRepository) DeleteMovie(_ context.Context, id string) error {
	if repo.deleteErr != nil {
		return repo.deleteErr
	}
	if _, found := repo.movies[id]; !found {
		return apperr.NotFound("Movie")
	}
	delete(repo.movies, id)
	return nil
}

func (repo *fakeRepository) MissingGenres(_ context.Context, ids []int) ([]int, error) {
	return repo.missing, nil
}

// fakeLinks satisfies GenreLister.
type fakeLinks struct {
	genres []genrelink.GenreRef
}

func (links *fakeLinks) List(_ context.Context, _ string) ([]genrelink.GenreRef, error) {
	return links.genres, nil
}

func newService(repo *fakeRepository) (*movie.Service, *storage.Memory) {
	client := storage.NewMemory()
	coordinator := upload.NewCoordinator(client, slog.Default())
	service := movie.NewService(repo, &fakeLinks{}, coordinator, slog.Default())
	return service, client
}

func coverFile() *upload.FileInput {
	return &upload.FileInput{Filename: "cover.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}
}

/*
TestCreateMovie_UploadsAndPersists covers the happy path: files land in
storage and their URLs are persisted on the row.
*/
func TestCreateMovie_UploadsAndPersists(t *testing.T) {
	repo := newFakeRepository()
	service, client := newService(repo)

	input := movie.CreateMovieInput{
		Title:       "Interstellar",
		ReleaseYear: pointer.To(2014),
		Rating:      pointer.To(8.7),
		GenreIDs:    []int{1, 2},
		HasGenres:   true,
		Files: map[string]*upload.FileInput{
			"coverUrl": coverFile(),
			"movieUrl": {Filename: "full.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
		},
	}

	created, err := service.CreateMovie(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	require.NotNil(t, created.CoverURL)
	require.NotNil(t, created.MovieURL)
	assert.Nil(t, created.TrailerURL)

	// Blobs exist and the repo saw the genre sync
	assert.True(t, client.Has(*created.CoverURL))
	assert.True(t, client.Has(*created.MovieURL))
	assert.Equal(t, []int{1, 2}, repo.lastGenreIDs)
	assert.True(t, repo.lastSync)
}

/*
TestCreateMovie_ValidationRejectsBeforeUpload asserts fail-fast: an
invalid title never reaches storage.
*/
func TestCreateMovie_ValidationRejectsBeforeUpload(t *testing.T) {
	service, client := newService(newFakeRepository())

	_, err := service.CreateMovie(context.Background(), movie.CreateMovieInput{
		Title: "   ",
		Files: map[string]*upload.FileInput{"coverUrl": coverFile()},
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Contains(t, appError.Fields, "title")
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestCreateMovie_UnknownGenreRejectsBeforeUpload asserts the referential
pre-check also runs before any storage call.
*/
func TestCreateMovie_UnknownGenreRejectsBeforeUpload(t *testing.T) {
	repo := newFakeRepository()
	repo.missing = []int{99}
	service, client := newService(repo)

	_, err := service.CreateMovie(context.Background(), movie.CreateMovieInput{
		Title:     "Alien",
		GenreIDs:  []int{99},
		HasGenres: true,
		Files:     map[string]*upload.FileInput{"coverUrl": coverFile()},
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Contains(t, appError.Fields, "genres")
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestCreateMovie_DatabaseFailureDiscardsUploads covers compensation: a
failed persist leaves no blobs behind.
*/
func TestCreateMovie_DatabaseFailureDiscardsUploads(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = apperr.Internal(errors.New("connection reset"))
	service, client := newService(repo)

	_, err := service.CreateMovie(context.Background(), movie.CreateMovieInput{
		Title: "Dune",
		Files: map[string]*upload.FileInput{"coverUrl": coverFile()},
	})

	require.Error(t, err)
	assert.Equal(t, 0, client.Len())
}

/*
TestUpdateMovie_ReplacesCoverAndCleansOld verifies that a replaced blob
is deleted only after the persist succeeds.
*/
func TestUpdateMovie_ReplacesCoverAndCleansOld(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	oldURL, err := client.Put(ctx, []byte("old"), storage.PutOptions{
		Folder: "movies/covers", Filename: "old.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	repo.movies["m1"] = &movie.Movie{ID: "m1", Title: "Old Title", CoverURL: &oldURL}

	updated, err := service.UpdateMovie(ctx, "m1", movie.UpdateMovieInput{
		Title: pointer.To("New Title"),
		Files: map[string]*upload.FileInput{"coverUrl": coverFile()},
	})
	require.NoError(t, err)

	assert.Equal(t, "New Title", updated.Title)
	require.NotNil(t, updated.CoverURL)
	assert.NotEqual(t, oldURL, *updated.CoverURL)

	// New blob kept, old blob gone
	assert.True(t, client.Has(*updated.CoverURL))
	assert.False(t, client.Has(oldURL))
}

/*
TestUpdateMovie_FailedPersistKeepsOldBlob verifies the inverse: when the
persist fails, the fresh blob is discarded and the old one survives.
*/
func TestUpdateMovie_FailedPersistKeepsOldBlob(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	oldURL, err := client.Put(ctx, []byte("old"), storage.PutOptions{
		Folder: "movies/covers", Filename: "old.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	repo.movies["m1"] = &movie.Movie{ID: "m1", Title: "Kept", CoverURL: &oldURL}
	repo.updateErr = apperr.Internal(errors.New("deadlock detected"))

	_, err = service.UpdateMovie(ctx, "m1", movie.UpdateMovieInput{
		Files: map[string]*upload.FileInput{"coverUrl": coverFile()},
	})
	require.Error(t, err)

	// Only the original blob remains
	assert.Equal(t, 1, client.Len())
	assert.True(t, client.Has(oldURL))
}

/*
TestUpdateMovie_DeleteSentinelClearsCover verifies that clearing a field
nulls the column and removes the old blob after the persist.
*/
func TestUpdateMovie_DeleteSentinelClearsCover(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	oldURL, err := client.Put(ctx, []byte("old"), storage.PutOptions{
		Folder: "movies/covers", Filename: "old.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	repo.movies["m1"] = &movie.Movie{ID: "m1", Title: "Cleared", CoverURL: &oldURL}

	updated, err := service.UpdateMovie(ctx, "m1", movie.UpdateMovieInput{
		Files: map[string]*upload.FileInput{"coverUrl": nil},
	})
	require.NoError(t, err)

	assert.Nil(t, updated.CoverURL)
	assert.False(t, client.Has(oldURL))
}

/*
TestDeleteMovie_RemovesBlobsAfterRow covers the deletion path: the row
goes first, then the media follows best-effort.
*/
func TestDeleteMovie_RemovesBlobsAfterRow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	coverURL, err := client.Put(ctx, []byte("c"), storage.PutOptions{
		Folder: "movies/covers", Filename: "c.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	videoURL, err := client.Put(ctx, []byte("v"), storage.PutOptions{
		Folder: "movies/videos", Filename: "v.mp4", ContentType: "video/mp4",
	})
	require.NoError(t, err)

	repo.movies["m1"] = &movie.Movie{ID: "m1", Title: "Gone", CoverURL: &coverURL, MovieURL: &videoURL}

	require.NoError(t, service.DeleteMovie(ctx, "m1"))

	assert.Empty(t, repo.movies)
	assert.Equal(t, 0, client.Len())
}

/*
TestDeleteMovie_UnknownID yields NotFound without storage calls.
*/
func TestDeleteMovie_UnknownID(t *testing.T) {
	service, client := newService(newFakeRepository())

	err := service.DeleteMovie(context.Background(), "missing")

	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, client.DeleteCalls())
}
