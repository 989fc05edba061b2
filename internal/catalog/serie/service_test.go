// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package serie_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/catalog/serie"
	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

type fakeRepository struct {
	series     map[string]*serie.Serie
	childBlobs []string
	missing    []int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{series: make(map[string]*serie.Serie)}
}

func (repo *fakeRepository) ListSeries(_ context.Context, _ serie.Filter, _ pagination.Params) ([]*serie.Serie, int, error) {
	result := make([]*serie.Serie, 0, len(repo.series))
	for _, s := range repo.series {
		result = append(result, s)
	}
	return result, len(result), nil
}

func (repo *fakeRepository) GetSerieByID(_ context.Context, id string) (*serie.Serie, error) {
	s, found := repo.series[id]
	if !found {
		return nil, apperr.NotFound("Serie")
	}
	clone := *s
	return &clone, nil
}

func (repo *fakeRepository) CreateSerie(_ context.Context, s *serie.Serie, _ []int, _ bool) error {
	clone := *s
	repo.series[s.ID] = &clone
	return nil
}

func (repo *fakeRepository) UpdateSerie(_ context.Context, s *serie.Serie, _ []int, _ bool) error {
	if _, found := repo.series[s.ID]; !found {
		return apperr.NotFound("Serie")
	}
	clone := *s
	repo.series[s.ID] = &clone
	return nil
}

func (repo *fakeRepository) DeleteSerie(_ context.Context, id string) ([]string, error) {
	if _, found := repo.series[id]; !found {
		return nil, apperr.NotFound("Serie")
	}
	delete(repo.series, id)
	return repo.childBlobs, nil
}

func (repo *fakeRepository) MissingGenres(_ context.Context, _ []int) ([]int, error) {
	return repo.missing, nil
}

type fakeLinks struct{}

func (links *fakeLinks) List(_ context.Context, _ string) ([]genrelink.GenreRef, error) {
	return nil, nil
}

func newService(repo *fakeRepository) (*serie.Service, *storage.Memory) {
	client := storage.NewMemory()
	coordinator := upload.NewCoordinator(client, slog.Default())
	service := serie.NewService(repo, &fakeLinks{}, coordinator, slog.Default())
	return service, client
}

/*
TestDeleteSerie_CascadeCleansChildBlobs verifies that deletion removes
the serie cover together with the season and episode media reported by
the repository.
*/
func TestDeleteSerie_CascadeCleansChildBlobs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	coverURL, err := client.Put(ctx, []byte("cover"), storage.PutOptions{
		Folder: "series/covers", Filename: "cover.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	seasonCover, err := client.Put(ctx, []byte("season"), storage.PutOptions{
		Folder: "seasons/covers", Filename: "s1.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	episodeVideo, err := client.Put(ctx, []byte("episode"), storage.PutOptions{
		Folder: "episodes/videos", Filename: "e1.mp4", ContentType: "video/mp4",
	})
	require.NoError(t, err)

	repo.series["s1"] = &serie.Serie{ID: "s1", Title: "Lost", CoverURL: &coverURL}
	repo.childBlobs = []string{seasonCover, episodeVideo}

	require.NoError(t, service.DeleteSerie(ctx, "s1"))

	assert.Empty(t, repo.series)
	assert.Equal(t, 0, client.Len())
}

/*
TestCreateSerie_ValidationRejectsBeforeUpload asserts fail-fast on an
invalid rating: storage is never touched.
*/
func TestCreateSerie_ValidationRejectsBeforeUpload(t *testing.T) {
	service, client := newService(newFakeRepository())

	rating := 11.0
	_, err := service.CreateSerie(context.Background(), serie.CreateSerieInput{
		Title:  "Breaking Bad",
		Rating: &rating,
		Files: map[string]*upload.FileInput{
			"coverUrl": {Filename: "c.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
		},
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Contains(t, appError.Fields, "rating")
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestCreateSerie_PersistsCover covers the happy path.
*/
func TestCreateSerie_PersistsCover(t *testing.T) {
	repo := newFakeRepository()
	service, client := newService(repo)

	created, err := service.CreateSerie(context.Background(), serie.CreateSerieInput{
		Title: "The Wire",
		Files: map[string]*upload.FileInput{
			"coverUrl": {Filename: "wire.png", ContentType: "image/png", Data: []byte("png")},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, created.CoverURL)
	assert.True(t, client.Has(*created.CoverURL))
	assert.Contains(t, repo.series, created.ID)
}
