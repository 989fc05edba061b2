// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package season_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/catalog/season"
	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

type fakeRepository struct {
	seasons    map[string]*season.Season
	serieIDs   map[string]bool
	childBlobs []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		seasons:  make(map[string]*season.Season),
		serieIDs: make(map[string]bool),
	}
}

func (repo *fakeRepository) ListSeasons(_ context.Context, _ season.Filter, _ pagination.Params) ([]*season.Season, int, error) {
	result := make([]*season.Season, 0, len(repo.seasons))
	for _, s := range repo.seasons {
		result = append(result, s)
	}
	return result, len(result), nil
}

func (repo *fakeRepository) GetSeasonByID(_ context.Context, id string) (*season.Season, error) {
	s, found := repo.seasons[id]
	if !found {
		return nil, apperr.NotFound("Season")
	}
	clone := *s
	return &clone, nil
}

func (repo *fakeRepository) CreateSeason(_ context.Context, s *season.Season) error {
	clone := *s
	repo.seasons[s.ID] = &clone
	return nil
}

func (repo *fakeRepository) UpdateSeason(_ context.Context, s *season.Season) error {
	if _, found := repo.seasons[s.ID]; !found {
		return apperr.NotFound("Season")
	}
	clone := *s
	repo.seasons[s.ID] = &clone
	return nil
}

func (repo *fakeRepository) DeleteSeason(_ context.Context, id string) ([]string, error) {
	if _, found := repo.seasons[id]; !found {
		return nil, apperr.NotFound("Season")
	}
	delete(repo.seasons, id)
	return repo.childBlobs, nil
}

func (repo *fakeRepository) SerieExists(_ context.Context, serieID string) (bool, error) {
	return repo.serieIDs[serieID], nil
}

func (repo *fakeRepository) SeasonNumberTaken(_ context.Context, serieID string, number int, excludeID string) (bool, error) {
	for _, s := range repo.seasons {
		if s.SerieID == serieID && s.SeasonNumber == number && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func newService(repo *fakeRepository) (*season.Service, *storage.Memory) {
	client := storage.NewMemory()
	coordinator := upload.NewCoordinator(client, slog.Default())
	return season.NewService(repo, coordinator, slog.Default()), client
}

/*
TestCreateSeason_UnknownSerie rejects before any upload happens.
*/
func TestCreateSeason_UnknownSerie(t *testing.T) {
	service, client := newService(newFakeRepository())

	_, err := service.CreateSeason(context.Background(), season.CreateSeasonInput{
		SerieID:      "missing",
		Title:        "Season 1",
		SeasonNumber: 1,
		Files: map[string]*upload.FileInput{
			"coverUrl": {Filename: "c.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
		},
	})

	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestCreateSeason_DuplicateNumberConflicts enforces uniqueness within the
serie, again before any upload.
*/
func TestCreateSeason_DuplicateNumberConflicts(t *testing.T) {
	repo := newFakeRepository()
	repo.serieIDs["serie-1"] = true
	repo.seasons["existing"] = &season.Season{ID: "existing", SerieID: "serie-1", SeasonNumber: 2}
	service, client := newService(repo)

	_, err := service.CreateSeason(context.Background(), season.CreateSeasonInput{
		SerieID:      "serie-1",
		Title:        "Season Two Again",
		SeasonNumber: 2,
	})

	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestCreateSeason_SameNumberOtherSerie passes: uniqueness is scoped.
*/
func TestCreateSeason_SameNumberOtherSerie(t *testing.T) {
	repo := newFakeRepository()
	repo.serieIDs["serie-1"] = true
	repo.serieIDs["serie-2"] = true
	repo.seasons["existing"] = &season.Season{ID: "existing", SerieID: "serie-2", SeasonNumber: 1}
	service, _ := newService(repo)

	created, err := service.CreateSeason(context.Background(), season.CreateSeasonInput{
		SerieID:      "serie-1",
		Title:        "Season One",
		SeasonNumber: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "serie-1", created.SerieID)
}

/*
TestUpdateSeason_RenumberToTakenConflicts covers the sibling check on
update while keeping the season's own number reachable.
*/
func TestUpdateSeason_RenumberToTakenConflicts(t *testing.T) {
	repo := newFakeRepository()
	repo.serieIDs["serie-1"] = true
	repo.seasons["a"] = &season.Season{ID: "a", SerieID: "serie-1", Title: "One", SeasonNumber: 1}
	repo.seasons["b"] = &season.Season{ID: "b", SerieID: "serie-1", Title: "Two", SeasonNumber: 2}
	service, _ := newService(repo)

	taken := 2
	_, err := service.UpdateSeason(context.Background(), "a", season.UpdateSeasonInput{SeasonNumber: &taken})
	assert.True(t, apperr.IsConflict(err))

	// Re-submitting the current number is a no-op, not a conflict
	same := 1
	_, err = service.UpdateSeason(context.Background(), "a", season.UpdateSeasonInput{SeasonNumber: &same})
	assert.NoError(t, err)
}

/*
TestDeleteSeason_CascadeCleansEpisodeBlobs removes the season media and
the episode media reported by the repository.
*/
func TestDeleteSeason_CascadeCleansEpisodeBlobs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	coverURL, err := client.Put(ctx, []byte("cover"), storage.PutOptions{
		Folder: "seasons/covers", Filename: "c.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	episodeURL, err := client.Put(ctx, []byte("episode"), storage.PutOptions{
		Folder: "episodes/videos", Filename: "e.mp4", ContentType: "video/mp4",
	})
	require.NoError(t, err)

	repo.seasons["s1"] = &season.Season{ID: "s1", SerieID: "serie-1", SeasonNumber: 1, CoverURL: &coverURL}
	repo.childBlobs = []string{episodeURL}

	require.NoError(t, service.DeleteSeason(ctx, "s1"))

	assert.Empty(t, repo.seasons)
	assert.Equal(t, 0, client.Len())
}
