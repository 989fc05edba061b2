// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package episode_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/catalog/episode"
	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

type fakeRepository struct {
	episodes  map[string]*episode.Episode
	seasonIDs map[string]bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		episodes:  make(map[string]*episode.Episode),
		seasonIDs: make(map[string]bool),
	}
}

func (repo *fakeRepository) ListEpisodes(_ context.Context, _ episode.Filter, _ pagination.Params) ([]*episode.Episode, int, error) {
	result := make([]*episode.Episode, 0, len(repo.episodes))
	for _, e := range repo.episodes {
		result = append(result, e)
	}
	return result, len(result), nil
}

func (repo *fakeRepository) GetEpisodeByID(_ context.Context, id string) (*episode.Episode, error) {
	e, found := repo.episodes[id]
	if !found {
		return nil, apperr.NotFound("Episode")
	}
	clone := *e
	return &clone, nil
}

func (repo *fakeRepository) CreateEpisode(_ context.Context, e *episode.Episode) error {
	clone := *e
	repo.episodes[e.ID] = &clone
	return nil
}

func (repo *fakeRepository) UpdateEpisode(_ context.Context, e *episode.Episode) error {
	if _, found := repo.episodes[e.ID]; !found {
		return apperr.NotFound("Episode")
	}
	clone := *e
	repo.episodes[e.ID] = &clone
	return nil
}

func (repo *fakeRepository) DeleteEpisode(_ context.Context, id string) error {
	if _, found := repo.episodes[id]; !found {
		return apperr.NotFound("Episode")
	}
	delete(repo.episodes, id)
	return nil
}

func (repo *fakeRepository) SeasonExists(_ context.Context, seasonID string) (bool, error) {
	return repo.seasonIDs[seasonID], nil
}

func (repo *fakeRepository) EpisodeNumberTaken(_ context.Context, seasonID string, number int, excludeID string) (bool, error) {
	for _, e := range repo.episodes {
		if e.SeasonID == seasonID && e.EpisodeNumber == number && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func newService(repo *fakeRepository) (*episode.Service, *storage.Memory) {
	client := storage.NewMemory()
	coordinator := upload.NewCoordinator(client, slog.Default())
	return episode.NewService(repo, coordinator, slog.Default()), client
}

/*
TestCreateEpisode_DuplicateNumberConflicts enforces per-season
uniqueness before any upload.
*/
func TestCreateEpisode_DuplicateNumberConflicts(t *testing.T) {
	repo := newFakeRepository()
	repo.seasonIDs["season-1"] = true
	repo.episodes["existing"] = &episode.Episode{ID: "existing", SeasonID: "season-1", EpisodeNumber: 3}
	service, client := newService(repo)

	_, err := service.CreateEpisode(context.Background(), episode.CreateEpisodeInput{
		SeasonID:      "season-1",
		Title:         "Pilot Again",
		EpisodeNumber: 3,
		Files: map[string]*upload.FileInput{
			"episodeUrl": {Filename: "e.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
		},
	})

	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestCreateEpisode_PersistsMedia covers the happy path with both media
fields.
*/
func TestCreateEpisode_PersistsMedia(t *testing.T) {
	repo := newFakeRepository()
	repo.seasonIDs["season-1"] = true
	service, client := newService(repo)

	duration := 47
	created, err := service.CreateEpisode(context.Background(), episode.CreateEpisodeInput{
		SeasonID:      "season-1",
		Title:         "Pilot",
		EpisodeNumber: 1,
		Duration:      &duration,
		Files: map[string]*upload.FileInput{
			"coverUrl":   {Filename: "c.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
			"episodeUrl": {Filename: "e.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, created.CoverURL)
	require.NotNil(t, created.EpisodeURL)
	assert.True(t, client.Has(*created.CoverURL))
	assert.True(t, client.Has(*created.EpisodeURL))
}

/*
TestDeleteEpisode_CleansBlobs removes the media after the row.
*/
func TestDeleteEpisode_CleansBlobs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo)

	videoURL, err := client.Put(ctx, []byte("v"), storage.PutOptions{
		Folder: "episodes/videos", Filename: "v.mp4", ContentType: "video/mp4",
	})
	require.NoError(t, err)

	repo.episodes["e1"] = &episode.Episode{ID: "e1", SeasonID: "season-1", EpisodeNumber: 1, EpisodeURL: &videoURL}

	require.NoError(t, service.DeleteEpisode(ctx, "e1"))

	assert.Empty(t, repo.episodes)
	assert.Equal(t, 0, client.Len())
}
