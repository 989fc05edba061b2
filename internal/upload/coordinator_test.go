// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package upload_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
)

var movieSpecs = []upload.FieldSpec{
	{Name: "coverUrl", Folder: "movies/covers", Kind: upload.KindImage},
	{Name: "trailerUrl", Folder: "movies/trailers", Kind: upload.KindVideo},
	{Name: "movieUrl", Folder: "movies/videos", Kind: upload.KindVideo},
}

func newCoordinator() (*upload.Coordinator, *storage.Memory) {
	client := storage.NewMemory()
	return upload.NewCoordinator(client, slog.Default()), client
}

func imageFile(name string) *upload.FileInput {
	return &upload.FileInput{Filename: name, ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func videoFile(name string) *upload.FileInput {
	return &upload.FileInput{Filename: name, ContentType: "video/mp4", Data: []byte("mp4-bytes")}
}

/*
TestApply_CreateUploadsAllFields covers the happy create path: every file
is uploaded, lands in its field-specific folder and is reported as new.
*/
func TestApply_CreateUploadsAllFields(t *testing.T) {
	ctx := context.Background()
	coordinator, client := newCoordinator()

	incoming := map[string]*upload.FileInput{
		"coverUrl":   imageFile("cover.jpg"),
		"trailerUrl": videoFile("trailer.mp4"),
		"movieUrl":   videoFile("full.mp4"),
	}

	resolution, err := coordinator.Apply(ctx, nil, incoming, movieSpecs)
	require.NoError(t, err)

	// All three fields resolved to fresh URLs
	require.NotNil(t, resolution.URLs["coverUrl"])
	require.NotNil(t, resolution.URLs["trailerUrl"])
	require.NotNil(t, resolution.URLs["movieUrl"])
	assert.Len(t, resolution.Uploaded, 3)
	assert.Empty(t, resolution.Replaced)

	// Blobs landed under their field folders
	assert.Contains(t, *resolution.URLs["coverUrl"], "/movies/covers/")
	assert.Contains(t, *resolution.URLs["trailerUrl"], "/movies/trailers/")
	assert.Contains(t, *resolution.URLs["movieUrl"], "/movies/videos/")
	assert.Equal(t, 3, client.Len())
}

/*
TestApply_ValidationFailureMakesNoNetworkCall rejects a bad file batch
before any storage call, even when sibling files are valid.
*/
func TestApply_ValidationFailureMakesNoNetworkCall(t *testing.T) {
	coordinator, client := newCoordinator()

	incoming := map[string]*upload.FileInput{
		"coverUrl": imageFile("cover.jpg"),
		// Video payload aimed at an image field
		"trailerUrl": {Filename: "trailer.jpg", ContentType: "image/jpeg", Data: []byte("x")},
	}

	_, err := coordinator.Apply(context.Background(), nil, incoming, movieSpecs)

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Contains(t, appError.Fields, "trailerUrl")

	// Zero uploads attempted
	assert.Equal(t, 0, client.PutCalls())
	assert.Equal(t, 0, client.Len())
}

/*
TestApply_OversizedFileRejected enforces the per-field size cap.
*/
func TestApply_OversizedFileRejected(t *testing.T) {
	coordinator, client := newCoordinator()

	specs := []upload.FieldSpec{
		{Name: "coverUrl", Folder: "movies/covers", Kind: upload.KindImage, MaxBytes: 4},
	}
	incoming := map[string]*upload.FileInput{
		"coverUrl": {Filename: "cover.png", ContentType: "image/png", Data: []byte("too-big")},
	}

	_, err := coordinator.Apply(context.Background(), nil, incoming, specs)

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Contains(t, appError.Fields, "coverUrl")
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestApply_PartialFailureCompensates verifies the core orphan guarantee:
when one upload of a batch fails, every blob that did succeed is deleted
before the error reaches the caller.
*/
func TestApply_PartialFailureCompensates(t *testing.T) {
	coordinator, client := newCoordinator()

	// Fail every put into the trailers folder; let the rest succeed
	client.PutHook = func(key string) error {
		if strings.HasPrefix(key, "movies/trailers/") {
			return storage.ErrUnavailable
		}
		return nil
	}

	incoming := map[string]*upload.FileInput{
		"coverUrl":   imageFile("cover.jpg"),
		"trailerUrl": videoFile("trailer.mp4"),
		"movieUrl":   videoFile("full.mp4"),
	}

	_, err := coordinator.Apply(context.Background(), nil, incoming, movieSpecs)

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "STORAGE_UNAVAILABLE", appError.Code)

	// The batch left nothing behind
	assert.Equal(t, 0, client.Len())
}

/*
TestApply_UpdateReportsReplacedBlob verifies replace bookkeeping: a new
file supersedes the stored URL and the old blob is scheduled for cleanup,
not deleted yet.
*/
func TestApply_UpdateReportsReplacedBlob(t *testing.T) {
	ctx := context.Background()
	coordinator, client := newCoordinator()

	oldURL, err := client.Put(ctx, []byte("old"), storage.PutOptions{
		Folder: "movies/covers", Filename: "old.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	current := map[string]*string{"coverUrl": &oldURL}
	incoming := map[string]*upload.FileInput{"coverUrl": imageFile("new.jpg")}

	resolution, err := coordinator.Apply(ctx, current, incoming, movieSpecs)
	require.NoError(t, err)

	require.NotNil(t, resolution.URLs["coverUrl"])
	assert.NotEqual(t, oldURL, *resolution.URLs["coverUrl"])
	assert.Equal(t, []string{oldURL}, resolution.Replaced)

	// The old blob survives until the caller commits and discards it
	assert.True(t, client.Has(oldURL))
}

/*
TestApply_AbsentFieldsKeepCurrentValues covers partial-update semantics.
*/
func TestApply_AbsentFieldsKeepCurrentValues(t *testing.T) {
	coordinator, _ := newCoordinator()

	existing := "https://storage.test/object/public/media/movies/covers/a.jpg"
	current := map[string]*string{"coverUrl": &existing}

	resolution, err := coordinator.Apply(context.Background(), current, nil, movieSpecs)
	require.NoError(t, err)

	require.NotNil(t, resolution.URLs["coverUrl"])
	assert.Equal(t, existing, *resolution.URLs["coverUrl"])
	assert.Nil(t, resolution.URLs["trailerUrl"])
	assert.Empty(t, resolution.Uploaded)
	assert.Empty(t, resolution.Replaced)
}

/*
TestApply_DeleteSentinelClearsField verifies that a nil file input nulls
the field and schedules the old blob for post-commit cleanup.
*/
func TestApply_DeleteSentinelClearsField(t *testing.T) {
	ctx := context.Background()
	coordinator, client := newCoordinator()

	oldURL, err := client.Put(ctx, []byte("old"), storage.PutOptions{
		Folder: "movies/covers", Filename: "old.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	current := map[string]*string{"coverUrl": &oldURL}
	incoming := map[string]*upload.FileInput{"coverUrl": nil}

	resolution, err := coordinator.Apply(ctx, current, incoming, movieSpecs)
	require.NoError(t, err)

	assert.Nil(t, resolution.URLs["coverUrl"])
	assert.Equal(t, []string{oldURL}, resolution.Replaced)
	assert.Empty(t, resolution.Uploaded)
}

/*
TestDiscard_SwallowsFailures asserts cleanup is best-effort: a failing
provider never surfaces an error from Discard.
*/
func TestDiscard_SwallowsFailures(t *testing.T) {
	coordinator, client := newCoordinator()

	client.DeleteHook = func(key string) error {
		return storage.ErrUnavailable
	}

	// Must not panic or error
	coordinator.Discard(context.Background(), []string{
		"https://storage.test/object/public/media/movies/covers/x.jpg",
		"",
	})

	assert.Equal(t, 1, client.DeleteCalls())
}
