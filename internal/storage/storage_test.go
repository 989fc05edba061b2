// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/storage"
)

/*
TestObjectKey_Naming verifies that generated keys are folder-scoped,
sanitized and unique between calls.
*/
func TestObjectKey_Naming(t *testing.T) {
	first := storage.NewObjectKey("movies/covers", "Señor de los Anillos.PNG")
	second := storage.NewObjectKey("movies/covers", "Señor de los Anillos.PNG")

	// 1. Folder prefix and lowercased extension survive
	assert.True(t, strings.HasPrefix(first, "movies/covers/"))
	assert.True(t, strings.HasSuffix(first, ".png"))

	// 2. Unicode and spaces are sanitized out of the stored name
	assert.Contains(t, first, "senor-de-los-anillos")

	// 3. The UUIDv7 prefix makes repeated names unique
	assert.NotEqual(t, first, second)
}

/*
TestObjectKey_EmptyBase falls back to a placeholder when the client
filename sanitizes to nothing.
*/
func TestObjectKey_EmptyBase(t *testing.T) {
	key := storage.NewObjectKey("profile_images", "___.jpg")
	assert.Contains(t, key, "-file.jpg")
}

/*
TestPublicURL_RoundTrip verifies that KeyFromURL inverts PublicURL and
passes raw keys through unchanged.
*/
func TestPublicURL_RoundTrip(t *testing.T) {
	baseURL := "https://abc.supabase.co/storage/v1"
	bucket := "media"
	key := "movies/trailers/0191-clip.mp4"

	publicURL := storage.PublicURL(baseURL, bucket, key)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/media/movies/trailers/0191-clip.mp4", publicURL)

	// Round trip
	assert.Equal(t, key, storage.KeyFromURL(baseURL, bucket, publicURL))

	// Raw keys pass through
	assert.Equal(t, key, storage.KeyFromURL(baseURL, bucket, key))
}

/*
TestMemory_PutAndDelete covers the basic store/remove cycle including
idempotent deletion of an absent object.
*/
func TestMemory_PutAndDelete(t *testing.T) {
	ctx := context.Background()
	client := storage.NewMemory()

	url, err := client.Put(ctx, []byte("image-bytes"), storage.PutOptions{
		Folder:      "movies/covers",
		Filename:    "cover.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.True(t, client.Has(url))
	assert.Equal(t, 1, client.Len())

	// First delete removes the object
	require.NoError(t, client.Delete(ctx, url))
	assert.False(t, client.Has(url))

	// Second delete of the same URL is not an error
	require.NoError(t, client.Delete(ctx, url))
}

/*
TestMemory_EmptyBlob rejects zero-byte uploads before any provider call.
*/
func TestMemory_EmptyBlob(t *testing.T) {
	client := storage.NewMemory()

	_, err := client.Put(context.Background(), nil, storage.PutOptions{
		Folder:   "movies/covers",
		Filename: "cover.jpg",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

/*
TestMemory_CollisionRetry verifies that a key collision regenerates the
name and retries instead of failing the upload.
*/
func TestMemory_CollisionRetry(t *testing.T) {
	ctx := context.Background()
	client := storage.NewMemory()

	// Two collisions still fit inside the three-attempt budget
	client.CollideNextPuts(2)

	url, err := client.Put(ctx, []byte("video"), storage.PutOptions{
		Folder:      "movies/trailers",
		Filename:    "trailer.mp4",
		ContentType: "video/mp4",
	})

	require.NoError(t, err)
	assert.True(t, client.Has(url))
	assert.Equal(t, 3, client.PutCalls())
}

/*
TestMemory_CollisionExhaustion surfaces persistent collisions as a
provider-unavailable failure once the retry budget runs out.
*/
func TestMemory_CollisionExhaustion(t *testing.T) {
	client := storage.NewMemory()
	client.CollideNextPuts(10)

	_, err := client.Put(context.Background(), []byte("video"), storage.PutOptions{
		Folder:   "movies/trailers",
		Filename: "trailer.mp4",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, 0, client.Len())
}

/*
TestMemory_TransientFailureRetry verifies that provider outages are
retried and succeed once the provider recovers.
*/
func TestMemory_TransientFailureRetry(t *testing.T) {
	ctx := context.Background()
	client := storage.NewMemory()

	failures := 1
	client.PutHook = func(key string) error {
		if failures > 0 {
			failures--
			return storage.ErrUnavailable
		}
		return nil
	}

	url, err := client.Put(ctx, []byte("image"), storage.PutOptions{
		Folder:   "profile_images",
		Filename: "me.png",
	})

	require.NoError(t, err)
	assert.True(t, client.Has(url))
}

/*
TestMemory_SignedURL exercises the deterministic signing fake.
*/
func TestMemory_SignedURL(t *testing.T) {
	ctx := context.Background()
	client := storage.NewMemory()

	url, err := client.Put(ctx, []byte("data"), storage.PutOptions{
		Folder:   "movies/videos",
		Filename: "full.mp4",
	})
	require.NoError(t, err)

	signed, err := client.SignedURL(ctx, url, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, signed, "/object/sign/")

	_, err = client.SignedURL(ctx, "movies/videos/missing.mp4", 0)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
