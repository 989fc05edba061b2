// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package storage abstracts the object-storage provider that holds all media
assets (covers, trailers, movie and episode files, profile images).

Contract:

  - Put: writes a blob under a folder-scoped, collision-free key and returns
    the public URL to persist on the owning row.
  - Delete: idempotent removal; deleting an absent object is not an error.
  - SignedURL: short-lived private access for the rare non-public asset.

Failure taxonomy: ErrUnavailable (transient provider/network failure,
retryable at this layer only), ErrNotFound, ErrInvalidInput. Callers never
retry; bounded retry with linear backoff lives inside each implementation.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/pkg/slug"
	"github.com/dramirezb/cinemateca/pkg/uuidv7"
)

// # Error Taxonomy

var (
	// ErrUnavailable indicates a transient provider or network failure.
	ErrUnavailable = errors.New("storage: provider unavailable")

	// ErrNotFound indicates the referenced object does not exist.
	ErrNotFound = errors.New("storage: object not found")

	// ErrInvalidInput indicates a request the provider can never satisfy.
	ErrInvalidInput = errors.New("storage: invalid input")

	// errKeyTaken signals a naming collision inside the put retry loop.
	errKeyTaken = errors.New("storage: object key already exists")
)

// # Client Contract

// PutOptions describes a single object write.
type PutOptions struct {
	// Folder is the bucket-relative prefix, e.g. "movies/covers".
	Folder string
	// Filename is the client-supplied name; it is sanitized and prefixed,
	// never used verbatim.
	Filename string
	// ContentType is the MIME type stored with the object.
	ContentType string
	// Upsert allows overwriting an existing object instead of retrying
	// with a fresh key.
	Upsert bool
}

// Client is the object-storage abstraction the rest of the application
// depends on.
type Client interface {
	// Put stores the blob and returns its public URL.
	Put(ctx context.Context, blob []byte, options PutOptions) (string, error)

	// Delete removes the object behind a public URL or raw key.
	// It is idempotent.
	Delete(ctx context.Context, publicURLOrKey string) error

	// SignedURL returns a time-limited URL for private access.
	SignedURL(ctx context.Context, publicURLOrKey string, ttl time.Duration) (string, error)
}

// # Object Keys

// NewObjectKey builds a collision-resistant key for a client filename.
// The UUIDv7 prefix keeps keys unique and time-sortable; the sanitized
// original name keeps them recognizable in bucket listings.
func NewObjectKey(folder, filename string) string {

	extension := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	cleaned := slug.From(base)
	if cleaned == "" {
		cleaned = "file"
	}

	return fmt.Sprintf("%s/%s-%s%s", strings.Trim(folder, "/"), uuidv7.Must(), cleaned, extension)
}

// PublicURL renders the persisted URL for an object key.
func PublicURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/object/public/%s/%s",
		strings.TrimSuffix(baseURL, "/"), bucket, key)
}

// KeyFromURL recovers the object key from a persisted public URL. Inputs
// that are already raw keys pass through unchanged.
func KeyFromURL(baseURL, bucket, publicURLOrKey string) string {

	prefix := fmt.Sprintf("%s/object/public/%s/",
		strings.TrimSuffix(baseURL, "/"), bucket)

	if strings.HasPrefix(publicURLOrKey, prefix) {
		return strings.TrimPrefix(publicURLOrKey, prefix)
	}

	return strings.TrimPrefix(publicURLOrKey, "/")
}

// # Bounded Retry

// retryDelay is the linear backoff unit between put attempts.
const retryDelay = 200 * time.Millisecond

// withCallTimeout bounds a single provider call.
func withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.StorageCallTimeout)
}

// putWithRetry drives the bounded put loop shared by all implementations.
//
// Each attempt gets a fresh key and its own deadline. A collision
// (errKeyTaken) regenerates the key and retries after a linear backoff;
// any other failure is returned as-is once attempts are exhausted.
func putWithRetry(ctx context.Context, options PutOptions, attempt func(ctx context.Context, key string) error) (string, error) {

	var lastErr error

	for attemptNumber := 1; attemptNumber <= constants.StoragePutAttempts; attemptNumber++ {

		key := NewObjectKey(options.Folder, options.Filename)

		callCtx, cancel := context.WithTimeout(ctx, constants.StorageCallTimeout)
		err := attempt(callCtx, key)
		cancel()

		if err == nil {
			return key, nil
		}

		lastErr = err

		// Collisions are retried with a regenerated key; transient provider
		// failures are retried with the same backoff budget.
		if !errors.Is(err, errKeyTaken) && !errors.Is(err, ErrUnavailable) {
			return "", err
		}

		if attemptNumber < constants.StoragePutAttempts {
			select {
			case <-time.After(time.Duration(attemptNumber) * retryDelay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}
	}

	if errors.Is(lastErr, errKeyTaken) {
		return "", fmt.Errorf("%w: key collisions persisted across retries", ErrUnavailable)
	}

	return "", lastErr
}
