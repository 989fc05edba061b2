// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package storage

import (
	stdctx "context"
	"fmt"
	"sync"
	"time"
)

// # In-Memory Client

// Memory is an in-process Client used by unit tests. Its hooks allow
// fault injection (provider outages, key collisions) without a network.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
	bucket  string

	// PutHook runs before each put attempt with the candidate key.
	// Returning an error fails that attempt; resetting to nil restores
	// normal behavior.
	PutHook func(key string) error

	// DeleteHook runs before each delete with the resolved key.
	DeleteHook func(key string) error

	putCalls    int
	deleteCalls int

	collideRemaining int
}

var _ Client = (*Memory)(nil)

// NewMemory returns an empty in-memory client with a fixed fake base URL.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		baseURL: "https://storage.test",
		bucket:  "media",
	}
}

// Put stores the blob under a freshly generated key, honoring the same
// collision and retry semantics as the real provider.
func (memoryClient *Memory) Put(context stdctx.Context, blob []byte, options PutOptions) (string, error) {

	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty blob", ErrInvalidInput)
	}

	key, err := putWithRetry(context, options, func(attemptCtx stdctx.Context, key string) error {

		memoryClient.mu.Lock()
		defer memoryClient.mu.Unlock()

		memoryClient.putCalls++

		if memoryClient.PutHook != nil {
			if hookErr := memoryClient.PutHook(key); hookErr != nil {
				return hookErr
			}
		}

		if memoryClient.collideRemaining > 0 {
			memoryClient.collideRemaining--
			return errKeyTaken
		}

		if _, exists := memoryClient.objects[key]; exists && !options.Upsert {
			return errKeyTaken
		}

		stored := make([]byte, len(blob))
		copy(stored, blob)
		memoryClient.objects[key] = stored

		return nil
	})
	if err != nil {
		return "", err
	}

	return PublicURL(memoryClient.baseURL, memoryClient.bucket, key), nil
}

// Delete removes the object if present. Absent objects are not an error.
func (memoryClient *Memory) Delete(context stdctx.Context, publicURLOrKey string) error {

	key := KeyFromURL(memoryClient.baseURL, memoryClient.bucket, publicURLOrKey)

	memoryClient.mu.Lock()
	defer memoryClient.mu.Unlock()

	memoryClient.deleteCalls++

	if memoryClient.DeleteHook != nil {
		if hookErr := memoryClient.DeleteHook(key); hookErr != nil {
			return hookErr
		}
	}

	delete(memoryClient.objects, key)
	return nil
}

// SignedURL fabricates a deterministic signed URL for assertions.
func (memoryClient *Memory) SignedURL(context stdctx.Context, publicURLOrKey string, ttl time.Duration) (string, error) {

	key := KeyFromURL(memoryClient.baseURL, memoryClient.bucket, publicURLOrKey)

	memoryClient.mu.RLock()
	defer memoryClient.mu.RUnlock()

	if _, exists := memoryClient.objects[key]; !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return fmt.Sprintf("%s/object/sign/%s/%s?ttl=%d",
		memoryClient.baseURL, memoryClient.bucket, key, int(ttl.Seconds())), nil
}

// CollideNextPuts makes the next count put attempts fail as if the
// generated key already existed, exercising the collision retry path.
func (memoryClient *Memory) CollideNextPuts(count int) {
	memoryClient.mu.Lock()
	defer memoryClient.mu.Unlock()
	memoryClient.collideRemaining = count
}

// # Test Introspection

// Len reports how many objects are currently stored.
func (memoryClient *Memory) Len() int {
	memoryClient.mu.RLock()
	defer memoryClient.mu.RUnlock()
	return len(memoryClient.objects)
}

// Has reports whether the object behind a public URL or key exists.
func (memoryClient *Memory) Has(publicURLOrKey string) bool {
	key := KeyFromURL(memoryClient.baseURL, memoryClient.bucket, publicURLOrKey)

	memoryClient.mu.RLock()
	defer memoryClient.mu.RUnlock()

	_, exists := memoryClient.objects[key]
	return exists
}

// Keys returns a snapshot of all stored object keys.
func (memoryClient *Memory) Keys() []string {
	memoryClient.mu.RLock()
	defer memoryClient.mu.RUnlock()

	keys := make([]string, 0, len(memoryClient.objects))
	for key := range memoryClient.objects {
		keys = append(keys, key)
	}
	return keys
}

// PutCalls reports how many put attempts reached the fake provider.
func (memoryClient *Memory) PutCalls() int {
	memoryClient.mu.RLock()
	defer memoryClient.mu.RUnlock()
	return memoryClient.putCalls
}

// DeleteCalls reports how many delete calls reached the fake provider.
func (memoryClient *Memory) DeleteCalls() int {
	memoryClient.mu.RLock()
	defer memoryClient.mu.RUnlock()
	return memoryClient.deleteCalls
}
