// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
)

// userSessionsPrefix keys the per-user index set used for bulk
// revocation. Entries expire together with the sessions they track.
const userSessionsPrefix = "auth:session:user:"

// RedisSessionRepository implements SessionRepository using Redis.
//
// Each session is a plain key holding the user id; a per-user set
// indexes the session ids so DeleteAllForUser avoids scanning the
// keyspace.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new Redis-backed SessionRepository.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

/*
Create stores the session and registers it in the user's index set.

Parameters:
  - context: context.Context
  - sessionID: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, sessionID, userID string, ttl time.Duration) error {

	key := constants.RedisPrefixSession + sessionID
	indexKey := userSessionsPrefix + userID

	pipeline := repository.client.TxPipeline()
	pipeline.Set(context, key, userID, ttl)
	pipeline.SAdd(context, indexKey, sessionID)
	// The index only needs to outlive the longest-lived session in it.
	pipeline.Expire(context, indexKey, ttl)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

/*
Get resolves a session id to its user id.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - string: UserID
  - error: apperr.NotFound if the session is absent or expired
*/
func (repository *RedisSessionRepository) Get(context context.Context, sessionID string) (string, error) {

	key := constants.RedisPrefixSession + sessionID

	userID, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Session")
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes a single session and its index entry. Absent sessions are
ignored.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) Delete(context context.Context, sessionID string) error {

	key := constants.RedisPrefixSession + sessionID

	// The index entry is only cleaned when the owner is known.
	userID, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Del(context, key)
	pipeline.SRem(context, userSessionsPrefix+userID, sessionID)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser revokes every session in the user's index set.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) DeleteAllForUser(context context.Context, userID string) error {

	indexKey := userSessionsPrefix + userID

	sessionIDs, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, constants.RedisPrefixSession+sessionID)
	}
	keys = append(keys, indexKey)

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	return nil
}
