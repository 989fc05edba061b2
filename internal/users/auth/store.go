// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the account lookups the auth flows need. The
// account package's Postgres repository satisfies it.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email,
		matched case-insensitively.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account row.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, or storage failures
	*/
	Create(context context.Context, user *User) error
}

// # Session Data Access

// SessionRepository defines the contract for volatile refresh sessions.
//
// A session is an opaque id mapping to a user id; expiry is enforced by
// the store's TTL, never by application code.
type SessionRepository interface {

	/*
		Create stores a new refresh session.

		Parameters:
		  - context: context.Context
		  - sessionID: string (opaque, returned to the client as the refresh token)
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, sessionID, userID string, ttl time.Duration) error

	/*
		Get resolves a session id to its user id.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - string: UserID
		  - error: apperr.NotFound if absent or expired
	*/
	Get(context context.Context, sessionID string) (string, error)

	/*
		Delete removes a single session. Deleting an absent session is
		not an error.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Storage failures
	*/
	Delete(context context.Context, sessionID string) error

	/*
		DeleteAllForUser revokes every session belonging to the user,
		used on account deletion.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Storage failures
	*/
	DeleteAllForUser(context context.Context, userID string) error
}
