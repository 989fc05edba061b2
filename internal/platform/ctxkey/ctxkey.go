// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

// Package ctxkey defines the private context key types shared across the platform.
//
// Using a dedicated unexported type prevents collisions with context values set
// by third-party middleware.
package ctxkey

// Key is the unexported type for all Cinemateca context keys.
type Key int

const (
	// KeyRequestID carries the per-request correlation ID.
	KeyRequestID Key = iota

	// KeyLogger carries the request-scoped *slog.Logger.
	KeyLogger

	// KeyUser carries the authenticated *sec.AuthClaims.
	KeyUser
)
