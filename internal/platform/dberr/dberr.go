// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action string ends up in server-side logs via the AppError cause chain;
// it is never shown to clients.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream (service-layer pre-checks).
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations are classified by SQLSTATE. Service-layer
	// pre-checks catch most of these first; this is the race-safe backstop.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Resource already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced resource does not exist")
		case pgerrcode.CheckViolation:
			return apperr.ValidationError("Value violates a data constraint")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(wrapAction(err, action))
}

// wrapAction annotates the cause with the failed repository action for logs.
func wrapAction(err error, action string) error {
	if action == "" {
		return err
	}
	return &actionError{action: action, cause: err}
}

type actionError struct {
	action string
	cause  error
}

func (e *actionError) Error() string { return e.action + ": " + e.cause.Error() }
func (e *actionError) Unwrap() error { return e.cause }
