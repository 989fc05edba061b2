// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package account handles user administration and profile management on
top of the auth package's User entity.

# Architecture

  - Entities: reuses [auth.User]; this package owns its persistence.
  - Authorization: listing and creating users is admin-only; reading,
    updating and deleting a profile is allowed for the owner or an
    admin, enforced in the HTTP layer.
  - Deleting an account removes its profile image from storage and
    revokes every refresh session of the user.
*/
package account

import (
	"context"
	"time"

	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/internal/users/auth"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// Repository defines the full account persistence contract. The
// Postgres implementation also satisfies [auth.UserRepository].
type Repository interface {
	ListUsers(context context.Context, page pagination.Params) ([]*auth.User, int, error)
	FindByID(context context.Context, id string) (*auth.User, error)
	FindByEmail(context context.Context, email string) (*auth.User, error)
	Create(context context.Context, user *auth.User) error
	Update(context context.Context, user *auth.User) error
	Delete(context context.Context, id string) error
}

// SessionRevoker invalidates the refresh sessions of a user; satisfied
// by the auth package's Redis session repository.
type SessionRevoker interface {
	DeleteAllForUser(context context.Context, userID string) error
}

// CreateUserInput is the admin-side account creation payload. Unlike
// signup it may set the role and status explicitly.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Gender    *string
	Birthday  *time.Time
	Role      *string
	Status    *string

	Files map[string]*upload.FileInput
}

// UpdateUserInput is the partial profile update; nil pointers leave the
// stored value untouched. Role and status changes are admin-only,
// enforced before the service is called.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Gender    *string
	Birthday  *time.Time
	Role      *string
	Status    *string

	Files map[string]*upload.FileInput
}

// fieldRequirements documents the expected input shape; it is attached
// to every 4xx response of this module.
var fieldRequirements = map[string]string{
	"firstName":    "String (1-100 chars) - REQUIRED",
	"lastName":     "String (1-100 chars) - REQUIRED",
	"email":        "Valid email address, unique - REQUIRED",
	"password":     "String (min 8 chars) - REQUIRED on create",
	"gender":       "One of: male, female, other, unspecified - OPTIONAL",
	"birthday":     "Date (YYYY-MM-DD), in the past, age below 120 - OPTIONAL",
	"role":         "One of: normal, admin - ADMIN ONLY",
	"status":       "One of: active, inactive - ADMIN ONLY",
	"profileImage": "Image file (jpg, png, webp, gif; max 10MB) - OPTIONAL",
}
