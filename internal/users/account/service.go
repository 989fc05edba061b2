// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/internal/users/auth"
	"github.com/dramirezb/cinemateca/pkg/pagination"
	"github.com/dramirezb/cinemateca/pkg/uuidv7"
)

type Service struct {
	repo     Repository
	sessions SessionRevoker
	uploads  *upload.Coordinator
	logger   *slog.Logger
}

func NewService(repo Repository, sessions SessionRevoker, uploads *upload.Coordinator, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		uploads:  uploads,
		logger:   logger,
	}
}

// ListUsers returns a page of accounts, newest first.
func (service *Service) ListUsers(context context.Context, page pagination.Params) ([]*auth.User, pagination.Meta, error) {

	users, total, err := service.repo.ListUsers(context, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return users, pagination.NewMeta(page.Page, page.Limit, total), nil
}

func (service *Service) GetUser(context context.Context, id string) (*auth.User, error) {
	return service.repo.FindByID(context, id)
}

/*
CreateUser persists an account on behalf of an administrator. It mirrors
signup but may set role and status explicitly.
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*auth.User, error) {

	// 1. Field validation, zero side effects
	if err := service.validateCreate(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 2. Uniqueness pre-check, still before any upload
	if _, err := service.repo.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered").WithFields(fieldRequirements)
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	// 3. Upload phase
	resolution, err := service.uploads.Apply(context, nil, input.Files, auth.FileSpecs)
	if err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:              uuidv7.New(),
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Email:           email,
		PasswordHash:    passwordHash,
		Gender:          input.Gender,
		Birthday:        input.Birthday,
		ProfileImageURL: resolution.URLs["profileImage"],
		Role:            sec.RoleNormal,
		Status:          auth.StatusActive,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	// 4. Persist phase; compensate the upload if it fails
	if err := service.repo.Create(context, user); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	service.logger.InfoContext(context, "user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
UpdateUser applies a partial profile update. A replaced profile image is
deleted only after the row state is committed; an email change runs the
uniqueness pre-check against the other accounts.
*/
func (service *Service) UpdateUser(context context.Context, id string, input UpdateUserInput) (*auth.User, error) {

	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.validateUpdate(input); err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if existing, err := service.repo.FindByEmail(context, email); err == nil && existing.ID != user.ID {
				return nil, apperr.Conflict("Email is already registered").WithFields(fieldRequirements)
			}
			user.Email = email
		}
	}

	resolution, err := service.uploads.Apply(context, user.CurrentURLs(), input.Files, auth.FileSpecs)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Gender != nil {
		user.Gender = input.Gender
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Password != nil {
		passwordHash, err := sec.HashPassword(*input.Password)
		if err != nil {
			service.uploads.Discard(context, resolution.Uploaded)
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	user.ProfileImageURL = resolution.URLs["profileImage"]
	user.UpdatedAt = time.Now()

	if err := service.repo.Update(context, user); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	// The old image is unreachable once the commit succeeded
	service.uploads.Discard(context, resolution.Replaced)

	service.logger.InfoContext(context, "user_updated",
		slog.String("user_id", user.ID),
		slog.Int("uploads", len(resolution.Uploaded)),
	)

	return user, nil
}

/*
DeleteUser removes the account row, then its stored profile image, then
revokes every refresh session so the deleted user is signed out
everywhere.
*/
func (service *Service) DeleteUser(context context.Context, id string) error {

	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, user.ID); err != nil {
		return err
	}

	service.uploads.Discard(context, user.BlobURLs())

	if err := service.sessions.DeleteAllForUser(context, user.ID); err != nil {
		// The account is already gone; session expiry will finish the job.
		service.logger.WarnContext(context, "session_revocation_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.InfoContext(context, "user_deleted", slog.String("user_id", user.ID))
	return nil
}

// # Validation

func (service *Service) validateCreate(input CreateUserInput) error {
	validator := &validate.Validator{}

	validator.
		Required("firstName", input.FirstName).
		LenBetween("firstName", strings.TrimSpace(input.FirstName), 1, 100).
		Required("lastName", input.LastName).
		LenBetween("lastName", strings.TrimSpace(input.LastName), 1, 100).
		Required("email", input.Email).
		Email("email", strings.TrimSpace(input.Email)).
		Required("password", input.Password).
		MinLen("password", input.Password, 8)

	service.validateCommon(validator, input.Gender, input.Birthday, input.Role, input.Status)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateUpdate(input UpdateUserInput) error {
	validator := &validate.Validator{}

	if input.FirstName != nil {
		validator.
			Required("firstName", *input.FirstName).
			LenBetween("firstName", strings.TrimSpace(*input.FirstName), 1, 100)
	}
	if input.LastName != nil {
		validator.
			Required("lastName", *input.LastName).
			LenBetween("lastName", strings.TrimSpace(*input.LastName), 1, 100)
	}
	if input.Email != nil {
		validator.Email("email", strings.TrimSpace(*input.Email))
	}
	if input.Password != nil {
		validator.MinLen("password", *input.Password, 8)
	}

	service.validateCommon(validator, input.Gender, input.Birthday, input.Role, input.Status)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}

func (service *Service) validateCommon(validator *validate.Validator, gender *string, birthday *time.Time, role, status *string) {
	if gender != nil {
		validator.OneOf("gender", *gender, auth.Genders...)
	}
	if birthday != nil {
		validator.
			PastDate("birthday", *birthday).
			MaxAgeYears("birthday", *birthday, 120)
	}
	if role != nil {
		validator.OneOf("role", *role, string(sec.RoleNormal), string(sec.RoleAdmin))
	}
	if status != nil {
		validator.OneOf("status", *status, auth.StatusActive, auth.StatusInactive)
	}
}
