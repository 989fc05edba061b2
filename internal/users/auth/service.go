// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/pkg/uuidv7"
)

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or login logic must be reviewed carefully.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenProvider
	uploads  *upload.Coordinator
	logger   *slog.Logger
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	tokens TokenProvider,
	uploads *upload.Coordinator,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		uploads:  uploads,
		logger:   logger,
	}
}

// SignupInput holds the parsed multipart payload for enrolling a member.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Gender    *string
	Birthday  *time.Time

	// Files may carry the optional profileImage part.
	Files map[string]*upload.FileInput
}

/*
Signup validates, hashes, uploads and persists a brand new account.

# Business Rules
  - Emails are unique, matched case-insensitively.
  - The default role is always 'normal' and the status 'active';
    privilege escalation at signup is impossible.
  - The profile image is uploaded only after every check passed; a
    failed persist discards it again.
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// 1. Field validation, zero side effects
	if err := service.validateSignup(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 2. Uniqueness pre-check, still before any upload
	if _, err := service.users.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered").WithFields(fieldRequirements)
	}

	// Default cost balances security and CPU during signup spikes.
	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// 3. Upload phase
	resolution, err := service.uploads.Apply(context, nil, input.Files, FileSpecs)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:              uuidv7.New(),
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Email:           email,
		PasswordHash:    passwordHash,
		Gender:          input.Gender,
		Birthday:        input.Birthday,
		ProfileImageURL: resolution.URLs["profileImage"],
		Role:            sec.RoleNormal,
		Status:          StatusActive,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	// 4. Persist phase; compensate the upload if it fails
	if err := service.users.Create(context, user); err != nil {
		service.uploads.Discard(context, resolution.Uploaded)
		return nil, err
	}

	service.logger.InfoContext(context, "user_signed_up",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Session represents a successfully established login.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

/*
Login validates credentials and issues an access/refresh token pair.

A generic Unauthorized error covers both unknown emails and wrong
passwords to prevent account enumeration. Inactive accounts cannot log
in.
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {

	user, err := service.users.FindByEmail(context, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Bcrypt comparison is constant-time.
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if user.Status != StatusActive {
		return nil, apperr.Forbidden("Account is inactive")
	}

	session, err := service.issueTokens(context, user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return session, nil
}

/*
Refresh rotates a refresh session: the presented token is consumed and a
new pair is issued. A replayed token therefore fails with Unauthorized.
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	userID, err := service.sessions.Get(context, refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Consume the old session before issuing the replacement.
	if err := service.sessions.Delete(context, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found")
	}
	if user.Status != StatusActive {
		return nil, apperr.Forbidden("Account is inactive")
	}

	session, err := service.issueTokens(context, user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "session_refreshed", slog.String("user_id", user.ID))

	return session, nil
}

// Logout revokes the presented refresh session. Logging out with an
// unknown token succeeds; the operation is idempotent.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return service.sessions.Delete(context, refreshToken)
}

// issueTokens generates the JWT access token and a fresh Redis-backed
// refresh session for the user.
func (service *Service) issueTokens(context context.Context, user *User) (*Session, error) {

	accessToken, err := service.tokens.GenerateAccessToken(
		user.ID, user.Email, string(user.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// The refresh token is an opaque session id; its value only exists
	// in Redis, so revocation is immediate.
	refreshToken := uuidv7.New()
	if err := service.sessions.Create(context, refreshToken, user.ID, constants.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// # Validation

func (service *Service) validateSignup(input SignupInput) error {
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

	if input.Gender != nil {
		validator.OneOf("gender", *input.Gender, Genders...)
	}
	if input.Birthday != nil {
		validator.
			PastDate("birthday", *input.Birthday).
			MaxAgeYears("birthday", *input.Birthday, 120)
	}

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(fieldRequirements)
	}
	return nil
}
