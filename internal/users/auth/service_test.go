// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/internal/users/auth"
)

type fakeUsers struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (repo *fakeUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, found := repo.byID[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	user, found := repo.byEmail[email]
	if !found {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUsers) Create(_ context.Context, user *auth.User) error {
	repo.byID[user.ID] = user
	repo.byEmail[user.Email] = user
	return nil
}

// fakeSessions is an in-memory SessionRepository.
type fakeSessions struct {
	values map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{values: make(map[string]string)}
}

func (repo *fakeSessions) Create(_ context.Context, sessionID, userID string, _ time.Duration) error {
	repo.values[sessionID] = userID
	return nil
}

func (repo *fakeSessions) Get(_ context.Context, sessionID string) (string, error) {
	userID, found := repo.values[sessionID]
	if !found {
		return "", apperr.NotFound("Session")
	}
	return userID, nil
}

func (repo *fakeSessions) Delete(_ context.Context, sessionID string) error {
	delete(repo.values, sessionID)
	return nil
}

func (repo *fakeSessions) DeleteAllForUser(_ context.Context, userID string) error {
	for sessionID, owner := range repo.values {
		if owner == userID {
			delete(repo.values, sessionID)
		}
	}
	return nil
}

func newService(t *testing.T, users *fakeUsers, sessions *fakeSessions) (*auth.Service, *storage.Memory) {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "cinemateca.test")
	require.NoError(t, err)

	client := storage.NewMemory()
	coordinator := upload.NewCoordinator(client, slog.Default())

	return auth.NewService(users, sessions, tokens, coordinator, slog.Default()), client
}

func validSignup() auth.SignupInput {
	return auth.SignupInput{
		FirstName: "Ana",
		LastName:  "Ramirez",
		Email:     "ana@example.com",
		Password:  "correct-horse",
	}
}

/*
TestSignup_CreatesNormalActiveUser verifies defaults and that the
password is stored hashed, never plain.
*/
func TestSignup_CreatesNormalActiveUser(t *testing.T) {
	users := newFakeUsers()
	service, _ := newService(t, users, newFakeSessions())

	user, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, sec.RoleNormal, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct-horse", user.PasswordHash))
}

/*
TestSignup_DuplicateEmailConflicts normalizes the email before the
uniqueness check and never touches storage on the failure path.
*/
func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	users := newFakeUsers()
	service, client := newService(t, users, newFakeSessions())

	_, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	input := validSignup()
	input.Email = "  ANA@example.com "
	input.Files = map[string]*upload.FileInput{
		"profileImage": {Filename: "me.png", ContentType: "image/png", Data: []byte("png")},
	}

	_, err = service.Signup(context.Background(), input)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 0, client.PutCalls())
}

/*
TestSignup_InvalidGenderRejected covers the enum validation.
*/
func TestSignup_InvalidGenderRejected(t *testing.T) {
	service, _ := newService(t, newFakeUsers(), newFakeSessions())

	gender := "robot"
	input := validSignup()
	input.Gender = &gender

	_, err := service.Signup(context.Background(), input)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

/*
TestLogin_WrongPasswordUnauthorized returns the same generic error as an
unknown email.
*/
func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	users := newFakeUsers()
	service, _ := newService(t, users, newFakeSessions())

	_, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, wrongPassword := service.Login(context.Background(), "ana@example.com", "nope")
	_, unknownEmail := service.Login(context.Background(), "ghost@example.com", "correct-horse")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, apperr.As(wrongPassword).Code, apperr.As(unknownEmail).Code)
}

/*
TestLogin_IssuesVerifiableTokens checks the access token round trip and
that the refresh token resolves in the session store.
*/
func TestLogin_IssuesVerifiableTokens(t *testing.T) {
	users := newFakeUsers()
	sessions := newFakeSessions()
	service, _ := newService(t, users, sessions)

	created, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), "ana@example.com", "correct-horse")
	require.NoError(t, err)

	tokens, err := sec.NewTokenService("test-secret", "cinemateca.test")
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	userID, err := sessions.Get(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
}

/*
TestRefresh_RotatesSession verifies rotation: the old token is consumed
and cannot be replayed.
*/
func TestRefresh_RotatesSession(t *testing.T) {
	users := newFakeUsers()
	sessions := newFakeSessions()
	service, _ := newService(t, users, sessions)

	_, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	first, err := service.Login(context.Background(), "ana@example.com", "correct-horse")
	require.NoError(t, err)

	second, err := service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replay of the consumed token fails
	_, err = service.Refresh(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestLogout_IsIdempotent succeeds for unknown and empty tokens.
*/
func TestLogout_IsIdempotent(t *testing.T) {
	service, _ := newService(t, newFakeUsers(), newFakeSessions())

	assert.NoError(t, service.Logout(context.Background(), "unknown"))
	assert.NoError(t, service.Logout(context.Background(), ""))
}

/*
TestLogin_InactiveAccountForbidden blocks sign-in for disabled accounts.
*/
func TestLogin_InactiveAccountForbidden(t *testing.T) {
	users := newFakeUsers()
	service, _ := newService(t, users, newFakeSessions())

	created, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	created.Status = auth.StatusInactive

	_, err = service.Login(context.Background(), "ana@example.com", "correct-horse")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
