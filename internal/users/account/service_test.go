// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/storage"
	"github.com/dramirezb/cinemateca/internal/upload"
	"github.com/dramirezb/cinemateca/internal/users/account"
	"github.com/dramirezb/cinemateca/internal/users/auth"
	"github.com/dramirezb/cinemateca/pkg/pagination"
	"github.com/dramirezb/cinemateca/pkg/pointer"
)

type fakeRepository struct {
	users map[string]*auth.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeRepository) ListUsers(_ context.Context, _ pagination.Params) ([]*auth.User, int, error) {
	result := make([]*auth.User, 0, len(repo.users))
	for _, u := range repo.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, found := repo.users[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	clone := *u
	return &clone, nil
}

func (repo *fakeRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range repo.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeRepository) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, user *auth.User) error {
	if _, found := repo.users[user.ID]; !found {
		return apperr.NotFound("User")
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	if _, found := repo.users[id]; !found {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

type fakeSessions struct {
	revoked []string
}

func (sessions *fakeSessions) DeleteAllForUser(_ context.Context, userID string) error {
	sessions.revoked = append(sessions.revoked, userID)
	return nil
}

func newService(repo *fakeRepository, sessions *fakeSessions) (*account.Service, *storage.Memory) {
	client := storage.NewMemory()
	coordinator := upload.NewCoordinator(client, slog.Default())
	return account.NewService(repo, sessions, coordinator, slog.Default()), client
}

/*
TestCreateUser_AdminMaySetRole verifies the admin-side creation path.
*/
func TestCreateUser_AdminMaySetRole(t *testing.T) {
	repo := newFakeRepository()
	service, _ := newService(repo, &fakeSessions{})

	created, err := service.CreateUser(context.Background(), account.CreateUserInput{
		FirstName: "Eva",
		LastName:  "Gomez",
		Email:     "eva@example.com",
		Password:  "long-enough",
		Role:      pointer.To("admin"),
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleAdmin, created.Role)
	assert.Equal(t, auth.StatusActive, created.Status)
}

/*
TestUpdateUser_EmailTakenConflicts runs the uniqueness pre-check against
other accounts but allows re-submitting the current email.
*/
func TestUpdateUser_EmailTakenConflicts(t *testing.T) {
	repo := newFakeRepository()
	repo.users["u1"] = &auth.User{ID: "u1", FirstName: "A", LastName: "A", Email: "a@example.com"}
	repo.users["u2"] = &auth.User{ID: "u2", FirstName: "B", LastName: "B", Email: "b@example.com"}
	service, _ := newService(repo, &fakeSessions{})

	_, err := service.UpdateUser(context.Background(), "u1", account.UpdateUserInput{
		Email: pointer.To("b@example.com"),
	})
	assert.True(t, apperr.IsConflict(err))

	_, err = service.UpdateUser(context.Background(), "u1", account.UpdateUserInput{
		Email: pointer.To("a@example.com"),
	})
	assert.NoError(t, err)
}

/*
TestUpdateUser_ReplacesProfileImage deletes the old blob only after the
persist succeeded.
*/
func TestUpdateUser_ReplacesProfileImage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service, client := newService(repo, &fakeSessions{})

	oldURL, err := client.Put(ctx, []byte("old"), storage.PutOptions{
		Folder: "profile_images", Filename: "old.png", ContentType: "image/png",
	})
	require.NoError(t, err)

	repo.users["u1"] = &auth.User{ID: "u1", FirstName: "A", LastName: "A", Email: "a@example.com", ProfileImageURL: &oldURL}

	updated, err := service.UpdateUser(ctx, "u1", account.UpdateUserInput{
		Files: map[string]*upload.FileInput{
			"profileImage": {Filename: "new.png", ContentType: "image/png", Data: []byte("new")},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.ProfileImageURL)
	assert.NotEqual(t, oldURL, *updated.ProfileImageURL)
	assert.True(t, client.Has(*updated.ProfileImageURL))
	assert.False(t, client.Has(oldURL))
}

/*
TestDeleteUser_CleansImageAndRevokesSessions covers the full account
teardown.
*/
func TestDeleteUser_CleansImageAndRevokesSessions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	sessions := &fakeSessions{}
	service, client := newService(repo, sessions)

	imageURL, err := client.Put(ctx, []byte("img"), storage.PutOptions{
		Folder: "profile_images", Filename: "me.png", ContentType: "image/png",
	})
	require.NoError(t, err)

	repo.users["u1"] = &auth.User{ID: "u1", FirstName: "A", LastName: "A", Email: "a@example.com", ProfileImageURL: &imageURL}

	require.NoError(t, service.DeleteUser(ctx, "u1"))

	assert.Empty(t, repo.users)
	assert.Equal(t, 0, client.Len())
	assert.Equal(t, []string{"u1"}, sessions.revoked)
}
