// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/sec"
	"github.com/hoangbui/komiko/internal/users/account"
)

// # Test Fakes

type fakeUserRepository struct {
	users map[string]*account.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*account.User{}}
}

func (repository *fakeUserRepository) Create(_ context.Context, user *account.User) error {
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*account.User, error) {
	if user, ok := repository.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("user")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range repository.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*account.User, error) {
	for _, user := range repository.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

type fakeSessionRepository struct {
	sessions map[string]string
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]string{}}
}

func (repository *fakeSessionRepository) Set(_ context.Context, token string, userID string, _ time.Duration) error {
	repository.sessions[token] = userID
	return nil
}

func (repository *fakeSessionRepository) Get(_ context.Context, token string) (string, error) {
	if userID, ok := repository.sessions[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Refresh token")
}

func (repository *fakeSessionRepository) Delete(_ context.Context, token string) error {
	delete(repository.sessions, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "signed." + userID, nil
}

func newTestService() (*account.Service, *fakeUserRepository, *fakeSessionRepository) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(users, sessions, fakeTokenProvider{}, logger), users, sessions
}

func register(t *testing.T, service *account.Service) *account.User {
	t.Helper()
	user, err := service.Register(context.Background(), account.RegisterInput{
		Username: "inkwell",
		Email:    "ink@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestRegister_HashesPasswordAndAssignsRole verifies the stored account
never carries the plain-text password.
*/
func TestRegister_HashesPasswordAndAssignsRole(t *testing.T) {
	service, users, _ := newTestService()

	user := register(t, service)

	stored := users.users[user.ID]
	require.NotNil(t, stored)
	assert.Equal(t, sec.RoleMember, stored.Role)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse", stored.PasswordHash))
}

/*
TestRegister_RejectsDuplicateIdentity verifies email and username
uniqueness surfaces as a Conflict.
*/
func TestRegister_RejectsDuplicateIdentity(t *testing.T) {
	service, _, _ := newTestService()
	register(t, service)

	_, err := service.Register(context.Background(), account.RegisterInput{
		Username: "someoneelse",
		Email:    "ink@example.com",
		Password: "long enough",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = service.Register(context.Background(), account.RegisterInput{
		Username: "inkwell",
		Email:    "other@example.com",
		Password: "long enough",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Sessions

/*
TestLogin_ByUsernameOrEmail verifies both identifiers open a session and
bad credentials yield one generic error.
*/
func TestLogin_ByUsernameOrEmail(t *testing.T) {
	service, _, _ := newTestService()
	register(t, service)

	session, err := service.Login(context.Background(), account.LoginInput{Login: "ink@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	session, err = service.Login(context.Background(), account.LoginInput{Login: "inkwell", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.RefreshToken)

	// Wrong password and unknown user must be indistinguishable.
	_, badPassword := service.Login(context.Background(), account.LoginInput{Login: "inkwell", Password: "nope nope"})
	_, unknownUser := service.Login(context.Background(), account.LoginInput{Login: "ghost", Password: "nope nope"})
	require.Error(t, badPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, badPassword.Error(), unknownUser.Error())
}

/*
TestRefresh_RotatesToken verifies a refresh token is single-use.
*/
func TestRefresh_RotatesToken(t *testing.T) {
	service, _, sessions := newTestService()
	register(t, service)

	session, err := service.Login(context.Background(), account.LoginInput{Login: "inkwell", Password: "correct horse"})
	require.NoError(t, err)

	fresh, err := service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, fresh.RefreshToken)
	assert.NotContains(t, sessions.sessions, session.RefreshToken)

	// The old token is burned.
	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestLogout_RevokesSession verifies logout removes the refresh session.
*/
func TestLogout_RevokesSession(t *testing.T) {
	service, _, sessions := newTestService()
	register(t, service)

	session, err := service.Login(context.Background(), account.LoginInput{Login: "inkwell", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.Empty(t, sessions.sessions)
}
