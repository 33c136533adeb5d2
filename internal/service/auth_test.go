package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
)

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, created, err := env.users.CreateIfAbsent(ctx, CreateUserRequest{
		Email:    "Reader@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.True(t, created)

	resp, err := env.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	user, err := env.auth.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestAuthService_Login_WrongCredentials(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, _, err := env.users.CreateIfAbsent(ctx, CreateUserRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	env.createUser(t, "nopassword@example.com")

	tests := []LoginRequest{
		{Email: "a@example.com", Password: "wrong-password"},
		{Email: "missing@example.com", Password: "password123"},
		{Email: "nopassword@example.com", Password: "anything"},
	}
	for _, req := range tests {
		_, err := env.auth.Login(ctx, req)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized, req.Email)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.auth.Login(context.Background(), LoginRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Authenticate(ctx, "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// A valid token for a user that was never stored.
	ghost := env.createUser(t, "ghost@example.com")
	ghost.ID = "user-missing"
	token, _, err := env.tokens.GenerateAccessToken(ghost)
	require.NoError(t, err)

	_, err = env.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
