//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/jwt"
	"fitbook/internal/pkg/password"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberReadStore struct {
	byID    map[uuid.UUID]*queries.AuthorizedMemberView
	byEmail map[string]*queries.AuthorizedMemberView
	hashes  map[string]string
}

func (f *fakeMemberReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedMemberView, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, errs.New("member not found")
	}
	return v, nil
}

func (f *fakeMemberReadStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedMemberView, string, error) {
	v, ok := f.byEmail[email]
	if !ok {
		return nil, "", errs.New("member not found")
	}
	return v, f.hashes[email], nil
}

func newAuthFixture(t *testing.T) (commands.AuthCommands, *jwt.Service, *fakeMemberReadStore, *queries.AuthorizedMemberView) {
	t.Helper()

	hash, err := password.HashPassword("password123")
	require.NoError(t, err)

	view := &queries.AuthorizedMemberView{
		ID:       uuid.New(),
		BranchID: uuid.New(),
		Email:    "member@example.com",
		FullName: "Test Member",
		Role:     "member",
		IsActive: true,
	}

	store := &fakeMemberReadStore{
		byID:    map[uuid.UUID]*queries.AuthorizedMemberView{view.ID: view},
		byEmail: map[string]*queries.AuthorizedMemberView{view.Email: view},
		hashes:  map[string]string{view.Email: hash},
	}

	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	return commands.NewAuthCommands(store, jwtService), jwtService, store, view
}

func TestLogin(t *testing.T) {
	t.Run("success: issues an access and refresh token pair", func(t *testing.T) {
		auth, jwtService, _, view := newAuthFixture(t)

		result, err := auth.Login(t.Context(), view.Email, "password123")
		require.NoError(t, err)

		assert.Equal(t, view.ID, result.MemberID)
		assert.Equal(t, view.BranchID, result.BranchID)
		require.NotNil(t, result.TokenPair)

		claims, err := jwtService.ValidateToken(result.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, view.ID, claims.MemberID)
		assert.Equal(t, view.BranchID, claims.BranchID)
		assert.Equal(t, "member", claims.Role)
	})

	t.Run("error: wrong password", func(t *testing.T) {
		auth, _, _, view := newAuthFixture(t)

		_, err := auth.Login(t.Context(), view.Email, "wrong-password")
		require.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("error: unknown email reads as invalid credentials", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)

		_, err := auth.Login(t.Context(), "nobody@example.com", "password123")
		require.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("error: deactivated member", func(t *testing.T) {
		auth, _, _, view := newAuthFixture(t)
		view.IsActive = false

		_, err := auth.Login(t.Context(), view.Email, "password123")
		require.ErrorIs(t, err, commands.ErrMemberInactive)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("success: refresh token yields a fresh pair", func(t *testing.T) {
		auth, jwtService, _, view := newAuthFixture(t)

		result, err := auth.Login(t.Context(), view.Email, "password123")
		require.NoError(t, err)

		pair, err := auth.RefreshToken(t.Context(), result.TokenPair.RefreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, view.ID, claims.MemberID)
	})

	t.Run("error: access token is not accepted for refresh", func(t *testing.T) {
		auth, _, _, view := newAuthFixture(t)

		result, err := auth.Login(t.Context(), view.Email, "password123")
		require.NoError(t, err)

		_, err = auth.RefreshToken(t.Context(), result.TokenPair.AccessToken)
		require.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("error: garbage token", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)

		_, err := auth.RefreshToken(t.Context(), "not-a-token")
		require.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("error: member deactivated after the token was issued", func(t *testing.T) {
		auth, _, _, view := newAuthFixture(t)

		result, err := auth.Login(t.Context(), view.Email, "password123")
		require.NoError(t, err)

		view.IsActive = false
		_, err = auth.RefreshToken(t.Context(), result.TokenPair.RefreshToken)
		require.ErrorIs(t, err, commands.ErrMemberInactive)
	})

	t.Run("error: member deleted after the token was issued", func(t *testing.T) {
		auth, _, store, view := newAuthFixture(t)

		result, err := auth.Login(t.Context(), view.Email, "password123")
		require.NoError(t, err)

		delete(store.byID, view.ID)
		_, err = auth.RefreshToken(t.Context(), result.TokenPair.RefreshToken)
		require.ErrorIs(t, err, commands.ErrMemberNotFound)
	})
}
