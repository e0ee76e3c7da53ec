package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox/config"
	"github.com/recipebox/recipebox/database"
	"github.com/recipebox/recipebox/database/models"
	"github.com/recipebox/recipebox/database/repositories"
)

func newTokenFixture(t *testing.T) (*database.DB, *TokenService, *models.User) {
	t.Helper()

	db, err := database.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.InitSchema(context.Background()))

	users := repositories.NewUserRepository(db.BunDB())
	tokens := repositories.NewTokenRepository(db.BunDB())

	user, err := users.Create(context.Background(), repositories.CreateUserParams{
		Email:    "session@example.com",
		Password: "testpass123",
	})
	require.NoError(t, err)

	return db, NewTokenService(tokens, users, 16), user
}

func TestTokenServiceLogin(t *testing.T) {
	_, svc, user := newTokenFixture(t)
	ctx := context.Background()

	token, loggedIn, err := svc.Login(ctx, "session@example.com", "testpass123")
	require.NoError(t, err)
	require.Len(t, token.Key, 40)
	require.Equal(t, user.ID, loggedIn.ID)

	resolved, err := svc.Resolve(ctx, token.Key)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
}

func TestTokenServiceLoginBadCredentials(t *testing.T) {
	_, svc, _ := newTokenFixture(t)

	_, _, err := svc.Login(context.Background(), "session@example.com", "wrongpass")
	require.ErrorIs(t, err, repositories.ErrInvalidCredentials)
}

func TestTokenServiceResolveUnknown(t *testing.T) {
	_, svc, _ := newTokenFixture(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Resolve(ctx, "0000000000000000000000000000000000000000")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceResolveUncached(t *testing.T) {
	db, svc, user := newTokenFixture(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "session@example.com", "testpass123")
	require.NoError(t, err)

	// A fresh service with a cold cache falls through to the database.
	fresh := NewTokenService(
		repositories.NewTokenRepository(db.BunDB()),
		repositories.NewUserRepository(db.BunDB()),
		16,
	)
	resolved, err := fresh.Resolve(ctx, token.Key)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
}

func TestTokenServiceRevoke(t *testing.T) {
	db, svc, _ := newTokenFixture(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "session@example.com", "testpass123")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token.Key))

	_, err = svc.Resolve(ctx, token.Key)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Gone from the database too, not just the cache.
	count, err := db.BunDB().NewSelect().
		Model((*models.AuthToken)(nil)).
		Where("key = ?", token.Key).
		Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}
