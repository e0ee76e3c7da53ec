package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox/auth"
	"github.com/recipebox/recipebox/database/models"
)

func TestUserRepositoryCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserParams{
		Email:    "Chef@EXAMPLE.com",
		Name:     "Chef",
		Password: "kitchen-secret",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "Chef@example.com", user.Email)
	require.True(t, user.IsActive)
	require.False(t, user.IsStaff)

	require.NotEqual(t, "kitchen-secret", user.Password)
	require.True(t, auth.VerifyPassword(user.Password, "kitchen-secret"))
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserParams{Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	// Same address with a differently cased domain collides after
	// normalization.
	_, err = repo.Create(ctx, CreateUserParams{Email: "dup@EXAMPLE.COM", Password: "password2"})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "user", ce.Entity)
}

func TestUserRepositoryCreateMissingFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())
	ctx := context.Background()

	var ve *ValidationError

	_, err := repo.Create(ctx, CreateUserParams{Email: "", Password: "password"})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "email", ve.Field)

	_, err = repo.Create(ctx, CreateUserParams{Email: "nopass@example.com", Password: ""})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "password", ve.Field)
}

func TestUserRepositoryAuthenticate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())
	ctx := context.Background()

	created := seedUser(t, db, "login@example.com")

	user, err := repo.Authenticate(ctx, "login@example.com", "testpass123")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	// The normalized form matches too.
	_, err = repo.Authenticate(ctx, "login@EXAMPLE.COM", "testpass123")
	require.NoError(t, err)

	_, err = repo.Authenticate(ctx, "login@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repo.Authenticate(ctx, "ghost@example.com", "testpass123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserRepositoryAuthenticateInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())
	ctx := context.Background()

	user := seedUser(t, db, "inactive@example.com")
	_, err := db.BunDB().NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", user.ID).
		Exec(ctx)
	require.NoError(t, err)

	_, err = repo.Authenticate(ctx, "inactive@example.com", "testpass123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())
	ctx := context.Background()

	user := seedUser(t, db, "patch@example.com")

	name := "New Name"
	updated, err := repo.Update(ctx, user.ID, UserPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)

	// Name-only patch leaves the password working.
	_, err = repo.Authenticate(ctx, "patch@example.com", "testpass123")
	require.NoError(t, err)

	password := "freshpass456"
	_, err = repo.Update(ctx, user.ID, UserPatch{Password: &password})
	require.NoError(t, err)

	_, err = repo.Authenticate(ctx, "patch@example.com", "testpass123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	reloaded, err := repo.Authenticate(ctx, "patch@example.com", "freshpass456")
	require.NoError(t, err)
	require.Equal(t, "New Name", reloaded.Name)
}

func TestUserRepositoryUpdateRejectsEmptyPassword(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())

	user := seedUser(t, db, "empty@example.com")

	empty := ""
	_, err := repo.Update(context.Background(), user.ID, UserPatch{Password: &empty})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUserRepositoryUpdateUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.BunDB())

	name := "Nobody"
	_, err := repo.Update(context.Background(), 9999, UserPatch{Name: &name})
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
}
