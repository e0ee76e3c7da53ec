package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox/config"
	"github.com/recipebox/recipebox/database"
	"github.com/recipebox/recipebox/database/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.InitSchema(context.Background()))
	return db
}

func seedUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()

	user, err := NewUserRepository(db.BunDB()).Create(context.Background(), CreateUserParams{
		Email:    email,
		Name:     "Test User",
		Password: "testpass123",
	})
	require.NoError(t, err)
	return user
}

func seedRecipe(t *testing.T, repo RecipeRepository, userID int64, title string, tagNames, ingredientNames []string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: 15,
		Price:       decimal.New(550, -2),
	}
	require.NoError(t, repo.Create(context.Background(), recipe, tagNames, ingredientNames))
	return recipe
}
