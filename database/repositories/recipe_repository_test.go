package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox/database"
	"github.com/recipebox/recipebox/database/models"
)

func newRecipeRepos(t *testing.T) (*testRepos, context.Context) {
	t.Helper()
	db := newTestDB(t)
	tags := NewTagRepository(db.BunDB())
	ingredients := NewIngredientRepository(db.BunDB())
	return &testRepos{
		db:          db,
		tags:        tags,
		ingredients: ingredients,
		recipes:     NewRecipeRepository(db.BunDB(), tags, ingredients),
	}, context.Background()
}

type testRepos struct {
	db          *database.DB
	tags        TagRepository
	ingredients IngredientRepository
	recipes     RecipeRepository
}

func TestRecipeCreateReconcilesNames(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "create@example.com")

	// Duplicate input names collapse to one membership.
	recipe := seedRecipe(t, r.recipes, user.ID, "Jollof Rice",
		[]string{"Dinner", "Dinner", "West African"},
		[]string{"Rice", "Tomato"})

	require.NotZero(t, recipe.ID)
	require.Len(t, recipe.Tags, 2)
	require.Len(t, recipe.Ingredients, 2)

	// A second recipe naming an existing tag reuses it.
	second := seedRecipe(t, r.recipes, user.ID, "Fried Rice", []string{"Dinner"}, nil)
	require.Equal(t, recipe.Tags[0].ID, second.Tags[0].ID)

	tags, err := r.tags.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 2)
}

func TestRecipeCreateValidation(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "invalid@example.com")

	var ve *ValidationError

	err := r.recipes.Create(ctx, &models.Recipe{UserID: user.ID}, nil, nil)
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "title", ve.Field)

	recipe := &models.Recipe{UserID: user.ID, Title: "Toast", TimeMinutes: 5, Price: decimal.New(100, -2)}
	err = r.recipes.Create(ctx, recipe, []string{"  "}, nil)
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "tags", ve.Field)

	// The failed create left nothing behind.
	recipes, err := r.recipes.List(ctx, user.ID, RecipeFilter{})
	require.NoError(t, err)
	require.Empty(t, recipes)
}

func TestRecipeListOrderAndScope(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "list@example.com")
	other := seedUser(t, r.db, "neighbor@example.com")

	first := seedRecipe(t, r.recipes, user.ID, "First", nil, nil)
	second := seedRecipe(t, r.recipes, user.ID, "Second", nil, nil)
	seedRecipe(t, r.recipes, other.ID, "Not Mine", nil, nil)

	recipes, err := r.recipes.List(ctx, user.ID, RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	require.Equal(t, second.ID, recipes[0].ID)
	require.Equal(t, first.ID, recipes[1].ID)
}

func TestRecipeListFilters(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "filter@example.com")

	curry := seedRecipe(t, r.recipes, user.ID, "Curry", []string{"Dinner"}, []string{"Cumin"})
	salad := seedRecipe(t, r.recipes, user.ID, "Salad", []string{"Lunch"}, []string{"Lettuce"})
	seedRecipe(t, r.recipes, user.ID, "Plain", nil, nil)

	byTag, err := r.recipes.List(ctx, user.ID, RecipeFilter{TagIDs: []int64{curry.Tags[0].ID}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	require.Equal(t, curry.ID, byTag[0].ID)

	byIngredient, err := r.recipes.List(ctx, user.ID, RecipeFilter{IngredientIDs: []int64{salad.Ingredients[0].ID}})
	require.NoError(t, err)
	require.Len(t, byIngredient, 1)
	require.Equal(t, salad.ID, byIngredient[0].ID)

	// Either-of within a dimension.
	either, err := r.recipes.List(ctx, user.ID, RecipeFilter{
		TagIDs: []int64{curry.Tags[0].ID, salad.Tags[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, either, 2)

	// Dimensions combine with AND: curry's tag plus salad's ingredient
	// matches nothing.
	none, err := r.recipes.List(ctx, user.ID, RecipeFilter{
		TagIDs:        []int64{curry.Tags[0].ID},
		IngredientIDs: []int64{salad.Ingredients[0].ID},
	})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRecipeGetForUserCrossUser(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	owner := seedUser(t, r.db, "mine@example.com")
	intruder := seedUser(t, r.db, "theirs@example.com")

	recipe := seedRecipe(t, r.recipes, owner.ID, "Secret Sauce", nil, nil)

	_, err := r.recipes.GetForUser(ctx, recipe.ID, intruder.ID)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)

	// Still there for the owner.
	_, err = r.recipes.GetForUser(ctx, recipe.ID, owner.ID)
	require.NoError(t, err)
}

func TestRecipeUpdateScalars(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "scalars@example.com")

	recipe := seedRecipe(t, r.recipes, user.ID, "Old Title", []string{"Dinner"}, nil)

	title := "New Title"
	price := decimal.New(999, -2)
	updated, err := r.recipes.Update(ctx, recipe.ID, user.ID, RecipePatch{
		Title: &title,
		Price: &price,
	})
	require.NoError(t, err)
	require.Equal(t, "New Title", updated.Title)
	require.True(t, price.Equal(updated.Price))
	require.Equal(t, recipe.TimeMinutes, updated.TimeMinutes)

	// Absent tag key leaves the association set untouched.
	require.Len(t, updated.Tags, 1)
}

func TestRecipeUpdateTagsReplaceAndClear(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "sets@example.com")

	recipe := seedRecipe(t, r.recipes, user.ID, "Stir Fry", []string{"Dinner"}, []string{"Soy Sauce"})

	updated, err := r.recipes.Update(ctx, recipe.ID, user.ID, RecipePatch{
		TagNames: []string{"Quick", "Weeknight"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 2)
	require.Len(t, updated.Ingredients, 1)

	// The detached tag row itself survives.
	_, err = r.tags.GetForUser(ctx, recipe.Tags[0].ID, user.ID)
	require.NoError(t, err)

	// A present-but-empty list clears the whole set.
	cleared, err := r.recipes.Update(ctx, recipe.ID, user.ID, RecipePatch{
		TagNames: []string{},
	})
	require.NoError(t, err)
	require.Empty(t, cleared.Tags)
	require.Len(t, cleared.Ingredients, 1)
}

func TestRecipeUpdateCrossUser(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	owner := seedUser(t, r.db, "keeper@example.com")
	intruder := seedUser(t, r.db, "grabber@example.com")

	recipe := seedRecipe(t, r.recipes, owner.ID, "Original", nil, nil)

	title := "Hijacked"
	_, err := r.recipes.Update(ctx, recipe.ID, intruder.ID, RecipePatch{Title: &title})
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)

	reloaded, err := r.recipes.GetForUser(ctx, recipe.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Original", reloaded.Title)
}

func TestRecipeDelete(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "remove@example.com")

	recipe := seedRecipe(t, r.recipes, user.ID, "Leftovers", []string{"Dinner"}, []string{"Rice"})

	require.NoError(t, r.recipes.Delete(ctx, recipe.ID, user.ID))

	_, err := r.recipes.GetForUser(ctx, recipe.ID, user.ID)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)

	// Tags and ingredients outlive the recipe, just unassigned now.
	tags, err := r.tags.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assigned, err := r.tags.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Empty(t, assigned)

	err = r.recipes.Delete(ctx, recipe.ID, user.ID)
	require.ErrorAs(t, err, &nfe)
}

func TestRecipeSetImagePath(t *testing.T) {
	r, ctx := newRecipeRepos(t)
	user := seedUser(t, r.db, "photo@example.com")

	recipe := seedRecipe(t, r.recipes, user.ID, "Tart", nil, nil)

	previous, err := r.recipes.SetImagePath(ctx, recipe.ID, user.ID, "uploads/recipe/one.jpg")
	require.NoError(t, err)
	require.Empty(t, previous)

	previous, err = r.recipes.SetImagePath(ctx, recipe.ID, user.ID, "uploads/recipe/two.jpg")
	require.NoError(t, err)
	require.Equal(t, "uploads/recipe/one.jpg", previous)

	reloaded, err := r.recipes.GetForUser(ctx, recipe.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, "uploads/recipe/two.jpg", reloaded.ImagePath)
}
