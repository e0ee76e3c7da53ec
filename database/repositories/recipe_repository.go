package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/recipebox/recipebox/database/models"
)

// RecipeFilter narrows a listing to recipes associated with any of the given
// tag ids and any of the given ingredient ids. Empty dimensions impose no
// restriction; supplied dimensions combine with AND.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipePatch carries a partial update. Nil scalar pointers leave the field
// untouched. Nil name slices leave the association set untouched; a non-nil
// empty slice clears it.
type RecipePatch struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string

	TagNames        []string
	IngredientNames []string
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames []string) error
	List(ctx context.Context, userID int64, filter RecipeFilter) ([]*models.Recipe, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.Recipe, error)
	Update(ctx context.Context, id, userID int64, patch RecipePatch) (*models.Recipe, error)
	Delete(ctx context.Context, id, userID int64) error
	// SetImagePath stores the path of a freshly uploaded image and returns
	// the previous path so the caller can dispose of the old file.
	SetImagePath(ctx context.Context, id, userID int64, path string) (string, error)
}

type recipeRepository struct {
	db          *bun.DB
	tags        TagRepository
	ingredients IngredientRepository
}

func NewRecipeRepository(db *bun.DB, tags TagRepository, ingredients IngredientRepository) RecipeRepository {
	return &recipeRepository{
		db:          db,
		tags:        tags,
		ingredients: ingredients,
	}
}

// Create persists the recipe and attaches its reconciled tag and ingredient
// sets in one transaction. The recipe owner must already be set; names are
// resolved against that owner only.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames []string) error {
	if recipe.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := validateNames("tags", tagNames); err != nil {
		return err
	}
	if err := validateNames("ingredients", ingredientNames); err != nil {
		return err
	}

	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = time.Now()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(recipe).Exec(ctx); err != nil {
			return err
		}

		tags, err := r.reconcileTags(ctx, tx, recipe, tagNames)
		if err != nil {
			return err
		}
		recipe.Tags = tags

		ingredients, err := r.reconcileIngredients(ctx, tx, recipe, ingredientNames)
		if err != nil {
			return err
		}
		recipe.Ingredients = ingredients
		return nil
	})
	return err
}

func (r *recipeRepository) List(ctx context.Context, userID int64, filter RecipeFilter) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	q := r.db.NewSelect().
		Model(&recipes).
		Relation("Tags").
		Relation("Ingredients").
		Where("r.user_id = ?", userID).
		Order("r.id DESC")

	// A recipe associated with several matching tags would otherwise appear
	// once per match, hence the DISTINCT.
	if len(filter.TagIDs) > 0 {
		q = q.Distinct().
			Join("JOIN recipe_tags AS rtf ON rtf.recipe_id = r.id").
			Where("rtf.tag_id IN (?)", bun.In(filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Distinct().
			Join("JOIN recipe_ingredients AS rif ON rif.recipe_id = r.id").
			Where("rif.ingredient_id IN (?)", bun.In(filter.IngredientIDs))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetForUser(ctx context.Context, id, userID int64) (*models.Recipe, error) {
	recipe := new(models.Recipe)
	err := r.db.NewSelect().
		Model(recipe).
		Relation("Tags").
		Relation("Ingredients").
		Where("r.id = ? AND r.user_id = ?", id, userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "recipe", ID: id}
	}
	return recipe, err
}

func (r *recipeRepository) Update(ctx context.Context, id, userID int64, patch RecipePatch) (*models.Recipe, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := validateNames("tags", patch.TagNames); err != nil {
		return nil, err
	}
	if err := validateNames("ingredients", patch.IngredientNames); err != nil {
		return nil, err
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		recipe := new(models.Recipe)
		err := tx.NewSelect().
			Model(recipe).
			Where("r.id = ? AND r.user_id = ?", id, userID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "recipe", ID: id}
		}
		if err != nil {
			return err
		}

		columns := []string{"updated_at"}
		if patch.Title != nil {
			recipe.Title = *patch.Title
			columns = append(columns, "title")
		}
		if patch.Description != nil {
			recipe.Description = *patch.Description
			columns = append(columns, "description")
		}
		if patch.TimeMinutes != nil {
			recipe.TimeMinutes = *patch.TimeMinutes
			columns = append(columns, "time_in_minutes")
		}
		if patch.Price != nil {
			recipe.Price = *patch.Price
			columns = append(columns, "price")
		}
		if patch.Link != nil {
			recipe.Link = *patch.Link
			columns = append(columns, "link")
		}

		recipe.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().
			Model(recipe).
			Column(columns...).
			WherePK().
			Exec(ctx); err != nil {
			return err
		}

		// Replace-all set semantics: a present key clears the prior set and
		// attaches the newly reconciled one, even when the list is empty.
		if patch.TagNames != nil {
			if _, err := tx.NewDelete().
				Model((*models.RecipeTag)(nil)).
				Where("recipe_id = ?", recipe.ID).
				Exec(ctx); err != nil {
				return err
			}
			if _, err := r.reconcileTags(ctx, tx, recipe, patch.TagNames); err != nil {
				return err
			}
		}
		if patch.IngredientNames != nil {
			if _, err := tx.NewDelete().
				Model((*models.RecipeIngredient)(nil)).
				Where("recipe_id = ?", recipe.ID).
				Exec(ctx); err != nil {
				return err
			}
			if _, err := r.reconcileIngredients(ctx, tx, recipe, patch.IngredientNames); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetForUser(ctx, id, userID)
}

func (r *recipeRepository) Delete(ctx context.Context, id, userID int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Recipe)(nil)).
			Where("id = ? AND user_id = ?", id, userID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return &NotFoundError{Entity: "recipe", ID: id}
		}

		if _, err := tx.NewDelete().
			Model((*models.RecipeTag)(nil)).
			Where("recipe_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model((*models.RecipeIngredient)(nil)).
			Where("recipe_id = ?", id).
			Exec(ctx)
		return err
	})
}

func (r *recipeRepository) SetImagePath(ctx context.Context, id, userID int64, path string) (string, error) {
	recipe, err := r.GetForUser(ctx, id, userID)
	if err != nil {
		return "", err
	}

	previous := recipe.ImagePath
	recipe.ImagePath = path
	recipe.UpdatedAt = time.Now()
	if _, err := r.db.NewUpdate().
		Model(recipe).
		Column("image_path", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return "", err
	}
	return previous, nil
}

// reconcileTags resolves each requested name to the owner's existing or newly
// created tag and inserts the join rows. Duplicate names collapse to a single
// membership.
func (r *recipeRepository) reconcileTags(ctx context.Context, tx bun.Tx, recipe *models.Recipe, names []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := r.tags.GetOrCreate(ctx, tx, recipe.UserID, name)
		if err != nil {
			return nil, err
		}
		if _, err := tx.NewInsert().
			Model(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).
			Exec(ctx); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *recipeRepository) reconcileIngredients(ctx context.Context, tx bun.Tx, recipe *models.Recipe, names []string) ([]*models.Ingredient, error) {
	ingredients := make([]*models.Ingredient, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		ingredient, err := r.ingredients.GetOrCreate(ctx, tx, recipe.UserID, name)
		if err != nil {
			return nil, err
		}
		if _, err := tx.NewInsert().
			Model(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID}).
			Exec(ctx); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// validateNames rejects malformed entries before any mutation happens, so a
// bad item never leaves a partially attached set behind.
func validateNames(field string, names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Field: field, Message: "name is required"}
		}
	}
	return nil
}
