package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/recipebox/recipebox/database/models"
)

// IngredientRepository mirrors TagRepository; tags and ingredients share the
// same ownership and dedup discipline.
type IngredientRepository interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Ingredient, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.Ingredient, error)
	GetOrCreate(ctx context.Context, idb bun.IDB, userID int64, name string) (*models.Ingredient, error)
	Update(ctx context.Context, id, userID int64, name string) (*models.Ingredient, error)
	Delete(ctx context.Context, id, userID int64) error
}

type ingredientRepository struct {
	db *bun.DB
}

func NewIngredientRepository(db *bun.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	q := r.db.NewSelect().
		Model(&ingredients).
		Where("i.user_id = ?", userID).
		Order("i.name DESC")
	if assignedOnly {
		q = q.Distinct().
			Join("JOIN recipe_ingredients AS ri ON ri.ingredient_id = i.id")
	}
	err := q.Scan(ctx)
	return ingredients, err
}

func (r *ingredientRepository) GetForUser(ctx context.Context, id, userID int64) (*models.Ingredient, error) {
	ingredient := new(models.Ingredient)
	err := r.db.NewSelect().
		Model(ingredient).
		Where("i.id = ? AND i.user_id = ?", id, userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "ingredient", ID: id}
	}
	return ingredient, err
}

func (r *ingredientRepository) GetOrCreate(ctx context.Context, idb bun.IDB, userID int64, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	ingredient := &models.Ingredient{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	_, err := idb.NewInsert().
		Model(ingredient).
		On("CONFLICT (user_id, name) DO UPDATE").
		Set("name = EXCLUDED.name").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (r *ingredientRepository) Update(ctx context.Context, id, userID int64, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	ingredient, err := r.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	ingredient.Name = name
	if _, err := r.db.NewUpdate().
		Model(ingredient).
		Column("name").
		WherePK().
		Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "ingredient", Field: "name", Value: name}
		}
		return nil, err
	}
	return ingredient, nil
}

func (r *ingredientRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Ingredient)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "ingredient", ID: id}
	}

	_, err = r.db.NewDelete().
		Model((*models.RecipeIngredient)(nil)).
		Where("ingredient_id = ?", id).
		Exec(ctx)
	return err
}
