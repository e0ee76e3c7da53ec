package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64           `bun:"user_id,notnull" json:"-"`
	Title       string          `bun:"title,notnull" json:"title"`
	Description string          `bun:"description,type:text,default:''" json:"description"`
	TimeMinutes int             `bun:"time_in_minutes,notnull" json:"time_in_minutes"`
	Price       decimal.Decimal `bun:"price,type:numeric(5,2),notnull" json:"price"`
	Link        string          `bun:"link,default:''" json:"link"`
	ImagePath   string          `bun:"image_path,nullzero" json:"-"`

	Tags        []*Tag        `bun:"m2m:recipe_tags,join:Recipe=Tag" json:"tags"`
	Ingredients []*Ingredient `bun:"m2m:recipe_ingredients,join:Recipe=Ingredient" json:"ingredients"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"-"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"-"`
}

// RecipeTag is the join table behind Recipe.Tags.
type RecipeTag struct {
	bun.BaseModel `bun:"table:recipe_tags,alias:rt"`

	RecipeID int64   `bun:"recipe_id,pk"`
	Recipe   *Recipe `bun:"rel:belongs-to,join:recipe_id=id"`
	TagID    int64   `bun:"tag_id,pk"`
	Tag      *Tag    `bun:"rel:belongs-to,join:tag_id=id"`
}

// RecipeIngredient is the join table behind Recipe.Ingredients.
type RecipeIngredient struct {
	bun.BaseModel `bun:"table:recipe_ingredients,alias:ri"`

	RecipeID     int64       `bun:"recipe_id,pk"`
	Recipe       *Recipe     `bun:"rel:belongs-to,join:recipe_id=id"`
	IngredientID int64       `bun:"ingredient_id,pk"`
	Ingredient   *Ingredient `bun:"rel:belongs-to,join:ingredient_id=id"`
}
