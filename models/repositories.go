package models

import (
	"github.com/recipebox/recipebox/database/repositories"
)

// Repositories aggregates the data access layer for handler wiring.
type Repositories struct {
	User       repositories.UserRepository
	Token      repositories.TokenRepository
	Tag        repositories.TagRepository
	Ingredient repositories.IngredientRepository
	Recipe     repositories.RecipeRepository
}

func NewRepositories(
	user repositories.UserRepository,
	token repositories.TokenRepository,
	tag repositories.TagRepository,
	ingredient repositories.IngredientRepository,
	recipe repositories.RecipeRepository,
) *Repositories {
	return &Repositories{
		User:       user,
		Token:      token,
		Tag:        tag,
		Ingredient: ingredient,
		Recipe:     recipe,
	}
}
