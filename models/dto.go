package models

import (
	"github.com/shopspring/decimal"

	dbmodels "github.com/recipebox/recipebox/database/models"
)

// UserDTO is the public view of a user account.
type UserDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func ConvertUserToDTO(user *dbmodels.User) *UserDTO {
	return &UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// RecipeSummaryDTO is the listing shape: everything but the description.
type RecipeSummaryDTO struct {
	ID            int64                  `json:"id"`
	Title         string                 `json:"title"`
	TimeInMinutes int                    `json:"time_in_minutes"`
	Price         decimal.Decimal        `json:"price"`
	Link          string                 `json:"link"`
	Tags          []*dbmodels.Tag        `json:"tags"`
	Ingredients   []*dbmodels.Ingredient `json:"ingredients"`
}

// RecipeDetailDTO adds the fields only the detail view exposes.
type RecipeDetailDTO struct {
	RecipeSummaryDTO
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

func ConvertRecipeToSummaryDTO(recipe *dbmodels.Recipe) *RecipeSummaryDTO {
	tags := recipe.Tags
	if tags == nil {
		tags = []*dbmodels.Tag{}
	}
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = []*dbmodels.Ingredient{}
	}
	return &RecipeSummaryDTO{
		ID:            recipe.ID,
		Title:         recipe.Title,
		TimeInMinutes: recipe.TimeMinutes,
		Price:         recipe.Price,
		Link:          recipe.Link,
		Tags:          tags,
		Ingredients:   ingredients,
	}
}

func ConvertRecipeToDetailDTO(recipe *dbmodels.Recipe, imageURL string) *RecipeDetailDTO {
	return &RecipeDetailDTO{
		RecipeSummaryDTO: *ConvertRecipeToSummaryDTO(recipe),
		Description:      recipe.Description,
		ImageURL:         imageURL,
	}
}

func ConvertRecipesToSummaryDTOs(recipes []*dbmodels.Recipe) []*RecipeSummaryDTO {
	out := make([]*RecipeSummaryDTO, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, ConvertRecipeToSummaryDTO(recipe))
	}
	return out
}
