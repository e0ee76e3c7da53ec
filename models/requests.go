package models

import (
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"max=255"`
}

type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type MeUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// NamedItem is the nested {"name": ...} shape tags and ingredients use in
// recipe payloads.
type NamedItem struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" validate:"required,max=255"`
}

type RecipeCreateRequest struct {
	Title         string          `json:"title" validate:"required,max=255"`
	TimeInMinutes int             `json:"time_in_minutes" validate:"required,min=1"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	Description   string          `json:"description"`
	Link          string          `json:"link" validate:"max=255"`
	Tags          []NamedItem     `json:"tags" validate:"dive"`
	Ingredients   []NamedItem     `json:"ingredients" validate:"dive"`
}

// RecipeUpdateRequest distinguishes absent keys from present-but-empty ones:
// nil pointers leave the field untouched, and a present tags/ingredients key
// (even an empty list) replaces the whole association set.
type RecipeUpdateRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1,max=255"`
	TimeInMinutes *int             `json:"time_in_minutes" validate:"omitempty,min=1"`
	Price         *decimal.Decimal `json:"price"`
	Description   *string          `json:"description"`
	Link          *string          `json:"link" validate:"omitempty,max=255"`
	Tags          *[]NamedItem     `json:"tags" validate:"omitempty,dive"`
	Ingredients   *[]NamedItem     `json:"ingredients" validate:"omitempty,dive"`
}

type NameUpdateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Names flattens nested items to their name list.
func Names(items []NamedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
