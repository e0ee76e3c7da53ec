package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/utils"
)

// IngredientsList lists the requester's ingredients ordered by name
// descending, optionally restricted to assigned ones.
func IngredientsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		assignedOnly := utils.ParseBoolParam(c.Query("assigned_only"))
		ingredients, err := webApp.Repos.Ingredient.List(c.Context(), user.ID, assignedOnly)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, ingredients, "")
	}
}

// IngredientsUpdate renames one of the requester's ingredients.
func IngredientsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid ingredient id", nil)
		}

		var req webmodels.NameUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		ingredient, err := webApp.Repos.Ingredient.Update(c.Context(), id, user.ID, req.Name)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, ingredient, "Ingredient updated successfully")
	}
}

// IngredientsDelete removes one of the requester's ingredients.
func IngredientsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid ingredient id", nil)
		}

		if err := webApp.Repos.Ingredient.Delete(c.Context(), id, user.ID); err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendNoContent(c)
	}
}
