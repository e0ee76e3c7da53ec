package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/recipebox/recipebox/database/models"
	"github.com/recipebox/recipebox/database/repositories"
	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/utils"
)

// RecipesList lists the requester's recipes, most recent first. Supports
// ?tags=1,2 and ?ingredients=3,4 id filters.
func RecipesList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		tagIDs, err := utils.ParseIDList(c.Query("tags"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid tags filter", map[string]string{"tags": err.Error()})
		}
		ingredientIDs, err := utils.ParseIDList(c.Query("ingredients"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid ingredients filter", map[string]string{"ingredients": err.Error()})
		}

		recipes, err := webApp.Repos.Recipe.List(c.Context(), user.ID, repositories.RecipeFilter{
			TagIDs:        tagIDs,
			IngredientIDs: ingredientIDs,
		})
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, webmodels.ConvertRecipesToSummaryDTOs(recipes), "")
	}
}

// RecipesCreate creates a recipe owned by the authenticated user. Nested tag
// and ingredient names are resolved to the user's existing entries or
// created on the fly. The owner always comes from the token, never the body.
func RecipesCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		var req webmodels.RecipeCreateRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		recipe := &dbmodels.Recipe{
			UserID:      user.ID,
			Title:       req.Title,
			Description: req.Description,
			TimeMinutes: req.TimeInMinutes,
			Price:       req.Price,
			Link:        req.Link,
		}
		err := webApp.Repos.Recipe.Create(c.Context(), recipe,
			webmodels.Names(req.Tags),
			webmodels.Names(req.Ingredients))
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}

		slog.Info("Recipe created",
			slog.Int64("recipe_id", recipe.ID),
			slog.Int64("user_id", user.ID),
			slog.String("title", recipe.Title))

		return utils.SendCreated(c, webmodels.ConvertRecipeToDetailDTO(recipe, ""), "Recipe created successfully")
	}
}

// RecipesDetail returns one of the requester's recipes with all fields.
func RecipesDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid recipe id", nil)
		}

		recipe, err := webApp.Repos.Recipe.GetForUser(c.Context(), id, user.ID)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, webmodels.ConvertRecipeToDetailDTO(recipe, webApp.Images.ImageURL(recipe.ImagePath)), "")
	}
}

// RecipesUpdate handles PUT and PATCH. Only supplied scalar fields change;
// a present tags/ingredients key replaces that whole set, an absent key
// leaves it untouched.
func RecipesUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid recipe id", nil)
		}

		var req webmodels.RecipeUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		patch := repositories.RecipePatch{
			Title:       req.Title,
			Description: req.Description,
			TimeMinutes: req.TimeInMinutes,
			Price:       req.Price,
			Link:        req.Link,
		}
		if req.Tags != nil {
			patch.TagNames = webmodels.Names(*req.Tags)
			if patch.TagNames == nil {
				patch.TagNames = []string{}
			}
		}
		if req.Ingredients != nil {
			patch.IngredientNames = webmodels.Names(*req.Ingredients)
			if patch.IngredientNames == nil {
				patch.IngredientNames = []string{}
			}
		}

		recipe, err := webApp.Repos.Recipe.Update(c.Context(), id, user.ID, patch)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, webmodels.ConvertRecipeToDetailDTO(recipe, webApp.Images.ImageURL(recipe.ImagePath)), "Recipe updated successfully")
	}
}

// RecipesDelete removes one of the requester's recipes.
func RecipesDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid recipe id", nil)
		}

		if err := webApp.Repos.Recipe.Delete(c.Context(), id, user.ID); err != nil {
			return utils.SendRepositoryError(c, err)
		}

		slog.Info("Recipe deleted",
			slog.Int64("recipe_id", id),
			slog.Int64("user_id", user.ID))

		return utils.SendNoContent(c)
	}
}

// RecipesUploadImage stores a multipart "image" file for the recipe.
func RecipesUploadImage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid recipe id", nil)
		}

		file, err := c.FormFile("image")
		if err != nil {
			return utils.SendBadRequest(c, "Missing image file", map[string]string{"image": "an image file is required"})
		}

		url, err := webApp.Images.UploadRecipeImage(c.Context(), id, user.ID, file)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}

		slog.Info("Recipe image uploaded",
			slog.Int64("recipe_id", id),
			slog.Int64("user_id", user.ID))

		return utils.SendSuccess(c, fiber.Map{"id": id, "image_url": url}, "Image uploaded successfully")
	}
}
