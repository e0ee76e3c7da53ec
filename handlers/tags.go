package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/utils"
)

// TagsList lists the requester's tags ordered by name descending.
// ?assigned_only=1 restricts to tags attached to at least one recipe.
func TagsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		assignedOnly := utils.ParseBoolParam(c.Query("assigned_only"))
		tags, err := webApp.Repos.Tag.List(c.Context(), user.ID, assignedOnly)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, tags, "")
	}
}

// TagsUpdate renames one of the requester's tags.
func TagsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid tag id", nil)
		}

		var req webmodels.NameUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		tag, err := webApp.Repos.Tag.Update(c.Context(), id, user.ID, req.Name)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, tag, "Tag updated successfully")
	}
}

// TagsDelete removes one of the requester's tags.
func TagsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		id, err := parseIDParam(c)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid tag id", nil)
		}

		if err := webApp.Repos.Tag.Delete(c.Context(), id, user.ID); err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendNoContent(c)
	}
}
