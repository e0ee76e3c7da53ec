package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/recipebox/recipebox/handlers"
	"github.com/recipebox/recipebox/utils"
)

// AuthRequired middleware ensures the request carries a valid API token.
// It rejects before any entity lookup happens.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, key, err := webApp.AuthenticateRequest(c)
		if err != nil {
			slog.Debug("Auth required: no valid token", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}

		c.Locals("user", user)
		c.Locals("token_key", key)
		return c.Next()
	}
}

// StaffRequired middleware ensures the authenticated user has staff
// privileges. Must run after AuthRequired.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			slog.Warn("Staff required: no user in context")
			return utils.SendForbidden(c, "Access denied")
		}
		if !user.IsStaff {
			slog.Warn("Staff required: user lacks staff privileges",
				slog.Int64("user_id", user.ID))
			return utils.SendForbidden(c, "Staff access required")
		}
		return c.Next()
	}
}
