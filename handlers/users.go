package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/recipebox/recipebox/database/repositories"
	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/utils"
)

// UserRegister creates a new account.
func UserRegister(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		user, err := webApp.Repos.User.Create(c.Context(), repositories.CreateUserParams{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}

		slog.Info("User registered",
			slog.Int64("user_id", user.ID),
			slog.String("email", user.Email))

		return utils.SendCreated(c, webmodels.ConvertUserToDTO(user), "User created successfully")
	}
}

// UserToken authenticates credentials and issues an API token.
func UserToken(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.TokenRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		token, user, err := webApp.Tokens.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, repositories.ErrInvalidCredentials) {
				return utils.SendBadRequest(c, err.Error(), nil)
			}
			return utils.SendRepositoryError(c, err)
		}

		slog.Info("User logged in", slog.Int64("user_id", user.ID))

		return utils.SendSuccess(c, fiber.Map{"token": token.Key}, "Authentication successful")
	}
}

// UserLogout revokes the token that authenticated this request.
func UserLogout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := utils.CurrentTokenKey(c)
		if key == "" {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		if err := webApp.Tokens.Revoke(c.Context(), key); err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, nil, "Logged out")
	}
}

// UserMe returns the authenticated user's profile.
func UserMe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		// The context user comes from the token cache; reload for fresh
		// profile fields.
		fresh, err := webApp.Repos.User.GetByID(c.Context(), user.ID)
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, webmodels.ConvertUserToDTO(fresh), "")
	}
}

// UserMeUpdate patches the authenticated user's name and/or password.
func UserMeUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := utils.CurrentUser(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		var req webmodels.MeUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", map[string]string{"error": err.Error()})
		}
		if details := utils.ValidateStruct(&req); details != nil {
			return utils.SendUnprocessableEntity(c, "Validation failed", details)
		}

		updated, err := webApp.Repos.User.Update(c.Context(), user.ID, repositories.UserPatch{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			return utils.SendRepositoryError(c, err)
		}
		return utils.SendSuccess(c, webmodels.ConvertUserToDTO(updated), "Profile updated")
	}
}
