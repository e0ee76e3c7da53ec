package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/recipebox/recipebox/database/models"
	"github.com/recipebox/recipebox/database/repositories"
	"github.com/recipebox/recipebox/models"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return SendJSON(c, http.StatusOK, models.NewSuccessResponse(data, message))
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}, message string) error {
	return SendJSON(c, http.StatusCreated, models.NewSuccessResponse(data, message))
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	return SendJSON(c, statusCode, models.NewErrorResponse(code, message, details))
}

func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func SendForbidden(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func SendConflict(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusConflict, "CONFLICT", message, details)
}

func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

func SendUnprocessableEntity(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, details)
}

func SendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// SendRepositoryError maps data layer errors onto their HTTP responses.
// Cross-user and genuinely missing rows both arrive as NotFoundError and go
// out as the same 404.
func SendRepositoryError(c *fiber.Ctx, err error) error {
	var nfe *repositories.NotFoundError
	if errors.As(err, &nfe) {
		return SendNotFound(c, nfe.Error())
	}
	var ve *repositories.ValidationError
	if errors.As(err, &ve) {
		return SendBadRequest(c, "Validation failed", map[string]string{ve.Field: ve.Message})
	}
	var ce *repositories.ConflictError
	if errors.As(err, &ce) {
		return SendConflict(c, ce.Error(), nil)
	}
	return SendInternalServerError(c, "Internal server error")
}

// CurrentUser extracts the authenticated user placed in the request context
// by the auth middleware.
func CurrentUser(c *fiber.Ctx) (*dbmodels.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*dbmodels.User)
	return u, ok
}

// CurrentTokenKey extracts the raw token key for the request, when present.
func CurrentTokenKey(c *fiber.Ctx) string {
	key, _ := c.Locals("token_key").(string)
	return key
}

// GetIPAddress extracts the client IP address
func GetIPAddress(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := c.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.IP()
}
