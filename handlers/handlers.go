package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/recipebox/recipebox/config"
	"github.com/recipebox/recipebox/database"
	dbmodels "github.com/recipebox/recipebox/database/models"
	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/services"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config  *config.Config
	DB      *database.DB
	Repos   *webmodels.Repositories
	Tokens  *services.TokenService
	Images  *services.ImageService
	Version string
}

// AuthenticateRequest resolves the request's Authorization header to a user.
// The scheme is "Token <key>", matching what the token endpoint hands out.
func (w *WebApp) AuthenticateRequest(c *fiber.Ctx) (*dbmodels.User, string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, key, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Token") {
		return nil, "", services.ErrInvalidToken
	}
	key = strings.TrimSpace(key)

	user, err := w.Tokens.Resolve(c.Context(), key)
	if err != nil {
		return nil, "", err
	}
	return user, key, nil
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
