package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/utils"
)

// HealthCheck reports API and database health.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version)

		if err := webApp.DB.Ping(c.Context()); err != nil {
			health.AddComponent("database", "unhealthy", err.Error())
		} else {
			health.AddComponent("database", "healthy", "")
		}

		status := fiber.StatusOK
		if health.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, status, health)
	}
}
