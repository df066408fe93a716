package routes

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterAPIRoutes sets up the versioned JSON API
func RegisterAPIRoutes(app *fiber.App, svcs Services) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "operational",
			"version": "1.0.0",
			"service": "Estately API",
		})
	})

	v1.Get("/sessions/count", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"active_sessions": svcs.Sessions.CountActive(),
		})
	})

	v1.Get("/users/count", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"registered_users": len(svcs.Users.AllUsernames()),
		})
	})
}
