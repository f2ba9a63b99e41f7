package routes

import (
	"github.com/gofiber/fiber/v2"
)

// InitRoutes mounts the public API under /api plus the health probe.
func InitRoutes(app *fiber.App) {
	api := app.Group("/api")

	formRoutes(api)
	addressRoutes(api)
	uploadRoutes(api)
	adminRoutes(api)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
