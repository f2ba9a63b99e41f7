package routes

import (
	"Backend-Claim3000/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func addressRoutes(router fiber.Router) {
	addressGroup := router.Group("/address")
	addressGroup.Post("/lookup", controllers.LookupAddress)
}
