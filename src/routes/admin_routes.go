package routes

import (
	"Backend-Claim3000/src/controllers"
	"Backend-Claim3000/src/middleware"

	"github.com/gofiber/fiber/v2"
)

func adminRoutes(router fiber.Router) {
	adminGroup := router.Group("/admin")
	adminGroup.Post("/login", controllers.AdminLogin)
	adminGroup.Post("/aff-credentials", middleware.JWTAuth(), controllers.UpsertAffCredential)
	adminGroup.Get("/aff-credentials", middleware.JWTAuth(), controllers.ListAffCredentials)
}
