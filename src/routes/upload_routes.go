package routes

import (
	"Backend-Claim3000/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func uploadRoutes(router fiber.Router) {
	uploadGroup := router.Group("/upload")
	uploadGroup.Post("/signature", controllers.UploadSignature)
}
