package routes

import (
	"Backend-Claim3000/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func formRoutes(router fiber.Router) {
	formGroup := router.Group("/forms")
	formGroup.Post("/validate-step", controllers.ValidateStep) // validate one step, persist past the threshold
	formGroup.Post("/save", controllers.SaveForm)              // partial progress snapshot
	formGroup.Post("/submit", controllers.SubmitForm)          // final submission + CRM delivery
	formGroup.Get("/:id", controllers.GetForm)
}
