package utils

import (
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/schemas"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// HandleFieldErrors renders a 400 with per-field keys and their mapped
// human messages.
func HandleFieldErrors(c *fiber.Ctx, errs []schemas.FieldError) error {
	out := make([]models.FieldErrorMessage, 0, len(errs))
	for _, e := range errs {
		out = append(out, models.FieldErrorMessage{
			Field:   e.Field,
			Key:     e.Key,
			Message: e.Message(),
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(models.FieldErrorResponse{Errors: out})
}
