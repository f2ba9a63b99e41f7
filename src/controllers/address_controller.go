package controllers

import (
	"net/http"
	"strings"

	"Backend-Claim3000/src/services/address"
	"Backend-Claim3000/src/utils"

	"github.com/gofiber/fiber/v2"
)

// LookupAddress godoc
// @Summary Look up addresses for a UK postcode
// @Description Returns candidate addresses from the lookup provider. An empty list means the postcode resolved to nothing usable; a 500 means the provider itself failed
// @Tags address
// @Accept json
// @Produce json
// @Param request body object true "postcode"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /address/lookup [post]
func LookupAddress(c *fiber.Ctx) error {
	var req struct {
		Postcode string `json:"postcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}
	if strings.TrimSpace(req.Postcode) == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "postcode is required"})
	}

	addresses, err := address.Lookup(c.Context(), req.Postcode)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Address lookup failed"})
	}

	return c.JSON(fiber.Map{"addresses": addresses})
}
