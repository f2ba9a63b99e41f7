package controllers

import (
	"net/http"
	"strings"

	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/services/admins"
	"Backend-Claim3000/src/services/affiliates"
	"Backend-Claim3000/src/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminLogin godoc
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object true "email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/login [post]
func AdminLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}

	token, admin, err := admins.Authenticate(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err == admins.ErrInvalidCredentials {
		return utils.HandleError(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"token": token, "admin": admin})
}

// UpsertAffCredential godoc
// @Summary Create or update affiliate credentials
// @Description Stores the api id and the env-var reference for the password. Secret values are never stored
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.AffCredential true "credential row"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/aff-credentials [post]
func UpsertAffCredential(c *fiber.Ctx) error {
	var req models.AffCredential
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}
	if req.AffID == "" || req.APIID == "" || req.APIPasswordKeyRef == "" {
		return utils.HandleError(c, http.StatusBadRequest, "affId, apiId and apiPasswordKeyRef are required")
	}

	if err := affiliates.UpsertCredential(c.Context(), &req); err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListAffCredentials godoc
// @Summary List affiliate credential rows
// @Tags admin
// @Produce json
// @Success 200 {array} models.AffCredential
// @Security BearerAuth
// @Router /admin/aff-credentials [get]
func ListAffCredentials(c *fiber.Ctx) error {
	creds, err := affiliates.ListCredentials(c.Context())
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(creds)
}
