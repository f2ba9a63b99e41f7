package controllers

import (
	"net/http"

	"Backend-Claim3000/src/services/forms"
	"Backend-Claim3000/src/utils"

	"github.com/gofiber/fiber/v2"
)

func requestMeta(c *fiber.Ctx) forms.RequestMeta {
	return forms.RequestMeta{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
		Source:    c.Query("source"),
	}
}

// ValidateStep godoc
// @Summary Validate one form step
// @Description Validates a step's data; persists it once the journey is past the record-creation threshold
// @Tags forms
// @Accept json
// @Produce json
// @Param request body object true "stepId, data and optional formId"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.FieldErrorResponse
// @Router /forms/validate-step [post]
func ValidateStep(c *fiber.Ctx) error {
	var req struct {
		StepID string                 `json:"stepId"`
		FormID string                 `json:"formId"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}
	if req.StepID == "" {
		return utils.HandleError(c, http.StatusBadRequest, "stepId is required")
	}

	formID, ferrs, err := forms.ValidateStep(c.Context(), req.StepID, req.FormID, req.Data, requestMeta(c))
	if err == forms.ErrUnknownStep {
		return utils.HandleError(c, http.StatusBadRequest, "Unknown stepId: "+req.StepID)
	}
	if err == forms.ErrFormNotFound {
		return utils.HandleError(c, http.StatusNotFound, "Form not found")
	}
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}
	if len(ferrs) > 0 {
		return utils.HandleFieldErrors(c, ferrs)
	}

	res := fiber.Map{"valid": true}
	if formID != "" {
		res["formId"] = formID
	}
	return c.JSON(res)
}

// SaveForm godoc
// @Summary Save partial progress
// @Description Upserts step snapshots without running validation contracts
// @Tags forms
// @Accept json
// @Produce json
// @Param request body object true "optional formId plus steps/final maps"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /forms/save [post]
func SaveForm(c *fiber.Ctx) error {
	var req struct {
		FormID string                 `json:"formId"`
		Steps  map[string]interface{} `json:"steps"`
		Final  map[string]interface{} `json:"final"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}

	record, err := forms.SaveForm(c.Context(), req.FormID, forms.SaveData{Steps: req.Steps, Final: req.Final}, requestMeta(c))
	if err == forms.ErrFormNotFound {
		return utils.HandleError(c, http.StatusNotFound, "Form not found")
	}
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"success": true, "formId": record.ID.Hex()})
}

// SubmitForm godoc
// @Summary Submit the completed form
// @Description Validates the final payload, persists the record and attempts CRM delivery. Succeeds whenever local persistence succeeds; the CRM outcome is reported on the record
// @Tags forms
// @Accept json
// @Produce json
// @Param request body object true "optional formId plus the complete form data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.FieldErrorResponse
// @Router /forms/submit [post]
func SubmitForm(c *fiber.Ctx) error {
	var req struct {
		FormID string                 `json:"formId"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}

	record, ferrs, err := forms.SubmitForm(c.Context(), req.FormID, req.Data, requestMeta(c))
	if err == forms.ErrFormNotFound {
		return utils.HandleError(c, http.StatusNotFound, "Form not found")
	}
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}
	if len(ferrs) > 0 {
		return utils.HandleFieldErrors(c, ferrs)
	}

	return c.JSON(fiber.Map{"success": true, "form": record})
}

// GetForm godoc
// @Summary Fetch one form record
// @Tags forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} models.FormRecord
// @Failure 404 {object} models.ErrorResponse
// @Router /forms/{id} [get]
func GetForm(c *fiber.Ctx) error {
	record, err := forms.GetForm(c.Context(), c.Params("id"))
	if err == forms.ErrFormNotFound {
		return utils.HandleError(c, http.StatusNotFound, "Form not found")
	}
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(record)
}
