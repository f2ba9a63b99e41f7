package controllers

import (
	"net/http"

	"Backend-Claim3000/src/services/forms"
	"Backend-Claim3000/src/services/uploads"
	"Backend-Claim3000/src/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadSignature godoc
// @Summary Upload a signature image
// @Description Decodes a base64 signature, compresses it and stores it. With a formId the durable URL and compact inline copy are written onto the record
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body object true "signatureBase64 and optional formId"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /upload/signature [post]
func UploadSignature(c *fiber.Ctx) error {
	var req struct {
		FormID          string `json:"formId"`
		SignatureBase64 string `json:"signatureBase64"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input format")
	}
	if req.SignatureBase64 == "" {
		return utils.HandleError(c, http.StatusBadRequest, "signatureBase64 is required")
	}

	fileURL, dataURL, err := uploads.SaveSignature(req.FormID, req.SignatureBase64)
	if err == uploads.ErrEmptySignature {
		return utils.HandleError(c, http.StatusBadRequest, "signatureBase64 is empty")
	}
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Signature processing failed")
	}

	if req.FormID != "" {
		if err := forms.AttachSignature(c.Context(), req.FormID, fileURL, dataURL); err == forms.ErrFormNotFound {
			return utils.HandleError(c, http.StatusNotFound, "Form not found")
		} else if err != nil {
			return utils.HandleError(c, http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(fiber.Map{"success": true, "fileUrl": fileURL})
}
