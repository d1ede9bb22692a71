package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetcare/internal/service"
)

const maxIdentifyImageBytes = 10 << 20

// AIHandler exposes the clinical assistant endpoints.
type AIHandler struct {
	aiService service.AIService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(aiService service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// Summary handles POST /api/ai/summary
// @Summary Summarize patient history
// @Description Placeholder text is returned with fallback=true when no model is available.
// @Tags ai
// @Accept json
// @Produce json
// @Param body body service.SummaryInput true "Patient history"
// @Success 200 {object} Response{data=service.AIResult} "Summary"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /ai/summary [post]
func (h *AIHandler) Summary(c *gin.Context) {
	var input service.SummaryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	RespondOK(c, h.aiService.Summary(c.Request.Context(), input))
}

// Diagnosis handles POST /api/ai/diagnosis
// @Summary Suggest differential diagnoses
// @Tags ai
// @Accept json
// @Produce json
// @Param body body service.DiagnosisInput true "Signalment and symptoms"
// @Success 200 {object} Response{data=service.AIResult} "Suggestions"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /ai/diagnosis [post]
func (h *AIHandler) Diagnosis(c *gin.Context) {
	var input service.DiagnosisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	RespondOK(c, h.aiService.Diagnosis(c.Request.Context(), input))
}

// Identify handles POST /api/ai/identify
// @Summary Identify an animal
// @Description Identify species and breed from a photo.
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Photo (JPG or PNG)"
// @Success 200 {object} Response{data=service.AIResult} "Identification"
// @Failure 400 {object} ErrorResponseBody "Missing image"
// @Failure 413 {object} ErrorResponseBody "Image too large"
// @Security BearerAuth
// @Router /ai/identify [post]
func (h *AIHandler) Identify(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxIdentifyImageBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "image exceeds maximum allowed size")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxIdentifyImageBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read image")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	RespondOK(c, h.aiService.Identify(c.Request.Context(), service.IdentifyInput{
		Image:       data,
		ContentType: contentType,
	}))
}
