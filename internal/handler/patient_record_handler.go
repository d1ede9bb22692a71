package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetcare/internal/service"
)

// PatientRecordHandler handles patient notes and attachments.
type PatientRecordHandler struct {
	recordService service.PatientRecordService
}

// NewPatientRecordHandler creates a new PatientRecordHandler.
func NewPatientRecordHandler(recordService service.PatientRecordService) *PatientRecordHandler {
	return &PatientRecordHandler{recordService: recordService}
}

// AddNote handles POST /api/patients/:id/notes
// @Summary Add a patient note
// @Description Append a clinical note to the patient. Notes cannot be edited.
// @Tags patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param body body service.AddNoteInput true "Note"
// @Success 201 {object} Response{data=domain.PatientNote} "Note added"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Forbidden"
// @Failure 404 {object} ErrorResponseBody "Patient not found"
// @Security BearerAuth
// @Router /patients/{id}/notes [post]
func (h *PatientRecordHandler) AddNote(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.AddNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	note, err := h.recordService.AddNote(c.Request.Context(), p, c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, note)
}

// UploadAttachment handles POST /api/patients/:id/attachments
// @Summary Upload a patient attachment
// @Description Upload a PDF, JPG or PNG to the patient's record.
// @Tags patients
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Patient ID"
// @Param file formData file true "File to upload (PDF, JPG, or PNG)"
// @Success 201 {object} Response{data=domain.PatientAttachment} "Attachment uploaded"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 404 {object} ErrorResponseBody "Patient not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /patients/{id}/attachments [post]
func (h *PatientRecordHandler) UploadAttachment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	att, err := h.recordService.UploadAttachment(c.Request.Context(), p, c.Param("id"), service.AttachmentUploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, att)
}

// AttachmentURL handles GET /api/patients/:id/attachments/:attachmentId/url
// @Summary Attachment download URL
// @Description Return a short-lived presigned URL for the attachment.
// @Tags patients
// @Produce json
// @Param id path string true "Patient ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} Response{data=URLResponse} "Presigned URL"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /patients/{id}/attachments/{attachmentId}/url [get]
func (h *PatientRecordHandler) AttachmentURL(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	url, err := h.recordService.AttachmentURL(c.Request.Context(), p, c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, URLResponse{URL: url})
}
