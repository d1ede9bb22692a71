package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetcare/internal/resource"
	"vetcare/internal/service"
)

// ResourceHandler serves the generic tenant-scoped collection endpoints.
type ResourceHandler struct {
	resourceService service.ResourceService
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resourceService service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// List handles GET /api/:collection
// @Summary List a collection
// @Description List the records of a collection visible to the caller. A storage failure yields an empty list with status 500.
// @Tags resources
// @Produce json
// @Param collection path string true "Collection name" example(patients)
// @Success 200 {object} Response{data=[]map[string]interface{}} "Records"
// @Failure 400 {object} ErrorResponseBody "Unknown collection"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 500 {object} ListFailureResponse "Storage failure"
// @Security BearerAuth
// @Router /{collection} [get]
func (h *ResourceHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	records, err := h.resourceService.List(c.Request.Context(), p, c.Param("collection"))
	if err != nil {
		status, code, msg := MapDomainError(err)
		if status < http.StatusInternalServerError {
			RespondError(c, status, code, msg)
			return
		}
		logInternal(c, err)
		c.JSON(status, APIResponse{
			Success: false,
			Data:    []resource.Record{},
			Error:   &APIError{Code: code, Message: msg},
		})
		return
	}

	RespondOK(c, records)
}

// Get handles GET /api/:collection/:id
// @Summary Get a record
// @Tags resources
// @Produce json
// @Param collection path string true "Collection name"
// @Param id path string true "Record ID"
// @Success 200 {object} Response{data=map[string]interface{}} "Record"
// @Failure 400 {object} ErrorResponseBody "Unknown collection"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /{collection}/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	record, err := h.resourceService.Get(c.Request.Context(), p, c.Param("collection"), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}

// Create handles POST /api/:collection
// @Summary Create a record
// @Description Tenant and branch are taken from the caller. Admin-only collections reject other roles.
// @Tags resources
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Param body body map[string]interface{} true "Record fields"
// @Success 201 {object} Response{data=map[string]interface{}} "Created"
// @Failure 400 {object} ErrorResponseBody "Validation error or invalid reference"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Failure 409 {object} ErrorResponseBody "Duplicate id"
// @Security BearerAuth
// @Router /{collection} [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	record, err := h.resourceService.Create(c.Request.Context(), p, c.Param("collection"), payload)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, record)
}

// Update handles PUT /api/:collection/:id
// @Summary Update a record
// @Description Identity, ownership and timestamp fields are ignored.
// @Tags resources
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Param id path string true "Record ID"
// @Param body body map[string]interface{} true "Fields to change"
// @Success 200 {object} Response{data=map[string]interface{}} "Updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /{collection}/{id} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	record, err := h.resourceService.Update(c.Request.Context(), p, c.Param("collection"), c.Param("id"), payload)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}

// Delete handles DELETE /api/:collection/:id
// @Summary Delete a record
// @Tags resources
// @Produce json
// @Param collection path string true "Collection name"
// @Param id path string true "Record ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 400 {object} ErrorResponseBody "Record in use"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /{collection}/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.resourceService.Delete(c.Request.Context(), p, c.Param("collection"), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "deleted"})
}
