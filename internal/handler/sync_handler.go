package handler

import (
	"github.com/gin-gonic/gin"

	"vetcare/internal/service"
)

// SyncHandler serves the client hydration payloads.
type SyncHandler struct {
	syncService service.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Bootstrap handles GET /api/sync/bootstrap
// @Summary Bootstrap payload
// @Description Every collection visible to the caller, keyed by collection name. Any failed query fails the whole request.
// @Tags sync
// @Produce json
// @Success 200 {object} Response{data=map[string][]map[string]interface{}} "Collections"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 500 {object} ErrorResponseBody "Sync failed"
// @Security BearerAuth
// @Router /sync/bootstrap [get]
func (h *SyncHandler) Bootstrap(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	payload, err := h.syncService.Bootstrap(c.Request.Context(), p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payload)
}

// Chats handles GET /api/sync/chats
// @Summary Chat payload
// @Description Client and staff chat messages visible to the caller.
// @Tags sync
// @Produce json
// @Success 200 {object} Response{data=map[string][]map[string]interface{}} "Chats"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 500 {object} ErrorResponseBody "Sync failed"
// @Security BearerAuth
// @Router /sync/chats [get]
func (h *SyncHandler) Chats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	payload, err := h.syncService.Chats(c.Request.Context(), p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payload)
}
