package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetcare/internal/service"
)

// SaleHandler handles point-of-sale submissions.
type SaleHandler struct {
	saleService service.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles POST /api/sales
// @Summary Record a sale
// @Description Store the sale and draw inventory down first-expiry-first in one transaction. Resubmitting an id returns the stored sale with status 200.
// @Tags sales
// @Accept json
// @Produce json
// @Param body body service.CreateSaleInput true "Sale"
// @Success 201 {object} Response{data=domain.Sale} "Sale recorded"
// @Success 200 {object} Response{data=domain.Sale} "Sale already recorded"
// @Failure 400 {object} ErrorResponseBody "Validation error, missing branch or insufficient stock"
// @Failure 409 {object} ErrorResponseBody "Sale id belongs to another tenant"
// @Failure 500 {object} ErrorResponseBody "Sale failed"
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sale, created, err := h.saleService.Create(c.Request.Context(), p, input)
	if err != nil {
		HandleErrorVerbose(c, err)
		return
	}

	if created {
		RespondCreated(c, sale)
		return
	}
	RespondOK(c, sale)
}
