package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetcare/internal/service"
)

// BillingHandler handles plan purchases.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Verify handles POST /api/billing/verify
// @Summary Verify a plan payment
// @Description Confirm the payment reference and move the caller's tenant to the purchased plan.
// @Tags billing
// @Accept json
// @Produce json
// @Param body body service.VerifyPaymentInput true "Plan and payment reference"
// @Success 200 {object} Response{data=domain.Tenant} "Tenant after upgrade"
// @Failure 400 {object} ErrorResponseBody "Invalid plan"
// @Failure 402 {object} ErrorResponseBody "Payment not verified"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Security BearerAuth
// @Router /billing/verify [post]
func (h *BillingHandler) Verify(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tenant, err := h.billingService.Verify(c.Request.Context(), p, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tenant)
}
