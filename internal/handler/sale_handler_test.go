package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
	"vetcare/internal/handler"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func saleBody() map[string]any {
	return map[string]any{
		"id":       "sale_1",
		"branchId": "b1",
		"items":    []map[string]any{{"itemId": "i1", "quantity": 2, "unitPrice": 10}},
	}
}

func TestSaleHandler_Create_Created(t *testing.T) {
	svc := new(mocks.MockSaleService)
	h := handler.NewSaleHandler(svc)
	svc.On("Create", mock.Anything, vet, mock.MatchedBy(func(in service.CreateSaleInput) bool {
		return in.ID == "sale_1" && len(in.Items) == 1
	})).Return(&domain.Sale{ID: "sale_1", TenantID: "t1", Total: 20}, true, nil)

	c, w := newContext(http.MethodPost, "/api/sales", saleBody(), &vet)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestSaleHandler_Create_ReplayReturnsOK(t *testing.T) {
	svc := new(mocks.MockSaleService)
	h := handler.NewSaleHandler(svc)
	svc.On("Create", mock.Anything, vet, mock.Anything).
		Return(&domain.Sale{ID: "sale_1", TenantID: "t1"}, false, nil)

	c, w := newContext(http.MethodPost, "/api/sales", saleBody(), &vet)
	h.Create(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaleHandler_Create_InsufficientStock(t *testing.T) {
	svc := new(mocks.MockSaleService)
	h := handler.NewSaleHandler(svc)
	stockErr := &domain.StockError{ItemID: "i1", ItemName: "Amoxicillin", Requested: 10, Available: 3}
	svc.On("Create", mock.Anything, vet, mock.Anything).Return(nil, false, fmt.Errorf("sale: %w", stockErr))

	c, w := newContext(http.MethodPost, "/api/sales", saleBody(), &vet)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Amoxicillin")
}

func TestSaleHandler_Create_BusinessErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrBranchRequired, http.StatusBadRequest, "BRANCH_REQUIRED"},
		{domain.ErrBranchNotFound, http.StatusBadRequest, "BRANCH_NOT_FOUND"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("%w: a sale needs at least one item", domain.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc := new(mocks.MockSaleService)
			h := handler.NewSaleHandler(svc)
			svc.On("Create", mock.Anything, vet, mock.Anything).Return(nil, false, tt.err)

			c, w := newContext(http.MethodPost, "/api/sales", saleBody(), &vet)
			h.Create(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w).Error.Code)
		})
	}
}

func TestSaleHandler_Create_ValidationMessage(t *testing.T) {
	svc := new(mocks.MockSaleService)
	h := handler.NewSaleHandler(svc)
	svc.On("Create", mock.Anything, vet, mock.Anything).
		Return(nil, false, fmt.Errorf("%w: a sale needs at least one item", domain.ErrValidation))

	c, w := newContext(http.MethodPost, "/api/sales", map[string]any{"id": "sale_2"}, &vet)
	h.Create(c)

	assert.Equal(t, "a sale needs at least one item", decode(t, w).Error.Message)
}

func TestSaleHandler_Create_InternalErrorExposesMessage(t *testing.T) {
	svc := new(mocks.MockSaleService)
	h := handler.NewSaleHandler(svc)
	svc.On("Create", mock.Anything, vet, mock.Anything).
		Return(nil, false, errors.New("sale.Create: deadline exceeded"))

	c, w := newContext(http.MethodPost, "/api/sales", saleBody(), &vet)
	h.Create(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "sale.Create: deadline exceeded", decode(t, w).Error.Message)
}
