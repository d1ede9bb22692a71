package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"vetcare/internal/domain"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func newSaleRepo() (*mocks.MockSaleRepo, *mocks.MockSaleTx) {
	tx := new(mocks.MockSaleTx)
	return &mocks.MockSaleRepo{Tx: tx}, tx
}

func saleInput(id string, qty any) service.CreateSaleInput {
	return service.CreateSaleInput{
		ID: id,
		Items: []map[string]any{
			{"itemId": "item-1", "name": "Amoxicillin", "quantity": qty, "unitPrice": "2.50"},
		},
		Tax: 1,
	}
}

func stockedItem(total float64) *domain.InventoryItem {
	jan := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	return &domain.InventoryItem{
		ID:         "item-1",
		TenantID:   tenantID,
		Name:       "Amoxicillin",
		TotalStock: total,
		Batches: []domain.InventoryBatch{
			{ID: "batch-open", ItemID: "item-1", Quantity: 2},
			{ID: "batch-mar", ItemID: "item-1", Quantity: 10, ExpiryDate: &mar},
			{ID: "batch-jan", ItemID: "item-1", Quantity: 3, ExpiryDate: &jan},
		},
	}
}

func TestSaleService_Create_DrawsBatchesFirstExpiryFirst(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, auditRepo := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	repo.On("GetByID", mock.Anything, "sale-1").Return(nil, domain.ErrNotFound).Once()
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.MatchedBy(func(s *domain.Sale) bool {
		return s.ID == "sale-1" && s.TenantID == tenantID && s.BranchID == branchID
	})).Return(nil)
	tx.On("LockItem", mock.Anything, tenantID, branchID, "item-1").Return(stockedItem(15), nil)
	tx.On("DecrementBatch", mock.Anything, "batch-jan", 3.0).Return(nil).Once()
	tx.On("DecrementBatch", mock.Anything, "batch-mar", 2.0).Return(nil).Once()
	tx.On("DecrementStock", mock.Anything, "item-1", 5.0).Return(nil)

	sale, created, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-1", 5))

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 12.5, sale.Subtotal)
	assert.Equal(t, 1.0, sale.Tax)
	assert.Equal(t, 13.5, sale.Total)
	assert.Equal(t, domain.PaymentCash, sale.PaymentMethod)
	assert.Equal(t, domain.SaleStatusCompleted, sale.Status)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "DecrementBatch", mock.Anything, "batch-open", mock.Anything)
	auditRepo.AssertCalled(t, "Create", mock.Anything, auditAction("CREATE_SALES"))
}

func TestSaleService_Create_InsufficientStock(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, auditRepo := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	repo.On("GetByID", mock.Anything, "sale-2").Return(nil, domain.ErrNotFound)
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	tx.On("LockItem", mock.Anything, tenantID, branchID, "item-1").Return(stockedItem(4), nil)

	_, created, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-2", 5))

	require.Error(t, err)
	assert.False(t, created)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Amoxicillin", stockErr.ItemName)
	assert.Equal(t, 5.0, stockErr.Requested)
	assert.Equal(t, 4.0, stockErr.Available)
	tx.AssertNotCalled(t, "DecrementBatch", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleService_Create_ReplaysExistingSale(t *testing.T) {
	repo, _ := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	existing := &domain.Sale{ID: "sale-3", TenantID: tenantID, BranchID: branchID, Total: 13.5}
	repo.On("GetByID", mock.Anything, "sale-3").Return(existing, nil)

	sale, created, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-3", 5))

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, existing, sale)
	repo.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSaleService_Create_IDOwnedByAnotherTenant(t *testing.T) {
	repo, _ := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	repo.On("GetByID", mock.Anything, "sale-4").Return(&domain.Sale{ID: "sale-4", TenantID: "tenant-2"}, nil)

	_, _, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-4", 1))

	assert.ErrorIs(t, err, domain.ErrConflict)
	repo.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSaleService_Create_ConcurrentDuplicateReplays(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	winner := &domain.Sale{ID: "sale-5", TenantID: tenantID}
	repo.On("GetByID", mock.Anything, "sale-5").Return(nil, domain.ErrNotFound).Once()
	repo.On("GetByID", mock.Anything, "sale-5").Return(winner, nil).Once()
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	sale, created, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-5", 1))

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, winner, sale)
	tx.AssertNotCalled(t, "LockItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaleService_Create_BranchRules(t *testing.T) {
	t.Run("branch staff are pinned to their branch", func(t *testing.T) {
		repo, tx := newSaleRepo()
		audit, _ := newAudit(t)
		svc := service.NewSaleService(repo, audit, nil)

		input := saleInput("sale-6", 1)
		input.BranchID = "branch-other"
		input.Items[0]["itemId"] = nil

		repo.On("GetByID", mock.Anything, "sale-6").Return(nil, domain.ErrNotFound)
		repo.On("WithinTx", mock.Anything).Return(nil)
		tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
		tx.On("InsertSale", mock.Anything, mock.Anything).Return(nil)

		sale, _, err := svc.Create(context.Background(), staff(domain.RoleVet), input)
		require.NoError(t, err)
		assert.Equal(t, branchID, sale.BranchID)
	})

	t.Run("cross-branch roles without a branch must name one", func(t *testing.T) {
		repo, _ := newSaleRepo()
		audit, _ := newAudit(t)
		svc := service.NewSaleService(repo, audit, nil)

		p := staff(domain.RoleParentAdmin)
		p.BranchID = ""
		_, _, err := svc.Create(context.Background(), p, saleInput("sale-7", 1))
		assert.ErrorIs(t, err, domain.ErrBranchRequired)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown branch", func(t *testing.T) {
		repo, tx := newSaleRepo()
		audit, _ := newAudit(t)
		svc := service.NewSaleService(repo, audit, nil)

		p := staff(domain.RoleParentAdmin)
		input := saleInput("sale-8", 1)
		input.BranchID = "branch-gone"

		repo.On("GetByID", mock.Anything, "sale-8").Return(nil, domain.ErrNotFound)
		repo.On("WithinTx", mock.Anything).Return(nil)
		tx.On("BranchExists", mock.Anything, tenantID, "branch-gone").Return(false, nil)

		_, _, err := svc.Create(context.Background(), p, input)
		assert.ErrorIs(t, err, domain.ErrBranchNotFound)
		tx.AssertNotCalled(t, "InsertSale", mock.Anything, mock.Anything)
	})
}

func TestSaleService_Create_UnknownItemIsSkipped(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	repo.On("GetByID", mock.Anything, "sale-9").Return(nil, domain.ErrNotFound)
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	tx.On("LockItem", mock.Anything, tenantID, branchID, "item-1").Return(nil, domain.ErrNotFound)

	_, created, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-9", 2))

	require.NoError(t, err)
	assert.True(t, created)
	tx.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaleService_Create_LocksItemsOfTheSaleBranchOnly(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	input := saleInput("sale-11", 2)
	input.BranchID = "branch-2"
	input.Items[0]["itemId"] = "item-of-branch-2"
	repo.On("GetByID", mock.Anything, "sale-11").Return(nil, domain.ErrNotFound)
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	tx.On("LockItem", mock.Anything, tenantID, branchID, "item-of-branch-2").Return(nil, domain.ErrNotFound)

	_, created, err := svc.Create(context.Background(), staff(domain.RoleReception), input)

	require.NoError(t, err)
	assert.True(t, created)
	tx.AssertCalled(t, "LockItem", mock.Anything, tenantID, branchID, "item-of-branch-2")
	tx.AssertNotCalled(t, "LockItem", mock.Anything, tenantID, "branch-2", mock.Anything)
	tx.AssertNotCalled(t, "DecrementBatch", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaleService_Create_AggregatesDuplicateLines(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	input := service.CreateSaleInput{
		ID: "sale-10",
		Items: []map[string]any{
			{"itemId": "item-1", "quantity": 2, "total": 5},
			{"itemId": "item-1", "quantity": "3", "total": "7.5"},
		},
	}
	repo.On("GetByID", mock.Anything, "sale-10").Return(nil, domain.ErrNotFound)
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	tx.On("LockItem", mock.Anything, tenantID, branchID, "item-1").Return(stockedItem(15), nil).Once()
	tx.On("DecrementBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	tx.On("DecrementStock", mock.Anything, "item-1", 5.0).Return(nil).Once()

	sale, _, err := svc.Create(context.Background(), staff(domain.RoleReception), input)

	require.NoError(t, err)
	assert.Equal(t, 12.5, sale.Total)
	tx.AssertExpectations(t)
}

func TestSaleService_Create_Validation(t *testing.T) {
	repo, _ := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)
	repo.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, _, err := svc.Create(context.Background(), staff(domain.RoleReception), service.CreateSaleInput{ID: "empty"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.Create(context.Background(), staff(domain.RoleReception), saleInput("bad-qty", "lots"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	input := saleInput("bad-total", 1)
	input.Total = "free"
	_, _, err = svc.Create(context.Background(), staff(domain.RoleReception), input)
	assert.ErrorIs(t, err, domain.ErrValidation)

	repo.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSaleService_Create_InfrastructureFailureIsLogged(t *testing.T) {
	repo, _ := newSaleRepo()
	audit, _ := newAudit(t)
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := service.NewSaleService(repo, audit, zap.New(core))

	repo.On("GetByID", mock.Anything, "sale-11").Return(nil, domain.ErrNotFound)
	repo.On("WithinTx", mock.Anything).Return(errors.New("connection reset"))

	_, _, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("sale-11", 1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "sale failed", entry.Message)
	assert.Equal(t, "sale-11", entry.ContextMap()["sale_id"])
}

func TestSaleService_Create_GeneratesID(t *testing.T) {
	repo, tx := newSaleRepo()
	audit, _ := newAudit(t)
	svc := service.NewSaleService(repo, audit, nil)

	repo.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(nil, domain.ErrNotFound)
	repo.On("WithinTx", mock.Anything).Return(nil)
	tx.On("BranchExists", mock.Anything, tenantID, branchID).Return(true, nil)
	tx.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	tx.On("LockItem", mock.Anything, tenantID, branchID, "item-1").Return(stockedItem(15), nil)
	tx.On("DecrementBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	tx.On("DecrementStock", mock.Anything, "item-1", 1.0).Return(nil)

	sale, _, err := svc.Create(context.Background(), staff(domain.RoleReception), saleInput("", 1))

	require.NoError(t, err)
	assert.Regexp(t, `^sale_\d+$`, sale.ID)
}
