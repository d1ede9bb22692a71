package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

// MockSaleRepo is a mock implementation of port.SaleRepository. WithinTx
// runs fn against Tx unless the expectation returns an error.
type MockSaleRepo struct {
	mock.Mock
	Tx *MockSaleTx
}

func (m *MockSaleRepo) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleRepo) WithinTx(ctx context.Context, fn func(tx port.SaleTx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

// MockSaleTx is a mock implementation of port.SaleTx.
type MockSaleTx struct {
	mock.Mock
}

func (m *MockSaleTx) BranchExists(ctx context.Context, tenantID, branchID string) (bool, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleTx) InsertSale(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleTx) LockItem(ctx context.Context, tenantID, branchID, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, tenantID, branchID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockSaleTx) DecrementBatch(ctx context.Context, batchID string, qty float64) error {
	args := m.Called(ctx, batchID, qty)
	return args.Error(0)
}

func (m *MockSaleTx) DecrementStock(ctx context.Context, itemID string, qty float64) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}
