package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
)

// MockInventoryRepo is a mock implementation of port.InventoryRepository.
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) ListStockDrift(ctx context.Context) ([]domain.StockDrift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockDrift), args.Error(1)
}
