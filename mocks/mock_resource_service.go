package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
	"vetcare/internal/resource"
	"vetcare/internal/service"
)

// MockResourceService is a mock implementation of service.ResourceService.
type MockResourceService struct {
	mock.Mock
}

func (m *MockResourceService) List(ctx context.Context, p domain.Principal, collection string) ([]resource.Record, error) {
	args := m.Called(ctx, p, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]resource.Record), args.Error(1)
}

func (m *MockResourceService) Get(ctx context.Context, p domain.Principal, collection, id string) (resource.Record, error) {
	args := m.Called(ctx, p, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resource.Record), args.Error(1)
}

func (m *MockResourceService) Create(ctx context.Context, p domain.Principal, collection string, payload map[string]any) (resource.Record, error) {
	args := m.Called(ctx, p, collection, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resource.Record), args.Error(1)
}

func (m *MockResourceService) Update(ctx context.Context, p domain.Principal, collection, id string, payload map[string]any) (resource.Record, error) {
	args := m.Called(ctx, p, collection, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resource.Record), args.Error(1)
}

func (m *MockResourceService) Delete(ctx context.Context, p domain.Principal, collection, id string) error {
	args := m.Called(ctx, p, collection, id)
	return args.Error(0)
}

// MockSaleService is a mock implementation of service.SaleService.
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) Create(ctx context.Context, p domain.Principal, input service.CreateSaleInput) (*domain.Sale, bool, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Sale), args.Bool(1), args.Error(2)
}

// MockSyncService is a mock implementation of service.SyncService.
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Bootstrap(ctx context.Context, p domain.Principal) (map[string][]resource.Record, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]resource.Record), args.Error(1)
}

func (m *MockSyncService) Chats(ctx context.Context, p domain.Principal) (map[string][]resource.Record, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]resource.Record), args.Error(1)
}
