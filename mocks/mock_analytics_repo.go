package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
)

// MockAnalyticsRepo is a mock implementation of port.AnalyticsRepository.
type MockAnalyticsRepo struct {
	mock.Mock
}

func (m *MockAnalyticsRepo) Metrics(ctx context.Context, tenantID, branchID string, start, end time.Time) (*domain.Metrics, error) {
	args := m.Called(ctx, tenantID, branchID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Metrics), args.Error(1)
}

func (m *MockAnalyticsRepo) DailyRevenue(ctx context.Context, tenantID, branchID string, start, end time.Time) ([]domain.DailyRevenue, error) {
	args := m.Called(ctx, tenantID, branchID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRevenue), args.Error(1)
}
