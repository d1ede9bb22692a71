package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vetcare/internal/domain"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func TestAnalyticsService_Metrics_InclusiveEndDate(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepo)
	svc := service.NewAnalyticsService(repo)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	repo.On("Metrics", mock.Anything, tenantID, branchID, start, end).Return(&domain.Metrics{SalesRevenue: 10}, nil)

	m, err := svc.Metrics(context.Background(), staff(domain.RoleVet), service.AnalyticsRangeInput{
		Start: "2025-03-01", End: "2025-03-31", BranchID: "branch-other",
	})

	require.NoError(t, err)
	assert.Equal(t, 10.0, m.SalesRevenue)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_Metrics_CrossBranchChoosesBranch(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepo)
	svc := service.NewAnalyticsService(repo)
	repo.On("Metrics", mock.Anything, tenantID, "", mock.Anything, mock.Anything).Return(&domain.Metrics{}, nil).Once()
	repo.On("Metrics", mock.Anything, tenantID, "branch-2", mock.Anything, mock.Anything).Return(&domain.Metrics{}, nil).Once()

	_, err := svc.Metrics(context.Background(), staff(domain.RoleParentAdmin), service.AnalyticsRangeInput{})
	require.NoError(t, err)
	_, err = svc.Metrics(context.Background(), staff(domain.RoleParentAdmin), service.AnalyticsRangeInput{BranchID: "branch-2"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_Metrics_InvalidRange(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepo)
	svc := service.NewAnalyticsService(repo)

	_, err := svc.Metrics(context.Background(), staff(domain.RoleVet), service.AnalyticsRangeInput{Start: "yesterday-ish"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Metrics(context.Background(), staff(domain.RoleVet), service.AnalyticsRangeInput{Start: "2025-05-01", End: "2025-04-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Metrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_Report(t *testing.T) {
	repo := new(mocks.MockAnalyticsRepo)
	svc := service.NewAnalyticsService(repo)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.On("Metrics", mock.Anything, tenantID, branchID, mock.Anything, mock.Anything).Return(&domain.Metrics{TotalRevenue: 5}, nil)
	repo.On("DailyRevenue", mock.Anything, tenantID, branchID, mock.Anything, mock.Anything).
		Return([]domain.DailyRevenue{{Day: day, Sales: 5}}, nil)

	r, err := svc.Report(context.Background(), staff(domain.RoleVet), service.AnalyticsRangeInput{Start: "2025-03-01", End: "2025-03-01"})

	require.NoError(t, err)
	assert.Equal(t, 5.0, r.Metrics.TotalRevenue)
	assert.Len(t, r.Daily, 1)
}
