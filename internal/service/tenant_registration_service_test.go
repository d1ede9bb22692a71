package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vetcare/internal/domain"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func TestTenantRegistrationService_Register(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	authSvc := new(mocks.MockAuthService)
	svc := service.NewTenantRegistrationService(tenantRepo, authSvc)

	var admin *domain.User
	tenantRepo.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { admin = args.Get(3).(*domain.User) }).
		Return(nil)
	authSvc.On("Login", mock.Anything, service.LoginInput{Email: "Founder@Clinic.test", Password: "password123"}).
		Return(&service.AuthResult{Token: "signed"}, nil)

	out, err := svc.Register(context.Background(), service.RegisterTenantInput{
		ClinicName: " Happy Paws ",
		Name:       "Founder",
		Email:      "Founder@Clinic.test",
		Password:   "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed", out.Token)
	assert.Equal(t, "Happy Paws", out.Tenant.Name)
	assert.Equal(t, domain.PlanTrial, out.Tenant.Plan)
	assert.Equal(t, domain.BillingTrialing, out.Tenant.BillingStatus)
	assert.Equal(t, "USD", out.Tenant.Currency)
	assert.Equal(t, "en-US", out.Tenant.Locale)
	require.NotNil(t, out.Tenant.SubscriptionEndsAt)
	assert.WithinDuration(t, time.Now().Add(domain.TrialPeriod), *out.Tenant.SubscriptionEndsAt, time.Minute)

	var features domain.TenantFeatures
	require.NoError(t, json.Unmarshal(out.Tenant.Features, &features))
	assert.Equal(t, domain.PlanFeatures[domain.PlanTrial], features)

	assert.True(t, out.Branch.IsMain)
	assert.Equal(t, out.Tenant.ID, out.Branch.TenantID)

	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "founder@clinic.test", admin.Email)
	assert.Equal(t, out.Branch.ID, *admin.BranchID)
	assert.NotEqual(t, "password123", admin.PasswordHash)
}

func TestTenantRegistrationService_Register_DuplicateEmail(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	authSvc := new(mocks.MockAuthService)
	svc := service.NewTenantRegistrationService(tenantRepo, authSvc)

	tenantRepo.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, err := svc.Register(context.Background(), service.RegisterTenantInput{
		ClinicName: "Clinic", Name: "A", Email: "a@clinic.test", Password: "password123", Currency: "EUR",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	authSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}
