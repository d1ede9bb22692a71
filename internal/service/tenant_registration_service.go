package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

const mainBranchName = "Main Branch"

// RegisterTenantInput is the DTO for clinic self-registration.
type RegisterTenantInput struct {
	ClinicName string `json:"clinicName" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Currency   string `json:"currency"`
	Locale     string `json:"locale"`
}

// RegisterTenantOutput contains the results of a successful registration.
type RegisterTenantOutput struct {
	*AuthResult
	Tenant *domain.Tenant `json:"tenant"`
	Branch *domain.Branch `json:"branch"`
}

// TenantRegistrationService creates a clinic with its first admin.
type TenantRegistrationService interface {
	Register(ctx context.Context, input RegisterTenantInput) (*RegisterTenantOutput, error)
}

type tenantRegistrationService struct {
	tenantRepo port.TenantRepository
	authSvc    AuthService
}

// NewTenantRegistrationService creates a new TenantRegistrationService.
func NewTenantRegistrationService(tenantRepo port.TenantRepository, authSvc AuthService) TenantRegistrationService {
	return &tenantRegistrationService{tenantRepo: tenantRepo, authSvc: authSvc}
}

func (s *tenantRegistrationService) Register(ctx context.Context, input RegisterTenantInput) (*RegisterTenantOutput, error) {
	features, err := json.Marshal(domain.PlanFeatures[domain.PlanTrial])
	if err != nil {
		return nil, fmt.Errorf("encoding features: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	trialEnds := time.Now().Add(domain.TrialPeriod)
	tenant := &domain.Tenant{
		ID:                 uuid.New().String(),
		Name:               strings.TrimSpace(input.ClinicName),
		Plan:               domain.PlanTrial,
		Features:           features,
		Currency:           defaultString(input.Currency, "USD"),
		Locale:             defaultString(input.Locale, "en-US"),
		BillingStatus:      domain.BillingTrialing,
		SubscriptionEndsAt: &trialEnds,
	}
	branch := &domain.Branch{
		ID:       uuid.New().String(),
		TenantID: tenant.ID,
		Name:     mainBranchName,
		Address:  input.Address,
		Phone:    input.Phone,
		IsMain:   true,
	}
	branchID := branch.ID
	admin := &domain.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		BranchID:     &branchID,
		Name:         input.Name,
		Email:        normalizeEmail(input.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Phone:        input.Phone,
		IsActive:     true,
	}

	// ErrDuplicateEmail propagates unchanged.
	if err := s.tenantRepo.Register(ctx, tenant, branch, admin); err != nil {
		return nil, err
	}
	zap.L().Info("tenant registered",
		zap.String("tenant_id", tenant.ID),
		zap.String("admin_id", admin.ID),
	)

	auth, err := s.authSvc.Login(ctx, LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &RegisterTenantOutput{AuthResult: auth, Tenant: tenant, Branch: branch}, nil
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
