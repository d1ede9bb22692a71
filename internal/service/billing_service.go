package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

const billingPeriod = 30 * 24 * time.Hour

// VerifyPaymentInput is the DTO for plan purchase confirmation.
type VerifyPaymentInput struct {
	Plan             string `json:"plan" binding:"required"`
	PaymentReference string `json:"paymentReference" binding:"required"`
	Provider         string `json:"provider"`
}

// BillingService applies verified plan purchases to the caller's tenant.
type BillingService interface {
	Verify(ctx context.Context, p domain.Principal, input VerifyPaymentInput) (*domain.Tenant, error)
}

// PaymentCheck reports whether a payment reference is settled.
type PaymentCheck func(ctx context.Context, provider, reference string) (bool, error)

type billingService struct {
	tenantRepo port.TenantRepository
	audit      *AuditRecorder
	check      PaymentCheck
	now        func() time.Time
}

// NewBillingService creates a new BillingService. A nil check accepts any
// non-blank reference; no payment provider is integrated.
func NewBillingService(tenantRepo port.TenantRepository, audit *AuditRecorder, check PaymentCheck) BillingService {
	if check == nil {
		check = acceptReference
	}
	return &billingService{tenantRepo: tenantRepo, audit: audit, check: check, now: time.Now}
}

func acceptReference(_ context.Context, _ string, reference string) (bool, error) {
	return strings.TrimSpace(reference) != "", nil
}

func (s *billingService) Verify(ctx context.Context, p domain.Principal, input VerifyPaymentInput) (*domain.Tenant, error) {
	plan := strings.ToUpper(strings.TrimSpace(input.Plan))
	if !domain.ValidPlans[plan] || plan == domain.PlanTrial {
		return nil, domain.ErrInvalidPlan
	}

	ok, err := s.check(ctx, input.Provider, input.PaymentReference)
	if err != nil {
		return nil, fmt.Errorf("billing.Verify: %w", err)
	}
	if !ok {
		return nil, domain.ErrPaymentNotVerified
	}

	tenant, err := s.tenantRepo.GetByID(ctx, p.TenantID)
	if err != nil {
		return nil, err
	}
	features, err := json.Marshal(domain.PlanFeatures[plan])
	if err != nil {
		return nil, fmt.Errorf("encoding features: %w", err)
	}
	ends := s.now().UTC().Add(billingPeriod)
	tenant.Plan = plan
	tenant.Features = features
	tenant.BillingStatus = domain.BillingActive
	tenant.SubscriptionEndsAt = &ends
	if err := s.tenantRepo.UpdateBilling(ctx, tenant); err != nil {
		return nil, err
	}

	zap.L().Info("plan activated",
		zap.String("tenant_id", tenant.ID),
		zap.String("plan", plan),
	)
	s.audit.Record(ctx, p, "UPDATE_BILLING", tenant.ID, map[string]any{
		"plan":      plan,
		"reference": input.PaymentReference,
	})
	return tenant, nil
}
