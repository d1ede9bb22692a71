package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/service"
	"vetcare/mocks"
)

const (
	tenantID = "tenant-1"
	branchID = "branch-1"
)

func staff(role domain.UserRole) domain.Principal {
	return domain.Principal{
		UserID:   "user-1",
		TenantID: tenantID,
		BranchID: branchID,
		Role:     role,
		Email:    "staff@clinic.test",
		Name:     "Dr. Staff",
	}
}

func portal() domain.Principal {
	return domain.Principal{
		UserID:   "owner-user",
		TenantID: tenantID,
		BranchID: branchID,
		ClientID: "client-1",
		Role:     domain.RolePetOwner,
		Email:    "owner@example.com",
		Name:     "Pat Owner",
	}
}

// newAudit returns a recorder whose writes always succeed.
func newAudit(t *testing.T) (*service.AuditRecorder, *mocks.MockAuditRepo) {
	t.Helper()
	repo := new(mocks.MockAuditRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return service.NewAuditRecorder(repo), repo
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-key-for-unit-tests-0123456789",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "vetcare-test",
	}
}

func auditAction(action string) interface{} {
	return mock.MatchedBy(func(e *domain.AuditLog) bool { return e.Action == action })
}
