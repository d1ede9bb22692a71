package port

import (
	"context"
	"time"

	"vetcare/internal/domain"
)

// TenantRepository defines the contract for tenant persistence.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	// Register creates the tenant, its main branch and the first admin in
	// one transaction.
	Register(ctx context.Context, tenant *domain.Tenant, branch *domain.Branch, admin *domain.User) error
	UpdateBilling(ctx context.Context, tenant *domain.Tenant) error
}

// UserRepository defines the contract for user persistence used by auth.
// Login is by email across tenants; emails are globally unique.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, tenantID, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetPasswordResetToken(ctx context.Context, tenantID, userID, tokenID string) error
	ResetPassword(ctx context.Context, tenantID, userID, passwordHash, expectedTokenID string) error
}

// ClientRepository defines the lookups needed for client-portal accounts.
type ClientRepository interface {
	GetByID(ctx context.Context, tenantID, clientID string) (*domain.Client, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Client, error)
}

// AuditRepository appends audit log rows.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// PatientRecordRepository persists patient-owned notes and attachments.
type PatientRecordRepository interface {
	AddNote(ctx context.Context, note *domain.PatientNote) error
	AddAttachment(ctx context.Context, att *domain.PatientAttachment) error
	GetAttachment(ctx context.Context, tenantID, patientID, attachmentID string) (*domain.PatientAttachment, error)
}

// ReminderRepository finds appointments that need a reminder.
type ReminderRepository interface {
	ListDue(ctx context.Context, from, to time.Time) ([]domain.DueReminder, error)
	MarkSent(ctx context.Context, appointmentID string) error
}

// InventoryRepository reports on aggregate stock consistency.
type InventoryRepository interface {
	ListStockDrift(ctx context.Context) ([]domain.StockDrift, error)
}

// AnalyticsRepository aggregates reporting figures. An empty branchID
// aggregates every branch of the tenant.
type AnalyticsRepository interface {
	Metrics(ctx context.Context, tenantID, branchID string, start, end time.Time) (*domain.Metrics, error)
	DailyRevenue(ctx context.Context, tenantID, branchID string, start, end time.Time) ([]domain.DailyRevenue, error)
}
