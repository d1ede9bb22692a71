package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new PostgreSQL-backed AuditRepository.
func NewAuditRepo(db *sqlx.DB) port.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	details := "{}"
	if len(entry.Details) > 0 {
		details = string(entry.Details)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, tenant_id, branch_id, user_id, user_name, action, record_id, details, "timestamp")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.TenantID, entry.BranchID, entry.UserID, entry.UserName,
		entry.Action, entry.RecordID, details, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("auditRepo.Create: %w", err)
	}
	return nil
}
