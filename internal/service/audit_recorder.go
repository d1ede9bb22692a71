package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vetcare/internal/domain"
	"vetcare/internal/metrics"
	"vetcare/internal/port"
)

const auditTimeout = 5 * time.Second

// AuditRecorder appends audit rows on a best-effort basis. A failed write
// is logged and counted; it never fails the request that caused it.
type AuditRecorder struct {
	repo port.AuditRepository
}

// NewAuditRecorder creates an AuditRecorder.
func NewAuditRecorder(repo port.AuditRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record writes one audit row for p. details may be nil.
func (r *AuditRecorder) Record(ctx context.Context, p domain.Principal, action, recordID string, details any) {
	raw := json.RawMessage("{}")
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			raw = b
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		TenantID:  p.TenantID,
		BranchID:  p.BranchRef(),
		UserID:    p.UserRef(),
		UserName:  p.Name,
		Action:    action,
		RecordID:  recordID,
		Details:   raw,
		Timestamp: time.Now().UTC(),
	}

	// The request may already be finishing; the write gets its own deadline.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := r.repo.Create(writeCtx, entry); err != nil {
		metrics.AuditFailures.WithLabelValues(action).Inc()
		zap.L().Warn("audit write failed",
			zap.String("action", action),
			zap.String("record_id", recordID),
			zap.String("tenant_id", p.TenantID),
			zap.Error(err),
		)
	}
}
