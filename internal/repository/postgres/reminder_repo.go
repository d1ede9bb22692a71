package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type reminderRepo struct {
	db *sqlx.DB
}

// NewReminderRepo creates a new PostgreSQL-backed ReminderRepository.
func NewReminderRepo(db *sqlx.DB) port.ReminderRepository {
	return &reminderRepo{db: db}
}

func (r *reminderRepo) ListDue(ctx context.Context, from, to time.Time) ([]domain.DueReminder, error) {
	var due []domain.DueReminder
	err := r.db.SelectContext(ctx, &due, `
		SELECT a.id AS appointment_id, a.tenant_id, a.branch_id, a.client_id,
		       COALESCE(c.name, '') AS client_name,
		       COALESCE(c.email, '') AS client_email,
		       COALESCE(c.phone, '') AS client_phone,
		       COALESCE(p.name, '') AS patient_name,
		       a.start_time,
		       COALESCE(a.reason, '') AS reason
		FROM appointments a
		LEFT JOIN clients c ON c.id = a.client_id
		LEFT JOIN patients p ON p.id = a.patient_id
		WHERE a.start_time >= $1 AND a.start_time < $2
		  AND NOT a.reminder_sent
		  AND COALESCE(a.status, '') NOT IN ('CANCELLED', 'COMPLETED', 'NO_SHOW')
		ORDER BY a.start_time`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("reminderRepo.ListDue: %w", err)
	}
	return due, nil
}

func (r *reminderRepo) MarkSent(ctx context.Context, appointmentID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE appointments SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1", appointmentID)
	if err != nil {
		return fmt.Errorf("reminderRepo.MarkSent: %w", err)
	}
	return nil
}
