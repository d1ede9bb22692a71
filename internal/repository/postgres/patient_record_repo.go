package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type patientRecordRepo struct {
	db *sqlx.DB
}

// NewPatientRecordRepo creates a new PostgreSQL-backed PatientRecordRepository.
func NewPatientRecordRepo(db *sqlx.DB) port.PatientRecordRepository {
	return &patientRecordRepo{db: db}
}

func (r *patientRecordRepo) AddNote(ctx context.Context, note *domain.PatientNote) error {
	note.ID = uuid.New().String()
	note.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_notes (id, patient_id, tenant_id, author_id, author_name, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		note.ID, note.PatientID, note.TenantID, note.AuthorID, note.AuthorName, note.Content, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("patientRecordRepo.AddNote: %w", classify(err))
	}
	return nil
}

func (r *patientRecordRepo) AddAttachment(ctx context.Context, att *domain.PatientAttachment) error {
	att.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_attachments (id, patient_id, tenant_id, file_name, file_type, content_type,
		 file_size, s3_bucket, s3_key, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		att.ID, att.PatientID, att.TenantID, att.FileName, att.FileType, att.ContentType,
		att.FileSize, att.S3Bucket, att.S3Key, att.UploadedBy, att.CreatedAt)
	if err != nil {
		return fmt.Errorf("patientRecordRepo.AddAttachment: %w", classify(err))
	}
	return nil
}

func (r *patientRecordRepo) GetAttachment(ctx context.Context, tenantID, patientID, attachmentID string) (*domain.PatientAttachment, error) {
	var att domain.PatientAttachment
	err := r.db.GetContext(ctx, &att,
		`SELECT * FROM patient_attachments WHERE id = $1 AND patient_id = $2 AND tenant_id = $3`,
		attachmentID, patientID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("patientRecordRepo.GetAttachment: %w", err)
	}
	return &att, nil
}
