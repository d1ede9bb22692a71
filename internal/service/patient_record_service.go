package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/port"
	"vetcare/internal/resource"
)

// AddNoteInput is the DTO for appending a patient note.
type AddNoteInput struct {
	Content string `json:"content" binding:"required"`
}

// AttachmentUploadInput is one multipart file for a patient.
type AttachmentUploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// PatientRecordService manages the append-only parts of a patient record.
type PatientRecordService interface {
	AddNote(ctx context.Context, p domain.Principal, patientID string, input AddNoteInput) (*domain.PatientNote, error)
	UploadAttachment(ctx context.Context, p domain.Principal, patientID string, input AttachmentUploadInput) (*domain.PatientAttachment, error)
	AttachmentURL(ctx context.Context, p domain.Principal, patientID, attachmentID string) (string, error)
}

type patientRecordService struct {
	records   port.PatientRecordRepository
	resources port.ResourceRepository
	patients  *resource.Spec
	storage   port.ObjectStorage
	audit     *AuditRecorder
	cfg       *config.S3Config
}

// NewPatientRecordService creates a new PatientRecordService.
func NewPatientRecordService(
	records port.PatientRecordRepository,
	resources port.ResourceRepository,
	registry *resource.Registry,
	storage port.ObjectStorage,
	audit *AuditRecorder,
	cfg *config.S3Config,
) PatientRecordService {
	return &patientRecordService{
		records:   records,
		resources: resources,
		patients:  registry.MustLookup("patients"),
		storage:   storage,
		audit:     audit,
		cfg:       cfg,
	}
}

func (s *patientRecordService) AddNote(ctx context.Context, p domain.Principal, patientID string, input AddNoteInput) (*domain.PatientNote, error) {
	if p.IsPortal() {
		return nil, domain.ErrForbidden
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if err := s.ensurePatient(ctx, p, patientID); err != nil {
		return nil, err
	}

	note := &domain.PatientNote{
		PatientID:  patientID,
		TenantID:   p.TenantID,
		AuthorID:   p.UserRef(),
		AuthorName: p.Name,
		Content:    content,
	}
	if err := s.records.AddNote(ctx, note); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, p, "CREATE_PATIENT_NOTE", note.ID, map[string]any{"patientId": patientID})
	return note, nil
}

func (s *patientRecordService) UploadAttachment(ctx context.Context, p domain.Principal, patientID string, input AttachmentUploadInput) (*domain.PatientAttachment, error) {
	if p.IsPortal() {
		return nil, domain.ErrForbidden
	}
	if err := s.ensurePatient(ctx, p, patientID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024; maxBytes > 0 && input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic bytes decide the content type, not the client's header.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(buf[:n])]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	id := uuid.New().String()
	contentType := domain.AllowedFileTypes[fileType]
	att := &domain.PatientAttachment{
		ID:          id,
		PatientID:   patientID,
		TenantID:    p.TenantID,
		FileName:    filepath.Base(input.Header.Filename),
		FileType:    fileType,
		ContentType: contentType,
		FileSize:    input.Header.Size,
		S3Bucket:    s.cfg.Bucket,
		S3Key:       fmt.Sprintf("tenants/%s/patients/%s/%s.%s", p.TenantID, patientID, id, ext),
		UploadedBy:  p.UserRef(),
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      att.S3Bucket,
		Key:         att.S3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		zap.L().Error("attachment upload failed",
			zap.String("patient_id", patientID),
			zap.String("key", att.S3Key),
			zap.Error(err),
		)
		return nil, domain.ErrUploadFailed
	}
	if err := s.records.AddAttachment(ctx, att); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, p, "CREATE_PATIENT_ATTACHMENT", att.ID, map[string]any{
		"patientId": patientID,
		"fileName":  att.FileName,
	})
	return att, nil
}

func (s *patientRecordService) AttachmentURL(ctx context.Context, p domain.Principal, patientID, attachmentID string) (string, error) {
	if err := s.ensurePatient(ctx, p, patientID); err != nil {
		return "", err
	}
	att, err := s.records.GetAttachment(ctx, p.TenantID, patientID, attachmentID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, att.S3Bucket, att.S3Key, s.cfg.PresignExpiry)
}

// ensurePatient checks that the patient is visible to p.
func (s *patientRecordService) ensurePatient(ctx context.Context, p domain.Principal, patientID string) error {
	f, visible := scopeFor(s.patients, p)
	if !visible {
		return domain.ErrNotFound
	}
	_, err := s.resources.Get(ctx, s.patients, f, patientID)
	return err
}
