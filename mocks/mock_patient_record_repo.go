package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
)

// MockPatientRecordRepo is a mock implementation of port.PatientRecordRepository.
type MockPatientRecordRepo struct {
	mock.Mock
}

func (m *MockPatientRecordRepo) AddNote(ctx context.Context, note *domain.PatientNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockPatientRecordRepo) AddAttachment(ctx context.Context, att *domain.PatientAttachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *MockPatientRecordRepo) GetAttachment(ctx context.Context, tenantID, patientID, attachmentID string) (*domain.PatientAttachment, error) {
	args := m.Called(ctx, tenantID, patientID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatientAttachment), args.Error(1)
}
