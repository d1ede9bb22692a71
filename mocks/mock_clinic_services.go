package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
	"vetcare/internal/service"
)

// MockPatientRecordService is a mock implementation of service.PatientRecordService.
type MockPatientRecordService struct {
	mock.Mock
}

func (m *MockPatientRecordService) AddNote(ctx context.Context, p domain.Principal, patientID string, input service.AddNoteInput) (*domain.PatientNote, error) {
	args := m.Called(ctx, p, patientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatientNote), args.Error(1)
}

func (m *MockPatientRecordService) UploadAttachment(ctx context.Context, p domain.Principal, patientID string, input service.AttachmentUploadInput) (*domain.PatientAttachment, error) {
	args := m.Called(ctx, p, patientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatientAttachment), args.Error(1)
}

func (m *MockPatientRecordService) AttachmentURL(ctx context.Context, p domain.Principal, patientID, attachmentID string) (string, error) {
	args := m.Called(ctx, p, patientID, attachmentID)
	return args.String(0), args.Error(1)
}

// MockAnalyticsService is a mock implementation of service.AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Metrics(ctx context.Context, p domain.Principal, input service.AnalyticsRangeInput) (*domain.Metrics, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Metrics), args.Error(1)
}

func (m *MockAnalyticsService) Report(ctx context.Context, p domain.Principal, input service.AnalyticsRangeInput) (*domain.AnalyticsReport, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsReport), args.Error(1)
}

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) Verify(ctx context.Context, p domain.Principal, input service.VerifyPaymentInput) (*domain.Tenant, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// MockAIService is a mock implementation of service.AIService.
type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) Summary(ctx context.Context, input service.SummaryInput) *service.AIResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*service.AIResult)
}

func (m *MockAIService) Diagnosis(ctx context.Context, input service.DiagnosisInput) *service.AIResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*service.AIResult)
}

func (m *MockAIService) Identify(ctx context.Context, input service.IdentifyInput) *service.AIResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*service.AIResult)
}
