package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	args := m.Called(ctx, toEmail, toName, resetToken)
	return args.Error(0)
}

func (m *MockEmailSender) SendAppointmentReminder(ctx context.Context, reminder domain.DueReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}
