package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAppointment(ctx context.Context, reminder domain.DueReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}
