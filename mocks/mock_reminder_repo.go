package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vetcare/internal/domain"
)

// MockReminderRepo is a mock implementation of port.ReminderRepository.
type MockReminderRepo struct {
	mock.Mock
}

func (m *MockReminderRepo) ListDue(ctx context.Context, from, to time.Time) ([]domain.DueReminder, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DueReminder), args.Error(1)
}

func (m *MockReminderRepo) MarkSent(ctx context.Context, appointmentID string) error {
	args := m.Called(ctx, appointmentID)
	return args.Error(0)
}
