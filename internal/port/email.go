package port

import (
	"context"

	"vetcare/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error
	SendAppointmentReminder(ctx context.Context, reminder domain.DueReminder) error
}

// Notifier delivers an appointment reminder over some channel.
type Notifier interface {
	NotifyAppointment(ctx context.Context, reminder domain.DueReminder) error
}
