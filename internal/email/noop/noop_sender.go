// Package noop logs emails instead of sending them.
package noop

import (
	"context"

	"go.uber.org/zap"

	"vetcare/internal/domain"
	"vetcare/internal/email"
	"vetcare/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates an EmailSender that only logs what it would send.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendPasswordResetEmail(_ context.Context, toEmail, toName, resetToken string) error {
	zap.L().Info("[noop email] password reset",
		zap.String("to", toEmail),
		zap.String("name", toName),
		zap.String("url", email.ResetURL(s.frontendURL, resetToken)),
	)
	return nil
}

func (s *noopSender) SendAppointmentReminder(_ context.Context, r domain.DueReminder) error {
	msg := email.AppointmentReminderMessage(r)
	zap.L().Info("[noop email] appointment reminder",
		zap.String("to", r.ClientEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}
