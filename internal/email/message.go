// Package email renders the transactional messages sent by the email
// senders.
package email

import (
	"fmt"
	"net/url"

	"vetcare/internal/domain"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// ResetURL is the frontend page that consumes a reset token.
func ResetURL(frontendURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", frontendURL, url.QueryEscape(token))
}

// PasswordResetMessage renders the password reset email.
func PasswordResetMessage(frontendURL, name, token string) Message {
	resetURL := ResetURL(frontendURL, token)
	return Message{
		Subject: "Reset your VetCare password",
		Text: fmt.Sprintf("Hi %s,\n\nWe received a request to reset your password. Visit the link below to set a new one:\n%s\n\n"+
			"This link expires in 1 hour and can be used once. If you didn't request this, you can ignore this email.\n\nVetCare", name, resetURL),
		HTML: fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0f766e;">Reset your password</h2>
  <p>Hi %s,</p>
  <p>We received a request to reset your VetCare password.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0f766e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Reset Password</a>
  </p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">This link expires in 1 hour and can be used once.</p>
</body>
</html>`, name, resetURL, resetURL),
	}
}

// AppointmentReminderMessage renders the reminder sent ahead of an
// appointment.
func AppointmentReminderMessage(r domain.DueReminder) Message {
	when := r.StartTime.UTC().Format("Mon 02 Jan 2006, 15:04 MST")
	reason := r.Reason
	if reason == "" {
		reason = "a visit"
	}
	return Message{
		Subject: fmt.Sprintf("Reminder: %s's appointment on %s", r.PatientName, when),
		Text: fmt.Sprintf("Hi %s,\n\nThis is a reminder that %s has an appointment for %s on %s.\n\n"+
			"Please contact the clinic if you need to reschedule.\n\nVetCare", r.ClientName, r.PatientName, reason, when),
		HTML: fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0f766e;">Appointment reminder</h2>
  <p>Hi %s,</p>
  <p><strong>%s</strong> has an appointment for %s on <strong>%s</strong>.</p>
  <p>Please contact the clinic if you need to reschedule.</p>
</body>
</html>`, r.ClientName, r.PatientName, reason, when),
	}
}
