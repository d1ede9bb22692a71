package email_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vetcare/internal/domain"
	"vetcare/internal/email"
)

func TestResetURL_EscapesToken(t *testing.T) {
	got := email.ResetURL("https://app.example.com", "a.b+c/d")
	assert.Equal(t, "https://app.example.com/reset-password?token=a.b%2Bc%2Fd", got)
}

func TestPasswordResetMessage(t *testing.T) {
	msg := email.PasswordResetMessage("https://app.example.com", "Dana", "tok")

	assert.Equal(t, "Reset your VetCare password", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Dana")
	assert.Contains(t, msg.Text, "https://app.example.com/reset-password?token=tok")
	assert.Contains(t, msg.HTML, "https://app.example.com/reset-password?token=tok")
}

func TestAppointmentReminderMessage(t *testing.T) {
	msg := email.AppointmentReminderMessage(domain.DueReminder{
		ClientName:  "Dana",
		PatientName: "Rex",
		StartTime:   time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
	})

	assert.Equal(t, "Reminder: Rex's appointment on Sat 15 Mar 2025, 10:30 UTC", msg.Subject)
	assert.Contains(t, msg.Text, "for a visit")
	assert.Contains(t, msg.HTML, "<strong>Rex</strong>")
}
