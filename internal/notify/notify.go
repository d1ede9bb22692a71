// Package notify delivers appointment reminders over the configured
// channel.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/port"
)

// logNotifier writes reminders to the application log.
type logNotifier struct{}

// NewLogNotifier creates a Notifier that only logs.
func NewLogNotifier() port.Notifier { return logNotifier{} }

func (logNotifier) NotifyAppointment(_ context.Context, r domain.DueReminder) error {
	zap.L().Info("appointment reminder",
		zap.String("appointment_id", r.AppointmentID),
		zap.String("tenant_id", r.TenantID),
		zap.String("client", r.ClientName),
		zap.String("patient", r.PatientName),
		zap.Time("start_time", r.StartTime),
	)
	return nil
}

// emailNotifier sends reminders with the configured email sender.
type emailNotifier struct {
	sender port.EmailSender
}

// NewEmailNotifier creates a Notifier backed by sender.
func NewEmailNotifier(sender port.EmailSender) port.Notifier {
	return &emailNotifier{sender: sender}
}

func (n *emailNotifier) NotifyAppointment(ctx context.Context, r domain.DueReminder) error {
	return n.sender.SendAppointmentReminder(ctx, r)
}

// Publisher is the subset of *nats.Conn used to publish reminders.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// natsNotifier publishes reminders as JSON events.
type natsNotifier struct {
	pub Publisher
}

// NewNATSNotifier creates a Notifier publishing to
// reminders.<tenantId>.appointment.
func NewNATSNotifier(pub Publisher) port.Notifier {
	return &natsNotifier{pub: pub}
}

// Subject returns the subject a tenant's reminders are published on.
func Subject(tenantID string) string {
	return fmt.Sprintf("reminders.%s.appointment", tenantID)
}

func (n *natsNotifier) NotifyAppointment(_ context.Context, r domain.DueReminder) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}
	if err := n.pub.Publish(Subject(r.TenantID), payload); err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}
	return nil
}

// ConnectNATS dials the broker with reconnects enabled.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("vetcare-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				zap.L().Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			zap.L().Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// New builds the Notifier selected by cfg. The returned close func
// releases any connection it opened.
func New(cfg config.NotifyConfig, sender port.EmailSender) (port.Notifier, func(), error) {
	switch cfg.Provider {
	case "email":
		return NewEmailNotifier(sender), func() {}, nil
	case "nats":
		nc, err := ConnectNATS(cfg.NATSURL)
		if err != nil {
			return nil, nil, err
		}
		return NewNATSNotifier(nc), func() { _ = nc.Drain() }, nil
	default:
		return NewLogNotifier(), func() {}, nil
	}
}
