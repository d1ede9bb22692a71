package service

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"vetcare/internal/domain"
	"vetcare/internal/metrics"
	"vetcare/internal/port"
)

// ReminderLookahead is how far ahead appointments are reminded.
const ReminderLookahead = 24 * time.Hour

// ReminderJob sends one reminder per upcoming appointment.
type ReminderJob struct {
	repo     port.ReminderRepository
	notifier port.Notifier
	workers  int
	now      func() time.Time
}

// NewReminderJob creates a ReminderJob delivering up to workers reminders
// at once.
func NewReminderJob(repo port.ReminderRepository, notifier port.Notifier, workers int) *ReminderJob {
	if workers < 1 {
		workers = 1
	}
	return &ReminderJob{repo: repo, notifier: notifier, workers: workers, now: time.Now}
}

// Run notifies every due appointment and marks it sent. A failed
// notification is retried on the next run.
func (j *ReminderJob) Run(ctx context.Context) error {
	log := zap.L().Named("reminders")
	from := j.now().UTC()
	due, err := j.repo.ListDue(ctx, from, from.Add(ReminderLookahead))
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	pool, err := ants.NewPool(j.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, r := range due {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		r := r
		if err := pool.Submit(func() {
			defer wg.Done()
			j.deliver(ctx, log, r)
		}); err != nil {
			wg.Done()
			log.Error("submitting reminder failed", zap.String("appointment_id", r.AppointmentID), zap.Error(err))
		}
	}
	wg.Wait()

	log.Info("reminder run finished", zap.Int("due", len(due)))
	return ctx.Err()
}

func (j *ReminderJob) deliver(ctx context.Context, log *zap.Logger, r domain.DueReminder) {
	if err := j.notifier.NotifyAppointment(ctx, r); err != nil {
		metrics.RemindersTotal.WithLabelValues("failed").Inc()
		log.Warn("reminder not delivered",
			zap.String("appointment_id", r.AppointmentID),
			zap.String("tenant_id", r.TenantID),
			zap.Error(err),
		)
		return
	}
	if err := j.repo.MarkSent(ctx, r.AppointmentID); err != nil {
		log.Error("marking reminder sent failed",
			zap.String("appointment_id", r.AppointmentID),
			zap.Error(err),
		)
		return
	}
	metrics.RemindersTotal.WithLabelValues("sent").Inc()
}
