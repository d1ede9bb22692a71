package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetcare/internal/config"
	"vetcare/internal/scheduler"
)

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	s, err := scheduler.New(config.SchedulerConfig{Timezone: "UTC"})
	require.NoError(t, err)
	return s
}

func TestNew_InvalidTimezone(t *testing.T) {
	_, err := scheduler.New(config.SchedulerConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestAdd_RejectsBadSpec(t *testing.T) {
	s := newScheduler(t)
	err := s.Add("broken", "not a cron spec", scheduler.JobFunc(func(context.Context) error { return nil }))
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestAdd_AcceptsDescriptorsAndFiveFieldSpecs(t *testing.T) {
	s := newScheduler(t)
	noop := scheduler.JobFunc(func(context.Context) error { return nil })

	require.NoError(t, s.Add("reminders", "@every 60s", noop))
	require.NoError(t, s.Add("reconcile", "0 3 * * *", noop))
	assert.Equal(t, 2, s.Len())
}

func TestScheduler_RunsJobsAndStops(t *testing.T) {
	s := newScheduler(t)
	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", scheduler.JobFunc(func(context.Context) error {
		runs.Add(1)
		return errors.New("failures are logged, not fatal")
	})))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestScheduler_StopCancelsSlowJobs(t *testing.T) {
	s := newScheduler(t)
	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, s.Add("slow", "@every 1s", scheduler.JobFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})))

	s.Start()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Stop(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Eventually(t, cancelled.Load, time.Second, 10*time.Millisecond)
}

func TestScheduler_EachRunHasJobTimeoutDeadline(t *testing.T) {
	s, err := scheduler.New(config.SchedulerConfig{Timezone: "UTC", JobTimeout: 200 * time.Millisecond})
	require.NoError(t, err)

	type outcome struct {
		hadDeadline bool
		err         error
	}
	results := make(chan outcome, 1)
	require.NoError(t, s.Add("stuck", "@every 1s", scheduler.JobFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		<-ctx.Done()
		select {
		case results <- outcome{hadDeadline: ok, err: ctx.Err()}:
		default:
		}
		return ctx.Err()
	})))

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	select {
	case got := <-results:
		assert.True(t, got.hadDeadline)
		assert.ErrorIs(t, got.err, context.DeadlineExceeded)
	case <-time.After(3 * time.Second):
		t.Fatal("job was never cut off by its timeout")
	}
}
