package main

import (
	"context"
	"testing"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(repo *memRepo, n *mockNotifier) *reminderScheduler {
	return NewReminderScheduler(context.Background(), repo, repo, repo, &mockTransactor{}, n, time.Second, nil)
}

func enableReminders(repo *memRepo, intervals map[nurture.ActivityType]int) {
	repo.cfg.Enabled = true
	for t, m := range intervals {
		repo.cfg.Intervals[t] = m
	}
}

func TestReminderScheduler_SnoozeAutoResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, enabled := range []bool{true, false} {
		repo := newMemRepo()
		repo.cfg.Enabled = enabled
		n := &mockNotifier{granted: true}
		s := newTestScheduler(repo, n)
		ctrl, clock := newTestController(repo)

		var resumed []models.ActiveTimer
		s.OnResume(func(_ context.Context, timer models.ActiveTimer) {
			resumed = append(resumed, timer)
		})

		_, err := ctrl.Start(ctx, nurture.Feeding)
		require.NoError(t, err)
		clock.Advance(time.Minute)
		_, _, err = ctrl.Snooze(ctx)
		require.NoError(t, err)

		// one second before the deadline nothing happens
		require.NoError(t, s.Tick(ctx, t0.Add(6*time.Minute-time.Second)))
		assert.True(t, repo.timer.SnoozeEndTime.Equal(t0.Add(6*time.Minute)))
		assert.Empty(t, resumed)

		require.NoError(t, s.Tick(ctx, t0.Add(6*time.Minute+time.Second)))
		assert.True(t, repo.timer.PauseStartTime.IsZero())
		assert.True(t, repo.timer.SnoozeEndTime.IsZero())
		assert.Equal(t, 5*time.Minute+time.Second, repo.timer.IgnoredDuration)
		require.Len(t, resumed, 1)
		assert.Equal(t, models.TimerRunning, resumed[0].State())

		if enabled {
			require.Len(t, n.Shown(), 1)
			assert.Equal(t, "Timer resumed", n.Shown()[0].title)
		} else {
			assert.Empty(t, n.Shown())
		}
	}
}

func TestReminderScheduler_Thresholds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMemRepo()
	enableReminders(repo, map[nurture.ActivityType]int{nurture.Feeding: 60})
	n := &mockNotifier{}
	s := newTestScheduler(repo, n)

	last := t0.Add(-time.Hour)
	_, err := repo.InsertLog(ctx, nurture.LogRecord{Type: nurture.Feeding, StartTime: last.Add(-10 * time.Minute), EndTime: last})
	require.NoError(t, err)

	require.NoError(t, s.Tick(ctx, t0.Add(-time.Second)))
	assert.Empty(t, n.Shown())

	require.NoError(t, s.Tick(ctx, t0))
	require.Len(t, n.Shown(), 1)
	assert.Equal(t, "Feeding reminder", n.Shown()[0].title)
	assert.Contains(t, n.Shown()[0].body, "1h 0m")
	assert.Equal(t, t0, repo.cfg.LastNotified[nurture.Feeding])

	// cool-down
	require.NoError(t, s.Tick(ctx, t0.Add(models.ReminderCooldown-time.Second)))
	assert.Len(t, n.Shown(), 1)
	require.NoError(t, s.Tick(ctx, t0.Add(models.ReminderCooldown)))
	assert.Len(t, n.Shown(), 2)
}

func TestReminderScheduler_SkipsActiveTypeAndMissingHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMemRepo()
	enableReminders(repo, map[nurture.ActivityType]int{nurture.Sleep: 30, nurture.Diaper: 30})
	n := &mockNotifier{}
	s := newTestScheduler(repo, n)
	ctrl, _ := newTestController(repo)

	_, err := repo.InsertLog(ctx, nurture.LogRecord{Type: nurture.Sleep, StartTime: t0.Add(-3 * time.Hour), EndTime: t0.Add(-2 * time.Hour)})
	require.NoError(t, err)
	_, err = ctrl.Start(ctx, nurture.Sleep)
	require.NoError(t, err)

	require.NoError(t, s.Tick(ctx, t0.Add(time.Minute)))
	assert.Empty(t, n.Shown())
	assert.NotContains(t, repo.cfg.LastNotified, nurture.Diaper)
}

func TestReminderScheduler_DeliveryFailureKeepsSchedule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMemRepo()
	enableReminders(repo, map[nurture.ActivityType]int{nurture.Diaper: 120})
	n := &mockNotifier{showErr: errDeliveryFailed}
	s := newTestScheduler(repo, n)

	_, err := repo.InsertLog(ctx, nurture.LogRecord{Type: nurture.Diaper, StartTime: t0.Add(-3 * time.Hour)})
	require.NoError(t, err)

	require.NoError(t, s.Tick(ctx, t0))
	assert.Len(t, n.Shown(), 1)
	assert.Equal(t, t0, repo.cfg.LastNotified[nurture.Diaper])

	require.NoError(t, s.Tick(ctx, t0.Add(time.Second)))
	assert.Len(t, n.Shown(), 1)
}

func TestReminderScheduler_Disabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMemRepo()
	repo.cfg.Intervals[nurture.Feeding] = 1
	n := &mockNotifier{}
	s := newTestScheduler(repo, n)

	_, err := repo.InsertLog(ctx, nurture.LogRecord{Type: nurture.Feeding, StartTime: t0.Add(-24 * time.Hour)})
	require.NoError(t, err)

	require.NoError(t, s.Tick(ctx, t0))
	assert.Empty(t, n.Shown())
}

func TestReminderScheduler_Configure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	on := true

	t.Run("permission granted", func(t *testing.T) {
		t.Parallel()
		repo := newMemRepo()
		s := newTestScheduler(repo, &mockNotifier{granted: true})

		cfg, err := s.Configure(ctx, ReminderUpdate{
			Enabled:   &on,
			Intervals: map[nurture.ActivityType]int{nurture.Feeding: 180, nurture.Diaper: -5},
		})
		require.NoError(t, err)
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 180, repo.cfg.Intervals[nurture.Feeding])
		assert.Equal(t, 0, repo.cfg.Intervals[nurture.Diaper])
	})

	t.Run("permission denied", func(t *testing.T) {
		t.Parallel()
		repo := newMemRepo()
		s := newTestScheduler(repo, &mockNotifier{granted: false})

		cfg, err := s.Configure(ctx, ReminderUpdate{
			Enabled:   &on,
			Intervals: map[nurture.ActivityType]int{nurture.Sleep: 90},
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.False(t, cfg.Enabled)
		assert.False(t, repo.cfg.Enabled)
		assert.Equal(t, 90, repo.cfg.Intervals[nurture.Sleep])
	})

	t.Run("intervals only", func(t *testing.T) {
		t.Parallel()
		repo := newMemRepo()
		repo.cfg.Enabled = true
		s := newTestScheduler(repo, &mockNotifier{})

		cfg, err := s.Configure(ctx, ReminderUpdate{Intervals: map[nurture.ActivityType]int{nurture.Sleep: 45}})
		require.NoError(t, err)
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 45, cfg.Intervals[nurture.Sleep])
	})
}

func TestReminderScheduler_StartShutdown(t *testing.T) {
	t.Parallel()
	repo := newMemRepo()
	s := NewReminderScheduler(context.Background(), repo, repo, repo, &mockTransactor{}, &mockNotifier{}, 10*time.Millisecond, nil)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, s.Shutdown())
}
