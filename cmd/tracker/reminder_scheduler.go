package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Thiht/transactor"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/charmbracelet/log"
)

var ErrPermissionDenied = errors.New("notification permission denied")

// ReminderUpdate patches the reminder config. Nil fields are left unchanged.
type ReminderUpdate struct {
	Enabled   *bool
	Intervals map[nurture.ActivityType]int
}

type ReminderScheduler interface {
	Start()
	Tick(ctx context.Context, now time.Time) error
	Configure(context.Context, ReminderUpdate) (nurture.ReminderConfig, error)
	Config(context.Context) (nurture.ReminderConfig, error)
	// OnResume is called after a snoozed timer resumes on its own.
	OnResume(func(context.Context, models.ActiveTimer))
	Shutdown() error
}

type reminderScheduler struct {
	timers    nurture.TimerRepo
	logs      nurture.LogRepo
	reminders nurture.ReminderRepo
	tx        transactor.Transactor
	notifier  Notifier
	tickRate  time.Duration

	parentCtx context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	// shared with the timer controller so a tick never interleaves with a user operation
	mu *sync.Mutex

	onResume func(context.Context, models.ActiveTimer)
}

func NewReminderScheduler(
	ctx context.Context,
	timers nurture.TimerRepo,
	logs nurture.LogRepo,
	reminders nurture.ReminderRepo,
	tx transactor.Transactor,
	notifier Notifier,
	tickRate time.Duration,
	mu *sync.Mutex,
) *reminderScheduler {
	if tickRate <= 0 {
		tickRate = time.Second
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	ctx, cancel := context.WithCancel(ctx)
	return &reminderScheduler{
		timers:    timers,
		logs:      logs,
		reminders: reminders,
		tx:        tx,
		notifier:  notifier,
		tickRate:  tickRate,
		parentCtx: ctx,
		cancel:    cancel,
		mu:        mu,
	}
}

func (s *reminderScheduler) OnResume(handler func(context.Context, models.ActiveTimer)) {
	s.onResume = handler
}

func (s *reminderScheduler) Start() {
	s.wg.Go(func() {
		ticker := time.NewTicker(s.tickRate)
		defer ticker.Stop()
		for {
			select {
			case <-s.parentCtx.Done():
				log.Info("ending reminder loop")
				return
			case now := <-ticker.C:
				if err := s.Tick(s.parentCtx, now); err != nil && s.parentCtx.Err() == nil {
					log.Error("failed reminder tick", "err", err)
				}
			}
		}
	})
}

// Tick resumes an expired snooze and sends the reminders due at now.
// Delivery failures are logged and never change what was recorded.
func (s *reminderScheduler) Tick(ctx context.Context, now time.Time) error {
	var (
		resumed *models.ActiveTimer
		due     []models.Reminder
		enabled bool
	)

	s.mu.Lock()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		resumed, due, enabled = nil, nil, false

		var active *models.ActiveTimer
		record, err := s.timers.GetActiveTimer(ctx)
		if err != nil {
			return err
		}
		if record != nil {
			timer := models.TimerFromRecord(*record)
			if _, ok := timer.ResumeIfSnoozeElapsed(now); ok {
				r := timer.Record()
				r.UpdatedAt = now
				if err := s.timers.SaveActiveTimer(ctx, r); err != nil {
					return fmt.Errorf("failed to resume snoozed timer: %w", err)
				}
				resumed = &timer
			}
			active = &timer
		}

		cfg, err := s.reminders.GetReminderConfig(ctx)
		if err != nil {
			return err
		}
		enabled = cfg.Enabled
		if !enabled {
			return nil
		}

		latest, err := s.logs.LatestLogs(ctx)
		if err != nil {
			return err
		}
		records := make(map[nurture.ActivityType]nurture.LogRecord, len(latest))
		for t, l := range latest {
			records[t] = l.LogRecord
		}

		due = models.EvaluateReminders(&cfg, active, records, now)
		for _, r := range due {
			if err := s.reminders.SetLastNotified(ctx, r.Type, now); err != nil {
				return err
			}
		}
		return nil
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if resumed != nil {
		log.Info("snooze elapsed, timer resumed", "type", resumed.Type())
		if s.onResume != nil {
			s.onResume(ctx, *resumed)
		}
		if enabled {
			s.show(ctx, models.ResumedReminder(resumed.Type()))
		}
	}
	for _, r := range due {
		log.Debug("sending reminder", "type", r.Type, "elapsed", r.Elapsed)
		s.show(ctx, r)
	}
	return nil
}

func (s *reminderScheduler) show(ctx context.Context, r models.Reminder) {
	if err := s.notifier.Show(ctx, r.Title, r.Body); err != nil {
		log.Error("failed to show notification", "type", r.Type, "title", r.Title, "err", err)
	}
}

// Configure applies u. Enabling asks the notifier for permission first and
// leaves reminders disabled with ErrPermissionDenied when refused.
func (s *reminderScheduler) Configure(ctx context.Context, u ReminderUpdate) (nurture.ReminderConfig, error) {
	var denied bool
	if u.Enabled != nil && *u.Enabled {
		granted, err := s.notifier.RequestPermission(ctx)
		if err != nil {
			log.Error("failed notification permission request", "err", err)
		}
		denied = !granted
	}

	var cfg nurture.ReminderConfig
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if cfg, err = s.reminders.GetReminderConfig(ctx); err != nil {
			return err
		}
		if u.Enabled != nil {
			cfg.Enabled = *u.Enabled && !denied
		}
		for t, minutes := range u.Intervals {
			if minutes < 0 {
				minutes = 0
			}
			cfg.Intervals[t] = minutes
		}
		return s.reminders.SaveReminderConfig(ctx, cfg)
	})
	if err != nil {
		return nurture.ReminderConfig{}, fmt.Errorf("failed to save reminder config: %w", err)
	}
	if denied {
		return cfg, ErrPermissionDenied
	}
	log.Info("updated reminders", "enabled", cfg.Enabled, "intervals", cfg.Intervals)
	return cfg, nil
}

func (s *reminderScheduler) Config(ctx context.Context) (nurture.ReminderConfig, error) {
	var cfg nurture.ReminderConfig
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = s.reminders.GetReminderConfig(ctx)
		return err
	})
	return cfg, err
}

func (s *reminderScheduler) Shutdown() error {
	s.cancel()
	s.wg.Wait()
	return nil
}
