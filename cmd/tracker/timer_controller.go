package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Thiht/transactor"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/charmbracelet/log"
)

// AppState is a read-only snapshot for display.
type AppState struct {
	Active       *models.ActiveTimer
	Latest       map[nurture.ActivityType]nurture.ExistingLogRecord
	Now          time.Time
	SnoozeWindow time.Duration
}

type TimerController interface {
	Start(context.Context, nurture.ActivityType) (models.ActiveTimer, error)
	UpdateDetails(context.Context, nurture.Details) (models.ActiveTimer, error)
	TogglePause(context.Context) (models.ActiveTimer, error)
	// Snooze reports false when the timer was already snoozed.
	Snooze(context.Context) (models.ActiveTimer, bool, error)
	EditStartTime(context.Context, time.Time) (models.ActiveTimer, error)
	// Stop reports false when the session was too short to be saved.
	Stop(context.Context) (nurture.ExistingLogRecord, bool, error)
	Cancel(context.Context) (models.ActiveTimer, error)
	Status(context.Context) (AppState, error)

	QuickLogSleep(ctx context.Context, minutes int) (nurture.ExistingLogRecord, error)
	ManualLog(ctx context.Context, t nurture.ActivityType, start, end time.Time, details nurture.Details) (nurture.ExistingLogRecord, error)
	EditLog(ctx context.Context, id nurture.LogID, start, end time.Time) (nurture.ExistingLogRecord, error)
	DeleteLog(context.Context, nurture.LogID) (nurture.ExistingLogRecord, error)
	History(ctx context.Context, limit int) ([]nurture.ExistingLogRecord, error)
}

type timerController struct {
	timers       nurture.TimerRepo
	logs         nurture.LogRepo
	tx           transactor.Transactor
	snoozeWindow time.Duration
	now          func() time.Time

	// serializes read-modify-write of the active timer slot
	mu *sync.Mutex
}

func NewTimerController(timers nurture.TimerRepo, logs nurture.LogRepo, tx transactor.Transactor, snoozeWindow time.Duration, mu *sync.Mutex) *timerController {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &timerController{
		mu:           mu,
		timers:       timers,
		logs:         logs,
		tx:           tx,
		snoozeWindow: snoozeWindow,
		now:          time.Now,
	}
}

func (c *timerController) Start(ctx context.Context, t nurture.ActivityType) (models.ActiveTimer, error) {
	if !t.Valid() {
		return models.ActiveTimer{}, fmt.Errorf("invalid activity type: %s", t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var timer models.ActiveTimer
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := c.timers.GetActiveTimer(ctx)
		if err != nil {
			return err
		}
		if existing != nil {
			return nurture.ErrTimerActive
		}
		timer = models.NewActiveTimer(t, c.now())
		return c.timers.SaveActiveTimer(ctx, c.stamp(timer))
	})
	if err != nil {
		return models.ActiveTimer{}, fmt.Errorf("failed to start %s timer: %w", t, err)
	}
	log.Info("started timer", "type", t)
	return timer, nil
}

func (c *timerController) UpdateDetails(ctx context.Context, patch nurture.Details) (models.ActiveTimer, error) {
	return c.mutate(ctx, func(timer *models.ActiveTimer, _ time.Time) {
		timer.UpdateDetails(patch)
	})
}

func (c *timerController) TogglePause(ctx context.Context) (models.ActiveTimer, error) {
	return c.mutate(ctx, func(timer *models.ActiveTimer, now time.Time) {
		timer.TogglePause(now)
	})
}

func (c *timerController) Snooze(ctx context.Context) (models.ActiveTimer, bool, error) {
	var snoozed bool
	timer, err := c.mutate(ctx, func(timer *models.ActiveTimer, now time.Time) {
		snoozed = timer.Snooze(now, c.snoozeWindow)
	})
	return timer, snoozed, err
}

func (c *timerController) EditStartTime(ctx context.Context, start time.Time) (models.ActiveTimer, error) {
	return c.mutate(ctx, func(timer *models.ActiveTimer, _ time.Time) {
		timer.EditStartTime(start)
	})
}

func (c *timerController) Stop(ctx context.Context) (nurture.ExistingLogRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		inserted nurture.ExistingLogRecord
		saved    bool
	)
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		timer, err := c.load(ctx)
		if err != nil {
			return err
		}
		record, ok := timer.Stop(c.now())
		if ok {
			inserted, err = c.logs.InsertLog(ctx, record)
			if err != nil {
				return fmt.Errorf("failed to insert log: %w", err)
			}
			saved = true
		}
		return c.timers.ClearActiveTimer(ctx)
	})
	if err != nil {
		return nurture.ExistingLogRecord{}, false, fmt.Errorf("failed to stop timer: %w", err)
	}
	if saved {
		log.Info("stopped timer", "type", inserted.Type, "duration", *inserted.DurationSeconds, "logID", inserted.ID)
	} else {
		log.Info("discarded short timer")
	}
	return inserted, saved, nil
}

func (c *timerController) Cancel(ctx context.Context) (models.ActiveTimer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var timer models.ActiveTimer
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if timer, err = c.load(ctx); err != nil {
			return err
		}
		return c.timers.ClearActiveTimer(ctx)
	})
	if err != nil {
		return models.ActiveTimer{}, fmt.Errorf("failed to cancel timer: %w", err)
	}
	log.Info("cancelled timer", "type", timer.Type())
	return timer, nil
}

func (c *timerController) Status(ctx context.Context) (AppState, error) {
	state := AppState{Now: c.now(), SnoozeWindow: c.snoozeWindow}
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := c.timers.GetActiveTimer(ctx)
		if err != nil {
			return err
		}
		if record != nil {
			timer := models.TimerFromRecord(*record)
			state.Active = &timer
		}
		state.Latest, err = c.logs.LatestLogs(ctx)
		return err
	})
	if err != nil {
		return AppState{}, fmt.Errorf("failed to load status: %w", err)
	}
	return state, nil
}

// QuickLogSleep records a sleep of the given length that ended now.
func (c *timerController) QuickLogSleep(ctx context.Context, minutes int) (nurture.ExistingLogRecord, error) {
	if minutes <= 0 {
		return nurture.ExistingLogRecord{}, nurture.ErrInvalidRange
	}
	end := c.now()
	return c.ManualLog(ctx, nurture.Sleep, end.Add(-time.Duration(minutes)*time.Minute), end, nurture.Details{})
}

// ManualLog adds a finished activity to history. A zero end records a point event.
func (c *timerController) ManualLog(ctx context.Context, t nurture.ActivityType, start, end time.Time, details nurture.Details) (nurture.ExistingLogRecord, error) {
	if !t.Valid() {
		return nurture.ExistingLogRecord{}, fmt.Errorf("invalid activity type: %s", t)
	}
	record := nurture.LogRecord{
		Type:      t,
		StartTime: start,
		Details:   details,
	}
	if !end.IsZero() {
		if !end.After(start) {
			return nurture.ExistingLogRecord{}, nurture.ErrInvalidRange
		}
		record.EndTime = end
		record.DurationSeconds = durationSeconds(start, end)
	}

	var inserted nurture.ExistingLogRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = c.logs.InsertLog(ctx, record)
		return err
	})
	if err != nil {
		return nurture.ExistingLogRecord{}, fmt.Errorf("failed to log %s: %w", t, err)
	}
	log.Info("logged activity", "type", t, "logID", inserted.ID)
	return inserted, nil
}

// EditLog moves a log and recomputes its duration from the new range.
func (c *timerController) EditLog(ctx context.Context, id nurture.LogID, start, end time.Time) (nurture.ExistingLogRecord, error) {
	if !end.IsZero() && !end.After(start) {
		return nurture.ExistingLogRecord{}, nurture.ErrInvalidRange
	}

	var updated nurture.ExistingLogRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := c.logs.GetLog(ctx, id)
		if err != nil {
			return err
		}
		record := existing.LogRecord
		record.StartTime = start
		record.EndTime = end
		record.DurationSeconds = nil
		if !end.IsZero() {
			record.DurationSeconds = durationSeconds(start, end)
		}
		updated, err = c.logs.UpdateLog(ctx, id, record)
		return err
	})
	if err != nil {
		return nurture.ExistingLogRecord{}, fmt.Errorf("failed to edit log %s: %w", id, err)
	}
	return updated, nil
}

func (c *timerController) DeleteLog(ctx context.Context, id nurture.LogID) (nurture.ExistingLogRecord, error) {
	var deleted nurture.ExistingLogRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = c.logs.DeleteLog(ctx, id)
		return err
	})
	if err != nil {
		return nurture.ExistingLogRecord{}, fmt.Errorf("failed to delete log %s: %w", id, err)
	}
	log.Info("deleted log", "logID", id)
	return deleted, nil
}

func (c *timerController) History(ctx context.Context, limit int) ([]nurture.ExistingLogRecord, error) {
	var logs []nurture.ExistingLogRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		logs, err = c.logs.ListLogs(ctx, limit)
		return err
	})
	return logs, err
}

// mutate applies fn to the stored timer and writes it back in one transaction.
func (c *timerController) mutate(ctx context.Context, fn func(*models.ActiveTimer, time.Time)) (models.ActiveTimer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var timer models.ActiveTimer
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if timer, err = c.load(ctx); err != nil {
			return err
		}
		fn(&timer, c.now())
		return c.timers.SaveActiveTimer(ctx, c.stamp(timer))
	})
	if err != nil {
		return models.ActiveTimer{}, err
	}
	return timer, nil
}

func (c *timerController) load(ctx context.Context) (models.ActiveTimer, error) {
	record, err := c.timers.GetActiveTimer(ctx)
	if err != nil {
		return models.ActiveTimer{}, err
	}
	if record == nil {
		return models.ActiveTimer{}, nurture.ErrNoActiveTimer
	}
	return models.TimerFromRecord(*record), nil
}

func (c *timerController) stamp(timer models.ActiveTimer) nurture.ActiveTimerRecord {
	r := timer.Record()
	r.UpdatedAt = c.now()
	return r
}

func durationSeconds(start, end time.Time) *int {
	d := int(end.Sub(start) / time.Second)
	return &d
}
