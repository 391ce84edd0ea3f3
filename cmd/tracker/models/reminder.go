package models

import (
	"fmt"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
)

// ReminderCooldown is the minimum spacing between two reminders of one type.
const ReminderCooldown = 5 * time.Minute

type Reminder struct {
	Type    nurture.ActivityType
	Elapsed time.Duration
	Title   string
	Body    string
}

// EvaluateReminders returns the reminders due at now and records them in
// cfg.LastNotified. active is nil when no timer is running; latest holds the
// most recent log of each type.
func EvaluateReminders(
	cfg *nurture.ReminderConfig,
	active *ActiveTimer,
	latest map[nurture.ActivityType]nurture.LogRecord,
	now time.Time,
) []Reminder {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if cfg.LastNotified == nil {
		cfg.LastNotified = make(map[nurture.ActivityType]time.Time)
	}

	var due []Reminder
	for _, t := range nurture.ReminderTypes {
		interval := cfg.Intervals[t]
		if interval <= 0 {
			continue
		}
		if active != nil && active.Type() == t {
			continue
		}
		last, ok := latest[t]
		if !ok {
			continue
		}

		elapsed := now.Sub(last.ReferenceTime())
		if elapsed < time.Duration(interval)*time.Minute {
			continue
		}
		if notified, ok := cfg.LastNotified[t]; ok && !notified.IsZero() && now.Sub(notified) < ReminderCooldown {
			continue
		}

		cfg.LastNotified[t] = now
		due = append(due, Reminder{
			Type:    t,
			Elapsed: elapsed,
			Title:   reminderTitle(t),
			Body:    fmt.Sprintf("It has been %s since the last %s.", FormatElapsed(elapsed), t),
		})
	}
	return due
}

// ResumedReminder is surfaced when a snoozed timer resumes on its own.
func ResumedReminder(t nurture.ActivityType) Reminder {
	return Reminder{
		Type:  t,
		Title: "Timer resumed",
		Body:  fmt.Sprintf("Snooze is over, the %s timer is running again.", t),
	}
}

// FormatElapsed renders d as "Xh Ym", or "Ym" below one hour.
func FormatElapsed(d time.Duration) string {
	mins := int(d / time.Minute)
	h, m := mins/60, mins%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func reminderTitle(t nurture.ActivityType) string {
	switch t {
	case nurture.Feeding:
		return "Feeding reminder"
	case nurture.Sleep:
		return "Sleep reminder"
	case nurture.Diaper:
		return "Diaper reminder"
	default:
		return "Reminder"
	}
}
