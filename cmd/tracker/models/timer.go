// Package models holds the timer state machine and reminder rules.
package models

import (
	"time"

	nurture "github.com/bill2712/nursing-tracker"
)

const (
	DefaultSnoozeWindow = 5 * time.Minute
	// MinLogSeconds is the longest session treated as an accidental start.
	MinLogSeconds = 2
)

type TimerState uint8

const (
	_ TimerState = iota
	TimerRunning
	TimerPaused
	TimerSnoozed
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "Running"
	case TimerPaused:
		return "Paused"
	case TimerSnoozed:
		return "Snoozed"
	default:
		return "Idle"
	}
}

// ActiveTimer is the single in-progress activity session.
// A snooze deadline only exists while paused.
type ActiveTimer struct {
	record nurture.ActiveTimerRecord
}

func NewActiveTimer(t nurture.ActivityType, now time.Time) ActiveTimer {
	if !t.Valid() {
		panic("invalid activity type: " + t.String())
	}
	var details nurture.Details
	switch t {
	case nurture.Feeding:
		details.FeedingType = nurture.Nursing
		details.Side = nurture.LeftSide
	case nurture.Pumping:
		details.Side = nurture.LeftSide
	}
	return ActiveTimer{
		record: nurture.ActiveTimerRecord{
			Type:      t,
			StartTime: now,
			Details:   details,
		},
	}
}

// TimerFromRecord wraps a persisted snapshot. An orphan snooze deadline
// (no pause start) is dropped.
func TimerFromRecord(r nurture.ActiveTimerRecord) ActiveTimer {
	if r.PauseStartTime.IsZero() {
		r.SnoozeEndTime = time.Time{}
	}
	if r.IgnoredDuration < 0 {
		r.IgnoredDuration = 0
	}
	return ActiveTimer{record: r}
}

func (a ActiveTimer) Record() nurture.ActiveTimerRecord {
	return a.record
}

func (a ActiveTimer) Type() nurture.ActivityType {
	return a.record.Type
}

func (a ActiveTimer) StartTime() time.Time {
	return a.record.StartTime
}

func (a ActiveTimer) Details() nurture.Details {
	return a.record.Details
}

func (a ActiveTimer) PauseStartTime() time.Time {
	return a.record.PauseStartTime
}

func (a ActiveTimer) SnoozeEndTime() time.Time {
	return a.record.SnoozeEndTime
}

func (a ActiveTimer) IgnoredDuration() time.Duration {
	return a.record.IgnoredDuration
}

func (a ActiveTimer) State() TimerState {
	switch {
	case !a.record.SnoozeEndTime.IsZero():
		return TimerSnoozed
	case !a.record.PauseStartTime.IsZero():
		return TimerPaused
	default:
		return TimerRunning
	}
}

func (a ActiveTimer) IsPaused() bool {
	return !a.record.PauseStartTime.IsZero()
}

func (a ActiveTimer) IsSnoozed() bool {
	return !a.record.SnoozeEndTime.IsZero()
}

func (a *ActiveTimer) UpdateDetails(patch nurture.Details) {
	a.record.Details = a.record.Details.Merge(patch)
}

// TogglePause pauses a running timer, or resumes a paused or snoozed one.
func (a *ActiveTimer) TogglePause(now time.Time) {
	if a.IsPaused() {
		a.resume(now)
		return
	}
	a.record.PauseStartTime = now
}

// Snooze pauses the timer until now+window. It reports false and changes
// nothing when the timer is already snoozed.
func (a *ActiveTimer) Snooze(now time.Time, window time.Duration) bool {
	if a.IsSnoozed() {
		return false
	}
	if window <= 0 {
		window = DefaultSnoozeWindow
	}
	if !a.IsPaused() {
		a.record.PauseStartTime = now
	}
	a.record.SnoozeEndTime = now.Add(window)
	return true
}

// ResumeIfSnoozeElapsed resumes a snoozed timer whose deadline has passed and
// returns the paused duration folded into the ignored time.
func (a *ActiveTimer) ResumeIfSnoozeElapsed(now time.Time) (time.Duration, bool) {
	if !a.IsSnoozed() || !a.IsPaused() || now.Before(a.record.SnoozeEndTime) {
		return 0, false
	}
	return a.resume(now), true
}

// EditStartTime moves the start without touching the ignored duration.
func (a *ActiveTimer) EditStartTime(start time.Time) {
	a.record.StartTime = start
}

// ElapsedSeconds freezes at the pause instant while paused. A nil timer is idle.
func (a *ActiveTimer) ElapsedSeconds(now time.Time) int {
	if a == nil {
		return 0
	}
	return a.secondsUntil(a.effectiveEnd(now))
}

// Stop finalizes the session. It reports false when the session is too short
// to keep, in which case the caller discards it.
func (a ActiveTimer) Stop(now time.Time) (nurture.LogRecord, bool) {
	end := a.effectiveEnd(now)
	duration := a.secondsUntil(end)
	if duration <= MinLogSeconds {
		return nurture.LogRecord{}, false
	}
	return nurture.LogRecord{
		Type:            a.record.Type,
		StartTime:       a.record.StartTime,
		EndTime:         end,
		DurationSeconds: &duration,
		Details:         a.record.Details,
	}, true
}

func (a *ActiveTimer) resume(now time.Time) time.Duration {
	paused := now.Sub(a.record.PauseStartTime)
	a.record.IgnoredDuration += paused
	a.record.PauseStartTime = time.Time{}
	a.record.SnoozeEndTime = time.Time{}
	return paused
}

func (a ActiveTimer) effectiveEnd(now time.Time) time.Time {
	if a.IsPaused() {
		return a.record.PauseStartTime
	}
	return now
}

func (a ActiveTimer) secondsUntil(end time.Time) int {
	return floorSeconds(end.Sub(a.record.StartTime) - a.record.IgnoredDuration)
}

func floorSeconds(d time.Duration) int {
	s := d / time.Second
	if d < 0 && d%time.Second != 0 {
		s--
	}
	return int(s)
}
