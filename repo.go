package nurture

import (
	"context"
	"time"
)

type LogRepo interface {
	InsertLog(context.Context, LogRecord) (ExistingLogRecord, error)
	InsertLogWithID(context.Context, LogID, LogRecord) (ExistingLogRecord, error)
	UpdateLog(ctx context.Context, id LogID, r LogRecord) (ExistingLogRecord, error)
	DeleteLog(ctx context.Context, id LogID) (ExistingLogRecord, error)
	GetLog(ctx context.Context, id LogID) (ExistingLogRecord, error)
	// ListLogs returns logs newest first. limit <= 0 returns all.
	ListLogs(ctx context.Context, limit int) ([]ExistingLogRecord, error)
	// ListLogsBetween returns logs started in [from, to), oldest first.
	ListLogsBetween(ctx context.Context, from, to time.Time) ([]ExistingLogRecord, error)
	// LatestLogs returns the most recently started log of each type present.
	LatestLogs(ctx context.Context) (map[ActivityType]ExistingLogRecord, error)
}

type TimerRepo interface {
	// GetActiveTimer returns nil when no timer is active.
	GetActiveTimer(context.Context) (*ActiveTimerRecord, error)
	SaveActiveTimer(context.Context, ActiveTimerRecord) error
	ClearActiveTimer(context.Context) error
}

type ReminderRepo interface {
	GetReminderConfig(context.Context) (ReminderConfig, error)
	SaveReminderConfig(context.Context, ReminderConfig) error
	SetLastNotified(ctx context.Context, t ActivityType, at time.Time) error
}

type GrowthRepo interface {
	InsertGrowth(context.Context, GrowthRecord) (ExistingGrowthRecord, error)
	DeleteGrowth(ctx context.Context, id GrowthID) (ExistingGrowthRecord, error)
	// ListGrowth returns entries oldest first.
	ListGrowth(context.Context) ([]ExistingGrowthRecord, error)
}

type ProfileRepo interface {
	GetProfile(context.Context) (BabyProfile, error)
	SaveProfile(context.Context, BabyProfile) error
}

type StashRepo interface {
	InsertStash(context.Context, StashRecord) (ExistingStashRecord, error)
	DeleteStash(ctx context.Context, id StashID) (ExistingStashRecord, error)
	// ListStash returns entries oldest first.
	ListStash(context.Context) ([]ExistingStashRecord, error)
}

type HealthRepo interface {
	// CompletedHealthItems maps checklist item ids to their completion time.
	CompletedHealthItems(context.Context) (map[string]time.Time, error)
	// SetHealthItem marks an item completed at the given time. A zero time clears it.
	SetHealthItem(ctx context.Context, id string, completedAt time.Time) error
}

type GoalRepo interface {
	// GetSleepGoal returns the default goal when none is stored.
	GetSleepGoal(context.Context) (SleepGoal, error)
	SaveSleepGoal(context.Context, SleepGoal) error
}
