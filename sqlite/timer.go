package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	nurture "github.com/bill2712/nursing-tracker"
)

const (
	SelectActiveTimer = "SELECT type, start_time, details, pause_start_time, snooze_end_time, ignored_duration_ms, updated_at FROM active_timer WHERE id = 1"
)

type activeTimerEntity struct {
	Type              uint8
	StartTime         int64
	Details           string
	PauseStartTime    sql.NullInt64
	SnoozeEndTime     sql.NullInt64
	IgnoredDurationMS int64
	UpdatedAt         int64
}

// timerRepo stores the singleton active timer row.
type timerRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewTimerRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *timerRepo {
	return &timerRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *timerRepo) GetActiveTimer(ctx context.Context) (*nurture.ActiveTimerRecord, error) {
	row := r.dbGetter(ctx).QueryRowContext(ctx, SelectActiveTimer)

	var e activeTimerEntity
	if err := row.Scan(&e.Type, &e.StartTime, &e.Details, &e.PauseStartTime, &e.SnoozeEndTime, &e.IgnoredDurationMS, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record, err := mapToActiveTimerRecord(e)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *timerRepo) SaveActiveTimer(ctx context.Context, record nurture.ActiveTimerRecord) error {
	if !record.Type.Valid() {
		return fmt.Errorf("invalid activity type %d", record.Type)
	}
	record.UpdatedAt = time.Now()
	e, err := mapToActiveTimerEntity(record)
	if err != nil {
		return err
	}

	query := `INSERT INTO active_timer (id, type, start_time, details, pause_start_time, snooze_end_time, ignored_duration_ms, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			type = excluded.type,
			start_time = excluded.start_time,
			details = excluded.details,
			pause_start_time = excluded.pause_start_time,
			snooze_end_time = excluded.snooze_end_time,
			ignored_duration_ms = excluded.ignored_duration_ms,
			updated_at = excluded.updated_at`
	args := []any{
		e.Type,
		e.StartTime,
		e.Details,
		e.PauseStartTime,
		e.SnoozeEndTime,
		e.IgnoredDurationMS,
		e.UpdatedAt,
	}
	r.l.Debug("saving active timer", "args", args)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *timerRepo) ClearActiveTimer(ctx context.Context) error {
	query := "DELETE FROM active_timer WHERE id = 1"
	r.l.Debug("clearing active timer", "query", query)
	_, err := r.dbGetter(ctx).ExecContext(ctx, query)
	return err
}

func mapToActiveTimerEntity(r nurture.ActiveTimerRecord) (activeTimerEntity, error) {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return activeTimerEntity{}, fmt.Errorf("failed to encode details: %w", err)
	}
	return activeTimerEntity{
		Type:              uint8(r.Type),
		StartTime:         r.StartTime.UnixMilli(),
		Details:           string(details),
		PauseStartTime:    toMillis(r.PauseStartTime),
		SnoozeEndTime:     toMillis(r.SnoozeEndTime),
		IgnoredDurationMS: r.IgnoredDuration.Milliseconds(),
		UpdatedAt:         r.UpdatedAt.UnixMilli(),
	}, nil
}

func mapToActiveTimerRecord(e activeTimerEntity) (nurture.ActiveTimerRecord, error) {
	var details nurture.Details
	if e.Details != "" {
		if err := json.Unmarshal([]byte(e.Details), &details); err != nil {
			return nurture.ActiveTimerRecord{}, fmt.Errorf("failed to decode active timer details: %w", err)
		}
	}
	return nurture.ActiveTimerRecord{
		Type:            nurture.ActivityType(e.Type),
		StartTime:       time.UnixMilli(e.StartTime),
		Details:         details,
		PauseStartTime:  fromMillis(e.PauseStartTime),
		SnoozeEndTime:   fromMillis(e.SnoozeEndTime),
		IgnoredDuration: time.Duration(e.IgnoredDurationMS) * time.Millisecond,
		UpdatedAt:       time.UnixMilli(e.UpdatedAt),
	}, nil
}
