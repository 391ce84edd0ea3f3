package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	nurture "github.com/bill2712/nursing-tracker"
)

type reminderRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewReminderRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *reminderRepo {
	return &reminderRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

// GetReminderConfig returns a disabled, empty config when nothing is stored.
func (r *reminderRepo) GetReminderConfig(ctx context.Context) (nurture.ReminderConfig, error) {
	db := r.dbGetter(ctx)
	cfg := nurture.DefaultReminderConfig()

	var enabled bool
	err := db.QueryRowContext(ctx, "SELECT enabled FROM reminder_settings WHERE id = 1").Scan(&enabled)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nurture.ReminderConfig{}, err
	}
	cfg.Enabled = enabled

	rows, err := db.QueryContext(ctx, "SELECT type, interval_minutes, last_notified FROM reminder_intervals")
	if err != nil {
		return nurture.ReminderConfig{}, err
	}
	defer rows.Close() //nolint

	for rows.Next() {
		var (
			t            uint8
			interval     int
			lastNotified sql.NullInt64
		)
		if err := rows.Scan(&t, &interval, &lastNotified); err != nil {
			return nurture.ReminderConfig{}, err
		}
		cfg.Intervals[nurture.ActivityType(t)] = interval
		if lastNotified.Valid {
			cfg.LastNotified[nurture.ActivityType(t)] = fromMillis(lastNotified)
		}
	}
	if err := rows.Err(); err != nil {
		return nurture.ReminderConfig{}, err
	}
	return cfg, nil
}

// SaveReminderConfig stores enabled, every interval and every last notified instant.
func (r *reminderRepo) SaveReminderConfig(ctx context.Context, cfg nurture.ReminderConfig) error {
	db := r.dbGetter(ctx)
	query := "INSERT INTO reminder_settings (id, enabled, updated_at) VALUES (1, ?, ?) ON CONFLICT (id) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at"
	r.l.Debug("saving reminder settings", "enabled", cfg.Enabled)
	if _, err := db.ExecContext(ctx, query, cfg.Enabled, time.Now().UnixMilli()); err != nil {
		return err
	}

	types := make(map[nurture.ActivityType]struct{})
	for t := range cfg.Intervals {
		types[t] = struct{}{}
	}
	for t := range cfg.LastNotified {
		types[t] = struct{}{}
	}
	for t := range types {
		query := `INSERT INTO reminder_intervals (type, interval_minutes, last_notified) VALUES (?, ?, ?)
			ON CONFLICT (type) DO UPDATE SET interval_minutes = excluded.interval_minutes, last_notified = excluded.last_notified`
		args := []any{uint8(t), cfg.Intervals[t], toMillis(cfg.LastNotified[t])}
		r.l.Debug("saving reminder interval", "query", query, "args", args)
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *reminderRepo) SetLastNotified(ctx context.Context, t nurture.ActivityType, at time.Time) error {
	query := `INSERT INTO reminder_intervals (type, interval_minutes, last_notified) VALUES (?, 0, ?)
		ON CONFLICT (type) DO UPDATE SET last_notified = excluded.last_notified`
	r.l.Debug("setting last notified", "type", t, "at", at)
	_, err := r.dbGetter(ctx).ExecContext(ctx, query, uint8(t), toMillis(at))
	return err
}
