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

type healthRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewHealthRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *healthRepo {
	return &healthRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *healthRepo) CompletedHealthItems(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.dbGetter(ctx).QueryContext(ctx, "SELECT item_id, completed_at FROM health_checks")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	done := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			at int64
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		done[id] = time.UnixMilli(at)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return done, nil
}

func (r *healthRepo) SetHealthItem(ctx context.Context, id string, completedAt time.Time) error {
	db := r.dbGetter(ctx)
	if completedAt.IsZero() {
		query := "DELETE FROM health_checks WHERE item_id = ?"
		r.l.Debug("clearing health item", "query", query, "id", id)
		_, err := db.ExecContext(ctx, query, id)
		return err
	}

	query := `INSERT INTO health_checks (item_id, completed_at) VALUES (?, ?)
		ON CONFLICT (item_id) DO UPDATE SET completed_at = excluded.completed_at`
	r.l.Debug("completing health item", "query", query, "id", id)
	_, err := db.ExecContext(ctx, query, id, completedAt.UnixMilli())
	return err
}

type goalRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewGoalRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *goalRepo {
	return &goalRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *goalRepo) GetSleepGoal(ctx context.Context) (nurture.SleepGoal, error) {
	var g nurture.SleepGoal
	row := r.dbGetter(ctx).QueryRowContext(ctx, "SELECT hours, minutes FROM sleep_goal WHERE id = 1")
	if err := row.Scan(&g.Hours, &g.Minutes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nurture.DefaultSleepGoal(), nil
		}
		return nurture.SleepGoal{}, err
	}
	return g, nil
}

func (r *goalRepo) SaveSleepGoal(ctx context.Context, g nurture.SleepGoal) error {
	query := `INSERT INTO sleep_goal (id, hours, minutes) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET hours = excluded.hours, minutes = excluded.minutes`
	r.l.Debug("saving sleep goal", "hours", g.Hours, "minutes", g.Minutes)
	_, err := r.dbGetter(ctx).ExecContext(ctx, query, g.Hours, g.Minutes)
	return err
}
