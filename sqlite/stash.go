package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	nurture "github.com/bill2712/nursing-tracker"
)

const (
	SelectAllStash = "SELECT id, date, amount_ml, frozen, notes, created_at, updated_at FROM milk_stash"
)

type stashEntity struct {
	ID        string
	Date      int64
	AmountMl  float64
	Frozen    bool
	Notes     string
	CreatedAt int64
	UpdatedAt int64
}

type stashRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewStashRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *stashRepo {
	return &stashRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *stashRepo) InsertStash(ctx context.Context, record nurture.StashRecord) (nurture.ExistingStashRecord, error) {
	if record.Date.IsZero() {
		return nurture.ExistingStashRecord{}, fmt.Errorf("provide required field 'Date'")
	}
	if record.AmountMl <= 0 {
		return nurture.ExistingStashRecord{}, fmt.Errorf("amount must be positive")
	}

	existingRecord := nurture.ExistingStashRecord{
		StashRecord:    record,
		ExistingRecord: nurture.NewExistingRecord[nurture.StashID](uuid.NewString()),
	}
	e := mapToStashEntity(existingRecord)

	args := []any{
		e.ID,
		e.Date,
		e.AmountMl,
		e.Frozen,
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO milk_stash (id, date, amount_ml, frozen, notes, created_at, updated_at) VALUES " + GenerateParameters(len(args))
	r.l.Debug("creating stash entry", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return nurture.ExistingStashRecord{}, err
	}
	return existingRecord, nil
}

func (r *stashRepo) DeleteStash(ctx context.Context, id nurture.StashID) (nurture.ExistingStashRecord, error) {
	db := r.dbGetter(ctx)
	existing, err := extractStash(db.QueryRowContext(ctx, SelectAllStash+" WHERE id = ?", id))
	if err != nil {
		return nurture.ExistingStashRecord{}, err
	}

	query := "DELETE FROM milk_stash WHERE id = ?"
	r.l.Debug("deleting stash entry", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return nurture.ExistingStashRecord{}, err
	}
	return existing, nil
}

func (r *stashRepo) ListStash(ctx context.Context) ([]nurture.ExistingStashRecord, error) {
	rows, err := r.dbGetter(ctx).QueryContext(ctx, SelectAllStash+" ORDER BY date ASC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var entries []nurture.ExistingStashRecord
	for rows.Next() {
		e, err := extractStash(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func extractStash(s Scannable) (nurture.ExistingStashRecord, error) {
	var e stashEntity
	if err := s.Scan(&e.ID, &e.Date, &e.AmountMl, &e.Frozen, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nurture.ExistingStashRecord{}, ErrNotFound
		}
		return nurture.ExistingStashRecord{}, err
	}
	return nurture.ExistingStashRecord{
		ExistingRecord: nurture.ExistingRecord[nurture.StashID]{
			ID:        nurture.StashID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		StashRecord: nurture.StashRecord{
			Date:     time.UnixMilli(e.Date),
			AmountMl: e.AmountMl,
			Frozen:   e.Frozen,
			Notes:    e.Notes,
		},
	}, nil
}

func mapToStashEntity(r nurture.ExistingStashRecord) stashEntity {
	return stashEntity{
		ID:        string(r.ID),
		Date:      r.Date.UnixMilli(),
		AmountMl:  r.AmountMl,
		Frozen:    r.Frozen,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.UnixMilli(),
		UpdatedAt: r.UpdatedAt.UnixMilli(),
	}
}
