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
	SelectAllGrowth = "SELECT id, date, weight_kg, length_cm, head_circumference_cm, notes, created_at, updated_at FROM growth"
)

type growthEntity struct {
	ID                  string
	Date                int64
	WeightKg            sql.NullFloat64
	LengthCm            sql.NullFloat64
	HeadCircumferenceCm sql.NullFloat64
	Notes               string
	CreatedAt           int64
	UpdatedAt           int64
}

type growthRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewGrowthRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *growthRepo {
	return &growthRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *growthRepo) InsertGrowth(ctx context.Context, record nurture.GrowthRecord) (nurture.ExistingGrowthRecord, error) {
	if record.Date.IsZero() {
		return nurture.ExistingGrowthRecord{}, fmt.Errorf("provide required field 'Date'")
	}

	existingRecord := nurture.ExistingGrowthRecord{
		GrowthRecord:   record,
		ExistingRecord: nurture.NewExistingRecord[nurture.GrowthID](uuid.NewString()),
	}
	e := mapToGrowthEntity(existingRecord)

	args := []any{
		e.ID,
		e.Date,
		e.WeightKg,
		e.LengthCm,
		e.HeadCircumferenceCm,
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO growth (id, date, weight_kg, length_cm, head_circumference_cm, notes, created_at, updated_at) VALUES " + GenerateParameters(len(args))
	r.l.Debug("creating growth entry", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return nurture.ExistingGrowthRecord{}, err
	}
	return existingRecord, nil
}

func (r *growthRepo) DeleteGrowth(ctx context.Context, id nurture.GrowthID) (nurture.ExistingGrowthRecord, error) {
	db := r.dbGetter(ctx)
	existing, err := extractGrowth(db.QueryRowContext(ctx, SelectAllGrowth+" WHERE id = ?", id))
	if err != nil {
		return nurture.ExistingGrowthRecord{}, err
	}

	query := "DELETE FROM growth WHERE id = ?"
	r.l.Debug("deleting growth entry", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return nurture.ExistingGrowthRecord{}, err
	}
	return existing, nil
}

func (r *growthRepo) ListGrowth(ctx context.Context) ([]nurture.ExistingGrowthRecord, error) {
	rows, err := r.dbGetter(ctx).QueryContext(ctx, SelectAllGrowth+" ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var entries []nurture.ExistingGrowthRecord
	for rows.Next() {
		g, err := extractGrowth(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func extractGrowth(s Scannable) (nurture.ExistingGrowthRecord, error) {
	var e growthEntity
	if err := s.Scan(&e.ID, &e.Date, &e.WeightKg, &e.LengthCm, &e.HeadCircumferenceCm, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nurture.ExistingGrowthRecord{}, ErrNotFound
		}
		return nurture.ExistingGrowthRecord{}, err
	}
	return mapToExistingGrowthRecord(e), nil
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func mapToGrowthEntity(r nurture.ExistingGrowthRecord) growthEntity {
	return growthEntity{
		ID:                  string(r.ID),
		Date:                r.Date.UnixMilli(),
		WeightKg:            nullFloat(r.WeightKg),
		LengthCm:            nullFloat(r.LengthCm),
		HeadCircumferenceCm: nullFloat(r.HeadCircumferenceCm),
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt.UnixMilli(),
		UpdatedAt:           r.UpdatedAt.UnixMilli(),
	}
}

func mapToExistingGrowthRecord(e growthEntity) nurture.ExistingGrowthRecord {
	return nurture.ExistingGrowthRecord{
		ExistingRecord: nurture.ExistingRecord[nurture.GrowthID]{
			ID:        nurture.GrowthID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		GrowthRecord: nurture.GrowthRecord{
			Date:                time.UnixMilli(e.Date),
			WeightKg:            e.WeightKg.Float64,
			LengthCm:            e.LengthCm.Float64,
			HeadCircumferenceCm: e.HeadCircumferenceCm.Float64,
			Notes:               e.Notes,
		},
	}
}

type profileRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewProfileRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *profileRepo {
	return &profileRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

// GetProfile returns the default profile when none is stored.
func (r *profileRepo) GetProfile(ctx context.Context) (nurture.BabyProfile, error) {
	var (
		p         nurture.BabyProfile
		sex       string
		birthDate int64
	)
	row := r.dbGetter(ctx).QueryRowContext(ctx, "SELECT name, sex, birth_date, weight_unit, length_unit FROM baby_profile WHERE id = 1")
	if err := row.Scan(&p.Name, &sex, &birthDate, &p.WeightUnit, &p.LengthUnit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nurture.DefaultBabyProfile(), nil
		}
		return nurture.BabyProfile{}, err
	}
	p.Sex = nurture.Sex(sex)
	p.BirthDate = time.UnixMilli(birthDate)
	return p, nil
}

func (r *profileRepo) SaveProfile(ctx context.Context, p nurture.BabyProfile) error {
	query := `INSERT INTO baby_profile (id, name, sex, birth_date, weight_unit, length_unit, updated_at) VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, sex = excluded.sex, birth_date = excluded.birth_date,
			weight_unit = excluded.weight_unit, length_unit = excluded.length_unit, updated_at = excluded.updated_at`
	args := []any{p.Name, string(p.Sex), p.BirthDate.UnixMilli(), p.WeightUnit, p.LengthUnit, time.Now().UnixMilli()}
	r.l.Debug("saving baby profile", "args", args)
	_, err := r.dbGetter(ctx).ExecContext(ctx, query, args...)
	return err
}
