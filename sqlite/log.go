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
	"github.com/google/uuid"

	nurture "github.com/bill2712/nursing-tracker"
)

const (
	SelectAllLogs = "SELECT id, type, start_time, end_time, duration_seconds, details, created_at, updated_at FROM logs"
)

type logEntity struct {
	ID              string
	Type            uint8
	StartTime       int64
	EndTime         sql.NullInt64
	DurationSeconds sql.NullInt64
	Details         string
	CreatedAt       int64
	UpdatedAt       int64
}

type logRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewLogRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *logRepo {
	return &logRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *logRepo) InsertLog(ctx context.Context, record nurture.LogRecord) (nurture.ExistingLogRecord, error) {
	return r.InsertLogWithID(ctx, nurture.LogID(uuid.NewString()), record)
}

func (r *logRepo) InsertLogWithID(ctx context.Context, id nurture.LogID, record nurture.LogRecord) (nurture.ExistingLogRecord, error) {
	if id == "" {
		return nurture.ExistingLogRecord{}, fmt.Errorf("provide id")
	}
	if !record.Type.Valid() {
		return nurture.ExistingLogRecord{}, fmt.Errorf("invalid activity type %d", record.Type)
	}

	existingRecord := nurture.ExistingLogRecord{
		LogRecord:      record,
		ExistingRecord: nurture.NewExistingRecord[nurture.LogID](string(id)),
	}
	e, err := mapToLogEntity(existingRecord)
	if err != nil {
		return nurture.ExistingLogRecord{}, err
	}

	args := []any{
		e.ID,
		e.Type,
		e.StartTime,
		e.EndTime,
		e.DurationSeconds,
		e.Details,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO logs (id, type, start_time, end_time, duration_seconds, details, created_at, updated_at) VALUES " + GenerateParameters(len(args))
	r.l.Debug("creating log", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return nurture.ExistingLogRecord{}, err
	}

	return existingRecord, nil
}

func (r *logRepo) UpdateLog(ctx context.Context, id nurture.LogID, record nurture.LogRecord) (nurture.ExistingLogRecord, error) {
	existing, err := r.GetLog(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.LogRecord = record
	existing.UpdatedAt = time.Now()
	e, err := mapToLogEntity(existing)
	if err != nil {
		return nurture.ExistingLogRecord{}, err
	}

	query := "UPDATE logs SET type = ?, start_time = ?, end_time = ?, duration_seconds = ?, details = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.Type,
		e.StartTime,
		e.EndTime,
		e.DurationSeconds,
		e.Details,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating log", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return nurture.ExistingLogRecord{}, err
	}

	return existing, nil
}

func (r *logRepo) DeleteLog(ctx context.Context, id nurture.LogID) (nurture.ExistingLogRecord, error) {
	existing, err := r.GetLog(ctx, id)
	if err != nil {
		return nurture.ExistingLogRecord{}, err
	}

	query := "DELETE FROM logs WHERE id = ?"
	r.l.Debug("deleting log", "query", query, "id", id)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, id); err != nil {
		return nurture.ExistingLogRecord{}, err
	}

	return existing, nil
}

func (r *logRepo) GetLog(ctx context.Context, id nurture.LogID) (nurture.ExistingLogRecord, error) {
	if id == "" {
		return nurture.ExistingLogRecord{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllLogs), id,
	)
	return extractLog(row)
}

func (r *logRepo) ListLogs(ctx context.Context, limit int) ([]nurture.ExistingLogRecord, error) {
	query := SelectAllLogs + " ORDER BY start_time DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	r.l.Debug("listing logs", "query", query, "args", args)
	return r.queryLogs(ctx, query, args...)
}

func (r *logRepo) ListLogsBetween(ctx context.Context, from, to time.Time) ([]nurture.ExistingLogRecord, error) {
	query := SelectAllLogs + " WHERE start_time >= ? AND start_time < ? ORDER BY start_time ASC"
	args := []any{from.UnixMilli(), to.UnixMilli()}
	r.l.Debug("listing logs between", "query", query, "args", args)
	return r.queryLogs(ctx, query, args...)
}

func (r *logRepo) LatestLogs(ctx context.Context) (map[nurture.ActivityType]nurture.ExistingLogRecord, error) {
	query := fmt.Sprintf(
		"%s l WHERE start_time = (SELECT MAX(start_time) FROM logs WHERE type = l.type) ORDER BY start_time DESC, created_at DESC",
		SelectAllLogs,
	)
	logs, err := r.queryLogs(ctx, query)
	if err != nil {
		return nil, err
	}

	latest := make(map[nurture.ActivityType]nurture.ExistingLogRecord, len(logs))
	for _, l := range logs {
		if _, ok := latest[l.Type]; !ok {
			latest[l.Type] = l
		}
	}
	return latest, nil
}

func (r *logRepo) queryLogs(ctx context.Context, query string, args ...any) ([]nurture.ExistingLogRecord, error) {
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var logs []nurture.ExistingLogRecord
	for rows.Next() {
		l, err := extractLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func extractLog(s Scannable) (nurture.ExistingLogRecord, error) {
	var e logEntity
	if err := s.Scan(&e.ID, &e.Type, &e.StartTime, &e.EndTime, &e.DurationSeconds, &e.Details, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nurture.ExistingLogRecord{}, ErrNotFound
		}
		return nurture.ExistingLogRecord{}, err
	}

	return mapToExistingLogRecord(e)
}

func mapToLogEntity(r nurture.ExistingLogRecord) (logEntity, error) {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return logEntity{}, fmt.Errorf("failed to encode details: %w", err)
	}
	e := logEntity{
		ID:        string(r.ID),
		Type:      uint8(r.Type),
		StartTime: r.StartTime.UnixMilli(),
		EndTime:   toMillis(r.EndTime),
		Details:   string(details),
		CreatedAt: r.CreatedAt.UnixMilli(),
		UpdatedAt: r.UpdatedAt.UnixMilli(),
	}
	if r.DurationSeconds != nil {
		e.DurationSeconds = sql.NullInt64{Int64: int64(*r.DurationSeconds), Valid: true}
	}
	return e, nil
}

func mapToExistingLogRecord(e logEntity) (nurture.ExistingLogRecord, error) {
	var details nurture.Details
	if e.Details != "" {
		if err := json.Unmarshal([]byte(e.Details), &details); err != nil {
			return nurture.ExistingLogRecord{}, fmt.Errorf("failed to decode details of log %s: %w", e.ID, err)
		}
	}
	r := nurture.ExistingLogRecord{
		ExistingRecord: nurture.ExistingRecord[nurture.LogID]{
			ID:        nurture.LogID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		LogRecord: nurture.LogRecord{
			Type:      nurture.ActivityType(e.Type),
			StartTime: time.UnixMilli(e.StartTime),
			EndTime:   fromMillis(e.EndTime),
			Details:   details,
		},
	}
	if e.DurationSeconds.Valid {
		d := int(e.DurationSeconds.Int64)
		r.DurationSeconds = &d
	}
	return r, nil
}
