// Package backup reads and writes the portable JSON form of the log history.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
)

var ErrInvalidFormat = errors.New("invalid data format: expected an array of logs")

// entry mirrors the exported JSON shape. Times are epoch milliseconds.
type entry struct {
	ID              entryID         `json:"id"`
	Type            string          `json:"type"`
	StartTime       int64           `json:"startTime"`
	EndTime         *int64          `json:"endTime,omitempty"`
	DurationSeconds *int            `json:"durationSeconds,omitempty"`
	Details         nurture.Details `json:"details"`
}

// entryID accepts both string and numeric ids.
type entryID string

func (id *entryID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = entryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = entryID(n.String())
	return nil
}

type Log struct {
	ID nurture.LogID
	nurture.LogRecord
}

// Export writes logs as an indented JSON array.
func Export(w io.Writer, logs []nurture.ExistingLogRecord) error {
	entries := make([]entry, 0, len(logs))
	for _, l := range logs {
		e := entry{
			ID:              entryID(l.ID),
			Type:            l.Type.String(),
			StartTime:       l.StartTime.UnixMilli(),
			DurationSeconds: l.DurationSeconds,
			Details:         l.Details,
		}
		if !l.EndTime.IsZero() {
			end := l.EndTime.UnixMilli()
			e.EndTime = &end
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Merge parses an exported JSON array from r and returns the logs whose ids
// are not in existing. Duplicate ids inside the payload keep the first entry.
func Merge(existing []nurture.ExistingLogRecord, r io.Reader) ([]Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrInvalidFormat
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse data: %w", err)
	}

	seen := make(map[nurture.LogID]struct{}, len(existing)+len(entries))
	for _, l := range existing {
		seen[l.ID] = struct{}{}
	}

	var out []Log
	for i, e := range entries {
		id := nurture.LogID(strings.TrimSpace(string(e.ID)))
		if id == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		t, err := nurture.ParseActivityType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		record := nurture.LogRecord{
			Type:            t,
			StartTime:       time.UnixMilli(e.StartTime),
			DurationSeconds: e.DurationSeconds,
			Details:         e.Details,
		}
		if e.EndTime != nil {
			record.EndTime = time.UnixMilli(*e.EndTime)
		}
		seen[id] = struct{}{}
		out = append(out, Log{ID: id, LogRecord: record})
	}
	return out, nil
}
