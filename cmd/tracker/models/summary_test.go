package models

import (
	"testing"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logAt(typ nurture.ActivityType, start time.Time, seconds int) nurture.ExistingLogRecord {
	l := nurture.ExistingLogRecord{LogRecord: nurture.LogRecord{Type: typ, StartTime: start}}
	if seconds > 0 {
		l.EndTime = start.Add(time.Duration(seconds) * time.Second)
		l.DurationSeconds = &seconds
	}
	return l
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	logs := []nurture.ExistingLogRecord{
		logAt(nurture.Sleep, now.Add(-26*time.Hour), 3600),
		logAt(nurture.Sleep, now.Add(-19*time.Hour), 7200),
		logAt(nurture.Sleep, now.Add(-2*time.Hour), 5400),
		logAt(nurture.Feeding, now.Add(-3*time.Hour), 900),
		logAt(nurture.Feeding, now.Add(-time.Hour), 600),
		logAt(nurture.Diaper, now.Add(-30*time.Minute), 0),
		logAt(nurture.Pumping, now.Add(-4*time.Hour), 600),
	}

	s := Summarize(logs, nurture.SleepGoal{Hours: 5}, now)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), s.Day)
	assert.Equal(t, 12600, s.SleepSeconds)
	assert.Equal(t, 2, s.Feedings)
	assert.Equal(t, 1, s.Diapers)
	assert.Equal(t, 70, s.GoalPercent())
}

func TestDailySummary_GoalPercent(t *testing.T) {
	assert.Equal(t, 0, DailySummary{SleepSeconds: 3600}.GoalPercent())
	assert.Equal(t, 100, DailySummary{SleepSeconds: 20 * 3600, Goal: nurture.SleepGoal{Hours: 14}}.GoalPercent())
	assert.Equal(t, 50, DailySummary{SleepSeconds: 1800, Goal: nurture.SleepGoal{Minutes: 60}}.GoalPercent())
}

func TestSleepTrend(t *testing.T) {
	now := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	logs := []nurture.ExistingLogRecord{
		logAt(nurture.Sleep, time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC), 3600),
		logAt(nurture.Sleep, time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC), 3600),
		logAt(nurture.Sleep, time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), 1800),
		logAt(nurture.Sleep, time.Date(2025, 3, 7, 1, 0, 0, 0, time.UTC), 600),
		logAt(nurture.Feeding, time.Date(2025, 3, 7, 2, 0, 0, 0, time.UTC), 600),
	}

	trend := SleepTrend(logs, now)
	require.Len(t, trend, TrendDays)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), trend[0].Day)
	assert.Equal(t, TrendStart(now), trend[0].Day)
	assert.Equal(t, 5400, trend[0].SleepSeconds)
	assert.Zero(t, trend[3].SleepSeconds)
	assert.Equal(t, 600, trend[6].SleepSeconds)
}

func TestStash(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	fresh := nurture.StashRecord{Date: now.AddDate(0, 0, -10), AmountMl: 120}
	old := nurture.StashRecord{Date: now.AddDate(0, 0, -85), AmountMl: 60}

	assert.Equal(t, now.AddDate(0, 0, 80), StashExpiry(fresh))
	assert.False(t, ExpiringSoon(fresh, now))
	assert.True(t, ExpiringSoon(old, now))
	assert.True(t, ExpiringSoon(nurture.StashRecord{Date: now.AddDate(0, 0, -100)}, now))

	total := StashTotal([]nurture.ExistingStashRecord{{StashRecord: fresh}, {StashRecord: old}})
	assert.Equal(t, 180.0, total)
}
