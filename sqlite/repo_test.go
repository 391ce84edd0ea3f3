package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nurture "github.com/bill2712/nursing-tracker"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, dbGetter := txStdLib.NewTransactor(db, txStdLib.NestedTransactionsSavepoints)
	return NewRepo(dbGetter, log.Default())
}

func intPtr(i int) *int {
	return &i
}

var base = time.Date(2024, 5, 10, 6, 30, 0, 0, time.UTC)

func TestGenerateParameters(t *testing.T) {
	assert.Equal(t, "(?)", GenerateParameters(1))
	assert.Equal(t, "(?, ?, ?)", GenerateParameters(3))
	assert.Equal(t, "()", GenerateParameters(0))
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestLogRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	inserted, err := repo.InsertLog(ctx, nurture.LogRecord{
		Type:            nurture.Feeding,
		StartTime:       base,
		EndTime:         base.Add(15 * time.Minute),
		DurationSeconds: intPtr(900),
		Details:         nurture.Details{FeedingType: nurture.Bottle, AmountMl: 90},
	})
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID)

	got, err := repo.GetLog(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, nurture.Feeding, got.Type)
	assert.True(t, base.Equal(got.StartTime))
	assert.True(t, base.Add(15*time.Minute).Equal(got.EndTime))
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, 900, *got.DurationSeconds)
	assert.Equal(t, 90.0, got.Details.AmountMl)

	record := got.LogRecord
	record.EndTime = base.Add(20 * time.Minute)
	record.DurationSeconds = intPtr(1200)
	_, err = repo.UpdateLog(ctx, got.ID, record)
	require.NoError(t, err)

	got, err = repo.GetLog(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200, *got.DurationSeconds)

	_, err = repo.DeleteLog(ctx, got.ID)
	require.NoError(t, err)
	_, err = repo.GetLog(ctx, got.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogRepo_PointEvent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	inserted, err := repo.InsertLog(ctx, nurture.LogRecord{
		Type:      nurture.Diaper,
		StartTime: base,
		Details:   nurture.Details{DiaperState: nurture.Wet},
	})
	require.NoError(t, err)

	got, err := repo.GetLog(ctx, inserted.ID)
	require.NoError(t, err)
	assert.True(t, got.EndTime.IsZero())
	assert.Nil(t, got.DurationSeconds)
}

func TestLogRepo_ListAndLatest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i, typ := range []nurture.ActivityType{nurture.Feeding, nurture.Sleep, nurture.Feeding, nurture.Diaper} {
		_, err := repo.InsertLog(ctx, nurture.LogRecord{
			Type:      typ,
			StartTime: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	all, err := repo.ListLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, nurture.Diaper, all[0].Type)
	assert.Equal(t, nurture.Feeding, all[3].Type)

	limited, err := repo.ListLogs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	latest, err := repo.LatestLogs(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.True(t, base.Add(2*time.Hour).Equal(latest[nurture.Feeding].StartTime))
	assert.True(t, base.Add(time.Hour).Equal(latest[nurture.Sleep].StartTime))
	_, ok := latest[nurture.Pumping]
	assert.False(t, ok)
}

func TestLogRepo_InsertWithIDConflict(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.InsertLogWithID(ctx, "abc", nurture.LogRecord{Type: nurture.Sleep, StartTime: base})
	require.NoError(t, err)
	_, err = repo.InsertLogWithID(ctx, "abc", nurture.LogRecord{Type: nurture.Sleep, StartTime: base})
	assert.Error(t, err)
}

func TestTimerRepo_Singleton(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	timer, err := repo.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Nil(t, timer)

	record := nurture.ActiveTimerRecord{
		Type:            nurture.Feeding,
		StartTime:       base,
		Details:         nurture.Details{FeedingType: nurture.Nursing, Side: nurture.LeftSide},
		PauseStartTime:  base.Add(time.Minute),
		SnoozeEndTime:   base.Add(6 * time.Minute),
		IgnoredDuration: 1500 * time.Millisecond,
	}
	require.NoError(t, repo.SaveActiveTimer(ctx, record))

	timer, err = repo.GetActiveTimer(ctx)
	require.NoError(t, err)
	require.NotNil(t, timer)
	assert.Equal(t, nurture.Feeding, timer.Type)
	assert.True(t, base.Add(time.Minute).Equal(timer.PauseStartTime))
	assert.True(t, base.Add(6*time.Minute).Equal(timer.SnoozeEndTime))
	assert.Equal(t, 1500*time.Millisecond, timer.IgnoredDuration)
	assert.Equal(t, nurture.LeftSide, timer.Details.Side)

	// overwrite clears pause fields
	record.PauseStartTime = time.Time{}
	record.SnoozeEndTime = time.Time{}
	require.NoError(t, repo.SaveActiveTimer(ctx, record))
	timer, err = repo.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.True(t, timer.PauseStartTime.IsZero())
	assert.True(t, timer.SnoozeEndTime.IsZero())

	require.NoError(t, repo.ClearActiveTimer(ctx))
	timer, err = repo.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Nil(t, timer)
}

func TestReminderRepo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	cfg, err := repo.GetReminderConfig(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Intervals)

	cfg.Enabled = true
	cfg.Intervals[nurture.Feeding] = 180
	cfg.Intervals[nurture.Diaper] = 0
	require.NoError(t, repo.SaveReminderConfig(ctx, cfg))

	require.NoError(t, repo.SetLastNotified(ctx, nurture.Feeding, base))
	require.NoError(t, repo.SetLastNotified(ctx, nurture.Sleep, base.Add(time.Minute)))

	cfg, err = repo.GetReminderConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 180, cfg.Intervals[nurture.Feeding])
	assert.Equal(t, 0, cfg.Intervals[nurture.Sleep])
	assert.True(t, base.Equal(cfg.LastNotified[nurture.Feeding]))
	assert.True(t, base.Add(time.Minute).Equal(cfg.LastNotified[nurture.Sleep]))
	_, ok := cfg.LastNotified[nurture.Diaper]
	assert.False(t, ok)
}

func TestGrowthAndProfileRepo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	profile, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Baby", profile.Name)

	require.NoError(t, repo.SaveProfile(ctx, nurture.BabyProfile{
		Name:       "Mei",
		Sex:        nurture.Girl,
		BirthDate:  base,
		WeightUnit: "kg",
		LengthUnit: "cm",
	}))
	profile, err = repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mei", profile.Name)
	assert.Equal(t, nurture.Girl, profile.Sex)
	assert.True(t, base.Equal(profile.BirthDate))

	later, err := repo.InsertGrowth(ctx, nurture.GrowthRecord{Date: base.AddDate(0, 2, 0), WeightKg: 5.1})
	require.NoError(t, err)
	_, err = repo.InsertGrowth(ctx, nurture.GrowthRecord{Date: base, WeightKg: 3.2, LengthCm: 49})
	require.NoError(t, err)

	entries, err := repo.ListGrowth(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3.2, entries[0].WeightKg)
	assert.Equal(t, 49.0, entries[0].LengthCm)
	assert.Zero(t, entries[1].LengthCm)

	_, err = repo.DeleteGrowth(ctx, later.ID)
	require.NoError(t, err)
	_, err = repo.DeleteGrowth(ctx, later.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.InsertGrowth(ctx, nurture.GrowthRecord{})
	assert.Error(t, err)
}

func TestLogRepo_ListBetween(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, offset := range []time.Duration{-time.Hour, 0, 3 * time.Hour, 24 * time.Hour} {
		_, err := repo.InsertLog(ctx, nurture.LogRecord{Type: nurture.Sleep, StartTime: base.Add(offset)})
		require.NoError(t, err)
	}

	logs, err := repo.ListLogsBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, base.Equal(logs[0].StartTime))
	assert.True(t, base.Add(3*time.Hour).Equal(logs[1].StartTime))
}

func TestStashRepo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	newer, err := repo.InsertStash(ctx, nurture.StashRecord{Date: base, AmountMl: 120, Frozen: true})
	require.NoError(t, err)
	_, err = repo.InsertStash(ctx, nurture.StashRecord{Date: base.AddDate(0, 0, -3), AmountMl: 90, Notes: "fridge"})
	require.NoError(t, err)

	entries, err := repo.ListStash(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 90.0, entries[0].AmountMl)
	assert.False(t, entries[0].Frozen)
	assert.Equal(t, "fridge", entries[0].Notes)
	assert.True(t, entries[1].Frozen)

	used, err := repo.DeleteStash(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, used.AmountMl)
	_, err = repo.DeleteStash(ctx, newer.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.InsertStash(ctx, nurture.StashRecord{Date: base})
	assert.Error(t, err)
}

func TestHealthRepo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.SetHealthItem(ctx, "v1", base))
	require.NoError(t, repo.SetHealthItem(ctx, "m3", base))
	require.NoError(t, repo.SetHealthItem(ctx, "v1", base.Add(time.Hour)))

	done, err := repo.CompletedHealthItems(ctx)
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.True(t, base.Add(time.Hour).Equal(done["v1"]))

	require.NoError(t, repo.SetHealthItem(ctx, "m3", time.Time{}))
	done, err = repo.CompletedHealthItems(ctx)
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestGoalRepo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	goal, err := repo.GetSleepGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, nurture.DefaultSleepGoal(), goal)

	require.NoError(t, repo.SaveSleepGoal(ctx, nurture.SleepGoal{Hours: 12, Minutes: 30}))
	goal, err = repo.GetSleepGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, nurture.SleepGoal{Hours: 12, Minutes: 30}, goal)
	assert.Equal(t, 12*time.Hour+30*time.Minute, goal.Duration())
}
