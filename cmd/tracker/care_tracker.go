package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Thiht/transactor"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/bill2712/nursing-tracker/growth"
	"github.com/bill2712/nursing-tracker/health"
	"github.com/charmbracelet/log"
)

var ErrUnknownItem = errors.New("unknown checklist item")

// Summary is today's totals plus the sleep trend of the last week.
type Summary struct {
	Today models.DailySummary
	Trend []models.TrendDay
}

// Checklist is a health checklist with the baby's current age.
type Checklist struct {
	Kind      health.Kind
	Items     []health.Status
	AgeMonths float64
}

type CareTracker interface {
	Summary(context.Context) (Summary, error)
	SetSleepGoal(ctx context.Context, hours, minutes int) (nurture.SleepGoal, error)

	AddStash(context.Context, nurture.StashRecord) (nurture.ExistingStashRecord, error)
	UseStash(context.Context, nurture.StashID) (nurture.ExistingStashRecord, error)
	Stash(context.Context) ([]nurture.ExistingStashRecord, error)

	Checklist(context.Context, health.Kind) (Checklist, error)
	// ToggleHealthItem flips an item between pending and completed now.
	ToggleHealthItem(ctx context.Context, id string) (health.Status, error)
}

type careTracker struct {
	logs     nurture.LogRepo
	goals    nurture.GoalRepo
	stash    nurture.StashRepo
	checks   nurture.HealthRepo
	profiles nurture.ProfileRepo
	tx       transactor.Transactor
	now      func() time.Time
}

func NewCareTracker(
	logs nurture.LogRepo,
	goals nurture.GoalRepo,
	stash nurture.StashRepo,
	checks nurture.HealthRepo,
	profiles nurture.ProfileRepo,
	tx transactor.Transactor,
) *careTracker {
	return &careTracker{
		logs:     logs,
		goals:    goals,
		stash:    stash,
		checks:   checks,
		profiles: profiles,
		tx:       tx,
		now:      time.Now,
	}
}

func (c *careTracker) Summary(ctx context.Context) (Summary, error) {
	now := c.now()
	var (
		logs []nurture.ExistingLogRecord
		goal nurture.SleepGoal
	)
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if goal, err = c.goals.GetSleepGoal(ctx); err != nil {
			return err
		}
		logs, err = c.logs.ListLogsBetween(ctx, models.TrendStart(now), models.StartOfDay(now).AddDate(0, 0, 1))
		return err
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load summary: %w", err)
	}
	return Summary{
		Today: models.Summarize(logs, goal, now),
		Trend: models.SleepTrend(logs, now),
	}, nil
}

func (c *careTracker) SetSleepGoal(ctx context.Context, hours, minutes int) (nurture.SleepGoal, error) {
	goal := nurture.SleepGoal{Hours: hours, Minutes: minutes}
	if hours < 0 || minutes < 0 || minutes >= 60 || goal.Duration() > 24*time.Hour {
		return nurture.SleepGoal{}, nurture.ErrInvalidRange
	}
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return c.goals.SaveSleepGoal(ctx, goal)
	})
	if err != nil {
		return nurture.SleepGoal{}, fmt.Errorf("failed to save sleep goal: %w", err)
	}
	log.Info("updated sleep goal", "hours", hours, "minutes", minutes)
	return goal, nil
}

// AddStash stores an entry dated now when e.Date is zero.
func (c *careTracker) AddStash(ctx context.Context, e nurture.StashRecord) (nurture.ExistingStashRecord, error) {
	if e.AmountMl <= 0 {
		return nurture.ExistingStashRecord{}, fmt.Errorf("amount must be positive")
	}
	if e.Date.IsZero() {
		e.Date = c.now()
	}
	var inserted nurture.ExistingStashRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = c.stash.InsertStash(ctx, e)
		return err
	})
	if err != nil {
		return nurture.ExistingStashRecord{}, fmt.Errorf("failed to add stash: %w", err)
	}
	log.Info("added milk to stash", "stashID", inserted.ID, "ml", inserted.AmountMl)
	return inserted, nil
}

func (c *careTracker) UseStash(ctx context.Context, id nurture.StashID) (nurture.ExistingStashRecord, error) {
	var used nurture.ExistingStashRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		used, err = c.stash.DeleteStash(ctx, id)
		return err
	})
	if err != nil {
		return nurture.ExistingStashRecord{}, fmt.Errorf("failed to use stash %s: %w", id, err)
	}
	log.Info("used milk from stash", "stashID", id)
	return used, nil
}

func (c *careTracker) Stash(ctx context.Context) ([]nurture.ExistingStashRecord, error) {
	var entries []nurture.ExistingStashRecord
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entries, err = c.stash.ListStash(ctx)
		return err
	})
	return entries, err
}

func (c *careTracker) Checklist(ctx context.Context, k health.Kind) (Checklist, error) {
	var (
		done    map[string]time.Time
		profile nurture.BabyProfile
	)
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if profile, err = c.profiles.GetProfile(ctx); err != nil {
			return err
		}
		done, err = c.checks.CompletedHealthItems(ctx)
		return err
	})
	if err != nil {
		return Checklist{}, fmt.Errorf("failed to load %s checklist: %w", k, err)
	}
	return Checklist{
		Kind:      k,
		Items:     health.Checklist(k, done),
		AgeMonths: growth.AgeInMonths(profile.BirthDate, c.now()),
	}, nil
}

func (c *careTracker) ToggleHealthItem(ctx context.Context, id string) (health.Status, error) {
	item, ok := health.Find(id)
	if !ok {
		return health.Status{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	status := health.Status{Item: item}
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		done, err := c.checks.CompletedHealthItems(ctx)
		if err != nil {
			return err
		}
		if _, completed := done[item.ID]; !completed {
			status.Completed = c.now()
		}
		return c.checks.SetHealthItem(ctx, item.ID, status.Completed)
	})
	if err != nil {
		return health.Status{}, fmt.Errorf("failed to toggle %s: %w", item.ID, err)
	}
	log.Info("toggled health item", "id", item.ID, "done", status.Done())
	return status, nil
}
