package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Thiht/transactor"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/growth"
	"github.com/charmbracelet/log"
)

// ProfileUpdate patches the baby profile. Zero fields are left unchanged.
type ProfileUpdate struct {
	Name       string
	Sex        nurture.Sex
	BirthDate  time.Time
	WeightUnit string
	LengthUnit string
}

// Measurement is a growth entry in the profile's display units.
type Measurement struct {
	Date              time.Time
	Weight            float64
	Length            float64
	HeadCircumference float64
	Notes             string
}

type GrowthTracker interface {
	Profile(context.Context) (nurture.BabyProfile, error)
	UpdateProfile(context.Context, ProfileUpdate) (nurture.BabyProfile, error)
	Record(context.Context, Measurement) (nurture.ExistingGrowthRecord, []growth.Assessment, error)
	History(context.Context) ([]nurture.ExistingGrowthRecord, error)
	Delete(context.Context, nurture.GrowthID) (nurture.ExistingGrowthRecord, error)
}

type growthTracker struct {
	growth   nurture.GrowthRepo
	profiles nurture.ProfileRepo
	tx       transactor.Transactor
	now      func() time.Time
}

func NewGrowthTracker(growthRepo nurture.GrowthRepo, profiles nurture.ProfileRepo, tx transactor.Transactor) *growthTracker {
	return &growthTracker{
		growth:   growthRepo,
		profiles: profiles,
		tx:       tx,
		now:      time.Now,
	}
}

func (g *growthTracker) Profile(ctx context.Context) (nurture.BabyProfile, error) {
	var p nurture.BabyProfile
	err := g.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = g.profiles.GetProfile(ctx)
		return err
	})
	return p, err
}

func (g *growthTracker) UpdateProfile(ctx context.Context, u ProfileUpdate) (nurture.BabyProfile, error) {
	if u.Sex != "" && u.Sex != nurture.Boy && u.Sex != nurture.Girl {
		return nurture.BabyProfile{}, fmt.Errorf("unknown sex: %q", u.Sex)
	}
	if !u.BirthDate.IsZero() && u.BirthDate.After(g.now()) {
		return nurture.BabyProfile{}, fmt.Errorf("birth date is in the future")
	}
	if u.WeightUnit != "" && u.WeightUnit != growth.Kilograms && u.WeightUnit != growth.Pounds {
		return nurture.BabyProfile{}, fmt.Errorf("unknown weight unit: %q", u.WeightUnit)
	}
	if u.LengthUnit != "" && u.LengthUnit != growth.Centimeters && u.LengthUnit != growth.Inches {
		return nurture.BabyProfile{}, fmt.Errorf("unknown length unit: %q", u.LengthUnit)
	}

	var p nurture.BabyProfile
	err := g.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if p, err = g.profiles.GetProfile(ctx); err != nil {
			return err
		}
		if u.Name != "" {
			p.Name = u.Name
		}
		if u.Sex != "" {
			p.Sex = u.Sex
		}
		if !u.BirthDate.IsZero() {
			p.BirthDate = u.BirthDate
		}
		if u.WeightUnit != "" {
			p.WeightUnit = u.WeightUnit
		}
		if u.LengthUnit != "" {
			p.LengthUnit = u.LengthUnit
		}
		return g.profiles.SaveProfile(ctx, p)
	})
	if err != nil {
		return nurture.BabyProfile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	log.Info("updated profile", "name", p.Name, "sex", p.Sex)
	return p, nil
}

// Record converts m from the profile units, stores it dated now when m.Date
// is zero and assesses it against the WHO tables.
func (g *growthTracker) Record(ctx context.Context, m Measurement) (nurture.ExistingGrowthRecord, []growth.Assessment, error) {
	if m.Weight <= 0 && m.Length <= 0 && m.HeadCircumference <= 0 {
		return nurture.ExistingGrowthRecord{}, nil, fmt.Errorf("no measurement given")
	}
	if m.Date.IsZero() {
		m.Date = g.now()
	}

	var (
		inserted nurture.ExistingGrowthRecord
		profile  nurture.BabyProfile
	)
	err := g.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if profile, err = g.profiles.GetProfile(ctx); err != nil {
			return err
		}
		inserted, err = g.growth.InsertGrowth(ctx, toMetric(m, profile))
		return err
	})
	if err != nil {
		return nurture.ExistingGrowthRecord{}, nil, fmt.Errorf("failed to record growth: %w", err)
	}
	log.Info("recorded growth", "growthID", inserted.ID)
	return inserted, growth.Assess(profile, inserted.GrowthRecord), nil
}

func (g *growthTracker) History(ctx context.Context) ([]nurture.ExistingGrowthRecord, error) {
	var entries []nurture.ExistingGrowthRecord
	err := g.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entries, err = g.growth.ListGrowth(ctx)
		return err
	})
	return entries, err
}

func (g *growthTracker) Delete(ctx context.Context, id nurture.GrowthID) (nurture.ExistingGrowthRecord, error) {
	var deleted nurture.ExistingGrowthRecord
	err := g.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = g.growth.DeleteGrowth(ctx, id)
		return err
	})
	if err != nil {
		return nurture.ExistingGrowthRecord{}, fmt.Errorf("failed to delete growth %s: %w", id, err)
	}
	log.Info("deleted growth", "growthID", id)
	return deleted, nil
}

func toMetric(m Measurement, p nurture.BabyProfile) nurture.GrowthRecord {
	r := nurture.GrowthRecord{
		Date:                m.Date,
		WeightKg:            m.Weight,
		LengthCm:            m.Length,
		HeadCircumferenceCm: m.HeadCircumference,
		Notes:               m.Notes,
	}
	if p.WeightUnit == growth.Pounds {
		r.WeightKg = growth.LbToKg(m.Weight)
	}
	if p.LengthUnit == growth.Inches {
		r.LengthCm = growth.InToCm(m.Length)
		r.HeadCircumferenceCm = growth.InToCm(m.HeadCircumference)
	}
	return r
}
