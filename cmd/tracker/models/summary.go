package models

import (
	"time"

	nurture "github.com/bill2712/nursing-tracker"
)

// TrendDays is the number of days covered by the sleep trend, today included.
const TrendDays = 7

type DailySummary struct {
	Day          time.Time // local midnight
	SleepSeconds int
	Feedings     int
	Diapers      int
	Goal         nurture.SleepGoal
}

// GoalPercent is the share of the sleep goal reached, capped at 100.
// A zero goal reports 0.
func (s DailySummary) GoalPercent() int {
	goal := s.Goal.Duration().Seconds()
	if goal <= 0 {
		return 0
	}
	pct := int(float64(s.SleepSeconds) / goal * 100)
	return min(pct, 100)
}

type TrendDay struct {
	Day          time.Time
	SleepSeconds int
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summarize counts the logs started on now's day.
func Summarize(logs []nurture.ExistingLogRecord, goal nurture.SleepGoal, now time.Time) DailySummary {
	day := StartOfDay(now)
	s := DailySummary{Day: day, Goal: goal}
	for _, l := range logs {
		if !sameDay(l.StartTime.In(now.Location()), day) {
			continue
		}
		switch l.Type {
		case nurture.Sleep:
			if l.DurationSeconds != nil {
				s.SleepSeconds += *l.DurationSeconds
			}
		case nurture.Feeding:
			s.Feedings++
		case nurture.Diaper:
			s.Diapers++
		}
	}
	return s
}

// SleepTrend totals sleep per start day for the TrendDays ending on now's day,
// oldest first. Days without sleep report zero.
func SleepTrend(logs []nurture.ExistingLogRecord, now time.Time) []TrendDay {
	today := StartOfDay(now)
	trend := make([]TrendDay, TrendDays)
	for i := range trend {
		trend[i].Day = today.AddDate(0, 0, i-(TrendDays-1))
	}
	for _, l := range logs {
		if l.Type != nurture.Sleep || l.DurationSeconds == nil {
			continue
		}
		start := l.StartTime.In(now.Location())
		for i := range trend {
			if sameDay(start, trend[i].Day) {
				trend[i].SleepSeconds += *l.DurationSeconds
				break
			}
		}
	}
	return trend
}

// TrendStart is the first instant covered by SleepTrend for now.
func TrendStart(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -(TrendDays - 1))
}

func sameDay(t, day time.Time) bool {
	return StartOfDay(t).Equal(day)
}
