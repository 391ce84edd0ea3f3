// Package growth holds the WHO child growth reference tables (0-24 months)
// and the helpers to place a measurement against them.
package growth

import (
	"fmt"
	"math"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
)

// DaysPerMonth is the average month length used for age in months.
const DaysPerMonth = 30.437

type Metric uint8

const (
	_ Metric = iota
	Weight
	Length
	HeadCircumference
)

func (m Metric) String() string {
	switch m {
	case Weight:
		return "weight"
	case Length:
		return "length"
	case HeadCircumference:
		return "head circumference"
	default:
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
}

// Point is one reference row. Weight in kg, lengths in cm.
type Point struct {
	Month float64
	P3    float64
	P50   float64
	P97   float64
}

type tables struct {
	boys, girls []Point
}

var standards = map[Metric]tables{
	Weight: {
		boys: []Point{
			{0, 2.5, 3.3, 4.3}, {1, 3.4, 4.5, 5.8}, {2, 4.3, 5.6, 7.1}, {3, 5.0, 6.4, 8.0},
			{4, 5.6, 7.0, 8.7}, {5, 6.0, 7.5, 9.3}, {6, 6.4, 7.9, 9.8}, {7, 6.7, 8.3, 10.3},
			{8, 6.9, 8.6, 10.7}, {9, 7.1, 8.9, 11.0}, {10, 7.4, 9.2, 11.4}, {11, 7.6, 9.4, 11.7},
			{12, 7.7, 9.6, 12.0}, {15, 8.3, 10.3, 12.8}, {18, 8.8, 10.9, 13.7}, {21, 9.2, 11.5, 14.5},
			{24, 9.7, 12.2, 15.3},
		},
		girls: []Point{
			{0, 2.4, 3.2, 4.2}, {1, 3.2, 4.2, 5.5}, {2, 3.9, 5.1, 6.6}, {3, 4.5, 5.8, 7.5},
			{4, 5.0, 6.4, 8.2}, {5, 5.4, 6.9, 8.8}, {6, 5.7, 7.3, 9.3}, {7, 6.0, 7.6, 9.8},
			{8, 6.3, 7.9, 10.2}, {9, 6.5, 8.2, 10.5}, {10, 6.7, 8.5, 10.9}, {11, 6.9, 8.7, 11.2},
			{12, 7.0, 8.9, 11.5}, {15, 7.6, 9.6, 12.4}, {18, 8.1, 10.2, 13.2}, {21, 8.6, 10.9, 14.0},
			{24, 9.0, 11.5, 14.8},
		},
	},
	Length: {
		boys: []Point{
			{0, 46.1, 49.9, 53.7}, {1, 50.8, 54.7, 58.6}, {2, 54.4, 58.4, 62.4}, {3, 57.3, 61.4, 65.5},
			{4, 59.7, 63.9, 68.0}, {5, 61.7, 65.9, 70.1}, {6, 63.3, 67.6, 71.9}, {7, 64.8, 69.2, 73.5},
			{8, 66.2, 70.6, 75.0}, {9, 67.5, 72.0, 76.5}, {10, 68.7, 73.3, 77.9}, {11, 69.9, 74.5, 79.2},
			{12, 71.0, 75.7, 80.5}, {15, 74.1, 79.1, 84.2}, {18, 76.9, 82.3, 87.7}, {21, 79.4, 85.1, 90.9},
			{24, 81.7, 87.8, 93.9},
		},
		girls: []Point{
			{0, 45.4, 49.1, 52.9}, {1, 49.8, 53.7, 57.6}, {2, 53.0, 57.1, 61.1}, {3, 55.6, 59.8, 64.0},
			{4, 57.8, 62.1, 66.4}, {5, 59.6, 64.0, 68.5}, {6, 61.2, 65.7, 70.3}, {7, 62.7, 67.3, 71.9},
			{8, 64.0, 68.7, 73.5}, {9, 65.3, 70.1, 75.0}, {10, 66.5, 71.5, 76.4}, {11, 67.7, 72.8, 77.8},
			{12, 68.9, 74.0, 79.2}, {15, 72.0, 77.5, 83.0}, {18, 74.9, 80.7, 86.5}, {21, 77.5, 83.7, 89.8},
			{24, 80.0, 86.4, 92.9},
		},
	},
	HeadCircumference: {
		boys: []Point{
			{0, 31.9, 34.5, 37.0}, {3, 38.3, 40.8, 43.4}, {6, 41.0, 43.6, 46.2}, {9, 42.6, 45.3, 47.9},
			{12, 43.9, 46.5, 49.2}, {18, 45.4, 48.1, 50.8}, {24, 46.5, 49.3, 52.0},
		},
		girls: []Point{
			{0, 31.5, 33.9, 36.2}, {3, 37.4, 39.8, 42.1}, {6, 40.0, 42.5, 45.0}, {9, 41.5, 44.1, 46.7},
			{12, 42.7, 45.4, 48.0}, {18, 44.3, 47.0, 49.7}, {24, 45.4, 48.2, 51.0},
		},
	},
}

// Table returns the reference rows for metric and sex ordered by month.
// The returned slice must not be modified.
func Table(m Metric, sex nurture.Sex) []Point {
	t, ok := standards[m]
	if !ok {
		return nil
	}
	if sex == nurture.Girl {
		return t.girls
	}
	return t.boys
}

// AgeInMonths includes partial months.
func AgeInMonths(birth, target time.Time) float64 {
	days := target.Sub(birth).Hours() / 24
	return days / DaysPerMonth
}

// Nearest returns the reference row whose month is closest to ageMonths.
func Nearest(m Metric, sex nurture.Sex, ageMonths float64) (Point, bool) {
	table := Table(m, sex)
	if len(table) == 0 {
		return Point{}, false
	}
	best := table[0]
	for _, p := range table[1:] {
		if math.Abs(p.Month-ageMonths) < math.Abs(best.Month-ageMonths) {
			best = p
		}
	}
	return best, true
}

type Band uint8

const (
	_ Band = iota
	BelowP3
	P3ToP50
	P50ToP97
	AboveP97
)

func (b Band) String() string {
	switch b {
	case BelowP3:
		return "below 3rd percentile"
	case P3ToP50:
		return "3rd-50th percentile"
	case P50ToP97:
		return "50th-97th percentile"
	case AboveP97:
		return "above 97th percentile"
	default:
		return "unknown"
	}
}

func Classify(value float64, p Point) Band {
	switch {
	case value < p.P3:
		return BelowP3
	case value < p.P50:
		return P3ToP50
	case value <= p.P97:
		return P50ToP97
	default:
		return AboveP97
	}
}

type Assessment struct {
	Metric    Metric
	Value     float64
	AgeMonths float64
	Reference Point
	Band      Band
}

// Assess places every measured metric of g against the tables for the
// subject's age at g.Date. Unmeasured metrics are skipped.
func Assess(profile nurture.BabyProfile, g nurture.GrowthRecord) []Assessment {
	age := AgeInMonths(profile.BirthDate, g.Date)
	values := []struct {
		metric Metric
		value  float64
	}{
		{Weight, g.WeightKg},
		{Length, g.LengthCm},
		{HeadCircumference, g.HeadCircumferenceCm},
	}

	var out []Assessment
	for _, v := range values {
		if v.value <= 0 {
			continue
		}
		ref, ok := Nearest(v.metric, profile.Sex, age)
		if !ok {
			continue
		}
		out = append(out, Assessment{
			Metric:    v.metric,
			Value:     v.value,
			AgeMonths: age,
			Reference: ref,
			Band:      Classify(v.value, ref),
		})
	}
	return out
}
