package nurture

import (
	"fmt"
	"strings"
	"time"
)

type ExistingRecord[T ~string] struct {
	ID        T
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewExistingRecord[T ~string](id string) ExistingRecord[T] {
	now := time.Now()
	return ExistingRecord[T]{
		ID:        T(id),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type ActivityType uint8

const (
	_ ActivityType = iota
	Feeding
	Sleep
	Diaper
	Pumping
	Solids
)

// ActivityTypes lists every activity type in display order.
var ActivityTypes = []ActivityType{Feeding, Sleep, Diaper, Pumping, Solids}

// ReminderTypes are the activity types that support threshold reminders.
var ReminderTypes = []ActivityType{Feeding, Sleep, Diaper}

func (t ActivityType) String() string {
	switch t {
	case Feeding:
		return "feeding"
	case Sleep:
		return "sleep"
	case Diaper:
		return "diaper"
	case Pumping:
		return "pumping"
	case Solids:
		return "solids"
	default:
		return fmt.Sprintf("ActivityType(%d)", uint8(t))
	}
}

func (t ActivityType) Valid() bool {
	return t >= Feeding && t <= Solids
}

func ParseActivityType(s string) (ActivityType, error) {
	for _, t := range ActivityTypes {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown activity type: %q", s)
}

type (
	FeedingType string
	FeedingSide string
	DiaperState string
)

const (
	Nursing FeedingType = "nursing"
	Bottle  FeedingType = "bottle"

	LeftSide  FeedingSide = "left"
	RightSide FeedingSide = "right"
	BothSides FeedingSide = "both"

	Wet   DiaperState = "wet"
	Dirty DiaperState = "dirty"
	Mixed DiaperState = "mixed"
)

// Details is the activity specific payload carried by timers and logs.
// Zero values mean "not recorded".
type Details struct {
	FeedingType FeedingType `json:"feedingType,omitempty"`
	Side        FeedingSide `json:"side,omitempty"`
	AmountMl    float64     `json:"amountMl,omitempty"`
	DiaperState DiaperState `json:"diaperState,omitempty"`
	Foods       []string    `json:"foods,omitempty"`
	Reaction    string      `json:"reaction,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

// Merge returns d with every non-zero field of patch applied.
func (d Details) Merge(patch Details) Details {
	if patch.FeedingType != "" {
		d.FeedingType = patch.FeedingType
	}
	if patch.Side != "" {
		d.Side = patch.Side
	}
	if patch.AmountMl != 0 {
		d.AmountMl = patch.AmountMl
	}
	if patch.DiaperState != "" {
		d.DiaperState = patch.DiaperState
	}
	if patch.Foods != nil {
		d.Foods = append([]string(nil), patch.Foods...)
	}
	if patch.Reaction != "" {
		d.Reaction = patch.Reaction
	}
	if patch.Notes != "" {
		d.Notes = patch.Notes
	}
	return d
}

func (d Details) Summary() string {
	var parts []string
	if d.FeedingType != "" {
		parts = append(parts, string(d.FeedingType))
	}
	if d.Side != "" {
		parts = append(parts, string(d.Side))
	}
	if d.AmountMl > 0 {
		parts = append(parts, fmt.Sprintf("%gml", d.AmountMl))
	}
	if d.DiaperState != "" {
		parts = append(parts, string(d.DiaperState))
	}
	if len(d.Foods) > 0 {
		parts = append(parts, strings.Join(d.Foods, ", "))
	}
	return strings.Join(parts, "; ")
}

type LogID string

// ActiveTimerRecord is the persisted shape of the single in-progress timer.
// Zero PauseStartTime/SnoozeEndTime mean unset.
type ActiveTimerRecord struct {
	Type            ActivityType
	StartTime       time.Time
	Details         Details
	PauseStartTime  time.Time
	SnoozeEndTime   time.Time
	IgnoredDuration time.Duration
	UpdatedAt       time.Time
}

type LogRecord struct {
	Type            ActivityType
	StartTime       time.Time
	EndTime         time.Time // zero for point-in-time events
	DurationSeconds *int
	Details         Details
}

// ReferenceTime is EndTime when present, else StartTime.
func (r LogRecord) ReferenceTime() time.Time {
	if !r.EndTime.IsZero() {
		return r.EndTime
	}
	return r.StartTime
}

type ExistingLogRecord struct {
	ExistingRecord[LogID]
	LogRecord
}

type ReminderConfig struct {
	Enabled      bool
	Intervals    map[ActivityType]int // minutes, 0 disables the type
	LastNotified map[ActivityType]time.Time
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Intervals:    make(map[ActivityType]int),
		LastNotified: make(map[ActivityType]time.Time),
	}
}

type GrowthID string

// GrowthRecord stores weight in kg and lengths in cm. Zero means not measured.
type GrowthRecord struct {
	Date                time.Time
	WeightKg            float64
	LengthCm            float64
	HeadCircumferenceCm float64
	Notes               string
}

type ExistingGrowthRecord struct {
	ExistingRecord[GrowthID]
	GrowthRecord
}

type Sex string

const (
	Boy  Sex = "boy"
	Girl Sex = "girl"
)

type BabyProfile struct {
	Name       string
	Sex        Sex
	BirthDate  time.Time
	WeightUnit string // kg | lb
	LengthUnit string // cm | in
}

func DefaultBabyProfile() BabyProfile {
	return BabyProfile{
		Name:       "Baby",
		Sex:        Boy,
		BirthDate:  time.Now(),
		WeightUnit: "kg",
		LengthUnit: "cm",
	}
}

type StashID string

// StashRecord is a bag of expressed milk kept in the freezer or fridge.
type StashRecord struct {
	Date     time.Time // when the milk was expressed
	AmountMl float64
	Frozen   bool
	Notes    string
}

type ExistingStashRecord struct {
	ExistingRecord[StashID]
	StashRecord
}

// SleepGoal is the daily sleep target.
type SleepGoal struct {
	Hours   int
	Minutes int
}

func DefaultSleepGoal() SleepGoal {
	return SleepGoal{Hours: 14}
}

func (g SleepGoal) Duration() time.Duration {
	return time.Duration(g.Hours)*time.Hour + time.Duration(g.Minutes)*time.Minute
}
