// Package health holds the vaccination schedule and developmental milestone
// checklist, keyed by the age in months each item is expected.
package health

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Kind uint8

const (
	_ Kind = iota
	Vaccine
	Milestone
)

func (k Kind) String() string {
	switch k {
	case Vaccine:
		return "vaccine"
	case Milestone:
		return "milestone"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.TrimSuffix(strings.ToLower(s), "s") {
	case "vaccine":
		return Vaccine, nil
	case "milestone":
		return Milestone, nil
	default:
		return 0, fmt.Errorf("unknown checklist: %q", s)
	}
}

type Category string

const (
	Motor     Category = "motor"
	Social    Category = "social"
	Cognitive Category = "cognitive"
	Language  Category = "language"
)

type Item struct {
	ID        string
	Kind      Kind
	Name      string
	Category  Category // milestones only
	AgeMonths int
}

var vaccines = []Item{
	{ID: "v1", Name: "Hepatitis B (dose 1)", AgeMonths: 0},
	{ID: "v2", Name: "BCG", AgeMonths: 0},
	{ID: "v3", Name: "Hepatitis B (dose 2)", AgeMonths: 1},
	{ID: "v4", Name: "DTaP-IPV-Hib (dose 1)", AgeMonths: 2},
	{ID: "v5", Name: "Pneumococcal (dose 1)", AgeMonths: 2},
	{ID: "v6", Name: "DTaP-IPV-Hib (dose 2)", AgeMonths: 4},
	{ID: "v7", Name: "Pneumococcal (dose 2)", AgeMonths: 4},
	{ID: "v8", Name: "Hepatitis B (dose 3)", AgeMonths: 6},
	{ID: "v9", Name: "DTaP-IPV-Hib (dose 3)", AgeMonths: 6},
	{ID: "v10", Name: "MMRV (dose 1)", AgeMonths: 12},
	{ID: "v11", Name: "Pneumococcal (booster)", AgeMonths: 12},
	{ID: "v12", Name: "DTaP-IPV-Hib (booster)", AgeMonths: 18},
	{ID: "v13", Name: "MMRV (dose 2)", AgeMonths: 18},
}

var milestones = []Item{
	{ID: "m1", AgeMonths: 1, Category: Motor, Name: "Briefly lifts head when on tummy"},
	{ID: "m2", AgeMonths: 1, Category: Social, Name: "Looks at faces"},
	{ID: "m3", AgeMonths: 2, Category: Motor, Name: "Lifts head 45 degrees when on tummy"},
	{ID: "m4", AgeMonths: 2, Category: Social, Name: "Coos and makes vowel sounds"},
	{ID: "m5", AgeMonths: 2, Category: Social, Name: "Smiles when played with"},
	{ID: "m6", AgeMonths: 4, Category: Motor, Name: "Lifts head 90 degrees when on tummy"},
	{ID: "m7", AgeMonths: 4, Category: Motor, Name: "Rolls from tummy to back"},
	{ID: "m8", AgeMonths: 4, Category: Cognitive, Name: "Reaches for and grasps toys"},
	{ID: "m9", AgeMonths: 6, Category: Motor, Name: "Sits with support"},
	{ID: "m10", AgeMonths: 6, Category: Cognitive, Name: "Passes objects between hands"},
	{ID: "m11", AgeMonths: 6, Category: Language, Name: "Babbles single sounds like ma or da"},
	{ID: "m12", AgeMonths: 9, Category: Motor, Name: "Pulls to stand holding on"},
	{ID: "m13", AgeMonths: 9, Category: Motor, Name: "Crawls"},
	{ID: "m14", AgeMonths: 9, Category: Cognitive, Name: "Picks up small things with thumb and finger"},
	{ID: "m15", AgeMonths: 12, Category: Motor, Name: "Stands alone for a moment"},
	{ID: "m16", AgeMonths: 12, Category: Motor, Name: "Cruises along furniture"},
	{ID: "m17", AgeMonths: 12, Category: Language, Name: "Says mama or dada with meaning"},
}

func init() {
	for i := range vaccines {
		vaccines[i].Kind = Vaccine
	}
	for i := range milestones {
		milestones[i].Kind = Milestone
	}
}

// Items returns the checklist of the given kind ordered by age.
func Items(k Kind) []Item {
	switch k {
	case Vaccine:
		return vaccines
	case Milestone:
		return milestones
	default:
		return nil
	}
}

func Find(id string) (Item, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, items := range [][]Item{vaccines, milestones} {
		for _, it := range items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Status is an item with its completion time, zero when pending.
type Status struct {
	Item
	Completed time.Time
}

func (s Status) Done() bool {
	return !s.Completed.IsZero()
}

// Overdue reports whether a pending item was expected before ageMonths.
func (s Status) Overdue(ageMonths float64) bool {
	return !s.Done() && float64(s.AgeMonths) < ageMonths
}

// Checklist joins the items of kind k with their completion times.
func Checklist(k Kind, done map[string]time.Time) []Status {
	items := Items(k)
	out := make([]Status, 0, len(items))
	for _, it := range items {
		out = append(out, Status{Item: it, Completed: done[it.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AgeMonths < out[j].AgeMonths })
	return out
}

// Progress counts completed items.
func Progress(statuses []Status) (done, total int) {
	for _, s := range statuses {
		if s.Done() {
			done++
		}
	}
	return done, len(statuses)
}
