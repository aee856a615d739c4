// Package schedule builds one week of chore assignments for a household.
//
// ScheduleWeek is a pure function: it takes the roster, the chore catalog and
// a per-member cap and returns the assignments in placement order. Loading
// inputs and persisting results is the caller's job.
package schedule

import (
	"fmt"
	"slices"
	"time"
)

// MaxWeight bounds a chore's weight so member loads cannot overflow.
const MaxWeight = 1000

// Chore is one catalog entry as the engine sees it.
type Chore struct {
	ID        int64
	Frequency Frequency
	Weight    int
}

// Occurrence is one required placement of a chore within the week.
type Occurrence struct {
	ChoreID int64
	Day     int
	DueDate time.Time
}

// Assignment is an occurrence with a member chosen for it.
type Assignment struct {
	ChoreID   int64
	MemberID  int64
	DueDate   time.Time
	Completed bool
}

// Request is the single input to ScheduleWeek.
type Request struct {
	WeekStart    time.Time
	MemberIDs    []int64
	Chores       []Chore
	MaxPerMember int
}

// ScheduleWeek expands every chore into its weekly occurrences and assigns
// each one to the least-loaded member under the cap.
//
// It returns a *ConfigError for malformed input and a *CapacityError when the
// roster cannot absorb every occurrence. A partial schedule is never returned.
func ScheduleWeek(req Request) ([]Assignment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if len(req.Chores) == 0 {
		return []Assignment{}, nil
	}

	var pending []pendingOccurrence
	for order, c := range req.Chores {
		occs, err := Expand(c, req.WeekStart)
		if err != nil {
			return nil, err
		}
		for _, occ := range occs {
			pending = append(pending, pendingOccurrence{Occurrence: occ, weight: c.Weight, order: order})
		}
	}

	slices.SortStableFunc(pending, func(a, b pendingOccurrence) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		if a.weight != b.weight {
			return b.weight - a.weight
		}
		return a.order - b.order
	})

	return allocate(req.MemberIDs, req.MaxPerMember, pending)
}

// Expand returns the occurrences of a single chore for the week starting at
// weekStart, in day order.
func Expand(c Chore, weekStart time.Time) ([]Occurrence, error) {
	if !c.Frequency.Valid() {
		return nil, unknownFrequency(c)
	}
	weekStart = startOfDay(weekStart)
	days := c.Frequency.Days()
	out := make([]Occurrence, len(days))
	for i, day := range days {
		out[i] = Occurrence{ChoreID: c.ID, Day: day, DueDate: weekStart.AddDate(0, 0, day)}
	}
	return out, nil
}

// RequiredOccurrences sums the weekly occurrence count of every chore.
func RequiredOccurrences(chores []Chore) (int, error) {
	total := 0
	for _, c := range chores {
		if !c.Frequency.Valid() {
			return 0, unknownFrequency(c)
		}
		total += c.Frequency.Count()
	}
	return total, nil
}

// MinPerMember is the smallest cap that lets members hold every occurrence.
// It returns 0 when there are no members.
func MinPerMember(chores []Chore, members int) (int, error) {
	total, err := RequiredOccurrences(chores)
	if err != nil {
		return 0, err
	}
	if members <= 0 {
		return 0, nil
	}
	return (total + members - 1) / members, nil
}

type pendingOccurrence struct {
	Occurrence
	weight int
	order  int
}

func validate(req Request) error {
	seenMembers := make(map[int64]struct{}, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		if _, dup := seenMembers[id]; dup {
			return configErr("member_ids", fmt.Sprintf("duplicate member %d", id))
		}
		seenMembers[id] = struct{}{}
	}

	seenChores := make(map[int64]struct{}, len(req.Chores))
	for _, c := range req.Chores {
		if _, dup := seenChores[c.ID]; dup {
			return choreErr(c.ID, "id", "duplicate chore")
		}
		seenChores[c.ID] = struct{}{}
		if c.Weight < 1 || c.Weight > MaxWeight {
			return choreErr(c.ID, "weight", fmt.Sprintf("must be between 1 and %d, got %d", MaxWeight, c.Weight))
		}
		if !c.Frequency.Valid() {
			return unknownFrequency(c)
		}
	}

	if len(req.Chores) > 0 && req.MaxPerMember < 1 {
		return configErr("max_per_member", fmt.Sprintf("must be at least 1, got %d", req.MaxPerMember))
	}
	return nil
}

func unknownFrequency(c Chore) *ConfigError {
	return choreErr(c.ID, "frequency", fmt.Sprintf("unrecognized value %d", int(c.Frequency)))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
