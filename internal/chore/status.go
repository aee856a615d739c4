// Package chore derives display state for assignments: whether each one is
// done, due today, late or still ahead, and how far each member has got
// through their week.
package chore

import (
	"time"

	"github.com/dukerupert/choreweek/internal/model"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
	StatusUpcoming  Status = "upcoming"
)

// ComputeStatus compares calendar dates only, so a due date stored as UTC
// midnight and a local "today" agree on which day it is.
func ComputeStatus(due time.Time, completed bool, today time.Time) Status {
	if completed {
		return StatusCompleted
	}
	d, t := dayKey(due), dayKey(today)
	switch {
	case d < t:
		return StatusOverdue
	case d == t:
		return StatusPending
	default:
		return StatusUpcoming
	}
}

// Annotate fills in Status on every assignment.
func Annotate(list []model.AssignmentDetail, today time.Time) {
	for i := range list {
		list[i].Status = string(ComputeStatus(list[i].DueDate, list[i].Completed, today))
	}
}

// Progress is one member's tally for a set of assignments.
type Progress struct {
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Overdue    int    `json:"overdue"`
}

// Summarize tallies assignments per member, in order of each member's
// first assignment.
func Summarize(list []model.AssignmentDetail, today time.Time) []Progress {
	out := []Progress{}
	index := make(map[int64]int)
	for _, a := range list {
		i, ok := index[a.MemberID]
		if !ok {
			i = len(out)
			index[a.MemberID] = i
			out = append(out, Progress{MemberID: a.MemberID, MemberName: a.MemberName})
		}
		p := &out[i]
		p.Total++
		switch ComputeStatus(a.DueDate, a.Completed, today) {
		case StatusCompleted:
			p.Completed++
		case StatusOverdue:
			p.Overdue++
		}
	}
	return out
}

func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
