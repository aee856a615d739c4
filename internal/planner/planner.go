// Package planner connects the scheduling engine to the database: it loads
// the roster and task catalog, runs the engine, and stores the result as a
// schedule run.
package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/schedule"
	"github.com/dukerupert/choreweek/internal/store"
	"github.com/dukerupert/choreweek/internal/websocket"
)

// ErrAlreadyScheduled is returned when a stored run shares any day with the
// requested week.
var ErrAlreadyScheduled = errors.New("week already scheduled")

// Result is a stored run and the assignments it produced.
type Result struct {
	Run         model.ScheduleRun        `json:"run"`
	Assignments []model.AssignmentDetail `json:"assignments"`
}

// Hint sizes the max-assignments field of the generate form.
type Hint struct {
	Members      int `json:"members"`
	Tasks        int `json:"tasks"`
	Required     int `json:"required"`
	MinPerMember int `json:"min_per_member"`
}

type Service struct {
	members     *store.MemberStore
	tasks       *store.TaskStore
	runs        *store.RunStore
	assignments *store.AssignmentStore
	hub         websocket.Broadcaster
	logger      *slog.Logger

	// mu serializes the exists check with the insert.
	mu sync.Mutex
}

func NewService(members *store.MemberStore, tasks *store.TaskStore, runs *store.RunStore, assignments *store.AssignmentStore, hub websocket.Broadcaster, logger *slog.Logger) *Service {
	return &Service{
		members:     members,
		tasks:       tasks,
		runs:        runs,
		assignments: assignments,
		hub:         hub,
		logger:      logger,
	}
}

// Generate schedules the week beginning at weekStart and stores it as one
// run. Engine errors are returned unwrapped so callers can inspect them.
func (s *Service) Generate(weekStart time.Time, maxPerMember int, createdBy *int64) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.runs.OverlapsWeek(weekStart)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyScheduled
	}

	memberIDs, err := s.members.IDs()
	if err != nil {
		return nil, err
	}
	chores, err := s.tasks.Catalog()
	if err != nil {
		return nil, err
	}

	planned, err := schedule.ScheduleWeek(schedule.Request{
		WeekStart:    weekStart,
		MemberIDs:    memberIDs,
		Chores:       chores,
		MaxPerMember: maxPerMember,
	})
	if err != nil {
		return nil, err
	}

	run, err := s.runs.Create(weekStart, maxPerMember, createdBy, planned)
	if err != nil {
		return nil, err
	}
	details, err := s.assignments.List(model.AssignmentFilter{RunID: run.ID})
	if err != nil {
		return nil, err
	}
	if details == nil {
		details = []model.AssignmentDetail{}
	}

	s.logger.Info("schedule generated",
		"run_id", run.ID,
		"week_start", run.WeekStart.Format(time.DateOnly),
		"members", len(memberIDs),
		"assignments", len(details),
	)
	s.hub.Broadcast(websocket.NewMessage(websocket.EntitySchedule, "generated", 0, map[string]any{
		"run_id":     run.ID,
		"week_start": run.WeekStart.Format(time.DateOnly),
		"count":      len(details),
	}))

	return &Result{Run: *run, Assignments: details}, nil
}

// Delete removes a run and its assignments.
func (s *Service) Delete(runID string) error {
	if err := s.runs.Delete(runID); err != nil {
		return err
	}
	s.hub.Broadcast(websocket.NewMessage(websocket.EntitySchedule, "deleted", 0, map[string]any{"run_id": runID}))
	return nil
}

func (s *Service) Hint() (*Hint, error) {
	memberIDs, err := s.members.IDs()
	if err != nil {
		return nil, err
	}
	chores, err := s.tasks.Catalog()
	if err != nil {
		return nil, err
	}
	required, err := schedule.RequiredOccurrences(chores)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	minPer, err := schedule.MinPerMember(chores, len(memberIDs))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &Hint{
		Members:      len(memberIDs),
		Tasks:        len(chores),
		Required:     required,
		MinPerMember: minPer,
	}, nil
}

// WeekStart returns midnight of the most recent first day on or before t,
// in t's location.
func WeekStart(t time.Time, first time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
