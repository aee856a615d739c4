package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choreweek/internal/auth"
	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/planner"
	"github.com/dukerupert/choreweek/internal/store"
)

type ScheduleHandler struct {
	planner     *planner.Service
	runs        *store.RunStore
	assignments *store.AssignmentStore
	firstDay    time.Weekday
	loc         *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

func NewScheduleHandler(p *planner.Service, rs *store.RunStore, as *store.AssignmentStore, firstDay time.Weekday, loc *time.Location, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		planner:     p,
		runs:        rs,
		assignments: as,
		firstDay:    firstDay,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
	}
}

// Hint reports how many assignments per member the catalog needs.
func (h *ScheduleHandler) Hint(w http.ResponseWriter, r *http.Request) {
	hint, err := h.planner.Hint()
	if err != nil {
		h.logger.Error("schedule hint", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute hint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"members":        hint.Members,
		"tasks":          hint.Tasks,
		"required":       hint.Required,
		"min_per_member": hint.MinPerMember,
		"next_week":      planner.WeekStart(h.now().In(h.loc), h.firstDay).AddDate(0, 0, 7).Format(time.DateOnly),
	})
}

// Generate runs the scheduler for one week. start_date is moved back to the
// first day of its week and defaults to the start of next week.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate      string `json:"start_date"`
		MaxAssignments int    `json:"max_assignments"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var start time.Time
	if req.StartDate == "" {
		start = planner.WeekStart(h.now().In(h.loc), h.firstDay).AddDate(0, 0, 7)
	} else {
		var err error
		start, err = parseDate(req.StartDate, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		start = planner.WeekStart(start, h.firstDay)
	}

	var createdBy *int64
	if uid := auth.UserID(r.Context()); uid != 0 {
		createdBy = &uid
	}

	res, err := h.planner.Generate(start, req.MaxAssignments, createdBy)
	if err != nil {
		if writeScheduleError(w, err) {
			h.logger.Warn("schedule rejected", "start_date", start.Format(time.DateOnly), "error", err)
			return
		}
		h.logger.Error("generate schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate schedule")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list schedules")
		return
	}
	if runs == nil {
		runs = []model.ScheduleRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := h.runs.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get schedule")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	list, err := h.assignments.List(model.AssignmentFilter{RunID: id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if list == nil {
		list = []model.AssignmentDetail{}
	}
	writeJSON(w, http.StatusOK, planner.Result{Run: *run, Assignments: list})
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := h.runs.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get schedule")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	if err := h.planner.Delete(id); err != nil {
		h.logger.Error("delete schedule", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
