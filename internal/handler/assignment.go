package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/choreweek/internal/auth"
	"github.com/dukerupert/choreweek/internal/chore"
	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/store"
	"github.com/dukerupert/choreweek/internal/websocket"
)

type AssignmentHandler struct {
	assignments *store.AssignmentStore
	tasks       *store.TaskStore
	members     *store.MemberStore
	hub         websocket.Broadcaster
	loc         *time.Location
	logger      *slog.Logger
	now         func() time.Time
}

func NewAssignmentHandler(as *store.AssignmentStore, ts *store.TaskStore, ms *store.MemberStore, hub websocket.Broadcaster, loc *time.Location, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: as, tasks: ts, members: ms, hub: hub, loc: loc, logger: logger, now: time.Now}
}

// listFilter builds the filter for the current caller. Admins may filter by
// member_id, week and run_id; everyone else only ever sees their own
// member's assignments. none is true when the caller has no linked member.
func (h *AssignmentHandler) listFilter(r *http.Request) (filter model.AssignmentFilter, none bool, msg string) {
	q := r.URL.Query()
	if v := q.Get("week"); v != "" {
		week, err := parseDate(v, h.loc)
		if err != nil {
			return filter, false, "week must be YYYY-MM-DD"
		}
		filter.WeekStart = week
	}
	filter.RunID = q.Get("run_id")

	if auth.IsAdmin(r.Context()) {
		if v := q.Get("member_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return filter, false, "invalid member_id"
			}
			filter.MemberID = id
		}
		return filter, false, ""
	}

	own, ok := auth.MemberID(r.Context())
	if !ok {
		return filter, true, ""
	}
	filter.MemberID = own
	return filter, false, ""
}

// load writes an error response and returns false on failure.
func (h *AssignmentHandler) load(w http.ResponseWriter, r *http.Request) ([]model.AssignmentDetail, bool) {
	filter, none, msg := h.listFilter(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return nil, false
	}
	if none {
		return []model.AssignmentDetail{}, true
	}
	list, err := h.assignments.List(filter)
	if err != nil {
		h.logger.Error("list assignments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return nil, false
	}
	if list == nil {
		list = []model.AssignmentDetail{}
	}
	return list, true
}

// List returns assignments, each annotated with its status as of today.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, ok := h.load(w, r)
	if !ok {
		return
	}
	chore.Annotate(list, h.now().In(h.loc))
	writeJSON(w, http.StatusOK, list)
}

// Progress returns per-member completion counts for the same filters List
// accepts.
func (h *AssignmentHandler) Progress(w http.ResponseWriter, r *http.Request) {
	list, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chore.Summarize(list, h.now().In(h.loc)))
}

type assignmentRequest struct {
	TaskID    int64  `json:"task_id"`
	MemberID  int64  `json:"member_id"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
}

// resolve checks the referenced task and member exist and parses the due
// date. It returns a client-facing message on bad input.
func (h *AssignmentHandler) resolve(req assignmentRequest) (time.Time, string, error) {
	due, err := parseDate(req.DueDate, h.loc)
	if err != nil {
		return time.Time{}, "due_date must be YYYY-MM-DD", nil
	}
	task, err := h.tasks.GetByID(req.TaskID)
	if err != nil {
		return time.Time{}, "", err
	}
	if task == nil {
		return time.Time{}, "unknown task_id", nil
	}
	member, err := h.members.GetByID(req.MemberID)
	if err != nil {
		return time.Time{}, "", err
	}
	if member == nil {
		return time.Time{}, "unknown member_id", nil
	}
	return due, "", nil
}

// Create adds a manual assignment outside any generated run.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	due, msg, err := h.resolve(req)
	if err != nil {
		h.logger.Error("resolve assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to validate assignment")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a, err := h.assignments.Create(req.TaskID, req.MemberID, due)
	if err != nil {
		h.logger.Error("create assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, "created", a.ID, nil).ForMember(a.MemberID))
	writeJSON(w, http.StatusCreated, a)
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.assignments.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get assignment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	due, msg, err := h.resolve(req)
	if err != nil {
		h.logger.Error("resolve assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to validate assignment")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a, err := h.assignments.Update(id, req.TaskID, req.MemberID, due, req.Completed)
	if err != nil {
		h.logger.Error("update assignment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, "updated", a.ID, nil).ForMember(a.MemberID))
	if existing.MemberID != a.MemberID {
		h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, "deleted", a.ID, nil).ForMember(existing.MemberID))
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.assignments.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get assignment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	if err := h.assignments.Delete(id); err != nil {
		h.logger.Error("delete assignment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete assignment")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, "deleted", id, nil).ForMember(existing.MemberID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssignmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, true)
}

func (h *AssignmentHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, false)
}

func (h *AssignmentHandler) setCompleted(w http.ResponseWriter, r *http.Request, completed bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.assignments.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get assignment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	if !auth.CanActForMember(r.Context(), existing.MemberID) {
		writeError(w, http.StatusForbidden, "not your assignment")
		return
	}

	a, err := h.assignments.SetCompleted(id, completed)
	if err != nil {
		h.logger.Error("set completed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	action := "completed"
	if !completed {
		action = "uncompleted"
	}
	h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, action, a.ID, nil).ForMember(a.MemberID))
	writeJSON(w, http.StatusOK, a)
}
