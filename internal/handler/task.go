package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/store"
	"github.com/dukerupert/choreweek/internal/websocket"
)

type TaskHandler struct {
	tasks   *store.TaskStore
	lookups *store.LookupStore
	hub     websocket.Broadcaster
	logger  *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, ls *store.LookupStore, hub websocket.Broadcaster, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: ts, lookups: ls, hub: hub, logger: logger}
}

type taskRequest struct {
	Description string `json:"description"`
	FrequencyID int64  `json:"frequency_id"`
	WorkloadID  int64  `json:"workload_id"`
	TaskTypeID  int64  `json:"task_type_id"`
}

// validate returns a client-facing message, or "" when the request is usable.
func (h *TaskHandler) validate(req *taskRequest) (string, error) {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return "description is required", nil
	}

	f, err := h.lookups.GetFrequency(req.FrequencyID)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "unknown frequency_id", nil
	}
	wl, err := h.lookups.GetWorkload(req.WorkloadID)
	if err != nil {
		return "", err
	}
	if wl == nil {
		return "unknown workload_id", nil
	}
	tt, err := h.lookups.GetTaskType(req.TaskTypeID)
	if err != nil {
		return "", err
	}
	if tt == nil {
		return "unknown task_type_id", nil
	}
	return "", nil
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.TaskDetail{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	task, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	msg, err := h.validate(&req)
	if err != nil {
		h.logger.Error("validate task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to validate task")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.tasks.Create(req.Description, req.FrequencyID, req.WorkloadID, req.TaskTypeID)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityTask, "created", task.ID, nil))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	msg, err := h.validate(&req)
	if err != nil {
		h.logger.Error("validate task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to validate task")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.tasks.Update(id, req.Description, req.FrequencyID, req.WorkloadID, req.TaskTypeID)
	if err != nil {
		h.logger.Error("update task", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityTask, "updated", task.ID, nil))
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := h.tasks.Delete(id); err != nil {
		h.logger.Error("delete task", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityTask, "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
