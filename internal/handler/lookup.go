package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/schedule"
	"github.com/dukerupert/choreweek/internal/store"
)

// LookupHandler serves the frequency, workload and task type catalogs.
type LookupHandler struct {
	store *store.LookupStore
}

func NewLookupHandler(s *store.LookupStore) *LookupHandler {
	return &LookupHandler{store: s}
}

type lookupRequest struct {
	Description string `json:"description"`
	Value       int    `json:"value"`
}

func (h *LookupHandler) ListFrequencies(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListFrequencies()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list frequencies")
		return
	}
	if out == nil {
		out = []model.Frequency{}
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateFrequency only accepts values the scheduler can expand.
func (h *LookupHandler) CreateFrequency(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if !schedule.Frequency(req.Value).Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("value must be 0 (daily) or 1-6 times per week, got %d", req.Value))
		return
	}

	f, err := h.store.CreateFrequency(req.Description, req.Value)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create frequency")
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *LookupHandler) ListWorkloads(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListWorkloads()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list workloads")
		return
	}
	if out == nil {
		out = []model.Workload{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LookupHandler) CreateWorkload(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Value < 1 || req.Value > schedule.MaxWeight {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("value must be between 1 and %d", schedule.MaxWeight))
		return
	}

	wl, err := h.store.CreateWorkload(req.Description, req.Value)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create workload")
		return
	}
	writeJSON(w, http.StatusCreated, wl)
}

func (h *LookupHandler) ListTaskTypes(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListTaskTypes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list task types")
		return
	}
	if out == nil {
		out = []model.TaskType{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LookupHandler) CreateTaskType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	tt, err := h.store.CreateTaskType(req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create task type")
		return
	}
	writeJSON(w, http.StatusCreated, tt)
}
