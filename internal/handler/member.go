package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/store"
	"github.com/dukerupert/choreweek/internal/websocket"
)

type MemberHandler struct {
	store  *store.MemberStore
	hub    websocket.Broadcaster
	logger *slog.Logger
}

func NewMemberHandler(s *store.MemberStore, hub websocket.Broadcaster, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{store: s, hub: hub, logger: logger}
}

type memberRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (req *memberRequest) normalize() string {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" {
		return "first_name is required"
	}
	return ""
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.normalize(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := h.store.NameExists(req.FirstName, req.LastName, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check name")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a member with that name already exists")
		return
	}

	member, err := h.store.Create(req.FirstName, req.LastName)
	if err != nil {
		h.logger.Error("create member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityMember, "created", member.ID, nil))
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.normalize(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := h.store.NameExists(req.FirstName, req.LastName, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check name")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a member with that name already exists")
		return
	}

	member, err := h.store.Update(id, req.FirstName, req.LastName)
	if err != nil {
		h.logger.Error("update member", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update member")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityMember, "updated", member.ID, nil))
	writeJSON(w, http.StatusOK, member)
}

// Delete removes a member along with their assignments.
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete member", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete member")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityMember, "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSortOrder sets the roster order, which is also the scheduler's
// tie-break order.
func (h *MemberHandler) UpdateSortOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	if err := h.store.UpdateSortOrder(req.IDs); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update sort order")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityMember, "reordered", 0, nil))
	w.WriteHeader(http.StatusNoContent)
}
