package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/choreweek/internal/planner"
	"github.com/dukerupert/choreweek/internal/schedule"
)

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, loc)
}

// writeScheduleError maps engine and planner errors onto HTTP responses.
// It reports false when err is none of them.
func writeScheduleError(w http.ResponseWriter, err error) bool {
	var cfgErr *schedule.ConfigError
	var capErr *schedule.CapacityError
	switch {
	case errors.As(err, &cfgErr):
		body := map[string]any{
			"error": cfgErr.Error(),
			"kind":  "configuration",
			"field": cfgErr.Field,
		}
		if chore, ok := cfgErr.Chore(); ok {
			body["task_id"] = chore
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &capErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    capErr.Error(),
			"kind":     "capacity",
			"required": capErr.Required,
			"capacity": capErr.Capacity,
			"unplaced": capErr.Unplaced,
		})
	case errors.Is(err, planner.ErrAlreadyScheduled):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "a schedule already exists for that week",
			"kind":  "already_scheduled",
		})
	default:
		return false
	}
	return true
}
