package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Mansoor88-6/time-tracker/internal/service"
	"Mansoor88-6/time-tracker/internal/store"
	"Mansoor88-6/time-tracker/internal/timecalc"
	"Mansoor88-6/time-tracker/internal/timer"
	"Mansoor88-6/time-tracker/internal/validation"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Anything unrecognized is
// logged and reported as a 500 with the given fallback message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verrs})
	case errors.Is(err, timecalc.ErrOverlap):
		writeJSON(w, http.StatusConflict, errorResponse{Error: service.OverlapMessage})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Time entry not found"})
	case errors.Is(err, store.ErrUndoExpired):
		writeJSON(w, http.StatusGone, errorResponse{Error: "Undo window has expired"})
	case errors.Is(err, timer.ErrAlreadyRunning),
		errors.Is(err, timer.ErrNotRunning),
		errors.Is(err, timer.ErrNotPaused),
		errors.Is(err, timer.ErrNothingToSave):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// queryInt reads an optional integer parameter, falling back to def when it
// is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}
