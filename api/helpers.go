package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/jobtrail/jobtrail/internal/engine"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeEngineError maps the engine failure taxonomy onto HTTP statuses
// so the UI can render a specific message per failure.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, engine.ErrPermissionDenied):
		http.Error(w, "permission denied", http.StatusForbidden)
	case errors.Is(err, engine.ErrLocked):
		http.Error(w, "cannot modify a sent application", http.StatusLocked)
	case errors.Is(err, engine.ErrInvalidTransition):
		http.Error(w, "invalid status transition", http.StatusConflict)
	case errors.Is(err, engine.ErrHasApplications):
		http.Error(w, "job has applications; archive it instead", http.StatusConflict)
	case errors.Is(err, engine.ErrDuplicateApplication):
		http.Error(w, "already applied to this job", http.StatusConflict)
	default:
		logger.Error("internal error", slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
