package handlers

import (
	"errors"
	"net/http"

	"teyra/internal/progress"
	"teyra/internal/service"
)

// ProgressHandler serves the gauge, mood check-ins and the honesty
// score.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Get handles GET /api/progress
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	view, err := h.progressService.GetProgress(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load progress", "Error loading progress", err)
		return
	}

	writeJSON(w, http.StatusOK, newProgressView(view))
}

// CheckIn handles POST /api/mood
func (h *ProgressHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Mood string `json:"mood"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	mood, err := progress.ParseMood(req.Mood)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown mood", "", nil)
		return
	}

	status, err := h.progressService.CheckIn(user.ID, mood)
	if err != nil {
		if errors.Is(err, service.ErrLimitReached) {
			writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"error": "Daily mood check limit reached",
				"limit": newLimitView(status),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record mood", "Error recording mood", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mood":  string(mood),
		"limit": newLimitView(status),
	})
}

// Honesty handles GET /api/mood/honesty
func (h *ProgressHandler) Honesty(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	score, mood, metrics, err := h.progressService.Honesty(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute honesty score", "Error computing honesty score", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"score": score,
		"mood":  string(mood),
		"metrics": map[string]float64{
			"task_update_frequency": metrics.TaskUpdateFrequency,
			"status_variety":        metrics.StatusVariety,
			"timely_updates":        metrics.TimelyUpdates,
			"consistent_checkins":   metrics.ConsistentCheckins,
		},
	})
}
