package handlers

import (
	"errors"
	"net/http"
	"strings"

	"teyra/internal/progress"
	"teyra/internal/service"
)

// AIHandler serves the model-assisted task features. Both endpoints
// consume a daily limit category before calling the model.
type AIHandler struct {
	aiService       *service.AIService
	taskService     *service.TaskService
	progressService *service.ProgressService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *service.AIService, taskService *service.TaskService, progressService *service.ProgressService) *AIHandler {
	return &AIHandler{
		aiService:       aiService,
		taskService:     taskService,
		progressService: progressService,
	}
}

// Split handles POST /api/ai/split. It breaks one task into subtasks
// and marks the source task so it cannot be split twice.
func (h *AIHandler) Split(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if !h.aiService.IsEnabled() {
		writeError(w, http.StatusServiceUnavailable, "AI features are not configured", "", nil)
		return
	}

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	task, err := h.taskService.GetTask(user.ID, req.TaskID)
	if err != nil {
		h.writeSplitError(w, err)
		return
	}
	if task.HasBeenSplit {
		writeError(w, http.StatusConflict, "Task has already been split", "", nil)
		return
	}

	status, err := h.progressService.ConsumeLimit(user.ID, progress.CategoryAISplit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check daily limit", "Error checking split limit", err)
		return
	}
	if !status.Allowed {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error": "Daily AI split limit reached",
			"limit": newLimitView(status),
		})
		return
	}

	steps, err := h.aiService.SplitTask(r.Context(), task.Title)
	if err != nil {
		writeError(w, http.StatusBadGateway, "AI request failed", "Error splitting task", err)
		return
	}

	subtasks, err := h.taskService.SplitTask(user.ID, task.ID, steps)
	if err != nil {
		h.writeSplitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": newTaskViews(subtasks),
		"limit": newLimitView(status),
	})
}

// Parse handles POST /api/ai/parse. Free-form text goes in, created
// tasks come out.
func (h *AIHandler) Parse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if !h.aiService.IsEnabled() {
		writeError(w, http.StatusServiceUnavailable, "AI features are not configured", "", nil)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text is required", "", nil)
		return
	}

	status, err := h.progressService.ConsumeLimit(user.ID, progress.CategoryAIParse)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check daily limit", "Error checking parse limit", err)
		return
	}
	if !status.Allowed {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error": "Daily AI parse limit reached",
			"limit": newLimitView(status),
		})
		return
	}

	titles, err := h.aiService.ParseTasks(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, "AI request failed", "Error parsing tasks", err)
		return
	}

	created := make([]taskView, 0, len(titles))
	for _, title := range titles {
		task, err := h.taskService.CreateTask(user.ID, title)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create parsed tasks", "Error creating parsed task", err)
			return
		}
		created = append(created, newTaskView(task))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": created,
		"limit": newLimitView(status),
	})
}

func (h *AIHandler) writeSplitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found", "", nil)
	case errors.Is(err, service.ErrNotTaskOwner):
		writeError(w, http.StatusForbidden, "Task belongs to another user", "", nil)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to split task", "Error splitting task", err)
	}
}
