package handlers

import (
	"errors"
	"net/http"

	"teyra/internal/service"
	"teyra/internal/validation"
)

// TaskHandler handles task CRUD requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type taskListResponse struct {
	Tasks    []taskView   `json:"tasks"`
	Progress progressView `json:"progress"`
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	result, err := h.taskService.GetUserTasks(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load tasks", "Error loading tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse{
		Tasks:    newTaskViews(result.Tasks),
		Progress: taskGaugeView(result),
	})
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	task, err := h.taskService.CreateTask(user.ID, req.Title)
	if err != nil {
		var vErr validation.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error(), "", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create task", "Error creating task", err)
		return
	}

	writeJSON(w, http.StatusCreated, newTaskView(task))
}

// Update handles PATCH /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	taskID := r.PathValue("id")

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	task, err := h.taskService.UpdateTitle(user.ID, taskID, req.Title)
	if err != nil {
		h.writeTaskError(w, err, "Failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, newTaskView(task))
}

// SetCompleted handles POST /api/tasks/{id}/complete. Completing a
// task moves the gauge; un-completing moves it back.
func (h *TaskHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	taskID := r.PathValue("id")

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	task, rec, err := h.taskService.SetCompleted(user.ID, taskID, req.Completed)
	if err != nil {
		h.writeTaskError(w, err, "Failed to update task")
		return
	}

	resp := struct {
		Task     taskView      `json:"task"`
		Progress *progressView `json:"progress,omitempty"`
	}{Task: newTaskView(task)}
	if rec != nil {
		pv := recordGaugeView(*rec)
		resp.Progress = &pv
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	taskID := r.PathValue("id")

	if err := h.taskService.DeleteTask(user.ID, taskID); err != nil {
		h.writeTaskError(w, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, fallback string) {
	var vErr validation.ValidationError
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found", "", nil)
	case errors.Is(err, service.ErrNotTaskOwner):
		writeError(w, http.StatusForbidden, "Task belongs to another user", "", nil)
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error(), "", nil)
	default:
		writeError(w, http.StatusInternalServerError, fallback, fallback, err)
	}
}
