package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teyra/internal/models"
	"teyra/internal/repository"
	"teyra/internal/validation"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("task belongs to another user")
)

// TaskService handles task CRUD and keeps the progress counters in
// step with completion transitions.
type TaskService struct {
	taskRepo        *repository.TaskRepository
	progressService *ProgressService
	now             func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo *repository.TaskRepository, progressService *ProgressService) *TaskService {
	return &TaskService{
		taskRepo:        taskRepo,
		progressService: progressService,
		now:             time.Now,
	}
}

// CreateTask creates a task for a user
func (s *TaskService) CreateTask(userID int64, title string) (*models.Task, error) {
	if err := validation.ValidateTaskTitle(title); err != nil {
		return nil, err
	}
	return s.taskRepo.CreateTask(uuid.New().String(), userID, title)
}

// GetUserTasks lists a user's tasks together with their gauge state
func (s *TaskService) GetUserTasks(userID int64) (*models.TaskWithGauge, error) {
	tasks, err := s.taskRepo.GetUserTasks(userID)
	if err != nil {
		return nil, err
	}

	view, err := s.progressService.GetProgress(userID)
	if err != nil {
		return nil, err
	}

	return &models.TaskWithGauge{
		Tasks:          tasks,
		CompletedToday: view.CompletedToday,
		GaugeValue:     view.GaugeValue,
		GaugeMax:       view.GaugeMax,
		Mood:           view.Mood,
	}, nil
}

// GetTask loads a single task owned by the user
func (s *TaskService) GetTask(userID int64, taskID string) (*models.Task, error) {
	return s.getOwnedTask(userID, taskID)
}

// getOwnedTask loads a task and checks ownership
func (s *TaskService) getOwnedTask(userID int64, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// UpdateTitle renames a task. Edits never touch progress counters.
func (s *TaskService) UpdateTitle(userID int64, taskID, title string) (*models.Task, error) {
	if err := validation.ValidateTaskTitle(title); err != nil {
		return nil, err
	}
	if _, err := s.getOwnedTask(userID, taskID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.UpdateTitle(taskID, title); err != nil {
		return nil, err
	}
	return s.taskRepo.GetTaskByID(taskID)
}

// SetCompleted transitions a task's completion state. Only a real
// transition moves the counters: completing an already-complete task
// is a no-op, which makes retried requests safe. The task flip and the
// counter movement commit in a single transaction.
func (s *TaskService) SetCompleted(userID int64, taskID string, completed bool) (*models.Task, *models.ProgressRecord, error) {
	task, err := s.getOwnedTask(userID, taskID)
	if err != nil {
		return nil, nil, err
	}

	if task.Completed == completed {
		return task, nil, nil
	}

	var completedAt *time.Time
	if completed {
		ts := s.now()
		completedAt = &ts
	}

	// Bring the progress row into existence and the daily window up to
	// date before the transition, so the counter lands in the right day.
	if _, _, err := s.progressService.loadWithReset(userID); err != nil {
		return nil, nil, err
	}

	rec, err := s.taskRepo.SetCompletedWithProgress(taskID, userID, completed, completedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record completion transition: %w", err)
	}
	if rec == nil {
		// A concurrent request performed this transition first.
		task, err = s.taskRepo.GetTaskByID(taskID)
		if err != nil {
			return nil, nil, err
		}
		return task, nil, nil
	}

	task, err = s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, nil, err
	}
	return task, rec, nil
}

// DeleteTask removes a task without adjusting any counters
func (s *TaskService) DeleteTask(userID int64, taskID string) error {
	if _, err := s.getOwnedTask(userID, taskID); err != nil {
		return err
	}
	return s.taskRepo.DeleteTask(taskID)
}

// SplitTask replaces a task's single title with AI-generated subtasks,
// consuming the ai-split daily category.
func (s *TaskService) SplitTask(userID int64, taskID string, subtasks []string) ([]models.Task, error) {
	task, err := s.getOwnedTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.HasBeenSplit {
		return nil, errors.New("task has already been split")
	}

	created := make([]models.Task, 0, len(subtasks))
	for _, title := range subtasks {
		if err := validation.ValidateTaskTitle(title); err != nil {
			continue
		}
		sub, err := s.taskRepo.CreateTask(uuid.New().String(), userID, title)
		if err != nil {
			return nil, err
		}
		created = append(created, *sub)
	}

	if err := s.taskRepo.MarkSplit(taskID); err != nil {
		return nil, err
	}
	return created, nil
}
