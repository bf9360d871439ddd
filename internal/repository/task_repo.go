package repository

import (
	"database/sql"
	"fmt"
	"time"

	"teyra/internal/database"
	"teyra/internal/models"
	"teyra/internal/progress"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "id, user_id, title, completed, has_been_split, created_at, updated_at, completed_at"

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Completed,
		&task.HasBeenSplit,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return task, nil
}

// CreateTask inserts a new task for a user
func (r *TaskRepository) CreateTask(id string, userID int64, title string) (*models.Task, error) {
	query := "INSERT INTO tasks (id, user_id, title) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, id, userID, title); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return r.GetTaskByID(id)
}

// GetTaskByID retrieves a task by ID
func (r *TaskRepository) GetTaskByID(id string) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?"
	return scanTask(r.db.QueryRow(query, id))
}

// GetUserTasks retrieves all tasks for a user, newest first
func (r *TaskRepository) GetUserTasks(userID int64) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? ORDER BY created_at DESC"
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTitle renames a task
func (r *TaskRepository) UpdateTitle(id, title string) error {
	query := "UPDATE tasks SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, title, id); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// SetCompletedWithProgress flips a task's completion state and moves
// the owner's progress counters in one transaction, so a failure on
// either side leaves both untouched. The task update is guarded on the
// prior state; when another request already performed the transition
// the method returns (nil, nil) and the counters stay put. Counter
// movement is an in-database increment, and the milestone derived from
// the resulting lifetime count lands in the same transaction.
func (r *TaskRepository) SetCompletedWithProgress(taskID string, userID int64, completed bool, completedAt *time.Time) (*models.ProgressRecord, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "UPDATE tasks SET completed = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND completed = ?"
	result, err := tx.Exec(query, completed, completedAt, taskID, !completed)
	if err != nil {
		return nil, fmt.Errorf("failed to update task completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check task update: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	delta := -1
	if completed {
		delta = 1
	}
	query = `
		UPDATE progress_records SET
			all_time_completed = CASE WHEN all_time_completed + ? < 0 THEN 0 ELSE all_time_completed + ? END,
			daily_completed_tasks = CASE WHEN daily_completed_tasks + ? < 0 THEN 0 ELSE daily_completed_tasks + ? END,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	if _, err := tx.Exec(query, delta, delta, delta, delta, userID); err != nil {
		return nil, fmt.Errorf("failed to move completion counters: %w", err)
	}

	rec, err := scanProgress(tx.QueryRow("SELECT "+progressColumns+" FROM progress_records WHERE user_id = ?", userID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no progress record for user %d", userID)
	}

	tier := progress.ResolveMilestone(rec.AllTimeCompleted)
	query = "UPDATE progress_records SET current_mood = ?, max_value = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	if _, err := tx.Exec(query, string(tier.Mood), tier.MaxValue, userID); err != nil {
		return nil, fmt.Errorf("failed to update milestone state: %w", err)
	}
	rec.CurrentMood = string(tier.Mood)
	rec.MaxValue = tier.MaxValue

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rec, nil
}

// MarkSplit records that a task has been expanded into subtasks
func (r *TaskRepository) MarkSplit(id string) error {
	query := "UPDATE tasks SET has_been_split = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, true, id); err != nil {
		return fmt.Errorf("failed to mark task split: %w", err)
	}
	return nil
}

// DeleteTask removes a task. Deletion never touches progress counters.
func (r *TaskRepository) DeleteTask(id string) error {
	query := "DELETE FROM tasks WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ActivityStats summarizes recent task behavior for the honesty score.
type ActivityStats struct {
	TotalTasks      int
	CompletedTasks  int
	UpdatedSince    int
	ActiveDaysSince int
}

// GetActivityStats gathers the raw counts behind the honesty
// sub-metrics: how many tasks exist, how many are complete, how many
// were touched since the cutoff, and on how many distinct days.
func (r *TaskRepository) GetActivityStats(userID int64, since time.Time) (*ActivityStats, error) {
	stats := &ActivityStats{}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = ?
	`
	if err := r.db.QueryRow(query, userID).Scan(&stats.TotalTasks, &stats.CompletedTasks); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	query = "SELECT COUNT(*) FROM tasks WHERE user_id = ? AND updated_at >= ?"
	if err := r.db.QueryRow(query, userID, since).Scan(&stats.UpdatedSince); err != nil {
		return nil, fmt.Errorf("failed to count recent updates: %w", err)
	}

	query = "SELECT COUNT(DISTINCT DATE(updated_at)) FROM tasks WHERE user_id = ? AND updated_at >= ?"
	if err := r.db.QueryRow(query, userID, since).Scan(&stats.ActiveDaysSince); err != nil {
		return nil, fmt.Errorf("failed to count active days: %w", err)
	}

	return stats, nil
}
