package repository

import (
	"database/sql"
	"fmt"
	"time"

	"teyra/internal/database"
	"teyra/internal/models"
)

// ProgressRepository handles database operations for progress records.
// Counter mutations are in-database increments or updates guarded on
// the value the caller read, never whole-row overwrites, so concurrent
// writers for one user cannot lose each other's updates.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `user_id, all_time_completed, daily_completed_tasks,
	daily_mood_checks, daily_ai_splits, daily_parses, current_mood, max_value,
	last_reset_at, created_at, updated_at`

func scanProgress(row interface{ Scan(...interface{}) error }) (*models.ProgressRecord, error) {
	rec := &models.ProgressRecord{}
	err := row.Scan(
		&rec.UserID,
		&rec.AllTimeCompleted,
		&rec.DailyCompletedTasks,
		&rec.DailyMoodChecks,
		&rec.DailyAISplits,
		&rec.DailyParses,
		&rec.CurrentMood,
		&rec.MaxValue,
		&rec.LastResetAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan progress record: %w", err)
	}
	return rec, nil
}

// GetByUserID retrieves a user's progress record, or nil when the user
// has never been observed.
func (r *ProgressRepository) GetByUserID(userID int64) (*models.ProgressRecord, error) {
	query := "SELECT " + progressColumns + " FROM progress_records WHERE user_id = ?"
	return scanProgress(r.db.QueryRow(query, userID))
}

// Create inserts a fresh progress record
func (r *ProgressRepository) Create(rec models.ProgressRecord) error {
	query := `
		INSERT INTO progress_records
			(user_id, all_time_completed, daily_completed_tasks, daily_mood_checks,
			 daily_ai_splits, daily_parses, current_mood, max_value, last_reset_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		rec.UserID,
		rec.AllTimeCompleted,
		rec.DailyCompletedTasks,
		rec.DailyMoodChecks,
		rec.DailyAISplits,
		rec.DailyParses,
		rec.CurrentMood,
		rec.MaxValue,
		rec.LastResetAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress record: %w", err)
	}
	return nil
}

// categoryColumn maps a limit category to its counter column.
func categoryColumn(category string) (string, error) {
	switch category {
	case "mood-check":
		return "daily_mood_checks", nil
	case "ai-split":
		return "daily_ai_splits", nil
	case "ai-parse":
		return "daily_parses", nil
	default:
		return "", fmt.Errorf("unknown limit category: %q", category)
	}
}

// ConsumeCategory increments one daily counter, guarded on the value
// the caller's limit decision was made against. A concurrent consumer
// that got there first leaves the guard unmatched; the caller must
// re-read and decide again.
func (r *ProgressRepository) ConsumeCategory(userID int64, category string, prev int) (bool, error) {
	column, err := categoryColumn(category)
	if err != nil {
		return false, err
	}

	query := "UPDATE progress_records SET " + column + " = " + column +
		" + 1, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND " + column + " = ?"
	result, err := r.db.Exec(query, userID, prev)
	if err != nil {
		return false, fmt.Errorf("failed to consume %s limit: %w", category, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check limit result: %w", err)
	}
	return affected > 0, nil
}

// SaveMood persists a mood override without touching any counter
func (r *ProgressRepository) SaveMood(userID int64, mood string) error {
	query := "UPDATE progress_records SET current_mood = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	if _, err := r.db.Exec(query, mood, userID); err != nil {
		return fmt.Errorf("failed to save mood: %w", err)
	}
	return nil
}

// ResetLifetime zeroes the lifetime and daily completion counters and
// drops the milestone state to the given tier in one statement.
func (r *ProgressRepository) ResetLifetime(userID int64, mood string, maxValue int) error {
	query := `
		UPDATE progress_records SET
			all_time_completed = 0,
			daily_completed_tasks = 0,
			current_mood = ?,
			max_value = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	if _, err := r.db.Exec(query, mood, maxValue, userID); err != nil {
		return fmt.Errorf("failed to reset lifetime counter: %w", err)
	}
	return nil
}

// ZeroCategory clears a single daily counter
func (r *ProgressRepository) ZeroCategory(userID int64, category string) error {
	column, err := categoryColumn(category)
	if err != nil {
		return err
	}
	query := "UPDATE progress_records SET " + column + " = 0, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to zero %s counter: %w", category, err)
	}
	return nil
}

// SaveReset persists a fired daily reset, guarded on the last_reset_at
// value the caller read. When the sweep and a lazy per-request check
// race, only the first writer matches the guard; the loser sees zero
// rows affected and must re-read instead of double-resetting.
func (r *ProgressRepository) SaveReset(rec models.ProgressRecord, prevLastResetAt *time.Time) (bool, error) {
	const resetColumns = `
			daily_completed_tasks = 0,
			daily_mood_checks = 0,
			daily_ai_splits = 0,
			daily_parses = 0,
			last_reset_at = ?,
			updated_at = CURRENT_TIMESTAMP`

	var result sql.Result
	var err error
	if prevLastResetAt == nil {
		query := "UPDATE progress_records SET" + resetColumns +
			" WHERE user_id = ? AND last_reset_at IS NULL"
		result, err = r.db.Exec(query, rec.LastResetAt, rec.UserID)
	} else {
		query := "UPDATE progress_records SET" + resetColumns +
			" WHERE user_id = ? AND last_reset_at = ?"
		result, err = r.db.Exec(query, rec.LastResetAt, rec.UserID, *prevLastResetAt)
	}
	if err != nil {
		return false, fmt.Errorf("failed to apply daily reset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check reset result: %w", err)
	}
	return affected > 0, nil
}

// ListAll walks every progress record in user-ID order, batchSize rows
// at a time, calling fn for each. Used by the reset sweep.
func (r *ProgressRepository) ListAll(batchSize int, fn func(models.ProgressRecord) error) error {
	if batchSize <= 0 {
		batchSize = 200
	}

	var afterUserID int64
	for {
		query := "SELECT " + progressColumns + ` FROM progress_records
			WHERE user_id > ? ORDER BY user_id ASC LIMIT ` + fmt.Sprintf("%d", batchSize)
		rows, err := r.db.Query(query, afterUserID)
		if err != nil {
			return fmt.Errorf("failed to query progress records: %w", err)
		}

		count := 0
		for rows.Next() {
			rec, err := scanProgress(rows)
			if err != nil {
				rows.Close()
				return err
			}
			count++
			afterUserID = rec.UserID
			if err := fn(*rec); err != nil {
				rows.Close()
				return err
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if count < batchSize {
			return nil
		}
	}
}
