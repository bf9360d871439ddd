package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"teyra/internal/models"
	"teyra/internal/repository"
)

// ExportData is the JSON structure produced by the export tool: every
// user with their tasks and progress record, suitable for backups and
// account-data requests.
type ExportData struct {
	Version    string       `json:"version"`
	ExportedAt time.Time    `json:"exported_at"`
	Users      []UserExport `json:"users"`
}

// UserExport bundles one user's rows
type UserExport struct {
	ID            int64           `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	OAuthProvider string          `json:"oauth_provider,omitempty"`
	IsPro         bool            `json:"is_pro"`
	IsAdmin       bool            `json:"is_admin"`
	CreatedAt     time.Time       `json:"created_at"`
	Tasks         []TaskExport    `json:"tasks"`
	Progress      *ProgressExport `json:"progress,omitempty"`
}

// TaskExport represents one task row
type TaskExport struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Completed    bool       `json:"completed"`
	HasBeenSplit bool       `json:"has_been_split"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ProgressExport represents one progress record
type ProgressExport struct {
	AllTimeCompleted    int        `json:"all_time_completed"`
	DailyCompletedTasks int        `json:"daily_completed_tasks"`
	DailyMoodChecks     int        `json:"daily_mood_checks"`
	DailyAISplits       int        `json:"daily_ai_splits"`
	DailyParses         int        `json:"daily_parses"`
	CurrentMood         string     `json:"current_mood"`
	MaxValue            int        `json:"max_value"`
	LastResetAt         *time.Time `json:"last_reset_at,omitempty"`
}

// ExportService produces JSON dumps of user-owned data
type ExportService struct {
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	progressRepo *repository.ProgressRepository
	now          func() time.Time
}

// NewExportService creates a new export service
func NewExportService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, progressRepo *repository.ProgressRepository) *ExportService {
	return &ExportService{
		userRepo:     userRepo,
		taskRepo:     taskRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// ExportAll writes every user's data as indented JSON
func (s *ExportService) ExportAll(w io.Writer) error {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	data := ExportData{
		Version:    "1",
		ExportedAt: s.now(),
	}
	for i := range users {
		exported, err := s.exportUser(&users[i])
		if err != nil {
			return err
		}
		data.Users = append(data.Users, *exported)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportUser writes a single user's data as indented JSON
func (s *ExportService) ExportUser(userID int64, w io.Writer) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	exported, err := s.exportUser(user)
	if err != nil {
		return err
	}

	data := ExportData{
		Version:    "1",
		ExportedAt: s.now(),
		Users:      []UserExport{*exported},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (s *ExportService) exportUser(user *models.User) (*UserExport, error) {
	out := &UserExport{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		OAuthProvider: user.OAuthProvider,
		IsPro:         user.IsPro,
		IsAdmin:       user.IsAdmin,
		CreatedAt:     user.CreatedAt,
	}

	tasks, err := s.taskRepo.GetUserTasks(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for user %d: %w", user.ID, err)
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, TaskExport{
			ID:           t.ID,
			Title:        t.Title,
			Completed:    t.Completed,
			HasBeenSplit: t.HasBeenSplit,
			CreatedAt:    t.CreatedAt,
			CompletedAt:  t.CompletedAt,
		})
	}

	rec, err := s.progressRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for user %d: %w", user.ID, err)
	}
	if rec != nil {
		out.Progress = &ProgressExport{
			AllTimeCompleted:    rec.AllTimeCompleted,
			DailyCompletedTasks: rec.DailyCompletedTasks,
			DailyMoodChecks:     rec.DailyMoodChecks,
			DailyAISplits:       rec.DailyAISplits,
			DailyParses:         rec.DailyParses,
			CurrentMood:         rec.CurrentMood,
			MaxValue:            rec.MaxValue,
			LastResetAt:         rec.LastResetAt,
		}
	}

	return out, nil
}
