package service

import (
	"errors"
	"fmt"
	"time"

	"teyra/internal/models"
	"teyra/internal/progress"
	"teyra/internal/repository"
	"teyra/internal/security"
	"teyra/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSignupClosed       = errors.New("registration is closed")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo     *repository.UserRepository
	progressRepo *repository.ProgressRepository
	settingsRepo *repository.SettingsRepository
	tokens       *security.TokenIssuer
	now          func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository, settingsRepo *repository.SettingsRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		settingsRepo: settingsRepo,
		tokens:       tokens,
		now:          time.Now,
	}
}

// Register creates a new account and issues its first API token
func (s *AuthService) Register(email, password, name string) (*models.User, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, "", err
	}

	if s.settingsRepo.IsSignupClosed() {
		return nil, "", ErrSignupClosed
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.ensureProgressRecord(user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and issues an API token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.ensureProgressRecord(user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// LoginWithOAuth upserts an account from a verified external identity
// and issues an API token.
func (s *AuthService) LoginWithOAuth(provider, subject, email, name string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up oauth user: %w", err)
	}

	if user == nil {
		// An existing password account with the same email links to
		// the provider rather than duplicating.
		if email != "" {
			user, err = s.userRepo.GetUserByEmail(email)
			if err != nil {
				return nil, "", fmt.Errorf("failed to look up user by email: %w", err)
			}
		}
		if user == nil {
			if s.settingsRepo.IsSignupClosed() {
				return nil, "", ErrSignupClosed
			}
			user, err = s.userRepo.CreateOAuthUser(email, name, provider, subject)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create oauth user: %w", err)
			}
		}
	}

	if err := s.ensureProgressRecord(user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ValidateToken resolves an API token to its user
func (s *AuthService) ValidateToken(token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SetDailySummary toggles the daily summary email opt-in
func (s *AuthService) SetDailySummary(userID int64, enabled bool) error {
	if err := s.userRepo.SetDailySummary(userID, enabled); err != nil {
		return fmt.Errorf("failed to update daily summary preference: %w", err)
	}
	return nil
}

// DeleteAccount removes a user and everything they own
func (s *AuthService) DeleteAccount(userID int64) error {
	// tasks and progress_records cascade on the users row
	if err := s.userRepo.DeleteUser(userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ensureProgressRecord lazily initializes the progress row the first
// time a user is observed.
func (s *AuthService) ensureProgressRecord(userID int64) error {
	rec, err := s.progressRepo.GetByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to load progress record: %w", err)
	}
	if rec != nil {
		return nil
	}
	if err := s.progressRepo.Create(progress.NewRecord(userID, s.now())); err != nil {
		return fmt.Errorf("failed to initialize progress record: %w", err)
	}
	return nil
}
