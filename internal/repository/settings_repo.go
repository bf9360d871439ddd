package repository

import (
	"database/sql"
	"strconv"

	"teyra/internal/database"
)

// SettingsRepository is a small key/value store for runtime-tunable
// operational settings.
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by name; empty when unset
func (r *SettingsRepository) GetSetting(name string) (string, error) {
	var value string
	query := "SELECT value FROM settings WHERE name = ?"
	err := r.db.QueryRow(query, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(name, value string) error {
	_, err := r.db.Exec(r.db.Dialect.UpsertSettingSQL(), name, value)
	return err
}

// GetIntSetting reads a numeric setting, falling back to def when the
// setting is absent or malformed.
func (r *SettingsRepository) GetIntSetting(name string, def int) int {
	value, err := r.GetSetting(name)
	if err != nil || value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

// IsSignupClosed checks whether new registrations are disabled
func (r *SettingsRepository) IsSignupClosed() bool {
	value, err := r.GetSetting("signup_closed")
	if err != nil {
		return false
	}
	return value == "true"
}

// SetSignupClosed toggles registration availability
func (r *SettingsRepository) SetSignupClosed(closed bool) error {
	value := "false"
	if closed {
		value = "true"
	}
	return r.SetSetting("signup_closed", value)
}
