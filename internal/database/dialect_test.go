package database

import (
	"strings"
	"testing"
)

func TestSQLiteDialect(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %v, want sqlite3", got)
		}
	})

	t.Run("RewriteQuery is a no-op", func(t *testing.T) {
		q := "SELECT id FROM tasks WHERE user_id = ? AND completed = ?"
		if got := dialect.RewriteQuery(q); got != q {
			t.Errorf("RewriteQuery() = %v, want unchanged", got)
		}
	})

	t.Run("SupportsLastInsertID", func(t *testing.T) {
		if !dialect.SupportsLastInsertID() {
			t.Error("SupportsLastInsertID() should be true for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "sqlite" {
			t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
		}
	})
}

func TestPostgresDialect(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "postgres" {
			t.Errorf("DriverName() = %v, want postgres", got)
		}
	})

	t.Run("RewriteQuery numbers placeholders", func(t *testing.T) {
		q := "UPDATE progress_records SET daily_parses = ? WHERE user_id = ? AND last_reset_at = ?"
		got := dialect.RewriteQuery(q)
		want := "UPDATE progress_records SET daily_parses = $1 WHERE user_id = $2 AND last_reset_at = $3"
		if got != want {
			t.Errorf("RewriteQuery() = %v, want %v", got, want)
		}
	})

	t.Run("SupportsLastInsertID", func(t *testing.T) {
		if dialect.SupportsLastInsertID() {
			t.Error("SupportsLastInsertID() should be false for PostgreSQL")
		}
	})

	t.Run("UpsertSettingSQL uses ON CONFLICT", func(t *testing.T) {
		if !strings.Contains(dialect.UpsertSettingSQL(), "ON CONFLICT") {
			t.Errorf("UpsertSettingSQL() = %v", dialect.UpsertSettingSQL())
		}
	})
}

func TestMySQLDialect(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "mysql" {
			t.Errorf("DriverName() = %v, want mysql", got)
		}
	})

	t.Run("RewriteQuery is a no-op", func(t *testing.T) {
		q := "SELECT value FROM settings WHERE name = ?"
		if got := dialect.RewriteQuery(q); got != q {
			t.Errorf("RewriteQuery() = %v, want unchanged", got)
		}
	})

	t.Run("SupportsLastInsertID", func(t *testing.T) {
		if !dialect.SupportsLastInsertID() {
			t.Error("SupportsLastInsertID() should be true for MySQL")
		}
	})
}

func TestNumberPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"no placeholders", "SELECT 1", "SELECT 1"},
		{"single", "WHERE id = ?", "WHERE id = $1"},
		{"many", "VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := numberPlaceholders(tt.query); got != tt.want {
				t.Errorf("numberPlaceholders(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
