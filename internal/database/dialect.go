package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported database
// engines so repositories can be written once with ? placeholders.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(cfg DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (? to $n for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertID reports whether the driver implements LastInsertId()
	SupportsLastInsertID() bool

	// ConfigureConnection applies engine-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the per-engine migrations directory name
	MigrationsSubdir() string

	// MigrationsTableSQL returns the SQL creating the migrations tracking table
	MigrationsTableSQL() string

	// UpsertSettingSQL returns the engine's insert-or-update statement
	// for the settings table, taking (name, value) params
	UpsertSettingSQL() string
}

// DialectConfig holds connection parameters. Path is used by SQLite,
// URL by PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
