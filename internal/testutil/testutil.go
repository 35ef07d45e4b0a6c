package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database with the application
// schema for repository tests.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		theme VARCHAR(10) NOT NULL DEFAULT 'light',
		cost_threshold REAL NOT NULL DEFAULT 1000,
		cpu_threshold REAL NOT NULL DEFAULT 80,
		memory_threshold REAL NOT NULL DEFAULT 80,
		storage_threshold REAL NOT NULL DEFAULT 90,
		notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS provider_credentials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		provider VARCHAR(20) NOT NULL,
		connected BOOLEAN NOT NULL DEFAULT FALSE,
		credentials TEXT NOT NULL DEFAULT '{}',
		updated_at INTEGER NOT NULL,
		UNIQUE(user_id, provider)
	);

	CREATE TABLE IF NOT EXISTS metric_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		provider VARCHAR(20) NOT NULL,
		metric_type VARCHAR(20) NOT NULL,
		value REAL NOT NULL,
		unit VARCHAR(20) NOT NULL,
		resource_id VARCHAR(255) NOT NULL DEFAULT '',
		resource_name VARCHAR(255) NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_owner_group_time
		ON metric_samples(user_id, provider, metric_type, timestamp DESC);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		provider VARCHAR(20) NOT NULL,
		alert_type VARCHAR(20) NOT NULL,
		threshold REAL NOT NULL,
		current_value REAL NOT NULL,
		message TEXT NOT NULL,
		severity VARCHAR(10) NOT NULL DEFAULT 'medium',
		triggered BOOLEAN NOT NULL DEFAULT TRUE,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at INTEGER NOT NULL,
		resolved_at INTEGER
	);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}
