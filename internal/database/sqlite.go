package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// NewSQLiteDB opens (creating if needed) the single-file store and ensures its schema.
func NewSQLiteDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := ensureSQLiteSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS phases (
  number INTEGER PRIMARY KEY,
  title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  phase INTEGER NOT NULL,
  duration_hours REAL NOT NULL DEFAULT 0,
  priority TEXT NOT NULL,
  youtube_url TEXT NOT NULL DEFAULT '',
  thumbnail TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'Not Started',
  progress INTEGER NOT NULL DEFAULT 0,
  start_date TEXT,
  completion_date TEXT,
  total_time_spent INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_logs (
  id TEXT PRIMARY KEY,
  log_date TEXT NOT NULL UNIQUE,
  total_time_spent INTEGER NOT NULL DEFAULT 0,
  notes TEXT NOT NULL DEFAULT '',
  mood INTEGER,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS log_entries (
  log_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  course_id TEXT NOT NULL,
  course_title TEXT NOT NULL DEFAULT '',
  time_spent INTEGER NOT NULL,
  progress_notes TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (log_id, position)
);
CREATE TABLE IF NOT EXISTS planned_sessions (
  id TEXT PRIMARY KEY,
  course_id TEXT NOT NULL,
  course_title TEXT NOT NULL,
  planned_date TEXT NOT NULL,
  estimated_time INTEGER NOT NULL DEFAULT 60,
  notes TEXT NOT NULL DEFAULT '',
  is_completed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_planned_sessions_date ON planned_sessions (planned_date);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}
	return nil
}
