package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
)

const currentVersion = 2

// Store is the local SQLite record store. It satisfies Source.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Debug("Opened record store", "path", dbPath)
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS subjects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		archived    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS focus_sessions (
		id           TEXT PRIMARY KEY,
		owner_id     TEXT NOT NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT,
		duration     INTEGER NOT NULL DEFAULT 0,
		mode         TEXT NOT NULL DEFAULT 'work',
		is_completed INTEGER NOT NULL DEFAULT 0,
		category     TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_owner_start ON focus_sessions(owner_id, start_time);

	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		due_date    TEXT,
		priority    TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
		category    TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id, created_at);

	CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		is_all_day  INTEGER NOT NULL DEFAULT 1,
		category    TEXT NOT NULL DEFAULT '',
		CHECK (end_date >= start_date)
	);

	CREATE INDEX IF NOT EXISTS idx_events_owner ON events(owner_id, start_date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pomodoro_work',       '1500'),
		('pomodoro_break',      '300'),
		('pomodoro_long_break', '900'),
		('pomodoro_count',      '4'),
		('idle_timeout',        '300'),
		('default_range',       'weekly'),
		('default_category',    '');
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) migrateV2() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS notes (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT '',
		tags        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notes_owner_updated ON notes(owner_id, updated_at);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/studyhub/studyhub.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studyhub", "studyhub.db"), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime reads an RFC3339 column. A malformed value is logged and
// returned as the zero time instead of failing the whole query.
func parseTime(col, v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		logger.Warn("Malformed timestamp in record store", "column", col, "value", v, "error", err)
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
