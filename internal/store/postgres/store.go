// Package postgres reads study records from the hosted Postgres database
// used by the web client. It is read-only.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// Store is a read-only Source over the pomodoro_sessions, tasks and events
// tables, scoped by their user_id column.
type Store struct {
	db *sql.DB
}

var _ store.Source = (*Store)(nil)

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN without
// an embedded password. Passwords belong in PGPASSWORD or .pgpass.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

// Open validates connStr, connects and pings the server.
func Open(ctx context.Context, connStr string) (*Store, error) {
	if err := ValidateConnString(connStr); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(connStr) {
			return nil, fmt.Errorf("connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Debug("Connected to remote record store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ListSessions filters start_time >= from in SQL and returns newest first.
func (s *Store) ListSessions(ctx context.Context, owner string, from *time.Time) ([]models.FocusSession, error) {
	query := `SELECT id::text, user_id::text, start_time, end_time, COALESCE(duration, 0),
		COALESCE(mode, 'work'), COALESCE(is_completed, false), COALESCE(category, '')
		FROM pomodoro_sessions WHERE user_id::text = $1`
	args := []any{owner}
	if from != nil {
		query += ` AND start_time >= $2`
		args = append(args, from.UTC())
	}
	query += ` ORDER BY start_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.FocusSession
	for rows.Next() {
		var fs models.FocusSession
		var end sql.NullTime
		if err := rows.Scan(&fs.ID, &fs.OwnerID, &fs.StartTime, &end, &fs.Duration, &fs.Mode, &fs.Completed, &fs.Category); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if end.Valid {
			fs.EndTime = end.Time
		}
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}

// ListTasks returns the owner's tasks, newest first.
func (s *Store) ListTasks(ctx context.Context, owner string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id::text, user_id::text, title, COALESCE(description, ''), COALESCE(completed, false),
			created_at, left(due_date::text, 10), COALESCE(priority, 'medium'), COALESCE(category, '')
		FROM tasks WHERE user_id::text = $1
		ORDER BY created_at DESC`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var due sql.NullString
		var priority string
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed,
			&t.CreatedAt, &due, &priority, &t.Category); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = models.Priority(priority)
		if due.Valid && due.String != "" {
			d, err := models.ParseDate(due.String)
			if err != nil {
				logger.Warn("Skipping malformed due date", "task", t.ID, "value", due.String)
			} else {
				t.DueDate = &d
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListEvents returns the owner's events ordered by start date. Timestamps
// are truncated to their calendar date.
func (s *Store) ListEvents(ctx context.Context, owner string) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id::text, user_id::text, title, COALESCE(description, ''),
			left(start_date::text, 10), left(end_date::text, 10),
			COALESCE(is_all_day, true), COALESCE(category, '')
		FROM events WHERE user_id::text = $1
		ORDER BY start_date`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		var start string
		var end sql.NullString
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &start, &end, &e.AllDay, &e.Category); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.StartDate, err = models.ParseDate(start); err != nil {
			logger.Warn("Skipping remote event with malformed start date", "id", e.ID, "value", start, "error", err)
			continue
		}
		if end.Valid && end.String != "" {
			if e.EndDate, err = models.ParseDate(end.String); err != nil {
				logger.Warn("Malformed remote event end date", "id", e.ID, "value", end.String, "error", err)
				e.EndDate = e.StartDate
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// hasSSLMode reports whether connStr sets sslmode, in URI or DSN form.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "sslmode") {
			return true
		}
	}
	return false
}
