package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

const sessionColumns = `id, owner_id, start_time, end_time, duration, mode, is_completed, category`

type rowScanner interface {
	Scan(dest ...any) error
}

// StartSession opens a running session for owner.
func (s *Store) StartSession(owner, mode, category string) (*models.FocusSession, error) {
	if mode == "" {
		mode = models.ModeWork
	}
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (id, owner_id, start_time, mode, category) VALUES (?, ?, ?, ?, ?)`,
		id, owner, formatTime(time.Now()), mode, nullString(category),
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return s.GetSession(id)
}

// StopSession closes a running session. Duration is the elapsed time minus
// paused, in whole minutes.
func (s *Store) StopSession(id string, completed bool, paused time.Duration) (*models.FocusSession, error) {
	now := time.Now()

	var startStr string
	err := s.db.QueryRow(`SELECT start_time FROM focus_sessions WHERE id = ?`, id).Scan(&startStr)
	if err != nil {
		return nil, fmt.Errorf("get session start: %w", err)
	}
	start := parseTime("start_time", startStr)
	minutes := int((now.Sub(start) - paused) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	_, err = s.db.Exec(
		`UPDATE focus_sessions SET end_time = ?, duration = ?, is_completed = ? WHERE id = ?`,
		formatTime(now), minutes, boolToInt(completed), id,
	)
	if err != nil {
		return nil, fmt.Errorf("stop session: %w", err)
	}
	return s.GetSession(id)
}

// RecordSession inserts an already finished session, as the pomodoro does
// at the end of each phase. An empty ID is generated.
func (s *Store) RecordSession(fs models.FocusSession) (*models.FocusSession, error) {
	if fs.ID == "" {
		fs.ID = uuid.NewString()
	}
	if fs.Mode == "" {
		fs.Mode = models.ModeWork
	}
	if fs.StartTime.IsZero() {
		return nil, errors.New("record session: start time is required")
	}
	var end sql.NullString
	if !fs.EndTime.IsZero() {
		end = sql.NullString{String: formatTime(fs.EndTime), Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fs.ID, fs.OwnerID, formatTime(fs.StartTime), end, fs.Duration, fs.Mode,
		boolToInt(fs.Completed), nullString(fs.Category),
	)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return s.GetSession(fs.ID)
}

func (s *Store) GetSession(id string) (*models.FocusSession, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM focus_sessions WHERE id = ?`, id)
	fs, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return fs, nil
}

// GetRunningSession returns the owner's open session, or nil if none.
func (s *Store) GetRunningSession(owner string) (*models.FocusSession, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM focus_sessions
		 WHERE owner_id = ? AND end_time IS NULL ORDER BY start_time DESC LIMIT 1`, owner,
	)
	fs, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get running session: %w", err)
	}
	return fs, nil
}

func (s *Store) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM focus_sessions WHERE id = ?`, id)
	return err
}

func (s *Store) ListSessions(ctx context.Context, owner string, from *time.Time) ([]models.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions WHERE owner_id = ?`
	args := []any{owner}
	if from != nil {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(*from))
	}
	query += ` ORDER BY start_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.FocusSession
	for rows.Next() {
		fs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		// An unreadable start cannot be placed on any day or weekday.
		if fs.StartTime.IsZero() {
			logger.Warn("Skipping session with malformed start time", "id", fs.ID)
			continue
		}
		sessions = append(sessions, *fs)
	}
	return sessions, rows.Err()
}

// TodayMinutes sums finished session minutes for owner since local midnight.
func (s *Store) TodayMinutes(owner string) (int, error) {
	midnight := analytics.StartOfDay(time.Now())
	var total sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(duration), 0)
		FROM focus_sessions
		WHERE owner_id = ? AND start_time >= ? AND start_time GLOB '[0-9][0-9][0-9][0-9]-*'
			AND end_time IS NOT NULL`,
		owner, formatTime(midnight),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("today minutes: %w", err)
	}
	return int(total.Int64), nil
}

func scanSession(r rowScanner) (*models.FocusSession, error) {
	fs := &models.FocusSession{}
	var startTime string
	var endTime, category sql.NullString
	var completed int
	err := r.Scan(&fs.ID, &fs.OwnerID, &startTime, &endTime, &fs.Duration, &fs.Mode, &completed, &category)
	if err != nil {
		return nil, err
	}
	fs.StartTime = parseTime("start_time", startTime)
	if endTime.Valid {
		fs.EndTime = parseTime("end_time", endTime.String)
	}
	fs.Completed = completed == 1
	fs.Category = category.String
	return fs, nil
}
