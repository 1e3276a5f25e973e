package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// ErrInvalidEvent is returned for an event without a title or with an end
// date before its start date.
var ErrInvalidEvent = errors.New("invalid event")

// errMalformedEvent marks a stored row whose start date cannot be read.
var errMalformedEvent = errors.New("malformed event row")

const eventColumns = `id, owner_id, title, description, start_date, end_date, is_all_day, category`

// CreateEvent inserts e for its owner. A zero end date becomes the start date.
func (s *Store) CreateEvent(e models.CalendarEvent) (*models.CalendarEvent, error) {
	if err := normalizeEvent(&e); err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Title, e.Description, models.DateKey(e.StartDate), models.DateKey(e.EndDate),
		boolToInt(e.AllDay), e.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return s.GetEvent(e.ID)
}

func (s *Store) GetEvent(id string) (*models.CalendarEvent, error) {
	e, err := scanEvent(s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) UpdateEvent(e models.CalendarEvent) error {
	if err := normalizeEvent(&e); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE events SET title = ?, description = ?, start_date = ?, end_date = ?, is_all_day = ?, category = ?
		 WHERE id = ?`,
		e.Title, e.Description, models.DateKey(e.StartDate), models.DateKey(e.EndDate),
		boolToInt(e.AllDay), e.Category, e.ID,
	)
	return err
}

func (s *Store) DeleteEvent(id string) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	return err
}

// ListEvents returns all of the owner's events ordered by start date.
func (s *Store) ListEvents(ctx context.Context, owner string) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE owner_id = ? ORDER BY start_date, title`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if errors.Is(err, errMalformedEvent) {
			logger.Warn("Skipping event with malformed start date", "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func normalizeEvent(e *models.CalendarEvent) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidEvent)
	}
	if e.EndDate.IsZero() {
		e.EndDate = e.StartDate
	}
	if models.DateKey(e.EndDate) < models.DateKey(e.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidEvent, models.DateKey(e.EndDate), models.DateKey(e.StartDate))
	}
	return nil
}

func scanEvent(r rowScanner) (*models.CalendarEvent, error) {
	e := &models.CalendarEvent{}
	var start, end string
	var allDay int
	err := r.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &start, &end, &allDay, &e.Category)
	if err != nil {
		return nil, err
	}
	e.StartDate, err = models.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s start_date %q: %v", errMalformedEvent, e.ID, start, err)
	}
	// A bad end date collapses the event to its start day.
	if e.EndDate, err = models.ParseDate(end); err != nil {
		logger.Warn("Malformed event end date", "id", e.ID, "value", end, "error", err)
		e.EndDate = e.StartDate
	}
	e.AllDay = allDay == 1
	return e, nil
}
