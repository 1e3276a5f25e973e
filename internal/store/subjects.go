package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateSubject(name, color string) (*Subject, error) {
	if color == "" {
		color = "#6C63FF"
	}
	id := uuid.NewString()
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO subjects (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, color, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	return s.GetSubject(id)
}

func (s *Store) GetSubject(id string) (*Subject, error) {
	sub := &Subject{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, color, archived, created_at, updated_at FROM subjects WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.Name, &sub.Color, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get subject %s: %w", id, err)
	}
	sub.Archived = archived == 1
	sub.CreatedAt = parseTime("created_at", createdAt)
	sub.UpdatedAt = parseTime("updated_at", updatedAt)
	return sub, nil
}

func (s *Store) ListSubjects(includeArchived bool) ([]Subject, error) {
	query := `SELECT id, name, color, archived, created_at, updated_at FROM subjects`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var sub Subject
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Color, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		sub.Archived = archived == 1
		sub.CreatedAt = parseTime("created_at", createdAt)
		sub.UpdatedAt = parseTime("updated_at", updatedAt)
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

func (s *Store) UpdateSubject(id, name, color string) error {
	_, err := s.db.Exec(
		`UPDATE subjects SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, color, formatTime(time.Now()), id,
	)
	return err
}

func (s *Store) ArchiveSubject(id string) error {
	_, err := s.db.Exec(
		`UPDATE subjects SET archived = 1, updated_at = ? WHERE id = ?`, formatTime(time.Now()), id,
	)
	return err
}
