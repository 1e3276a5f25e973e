package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// ErrInvalidNote is returned for a note without a title or content.
var ErrInvalidNote = errors.New("invalid note")

const noteColumns = `id, owner_id, title, content, category, tags, created_at, updated_at`

func validateNote(n *models.Note) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Category = strings.TrimSpace(n.Category)
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNote)
	}
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidNote)
	}
	n.Tags = models.ParseTags(strings.Join(n.Tags, ","))
	return nil
}

// CreateNote inserts n for its owner. ID and both timestamps are assigned here.
func (s *Store) CreateNote(n models.Note) (*models.Note, error) {
	if err := validateNote(&n); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, n.OwnerID, n.Title, n.Content, n.Category, strings.Join(n.Tags, ","), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return s.GetNote(id)
}

func (s *Store) GetNote(id string) (*models.Note, error) {
	n, err := scanNote(s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	return n, nil
}

// UpdateNote rewrites the editable fields of n and bumps updated_at.
func (s *Store) UpdateNote(n models.Note) error {
	if err := validateNote(&n); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE notes SET title = ?, content = ?, category = ?, tags = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Content, n.Category, strings.Join(n.Tags, ","), formatTime(time.Now()), n.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("update note %s: %w", n.ID, sql.ErrNoRows)
	}
	return nil
}

func (s *Store) DeleteNote(id string) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	return err
}

// ListNotes returns the owner's notes matching f, most recently edited first.
func (s *Store) ListNotes(ctx context.Context, owner string, f NoteFilter) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE owner_id = ?`
	args := []any{owner}

	if q := strings.TrimSpace(f.Search); q != "" {
		query += ` AND (title LIKE ? OR content LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		query += ` AND instr(',' || tags || ',', ',' || ? || ',') > 0`
		args = append(args, tag)
	}
	query += ` ORDER BY updated_at DESC, created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// NoteCategories returns the owner's distinct non-empty note categories, sorted.
func (s *Store) NoteCategories(ctx context.Context, owner string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM notes WHERE owner_id = ? AND category != '' ORDER BY category`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list note categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanNote(r rowScanner) (*models.Note, error) {
	n := &models.Note{}
	var tags, createdAt, updatedAt string
	err := r.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.Category, &tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	n.Tags = models.ParseTags(tags)
	n.CreatedAt = parseTime("created_at", createdAt)
	n.UpdatedAt = parseTime("updated_at", updatedAt)
	return n, nil
}
