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

const taskColumns = `id, owner_id, title, description, completed, created_at, due_date, priority, category`

// CreateTask inserts t for its owner. ID and CreatedAt are assigned here.
func (s *Store) CreateTask(t models.Task) (*models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, errors.New("create task: title is required")
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.OwnerID, t.Title, t.Description, boolToInt(t.Completed), formatTime(time.Now()),
		dueDate(t.DueDate), string(t.Priority), nullString(t.Category),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(id)
}

func (s *Store) GetTask(id string) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// ToggleTask flips the completion flag and returns the updated task.
func (s *Store) ToggleTask(id string) (*models.Task, error) {
	res, err := s.db.Exec(`UPDATE tasks SET completed = 1 - completed WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("toggle task %s: %w", id, sql.ErrNoRows)
	}
	return s.GetTask(id)
}

// UpdateTask rewrites the editable fields of t. Owner and creation time are kept.
func (s *Store) UpdateTask(t models.Task) error {
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, completed = ?, due_date = ?, priority = ?, category = ?
		 WHERE id = ?`,
		t.Title, t.Description, boolToInt(t.Completed), dueDate(t.DueDate),
		string(t.Priority), nullString(t.Category), t.ID,
	)
	return err
}

func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// ListTasks returns all of the owner's tasks, newest first.
func (s *Store) ListTasks(ctx context.Context, owner string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, id`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

// FilterTasks lists the owner's tasks matching f, newest first.
func (s *Store) FilterTasks(ctx context.Context, owner string, f TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	args := []any{owner}

	if q := strings.TrimSpace(f.Search); q != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if f.Completed != nil {
		query += ` AND completed = ?`
		args = append(args, boolToInt(*f.Completed))
	}
	if f.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(f.Priority))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter tasks: %w", err)
	}
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(r rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var createdAt, priority string
	var due, category sql.NullString
	var completed int
	err := r.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &completed, &createdAt, &due, &priority, &category)
	if err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	t.CreatedAt = parseTime("created_at", createdAt)
	t.Priority = models.Priority(priority)
	t.Category = category.String
	if due.Valid {
		if d, err := models.ParseDate(due.String); err == nil {
			t.DueDate = &d
		}
	}
	return t, nil
}

func dueDate(d *time.Time) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: models.DateKey(*d), Valid: true}
}
