package store

import (
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// Subject is a named study category with a display color. Sessions and
// tasks store the subject name as their category.
type Subject struct {
	ID        string
	Name      string
	Color     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// TaskFilter narrows FilterTasks. Zero fields do not filter.
type TaskFilter struct {
	Search    string // case-insensitive match on title or description
	Completed *bool
	Priority  models.Priority
	Category  string
	Limit     int
}

// NoteFilter narrows ListNotes. Zero fields do not filter.
type NoteFilter struct {
	Search   string // case-insensitive match on title or content
	Category string
	Tag      string
}
