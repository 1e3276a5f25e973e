package store

import (
	"context"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// Source is the read side of a record store, scoped by owner. Both the
// local SQLite store and the remote Postgres reader implement it.
type Source interface {
	// ListSessions returns the owner's sessions starting at or after from
	// (all sessions when from is nil), newest first.
	ListSessions(ctx context.Context, owner string, from *time.Time) ([]models.FocusSession, error)
	ListTasks(ctx context.Context, owner string) ([]models.Task, error)
	ListEvents(ctx context.Context, owner string) ([]models.CalendarEvent, error)
}

var _ Source = (*Store)(nil)
