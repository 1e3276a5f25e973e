// Package report fetches an owner's records from a store.Source and runs
// the analytics over them.
package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

// FetchError reports which record set could not be loaded. No analytics
// are computed when a fetch fails.
type FetchError struct {
	Resource string // "sessions", "tasks" or "events"
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Report is one analytics dashboard for a range.
type Report struct {
	Owner       string
	Range       analytics.Range
	Window      analytics.Window
	GeneratedAt time.Time
	Summary     analytics.SessionSummary
	Completion  analytics.CompletionSeries
	Sessions    []models.FocusSession
}

// Build resolves the window for r at now, loads sessions since the window
// start and all tasks concurrently, then aggregates them.
func Build(ctx context.Context, src store.Source, owner string, r analytics.Range, now time.Time) (*Report, error) {
	w, err := analytics.ResolveWindow(r, now)
	if err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		sessions   []models.FocusSession
		tasks      []models.Task
		sessionErr error
		taskErr    error
	)
	from := w.Start
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessions, sessionErr = src.ListSessions(ctx, owner, &from)
	}()
	go func() {
		defer wg.Done()
		tasks, taskErr = src.ListTasks(ctx, owner)
	}()
	wg.Wait()

	if sessionErr != nil {
		logger.Error("Failed to fetch sessions", "owner", owner, "range", r, "error", sessionErr)
		return nil, &FetchError{Resource: "sessions", Err: sessionErr}
	}
	if taskErr != nil {
		logger.Error("Failed to fetch tasks", "owner", owner, "error", taskErr)
		return nil, &FetchError{Resource: "tasks", Err: taskErr}
	}

	rep := &Report{
		Owner:       owner,
		Range:       r,
		Window:      w,
		GeneratedAt: now,
		Summary:     analytics.AggregateSessions(sessions, w, r.Days()),
		Completion:  analytics.BuildCompletionSeries(tasks, w),
		Sessions:    sessions,
	}
	logger.Debug("Built report",
		"owner", owner, "range", r, "sessions", len(sessions), "tasks", len(tasks),
		"total_minutes", rep.Summary.TotalMinutes)
	return rep, nil
}

// Month loads the owner's events and lays out the calendar grid for the
// month containing ref.
func Month(ctx context.Context, src store.Source, owner string, ref time.Time) ([]analytics.CalendarDay, error) {
	events, err := src.ListEvents(ctx, owner)
	if err != nil {
		logger.Error("Failed to fetch events", "owner", owner, "error", err)
		return nil, &FetchError{Resource: "events", Err: err}
	}
	return analytics.BuildMonthGrid(ref, events), nil
}
