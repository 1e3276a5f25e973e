package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateFormat is the calendar-date layout used for events and daily buckets.
	DateFormat = "2006-01-02"

	// UncategorizedLabel replaces an absent category before grouping.
	UncategorizedLabel = "Uncategorized"
)

// Session modes.
const (
	ModeWork  = "work"
	ModeBreak = "break"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts low, medium or high (case-insensitive). Empty input is medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q: must be low, medium or high", s)
}

// FocusSession is one timed block recorded by the timer or the pomodoro.
type FocusSession struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time // zero while running
	Duration  int       // minutes
	Mode      string
	Completed bool
	Category  string
	OwnerID   string
}

// Running reports whether the session has not been stopped yet.
func (s FocusSession) Running() bool {
	return s.EndTime.IsZero()
}

type Task struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	Completed   bool
	DueDate     *time.Time
	Priority    Priority
	Category    string
	OwnerID     string
}

// CalendarEvent spans whole calendar dates. A zero EndDate means a single-day event.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	AllDay      bool
	Category    string
	OwnerID     string
}

// Span returns the event's first and last calendar dates. A missing or
// earlier-than-start end date collapses to the start date.
func (e CalendarEvent) Span() (start, end time.Time) {
	start = e.StartDate
	end = e.EndDate
	if end.IsZero() || DateKey(end) < DateKey(start) {
		end = start
	}
	return start, end
}

// Note is a free-form study note. Tags keep their input order without duplicates.
type Note struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   string
}

// ParseTags splits a comma-separated tag list, trimming blanks and
// dropping empty and repeated tags.
func ParseTags(s string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeCategory maps an absent category to UncategorizedLabel.
func NormalizeCategory(c string) string {
	if strings.TrimSpace(c) == "" {
		return UncategorizedLabel
	}
	return c
}

// DateKey returns the YYYY-MM-DD form of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
