package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSelector is returned for a range selector outside daily, weekly and monthly.
var ErrInvalidSelector = errors.New("invalid range selector")

// Range selects how far back an analytics window reaches.
type Range int

const (
	Daily Range = iota
	Weekly
	Monthly
)

// Ranges lists the valid selectors in display order.
var Ranges = []Range{Daily, Weekly, Monthly}

func (r Range) String() string {
	switch r {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	}
	return fmt.Sprintf("Range(%d)", int(r))
}

// Days is the fixed divisor used for the daily average: 1, 7 or 30.
// It is a convention, not the elapsed length of the window.
func (r Range) Days() int {
	switch r {
	case Daily:
		return 1
	case Weekly:
		return 7
	case Monthly:
		return 30
	}
	return 0
}

// ParseRange maps "daily", "weekly" or "monthly" to a Range.
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
}

// Window is a closed instant range [Start, End]. Both ends carry the
// location used for local-calendar bucketing.
type Window struct {
	Start time.Time
	End   time.Time
}

// Location returns the calendar location of the window.
func (w Window) Location() *time.Location {
	return w.End.Location()
}

// Contains reports whether t lies inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolveWindow anchors the range at now. Daily starts at local midnight,
// weekly 7*24h earlier, monthly one calendar month earlier with the day of
// month clamped to the shorter month.
func ResolveWindow(r Range, now time.Time) (Window, error) {
	switch r {
	case Daily:
		return Window{Start: StartOfDay(now), End: now}, nil
	case Weekly:
		return Window{Start: now.Add(-7 * 24 * time.Hour), End: now}, nil
	case Monthly:
		return Window{Start: minusOneMonth(now), End: now}, nil
	}
	return Window{}, fmt.Errorf("%w: %v", ErrInvalidSelector, r)
}

func minusOneMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	last := DaysInMonth(time.Date(y, m-1, 1, 12, 0, 0, 0, t.Location()))
	if d > last {
		d = last
	}
	return time.Date(y, m-1, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DayStart returns the first instant of the civil date y-m-d in loc.
// Out-of-range months and days normalize as in time.Date. Where a DST
// transition skips midnight, the first instant is the first hour that exists.
func DayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	noon := time.Date(y, m, d, 12, 0, 0, 0, loc)
	y, m, d = noon.Date()
	for h := range 12 {
		t := time.Date(y, m, d, h, 0, 0, 0, loc)
		if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
			return t
		}
	}
	return noon
}

// StartOfDay returns the first instant of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return DayStart(y, m, d, t.Location())
}

// AddDays moves n civil days from t's date and returns the start of that day.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return DayStart(y, m, d+n, t.Location())
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 12, 0, 0, 0, t.Location()).Day()
}
