package analytics

import (
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// GridCells is the number of cells in a month grid: six Sunday-first weeks.
const GridCells = 42

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date           time.Time
	InCurrentMonth bool
	Events         []models.CalendarEvent
}

// Visible returns at most n events and the number left over.
func (d CalendarDay) Visible(n int) ([]models.CalendarEvent, int) {
	if n < 0 {
		n = 0
	}
	if len(d.Events) <= n {
		return d.Events, 0
	}
	return d.Events[:n], len(d.Events) - n
}

// BuildMonthGrid lays out the month containing ref as 42 cells, starting on
// the Sunday on or before the 1st. Each cell lists, in input order, the
// events whose date span covers it.
func BuildMonthGrid(ref time.Time, events []models.CalendarEvent) []CalendarDay {
	first := FirstOfMonth(ref)
	leading := int(first.Weekday())

	spans := make([][2]string, len(events))
	for i, e := range events {
		s, end := e.Span()
		spans[i] = [2]string{models.DateKey(s), models.DateKey(end)}
	}

	grid := make([]CalendarDay, GridCells)
	for i := range grid {
		date := AddDays(first, i-leading)
		key := models.DateKey(date)

		var matched []models.CalendarEvent
		for j, e := range events {
			if spans[j][0] <= key && key <= spans[j][1] {
				matched = append(matched, e)
			}
		}

		grid[i] = CalendarDay{
			Date:           date,
			InCurrentMonth: date.Month() == first.Month() && date.Year() == first.Year(),
			Events:         matched,
		}
	}
	return grid
}

// FirstOfMonth returns the start of the 1st of t's month, in t's location.
func FirstOfMonth(t time.Time) time.Time {
	return DayStart(t.Year(), t.Month(), 1, t.Location())
}

// ShiftMonth returns the first day of the month delta months away from ref.
// Anchoring on the 1st keeps Jan 31 + 1 from landing in March.
func ShiftMonth(ref time.Time, delta int) time.Time {
	return DayStart(ref.Year(), ref.Month()+time.Month(delta), 1, ref.Location())
}
