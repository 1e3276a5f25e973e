package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// NoWeekday is returned as the busiest weekday when no session carries any minutes.
const NoWeekday time.Weekday = -1

// NoDataLabel is the display form of NoWeekday.
const NoDataLabel = "No data"

// CategoryShare is one row of the category distribution.
type CategoryShare struct {
	Category   string
	Minutes    int
	Percentage int
}

// SessionSummary is the aggregate view of the focus sessions in a window.
type SessionSummary struct {
	TotalMinutes        int
	AverageDailyMinutes int
	BusiestWeekday      time.Weekday
	Categories          []CategoryShare
}

// BusiestDayLabel returns the weekday name, or NoDataLabel.
func (s SessionSummary) BusiestDayLabel() string {
	if s.BusiestWeekday == NoWeekday {
		return NoDataLabel
	}
	return s.BusiestWeekday.String()
}

// AggregateSessions reduces sessions that the caller already filtered to w.
// Sessions are not re-filtered here. Negative durations count as zero.
func AggregateSessions(sessions []models.FocusSession, w Window, rangeDays int) SessionSummary {
	loc := w.Location()

	total := 0
	byCategory := make(map[string]int)
	var order []string
	var byWeekday [7]int

	for _, s := range sessions {
		minutes := sessionMinutes(s)
		total += minutes

		c := models.NormalizeCategory(s.Category)
		if _, ok := byCategory[c]; !ok {
			order = append(order, c)
		}
		byCategory[c] += minutes

		byWeekday[s.StartTime.In(loc).Weekday()] += minutes
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, c := range order {
		shares = append(shares, CategoryShare{
			Category:   c,
			Minutes:    byCategory[c],
			Percentage: percent(byCategory[c], total),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Minutes > shares[j].Minutes
	})

	avg := 0
	if rangeDays > 0 {
		avg = int(math.Round(float64(total) / float64(rangeDays)))
	}

	return SessionSummary{
		TotalMinutes:        total,
		AverageDailyMinutes: avg,
		BusiestWeekday:      busiestWeekday(byWeekday),
		Categories:          shares,
	}
}

// busiestWeekday scans Sunday..Saturday so the earliest weekday wins ties.
func busiestWeekday(byWeekday [7]int) time.Weekday {
	best := NoWeekday
	bestMinutes := 0
	for d, minutes := range byWeekday {
		if minutes > bestMinutes {
			best = time.Weekday(d)
			bestMinutes = minutes
		}
	}
	return best
}

func sessionMinutes(s models.FocusSession) int {
	if s.Duration < 0 {
		return 0
	}
	return s.Duration
}

// percent returns round(part/whole*100), or 0 when whole is 0.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
