package analytics

import (
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// DailyCompletion counts the tasks created on one calendar date.
type DailyCompletion struct {
	Date      time.Time // start of the day in the window's location
	Completed int
	Total     int
}

// Percentage is round(Completed/Total*100), or 0 for a day without tasks.
func (d DailyCompletion) Percentage() int {
	return percent(d.Completed, d.Total)
}

// CompletionSeries is the per-day task series plus the overall completion rate.
type CompletionSeries struct {
	Days           []DailyCompletion
	CompletionRate int
}

// BuildCompletionSeries zero-fills one entry per date of w and counts each
// task on its creation date. CompletionRate covers every supplied task,
// including those created outside the window.
func BuildCompletionSeries(tasks []models.Task, w Window) CompletionSeries {
	loc := w.Location()
	first := StartOfDay(w.Start.In(loc))
	lastKey := models.DateKey(w.End.In(loc))

	var days []DailyCompletion
	index := make(map[string]int)
	for d := first; models.DateKey(d) <= lastKey; d = AddDays(d, 1) {
		index[models.DateKey(d)] = len(days)
		days = append(days, DailyCompletion{Date: d})
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
		i, ok := index[models.DateKey(t.CreatedAt.In(loc))]
		if !ok {
			continue
		}
		days[i].Total++
		if t.Completed {
			days[i].Completed++
		}
	}

	return CompletionSeries{
		Days:           days,
		CompletionRate: percent(completed, len(tasks)),
	}
}
