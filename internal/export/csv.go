package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

var (
	sessionsHeader   = []string{"Date", "Start", "End", "Duration (min)", "Mode", "Category", "Status"}
	completionHeader = []string{"Date", "Completed", "Total", "Percentage"}
)

// SessionsToCSV writes one row per session in local time.
func SessionsToCSV(sessions []models.FocusSession, path string) error {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		start := s.StartTime.Local()
		end := ""
		if !s.EndTime.IsZero() {
			end = s.EndTime.Local().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			models.DateKey(start),
			start.Format(time.RFC3339),
			end,
			strconv.Itoa(s.Duration),
			s.Mode,
			models.NormalizeCategory(s.Category),
			sessionStatus(s),
		})
	}
	return writeCSV(path, sessionsHeader, rows)
}

// CompletionToCSV writes the daily completion series. Percentage is the
// rounded share of completed tasks for the day.
func CompletionToCSV(series analytics.CompletionSeries, path string) error {
	rows := make([][]string, 0, len(series.Days))
	for _, d := range series.Days {
		rows = append(rows, []string{
			models.DateKey(d.Date),
			strconv.Itoa(d.Completed),
			strconv.Itoa(d.Total),
			fmt.Sprintf("%d%%", d.Percentage()),
		})
	}
	return writeCSV(path, completionHeader, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func sessionStatus(s models.FocusSession) string {
	switch {
	case s.Running():
		return "Running"
	case s.Completed:
		return "Completed"
	default:
		return "Stopped"
	}
}

// formatMinutes renders minutes as HH:MM.
func formatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
