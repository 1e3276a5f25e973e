package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
)

type jsonExport struct {
	ExportedAt          string            `json:"exported_at"`
	Range               string            `json:"range"`
	WindowStart         string            `json:"window_start"`
	WindowEnd           string            `json:"window_end"`
	TotalMinutes        int               `json:"total_minutes"`
	AverageDailyMinutes int               `json:"average_daily_minutes"`
	BusiestDay          string            `json:"busiest_day"`
	CompletionRate      int               `json:"completion_rate"`
	Categories          []jsonCategory    `json:"categories"`
	Sessions            []jsonSession     `json:"sessions"`
	DailyCompletion     []jsonDailyRecord `json:"daily_completion"`
}

type jsonCategory struct {
	Category   string `json:"category"`
	Minutes    int    `json:"minutes"`
	Percentage int    `json:"percentage"`
}

type jsonSession struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationMin int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	Mode        string `json:"mode"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

type jsonDailyRecord struct {
	Date       string `json:"date"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// ToJSON writes the report as a pretty-printed document.
func ToJSON(rep *report.Report, path string) error {
	export := jsonExport{
		ExportedAt:          time.Now().UTC().Format(time.RFC3339),
		Range:               rep.Range.String(),
		WindowStart:         rep.Window.Start.Format(time.RFC3339),
		WindowEnd:           rep.Window.End.Format(time.RFC3339),
		TotalMinutes:        rep.Summary.TotalMinutes,
		AverageDailyMinutes: rep.Summary.AverageDailyMinutes,
		BusiestDay:          rep.Summary.BusiestDayLabel(),
		CompletionRate:      rep.Completion.CompletionRate,
		Categories:          []jsonCategory{},
		Sessions:            []jsonSession{},
		DailyCompletion:     []jsonDailyRecord{},
	}

	for _, c := range rep.Summary.Categories {
		export.Categories = append(export.Categories, jsonCategory{
			Category:   c.Category,
			Minutes:    c.Minutes,
			Percentage: c.Percentage,
		})
	}

	for _, s := range rep.Sessions {
		end := ""
		if !s.EndTime.IsZero() {
			end = s.EndTime.Local().Format(time.RFC3339)
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			Date:        models.DateKey(s.StartTime.Local()),
			StartTime:   s.StartTime.Local().Format(time.RFC3339),
			EndTime:     end,
			DurationMin: s.Duration,
			Duration:    formatMinutes(s.Duration),
			Mode:        s.Mode,
			Category:    models.NormalizeCategory(s.Category),
			Status:      sessionStatus(s),
		})
	}

	for _, d := range rep.Completion.Days {
		export.DailyCompletion = append(export.DailyCompletion, jsonDailyRecord{
			Date:       models.DateKey(d.Date),
			Completed:  d.Completed,
			Total:      d.Total,
			Percentage: d.Percentage(),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
