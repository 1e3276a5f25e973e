package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
)

func sampleSessions() []models.FocusSession {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)
	return []models.FocusSession{
		{
			ID:        "a",
			StartTime: start,
			EndTime:   start.Add(65 * time.Minute),
			Duration:  65,
			Mode:      models.ModeWork,
			Completed: true,
			Category:  "Math",
		},
		{
			ID:        "b",
			StartTime: start.Add(2 * time.Hour),
			EndTime:   start.Add(2*time.Hour + 5*time.Minute),
			Duration:  5,
			Mode:      models.ModeBreak,
			Completed: false,
		},
		{
			ID:        "c",
			StartTime: start.Add(3 * time.Hour),
			Mode:      models.ModeWork,
			Category:  "Physics",
		},
	}
}

func sampleReport() *report.Report {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	return &report.Report{
		Owner:       "u1",
		Range:       analytics.Weekly,
		Window:      analytics.Window{Start: day.AddDate(0, 0, -1), End: day.Add(12 * time.Hour)},
		GeneratedAt: time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local),
		Summary: analytics.SessionSummary{
			TotalMinutes:        70,
			AverageDailyMinutes: 10,
			BusiestWeekday:      time.Monday,
			Categories: []analytics.CategoryShare{
				{Category: "Math", Minutes: 65, Percentage: 93},
				{Category: models.UncategorizedLabel, Minutes: 5, Percentage: 7},
			},
		},
		Completion: analytics.CompletionSeries{
			Days: []analytics.DailyCompletion{
				{Date: day.AddDate(0, 0, -1)},
				{Date: day, Completed: 1, Total: 3},
			},
			CompletionRate: 33,
		},
		Sessions: sampleSessions(),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestSessionsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.csv")
	if err := SessionsToCSV(sampleSessions(), path); err != nil {
		t.Fatalf("SessionsToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"Date", "Start", "End", "Duration (min)", "Mode", "Category", "Status"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2024-03-04" {
		t.Fatalf("Date = %q, want 2024-03-04", row[0])
	}
	if row[3] != "65" {
		t.Fatalf("Duration = %q, want 65", row[3])
	}
	if row[5] != "Math" || row[6] != "Completed" {
		t.Fatalf("unexpected category/status: %v", row)
	}

	if records[2][5] != models.UncategorizedLabel {
		t.Fatalf("empty category should export as %q, got %q", models.UncategorizedLabel, records[2][5])
	}
	if records[2][6] != "Stopped" {
		t.Fatalf("incomplete session status = %q, want Stopped", records[2][6])
	}

	running := records[3]
	if running[2] != "" || running[6] != "Running" {
		t.Fatalf("running session should have empty end and Running status, got %v", running)
	}
}

func TestSessionsToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := SessionsToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestSessionsToCSVSpecialCharacters(t *testing.T) {
	sessions := []models.FocusSession{{
		StartTime: time.Now(),
		EndTime:   time.Now(),
		Mode:      models.ModeWork,
		Category:  `Lit "Poetry", Vol. 2`,
	}}
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := SessionsToCSV(sessions, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][5] != `Lit "Poetry", Vol. 2` {
		t.Fatalf("category mangled: %q", records[1][5])
	}
}

func TestCompletionToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completion.csv")
	if err := CompletionToCSV(sampleReport().Completion, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 days, got %d rows", len(records))
	}
	if strings.Join(records[0], ",") != "Date,Completed,Total,Percentage" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if strings.Join(records[1], ",") != "2024-03-03,0,0,0%" {
		t.Fatalf("empty day row = %v", records[1])
	}
	if strings.Join(records[2], ",") != "2024-03-04,1,3,33%" {
		t.Fatalf("day row = %v", records[2])
	}
}

func TestCSVBadPath(t *testing.T) {
	if err := SessionsToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
	if err := CompletionToCSV(analytics.CompletionSeries{}, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := ToJSON(sampleReport(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Range != "weekly" {
		t.Fatalf("range = %q, want weekly", result.Range)
	}
	if result.TotalMinutes != 70 || result.AverageDailyMinutes != 10 || result.CompletionRate != 33 {
		t.Fatalf("unexpected scalars: %+v", result)
	}
	if result.BusiestDay != "Monday" {
		t.Fatalf("busiest_day = %q, want Monday", result.BusiestDay)
	}
	if len(result.Categories) != 2 || result.Categories[0].Percentage != 93 {
		t.Fatalf("unexpected categories: %+v", result.Categories)
	}
	if len(result.Sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(result.Sessions))
	}
	if result.Sessions[0].Duration != "01:05" {
		t.Fatalf("duration = %q, want 01:05", result.Sessions[0].Duration)
	}
	if result.Sessions[2].EndTime != "" || result.Sessions[2].Status != "Running" {
		t.Fatalf("running session: %+v", result.Sessions[2])
	}
	if len(result.DailyCompletion) != 2 || result.DailyCompletion[1].Percentage != 33 {
		t.Fatalf("unexpected daily completion: %+v", result.DailyCompletion)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

func TestToJSONEmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	rep := &report.Report{
		Range:   analytics.Daily,
		Summary: analytics.SessionSummary{BusiestWeekday: analytics.NoWeekday},
	}
	if err := ToJSON(rep, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"sessions": []`) {
		t.Fatalf("empty sessions should encode as [], got:\n%s", data)
	}
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.BusiestDay != analytics.NoDataLabel {
		t.Fatalf("busiest_day = %q, want %q", result.BusiestDay, analytics.NoDataLabel)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(sampleReport(), "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(sampleReport(), path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  \"range\"") {
		t.Fatal("JSON should be pretty-printed with two-space indentation")
	}
}

// ============================================================
// Write
// ============================================================

func TestWrite(t *testing.T) {
	tests := []struct {
		format string
		files  int
		suffix string
	}{
		{"csv", 2, ".csv"},
		{"CSV", 2, ".csv"},
		{"json", 1, ".json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			files, err := Write(sampleReport(), tt.format, dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(files) != tt.files {
				t.Fatalf("got %d files, want %d", len(files), tt.files)
			}
			for _, f := range files {
				if !strings.HasSuffix(f, tt.suffix) {
					t.Fatalf("unexpected file name %s", f)
				}
				if !strings.Contains(filepath.Base(f), "weekly-20240304-120000") {
					t.Fatalf("file name should carry range and timestamp: %s", f)
				}
				if _, err := os.Stat(f); err != nil {
					t.Fatalf("file not written: %v", err)
				}
			}
		})
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	if _, err := Write(sampleReport(), "xlsx", t.TempDir()); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{59, "00:59"},
		{60, "01:00"},
		{65, "01:05"},
		{600, "10:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
