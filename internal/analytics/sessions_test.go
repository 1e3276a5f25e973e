package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

func session(start time.Time, minutes int, category string) models.FocusSession {
	return models.FocusSession{
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Duration:  minutes,
		Mode:      models.ModeWork,
		Completed: true,
		Category:  category,
	}
}

func weeklyWindow(t *testing.T, now time.Time) Window {
	t.Helper()
	w, err := ResolveWindow(Weekly, now)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestAggregateSessionsScenario(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	d1 := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC) // Tuesday
	d2 := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC) // Wednesday

	sessions := []models.FocusSession{
		session(d1, 30, "Math"),
		session(d1.Add(time.Hour), 20, "Physics"),
		session(d2, 50, "Math"),
	}
	got := AggregateSessions(sessions, weeklyWindow(t, now), Weekly.Days())

	if got.TotalMinutes != 100 {
		t.Fatalf("TotalMinutes = %d, want 100", got.TotalMinutes)
	}
	if got.AverageDailyMinutes != 14 {
		t.Fatalf("AverageDailyMinutes = %d, want 14", got.AverageDailyMinutes)
	}
	want := []CategoryShare{
		{Category: "Math", Minutes: 80, Percentage: 80},
		{Category: "Physics", Minutes: 20, Percentage: 20},
	}
	if !reflect.DeepEqual(got.Categories, want) {
		t.Fatalf("Categories = %+v, want %+v", got.Categories, want)
	}
	if got.BusiestWeekday != time.Tuesday {
		t.Fatalf("BusiestWeekday = %v, want Tuesday", got.BusiestWeekday)
	}
}

func TestAggregateSessionsEmpty(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	got := AggregateSessions(nil, weeklyWindow(t, now), 7)

	if got.TotalMinutes != 0 || got.AverageDailyMinutes != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
	if len(got.Categories) != 0 {
		t.Fatalf("expected empty distribution, got %d entries", len(got.Categories))
	}
	if got.BusiestWeekday != NoWeekday {
		t.Fatalf("BusiestWeekday = %v, want NoWeekday", got.BusiestWeekday)
	}
	if got.BusiestDayLabel() != NoDataLabel {
		t.Fatalf("label = %q, want %q", got.BusiestDayLabel(), NoDataLabel)
	}
}

func TestAggregateSessionsUncategorized(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)
	sessions := []models.FocusSession{
		session(start, 10, ""),
		session(start, 15, "  "),
		session(start, 5, "Chemistry"),
	}
	got := AggregateSessions(sessions, weeklyWindow(t, now), 7)

	if len(got.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %+v", got.Categories)
	}
	if got.Categories[0].Category != models.UncategorizedLabel || got.Categories[0].Minutes != 25 {
		t.Fatalf("absent categories should fold into %q: %+v", models.UncategorizedLabel, got.Categories[0])
	}
}

func TestAggregateSessionsInvalidDurations(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	sessions := []models.FocusSession{
		session(start, -40, "Math"),
		session(start, 0, "Math"),
		session(start, 25, "Math"),
	}
	got := AggregateSessions(sessions, weeklyWindow(t, now), 7)
	if got.TotalMinutes != 25 {
		t.Fatalf("negative and zero durations should contribute 0: total = %d", got.TotalMinutes)
	}
	if got.Categories[0].Percentage != 100 {
		t.Fatalf("Percentage = %d, want 100", got.Categories[0].Percentage)
	}
}

func TestAggregateSessionsAllZeroMinutes(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	sessions := []models.FocusSession{session(now.Add(-time.Hour), 0, "Math")}
	got := AggregateSessions(sessions, weeklyWindow(t, now), 7)

	if got.Categories[0].Percentage != 0 {
		t.Fatalf("percentage with zero total should be 0, got %d", got.Categories[0].Percentage)
	}
	if got.BusiestWeekday != NoWeekday {
		t.Fatal("no minutes means no busiest weekday")
	}
}

func TestAggregateSessionsStableTies(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	sessions := []models.FocusSession{
		session(start, 10, "Biology"),
		session(start, 30, "Art"),
		session(start, 10, "Algebra"),
		session(start, 10, "Chemistry"),
	}
	got := AggregateSessions(sessions, weeklyWindow(t, now), 7)

	order := []string{"Art", "Biology", "Algebra", "Chemistry"}
	for i, want := range order {
		if got.Categories[i].Category != want {
			t.Fatalf("Categories[%d] = %q, want %q (ties keep encounter order)", i, got.Categories[i].Category, want)
		}
	}
}

func TestAggregateSessionsPercentageRounding(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	sessions := []models.FocusSession{
		session(start, 1, "A"),
		session(start, 1, "B"),
		session(start, 1, "C"),
	}
	got := AggregateSessions(sessions, weeklyWindow(t, now), 7)

	sumMinutes, sumPct := 0, 0
	for _, c := range got.Categories {
		sumMinutes += c.Minutes
		sumPct += c.Percentage
		if c.Percentage != 33 {
			t.Fatalf("Percentage = %d, want 33", c.Percentage)
		}
	}
	if sumMinutes != got.TotalMinutes {
		t.Fatalf("category minutes %d != total %d", sumMinutes, got.TotalMinutes)
	}
	if d := sumPct - 100; d < -len(got.Categories) || d > len(got.Categories) {
		t.Fatalf("percentage sum %d drifted beyond category count", sumPct)
	}
}

func TestAggregateSessionsWeekdayTieBreak(t *testing.T) {
	now := time.Date(2024, 3, 16, 18, 0, 0, 0, time.UTC)
	friday := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	// Friday is encountered first, but Monday has the lower weekday index.
	sessions := []models.FocusSession{
		session(friday, 45, "Math"),
		session(monday, 45, "Math"),
	}
	got := AggregateSessions(sessions, weeklyWindow(t, now), 7)
	if got.BusiestWeekday != time.Monday {
		t.Fatalf("BusiestWeekday = %v, want Monday", got.BusiestWeekday)
	}
	if got.BusiestDayLabel() != "Monday" {
		t.Fatalf("label = %q", got.BusiestDayLabel())
	}
}

func TestAggregateSessionsWeekdayInWindowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	now := time.Date(2024, 3, 16, 12, 0, 0, 0, loc)
	// 20:00 UTC Thursday is 03:00 Friday in UTC+7.
	start := time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)

	got := AggregateSessions([]models.FocusSession{session(start, 30, "Math")}, weeklyWindow(t, now), 7)
	if got.BusiestWeekday != time.Friday {
		t.Fatalf("BusiestWeekday = %v, want Friday", got.BusiestWeekday)
	}
}

func TestAggregateSessionsAverage(t *testing.T) {
	tests := []struct {
		total, days, want int
	}{
		{100, 7, 14},
		{45, 30, 2},
		{15, 30, 1}, // 0.5 rounds up
		{90, 1, 90},
		{90, 0, 0},
	}
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		got := AggregateSessions([]models.FocusSession{session(now, tt.total, "X")}, weeklyWindow(t, now), tt.days)
		if got.AverageDailyMinutes != tt.want {
			t.Errorf("average(%d/%d) = %d, want %d", tt.total, tt.days, got.AverageDailyMinutes, tt.want)
		}
	}
}

func TestAggregateSessionsIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	start := now.Add(-3 * time.Hour)
	sessions := []models.FocusSession{
		session(start, 25, "Math"),
		session(start, 25, ""),
		session(start, 50, "Physics"),
	}
	w := weeklyWindow(t, now)
	a := AggregateSessions(sessions, w, 7)
	b := AggregateSessions(sessions, w, 7)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated aggregation differs:\n%+v\n%+v", a, b)
	}
}
