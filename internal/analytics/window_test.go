package analytics

import (
	"errors"
	"testing"
	"time"
)

func TestResolveWindowDaily(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w, err := ResolveWindow(Daily, now)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", w.Start, want)
	}
	if !w.End.Equal(now) {
		t.Fatalf("end = %v, want %v", w.End, now)
	}
}

func TestResolveWindowDailyUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 01:00 local is still the previous day in UTC.
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, loc)
	w, _ := ResolveWindow(Daily, now)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, loc)
	if !w.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", w.Start, want)
	}
	if w.Location() != loc {
		t.Fatal("window should keep now's location")
	}
}

func TestResolveWindowWeekly(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w, err := ResolveWindow(Weekly, now)
	if err != nil {
		t.Fatal(err)
	}
	if got := w.End.Sub(w.Start); got != 7*24*time.Hour {
		t.Fatalf("weekly window length = %v, want 168h", got)
	}
}

func TestResolveWindowWeeklyIsInstantArithmetic(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST starts 2024-03-10; 168 elapsed hours back lands at 11:00 EST, not 12:00.
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, ny)
	w, _ := ResolveWindow(Weekly, now)
	if got := w.Start.In(ny).Hour(); got != 11 {
		t.Fatalf("start hour = %d, want 11", got)
	}
}

func TestResolveWindowMonthly(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{
			time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			// Clamped to the last day of February in a leap year.
			time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2023, 3, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			// Crosses the year boundary.
			time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC),
			time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		w, err := ResolveWindow(Monthly, tt.now)
		if err != nil {
			t.Fatal(err)
		}
		if !w.Start.Equal(tt.want) {
			t.Errorf("ResolveWindow(Monthly, %v).Start = %v, want %v", tt.now, w.Start, tt.want)
		}
	}
}

func TestResolveWindowInvalid(t *testing.T) {
	_, err := ResolveWindow(Range(7), time.Now())
	if !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected ErrInvalidSelector, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want Range
	}{
		{"daily", Daily},
		{"Weekly", Weekly},
		{" monthly ", Monthly},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "yearly", "7"} {
		if _, err := ParseRange(bad); !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("ParseRange(%q) should fail with ErrInvalidSelector, got %v", bad, err)
		}
	}
}

func TestRangeDaysAndString(t *testing.T) {
	tests := []struct {
		r    Range
		days int
		name string
	}{
		{Daily, 1, "daily"},
		{Weekly, 7, "weekly"},
		{Monthly, 30, "monthly"},
	}
	for _, tt := range tests {
		if tt.r.Days() != tt.days {
			t.Errorf("%v.Days() = %d, want %d", tt.r, tt.r.Days(), tt.days)
		}
		if tt.r.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.r.String(), tt.name)
		}
	}
	if Range(9).Days() != 0 {
		t.Fatal("unknown range should have 0 days")
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(Daily, now)
	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Fatal("window bounds are inclusive")
	}
	if w.Contains(now.Add(time.Second)) {
		t.Fatal("instant after end should be outside")
	}
}

// ============================================================
// Days whose midnight is skipped by DST
// ============================================================

// saoPaulo returns America/Sao_Paulo, where clocks jumped from 00:00 to
// 01:00 on 2018-11-04.
func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestResolveWindowDailySkippedMidnight(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2018, 11, 4, 10, 0, 0, 0, loc)

	w, err := ResolveWindow(Daily, now)
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Start.Format("2006-01-02 15:04"); got != "2018-11-04 01:00" {
		t.Fatalf("start = %s, want the first instant of 2018-11-04", got)
	}
}

func TestDayStart(t *testing.T) {
	loc := saoPaulo(t)

	tests := []struct {
		y    int
		m    time.Month
		d    int
		want string
	}{
		{2018, time.November, 3, "2018-11-03 00:00"},
		{2018, time.November, 4, "2018-11-04 01:00"},
		{2018, time.November, 5, "2018-11-05 00:00"},
		{2018, time.October, 35, "2018-11-04 01:00"},
	}
	for _, tt := range tests {
		got := DayStart(tt.y, tt.m, tt.d, loc).Format("2006-01-02 15:04")
		if got != tt.want {
			t.Errorf("DayStart(%d, %d, %d) = %s, want %s", tt.y, tt.m, tt.d, got, tt.want)
		}
	}

	if got := AddDays(time.Date(2018, 11, 3, 0, 0, 0, 0, loc), 1).Day(); got != 4 {
		t.Fatalf("AddDays from Nov 3 landed on day %d, want 4", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		t    time.Time
		want int
	}{
		{time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.t); got != tt.want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", tt.t.Format("2006-01"), got, tt.want)
		}
	}
}
