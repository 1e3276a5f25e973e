package models

import (
	"reflect"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"", PriorityMedium},
		{"low", PriorityLow},
		{"Medium", PriorityMedium},
		{" HIGH ", PriorityHigh},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", UncategorizedLabel},
		{"   ", UncategorizedLabel},
		{"Math", "Math"},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEventSpan(t *testing.T) {
	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	s, e := CalendarEvent{StartDate: start}.Span()
	if !s.Equal(start) || !e.Equal(start) {
		t.Fatal("missing end should default to start")
	}
	s, e = CalendarEvent{StartDate: start, EndDate: end}.Span()
	if !s.Equal(start) || !e.Equal(end) {
		t.Fatal("span should keep a valid end")
	}
	_, e = CalendarEvent{StartDate: end, EndDate: start}.Span()
	if !e.Equal(end) {
		t.Fatal("end before start should collapse to start")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	if DateKey(d) != "2024-02-29" {
		t.Fatalf("round trip = %s", DateKey(d))
	}
	if _, err := ParseDate("2023-02-29"); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestSessionRunning(t *testing.T) {
	s := FocusSession{StartTime: time.Now()}
	if !s.Running() {
		t.Fatal("session without end should be running")
	}
	s.EndTime = s.StartTime.Add(time.Minute)
	if s.Running() {
		t.Fatal("stopped session should not be running")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"exam", []string{"exam"}},
		{" exam , chapter 3,,exam ", []string{"exam", "chapter 3"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		got := ParseTags(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTags(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
