package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewCalendar
	viewAnalytics
	viewPomodoro
	viewSettings
	viewNotes
)

var viewNames = []string{"Dashboard", "Tasks", "Calendar", "Analytics", "Pomodoro", "Settings", "Notes"}

// --- Messages ---

type timerStartedMsg struct {
	session *models.FocusSession
}

type timerStoppedMsg struct {
	session *models.FocusSession
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	paths []string
}

// sessionRecordedMsg tells other views that the session history changed.
type sessionRecordedMsg struct{}

// --- Helpers ---

// errStatus logs err and returns a command that shows it in the footer.
func errStatus(action string, err error) tea.Cmd {
	logger.Error("TUI action failed", "action", action, "error", err)
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMinutes renders a minute count as "45m" or "2h 05m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

// truncate shortens s to at most w runes, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	r := []rune(s)
	if w <= 0 {
		return ""
	}
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(r[:w-1]) + "…"
}
