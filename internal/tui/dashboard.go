package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

const recentSessionCount = 5

type dashboardModel struct {
	store  *store.Store
	owner  string
	timer  timerModel
	width  int
	height int

	today           analytics.SessionSummary
	recentSessions  []models.FocusSession
	subjects        []store.Subject
	defaultCategory string

	// Category picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(s *store.Store, owner string) dashboardModel {
	return dashboardModel{
		store: s,
		owner: owner,
		timer: newTimerModel(s, owner),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	running         *models.FocusSession
	today           analytics.SessionSummary
	recentSessions  []models.FocusSession
	subjects        []store.Subject
	defaultCategory string
	err             error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		rep, err := report.Build(ctx, d.store, d.owner, analytics.Daily, time.Now())
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		running, err := d.store.GetRunningSession(d.owner)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		recent, err := d.store.ListSessions(ctx, d.owner, nil)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		if len(recent) > recentSessionCount {
			recent = recent[:recentSessionCount]
		}
		subjects, _ := d.store.ListSubjects(false)
		def, _ := d.store.GetSetting(store.SettingDefaultCategory)

		return dashboardDataMsg{
			running:         running,
			today:           rep.Summary,
			recentSessions:  recent,
			subjects:        subjects,
			defaultCategory: def,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			return d, errStatus("Load dashboard", msg.err)
		}
		d.today = msg.today
		d.recentSessions = msg.recentSessions
		d.subjects = msg.subjects
		d.defaultCategory = msg.defaultCategory
		if msg.running != nil && !d.timer.running() {
			d.timer.adopt(msg.running)
		}
		return d, nil

	case sessionRecordedMsg:
		return d, d.loadData()

	case tickMsg:
		d.timer.tick()
		return d, nil

	case tea.KeyMsg:
		d.timer.recordActivity()

		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			if len(d.subjects) == 0 {
				return d.startTimer(d.defaultCategory)
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()

		case key.Matches(msg, keys.Pause):
			d.timer.toggle()
			return d, nil
		}
	}
	return d, nil
}

// pickerOptions lists the subjects followed by the uncategorized choice.
func (d dashboardModel) pickerOptions() []string {
	opts := make([]string, 0, len(d.subjects)+1)
	for _, s := range d.subjects {
		opts = append(opts, s.Name)
	}
	return append(opts, "")
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	opts := d.pickerOptions()
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(opts)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		d.picking = false
		return d.startTimer(opts[d.pickerCursor])
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) startTimer(category string) (dashboardModel, tea.Cmd) {
	fs, err := d.timer.start(category)
	if err != nil {
		return d, errStatus("Start timer", err)
	}
	return d, func() tea.Msg { return timerStartedMsg{session: fs} }
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	fs, err := d.timer.stop()
	if err != nil {
		return d, errStatus("Stop timer", err)
	}
	if fs == nil {
		return d, nil
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return timerStoppedMsg{session: fs} },
	)
}

func (d dashboardModel) subjectColor(category string) lipgloss.Color {
	for _, s := range d.subjects {
		if s.Name == category {
			return lipgloss.Color(s.Color)
		}
	}
	return colorMuted
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	summaryPanel := d.renderSummaryPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderCategoryPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, summaryPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		timeStr := formatDuration(d.timer.currentElapsed())

		var timeDisplay, indicator string
		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  PAUSED")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  FOCUSING")
		}

		category := models.NormalizeCategory(d.timer.category)
		dot := lipgloss.NewStyle().Foreground(d.subjectColor(d.timer.category)).Render("●")
		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			dot+" "+highlightStyle.Render(category),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s to start a focus session"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatMinutes(d.today.TotalMinutes))
	header := fmt.Sprintf("%s  %s", title, total)

	if len(d.today.Categories) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No focus sessions today"),
		))
	}

	rows := []string{header}
	for _, c := range d.today.Categories {
		dot := lipgloss.NewStyle().Foreground(d.subjectColor(c.Category)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-20s %8s  %3d%%",
			dot, truncate(c.Category, 20), formatMinutes(c.Minutes), c.Percentage))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recentSessions) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		))
	}

	rows := []string{title}
	for _, s := range d.recentSessions {
		mark := "✓"
		dur := formatMinutes(s.Duration)
		switch {
		case s.Running():
			mark = "●"
			dur = "running"
		case !s.Completed:
			mark = "✗"
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-6s %-18s %s",
			mark,
			s.StartTime.Local().Format("Jan 02 15:04"),
			s.Mode,
			truncate(models.NormalizeCategory(s.Category), 18),
			dur,
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderCategoryPicker(w int) string {
	rows := []string{titleStyle.Render("Select Subject")}
	for i, name := range d.pickerOptions() {
		label := name
		dot := lipgloss.NewStyle().Foreground(d.subjectColor(name)).Render("●")
		if name == "" {
			label = models.UncategorizedLabel
		}
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, dot, label)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
