package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/export"
	"github.com/MIkhsanPasaribu/studyhub/internal/notify"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	owner  string
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	dashboard dashboardModel
	tasks     tasksModel
	calendar  calendarModel
	analytics analyticsModel
	pomodoro  pomodoroModel
	settings  settingsModel
	notes     notesModel

	help   help.Model
	status string
}

// NewApp builds the TUI for owner's records in s. A nil notifier disables
// desktop notifications.
func NewApp(s *store.Store, owner string, n notify.Notifier) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		owner:      owner,
		activeView: viewDashboard,
		exportDir:  defaultExportDir(),
		dashboard:  newDashboardModel(s, owner),
		tasks:      newTasksModel(s, owner),
		calendar:   newCalendarModel(s, owner, time.Now()),
		analytics:  newAnalyticsModel(s, owner),
		pomodoro:   newPomodoroModel(s, owner, n),
		settings:   newSettingsModel(s),
		notes:      newNotesModel(s, owner),
		help:       h,
	}
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "studyhub-exports")
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewCalendar)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewAnalytics)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewPomodoro)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab7):
			return a.switchView(viewNotes)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Always route ticks to dashboard timer
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		// Also route to pomodoro
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case sessionRecordedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		cmds = append(cmds, cmd)
		a.analytics, cmd = a.analytics.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.status = "✗ " + msg.text
		}
		return a, nil

	case timerStoppedMsg:
		a.status = "Timer stopped"
		if msg.session != nil {
			a.status += " · " + formatMinutes(msg.session.Duration)
		}
		return a, a.analytics.refresh()

	case timerStartedMsg:
		a.status = "Timer started"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + strings.Join(msg.paths, ", ")
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	if v == viewPomodoro && !a.pomodoro.active() {
		a.pomodoro.loadSettings()
	}
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewAnalytics:
		a.analytics, cmd = a.analytics.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.picking
	case viewTasks:
		return a.tasks.formActive
	case viewCalendar:
		return a.calendar.formActive
	case viewSettings:
		return a.settings.formActive
	case viewNotes:
		return a.notes.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewTasks:
		return a.tasks.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewAnalytics:
		return a.analytics.refresh()
	case viewSettings:
		return a.settings.refresh()
	case viewNotes:
		return a.notes.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTasks:
		content = a.tasks.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewAnalytics:
		content = a.analytics.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewSettings:
		content = a.settings.view()
	case viewNotes:
		content = a.notes.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studyhub")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	if a.dashboard.isRunning() {
		elapsed := a.dashboard.elapsed()
		timerInfo = successStyle.Render(" ● " + formatDuration(elapsed))
		if a.dashboard.isPaused() {
			timerInfo = warningStyle.Render(" ⏸ " + formatDuration(elapsed))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export "+a.analytics.rng.String()+" report"), "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  files go to "+a.exportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the report shown in the analytics view, building a fresh
// one when the view has not loaded yet.
func (a App) doExport(format string) tea.Cmd {
	rep := a.analytics.report
	rng := a.analytics.rng
	return func() tea.Msg {
		if rep == nil || rep.Range != rng {
			var err error
			rep, err = report.Build(context.Background(), a.store, a.owner, rng, time.Now())
			if err != nil {
				return errStatus("Export", err)()
			}
		}
		paths, err := export.Write(rep, format, a.exportDir)
		if err != nil {
			return errStatus("Export", err)()
		}
		return exportDoneMsg{paths: paths}
	}
}
