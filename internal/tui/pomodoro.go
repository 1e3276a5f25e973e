package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/notify"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroWork
	pomodoroShortBreak
	pomodoroLongBreak
	pomodoroCompleted
)

// pomodoroMode is a work/break preset. Custom reads its lengths from settings.
type pomodoroMode struct {
	name         string
	work         time.Duration
	brk          time.Duration
	fromSettings bool
}

var pomodoroModes = []pomodoroMode{
	{name: "Default", work: 25 * time.Minute, brk: 5 * time.Minute},
	{name: "Long", work: 45 * time.Minute, brk: 15 * time.Minute},
	{name: "Custom", fromSettings: true},
}

type pomodoroModel struct {
	store    *store.Store
	owner    string
	notifier notify.Notifier
	width    int
	height   int

	mode           int
	phase          pomodoroPhase
	completedCount int
	targetCount    int
	notifications  bool

	// Countdown state
	remaining  time.Duration
	phaseEnd   time.Time
	phaseStart time.Time
	paused     bool

	// Durations for the active mode
	workDuration      time.Duration
	breakDuration     time.Duration
	longBreakDuration time.Duration
	category          string
}

func newPomodoroModel(s *store.Store, owner string, n notify.Notifier) pomodoroModel {
	if n == nil {
		n = notify.Discard{}
	}
	m := pomodoroModel{
		store:         s,
		owner:         owner,
		notifier:      n,
		phase:         pomodoroIdle,
		targetCount:   4,
		notifications: true,
	}
	m.loadSettings()
	return m
}

func (p *pomodoroModel) loadSettings() {
	mode := pomodoroModes[p.mode]
	p.workDuration = mode.work
	p.breakDuration = mode.brk
	if mode.fromSettings {
		p.workDuration = p.settingDuration(store.SettingPomodoroWork, 25*time.Minute)
		p.breakDuration = p.settingDuration(store.SettingPomodoroBreak, 5*time.Minute)
	}
	p.longBreakDuration = p.settingDuration(store.SettingPomodoroLongBreak, 15*time.Minute)
	p.targetCount = max(1, p.store.GetSettingInt(store.SettingPomodoroCount, 4))
	p.category, _ = p.store.GetSetting(store.SettingDefaultCategory)
}

func (p *pomodoroModel) settingDuration(key string, fallback time.Duration) time.Duration {
	secs := p.store.GetSettingInt(key, int(fallback/time.Second))
	if secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) active() bool {
	return p.phase == pomodoroWork || p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if p.active() && !p.paused {
			p.remaining = time.Until(p.phaseEnd)
			if p.remaining <= 0 {
				return p.advancePhase(time.Time(msg))
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.phase == pomodoroIdle || p.phase == pomodoroCompleted {
				return p.startSession()
			}
		case key.Matches(msg, keys.Stop):
			if p.phase != pomodoroIdle {
				return p.cancelSession(time.Now())
			}
		case key.Matches(msg, keys.Pause):
			switch p.phase {
			case pomodoroWork:
				p = p.togglePause()
			case pomodoroShortBreak:
				return p.startWorkPhase(), status("Break skipped")
			case pomodoroLongBreak:
				p.phase = pomodoroCompleted
				p.remaining = 0
				return p, status("Pomodoro session complete!")
			}
		case key.Matches(msg, keys.Mode):
			if p.phase == pomodoroIdle || p.phase == pomodoroCompleted {
				p.mode = (p.mode + 1) % len(pomodoroModes)
				p.loadSettings()
				return p, status("Pomodoro mode: " + pomodoroModes[p.mode].name)
			}
		case key.Matches(msg, keys.Notify):
			p.notifications = !p.notifications
			if p.notifications {
				return p, status("Notifications on")
			}
			return p, status("Notifications off")
		}
	}
	return p, nil
}

func (p pomodoroModel) togglePause() pomodoroModel {
	if p.paused {
		p.phaseEnd = time.Now().Add(p.remaining)
		p.paused = false
		return p
	}
	p.remaining = time.Until(p.phaseEnd)
	p.paused = true
	return p
}

func (p pomodoroModel) startSession() (pomodoroModel, tea.Cmd) {
	p.completedCount = 0
	p.loadSettings()
	return p.startWorkPhase(), nil
}

func (p pomodoroModel) startWorkPhase() pomodoroModel {
	return p.startPhase(pomodoroWork, p.workDuration)
}

func (p pomodoroModel) startPhase(phase pomodoroPhase, d time.Duration) pomodoroModel {
	now := time.Now()
	p.phase = phase
	p.paused = false
	p.remaining = d
	p.phaseStart = now
	p.phaseEnd = now.Add(d)
	return p
}

func (p pomodoroModel) phaseDuration() time.Duration {
	switch p.phase {
	case pomodoroWork:
		return p.workDuration
	case pomodoroShortBreak:
		return p.breakDuration
	case pomodoroLongBreak:
		return p.longBreakDuration
	}
	return 0
}

// record saves the phase that just ended as a focus session.
func (p pomodoroModel) record(end time.Time, minutes int, completed bool) tea.Cmd {
	mode := models.ModeWork
	if p.phase != pomodoroWork {
		mode = models.ModeBreak
	}
	_, err := p.store.RecordSession(models.FocusSession{
		OwnerID:   p.owner,
		StartTime: p.phaseStart,
		EndTime:   end,
		Duration:  minutes,
		Mode:      mode,
		Completed: completed,
		Category:  p.category,
	})
	if err != nil {
		return errStatus("Record pomodoro", err)
	}
	logger.Debug("Recorded pomodoro phase", "mode", mode, "minutes", minutes, "completed", completed)
	return func() tea.Msg { return sessionRecordedMsg{} }
}

func (p pomodoroModel) notify(title, message string) {
	if p.notifications {
		p.notifier.Notify(title, message)
	}
}

func (p pomodoroModel) advancePhase(now time.Time) (pomodoroModel, tea.Cmd) {
	recorded := p.record(now, int(p.phaseDuration()/time.Minute), true)

	switch p.phase {
	case pomodoroWork:
		p.completedCount++
		p.notify("Break time!", fmt.Sprintf("You focused for %d minutes.", int(p.workDuration/time.Minute)))

		// The last pomodoro of a round earns the long break
		if p.completedCount >= p.targetCount {
			p = p.startPhase(pomodoroLongBreak, p.longBreakDuration)
			return p, tea.Batch(recorded, status("Long break time!"))
		}
		p = p.startPhase(pomodoroShortBreak, p.breakDuration)
		return p, tea.Batch(recorded, status("Break time!"))

	case pomodoroShortBreak:
		p.notify("Focus time!", fmt.Sprintf("%d minute break is over.", int(p.breakDuration/time.Minute)))
		return p.startWorkPhase(), tea.Batch(recorded, status("Back to work"))

	case pomodoroLongBreak:
		p.notify("Round complete!", fmt.Sprintf("%d pomodoros done.", p.completedCount))
		p.phase = pomodoroCompleted
		p.remaining = 0
		return p, tea.Batch(recorded, status("Pomodoro session complete!"))
	}
	return p, nil
}

func (p pomodoroModel) cancelSession(now time.Time) (pomodoroModel, tea.Cmd) {
	var recorded tea.Cmd
	if p.phase == pomodoroWork {
		remaining := p.remaining
		if !p.paused {
			remaining = p.phaseEnd.Sub(now)
		}
		if elapsed := int((p.workDuration - remaining) / time.Minute); elapsed >= 1 {
			recorded = p.record(now, elapsed, false)
		}
	}
	p.phase = pomodoroIdle
	p.paused = false
	p.remaining = 0
	return p, tea.Batch(recorded, status("Pomodoro cancelled"))
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	var tabs []string
	for i, m := range pomodoroModes {
		if i == p.mode {
			tabs = append(tabs, activeTabStyle.Render(m.name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.name))
		}
	}
	title := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Pomodoro Timer"),
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	// Big countdown display
	var timeDisplay string
	var phaseLabel string
	var indicator string

	big := func(s lipgloss.Style, text string) string {
		return s.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(text)
	}

	switch p.phase {
	case pomodoroIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatPomodoroTime(p.workDuration))
		phaseLabel = mutedStyle.Render(fmt.Sprintf("%s · %dm work / %dm break",
			pomodoroModes[p.mode].name, int(p.workDuration/time.Minute), int(p.breakDuration/time.Minute)))
		indicator = mutedStyle.Render("Press s to begin")
	case pomodoroWork:
		timeDisplay = big(accentStyle, formatPomodoroTime(p.remaining))
		phaseLabel = accentStyle.Bold(true).Render("WORK")
		if p.paused {
			phaseLabel = warningStyle.Bold(true).Render("WORK (PAUSED)")
		}
		indicator = p.renderProgress()
	case pomodoroShortBreak:
		timeDisplay = big(successStyle, formatPomodoroTime(p.remaining))
		phaseLabel = successStyle.Bold(true).Render("SHORT BREAK")
		indicator = p.renderProgress()
	case pomodoroLongBreak:
		timeDisplay = big(highlightStyle, formatPomodoroTime(p.remaining))
		phaseLabel = highlightStyle.Bold(true).Render("LONG BREAK")
		indicator = p.renderProgress()
	case pomodoroCompleted:
		timeDisplay = big(successStyle, "Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
		indicator = p.renderProgress()
	}

	bell := mutedStyle.Render("notifications off")
	if p.notifications {
		bell = successStyle.Render("notifications on")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
		bell,
	)

	// Controls
	var controls string
	switch p.phase {
	case pomodoroIdle, pomodoroCompleted:
		controls = mutedStyle.Render("s: start  m: mode  b: notifications  q: quit")
	case pomodoroWork:
		controls = mutedStyle.Render("space: pause/resume  x: cancel  b: notifications")
	case pomodoroShortBreak, pomodoroLongBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel  b: notifications")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderProgress() string {
	var parts []string
	for i := 0; i < p.targetCount; i++ {
		if i < p.completedCount {
			parts = append(parts, successStyle.Render("●"))
		} else if i == p.completedCount && p.phase == pomodoroWork {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", p.completedCount, p.targetCount))
	return progress + counter
}

func formatPomodoroTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
