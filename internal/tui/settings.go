package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

var subjectColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings []store.Setting
	subjects []store.Subject
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "settings", "subject"

	// Form values as pointers (survive value copies)
	pomodoroWork      *string
	pomodoroBreak     *string
	pomodoroLongBreak *string
	pomodoroCount     *string
	idleTimeout       *string
	defaultRange      *string
	defaultCategory   *string
	subjectName       *string
	subjectColor      *string
}

func newSettingsModel(s *store.Store) settingsModel {
	pw, pb, plb, pc := "", "", "", ""
	it, dr, dc := "", "", ""
	name, color := "", subjectColors[0]
	return settingsModel{
		store:             s,
		pomodoroWork:      &pw,
		pomodoroBreak:     &pb,
		pomodoroLongBreak: &plb,
		pomodoroCount:     &pc,
		idleTimeout:       &it,
		defaultRange:      &dr,
		defaultCategory:   &dc,
		subjectName:       &name,
		subjectColor:      &color,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	subjects []store.Subject
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return settingsDataMsg{err: err}
		}
		subjects, err := s.store.ListSubjects(false)
		return settingsDataMsg{settings: settings, subjects: subjects, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errStatus("Load settings", msg.err)
		}
		s.settings = msg.settings
		s.subjects = msg.subjects
		if s.cursor >= len(s.subjects) {
			s.cursor = max(0, len(s.subjects)-1)
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		case key.Matches(msg, keys.New):
			return s.showSubjectForm()
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.subjects)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Delete):
			if len(s.subjects) > 0 {
				subj := s.subjects[s.cursor]
				if err := s.store.ArchiveSubject(subj.ID); err != nil {
					return s, errStatus("Archive subject", err)
				}
				return s, tea.Batch(s.refresh(), status("Archived "+subj.Name))
			}
		}
	}
	return s, nil
}

func validateWholeNumber(v string) error {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err != nil || n <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.pomodoroWork = secsToMin(s.getVal(store.SettingPomodoroWork, "1500"))
	*s.pomodoroBreak = secsToMin(s.getVal(store.SettingPomodoroBreak, "300"))
	*s.pomodoroLongBreak = secsToMin(s.getVal(store.SettingPomodoroLongBreak, "900"))
	*s.pomodoroCount = s.getVal(store.SettingPomodoroCount, "4")
	*s.idleTimeout = secsToMin(s.getVal(store.SettingIdleTimeout, "300"))
	*s.defaultRange = s.getVal(store.SettingDefaultRange, analytics.Weekly.String())
	*s.defaultCategory = s.getVal(store.SettingDefaultCategory, "")

	rangeOptions := make([]huh.Option[string], len(analytics.Ranges))
	for i, r := range analytics.Ranges {
		rangeOptions[i] = huh.NewOption(strings.ToUpper(r.String()[:1])+r.String()[1:], r.String())
	}
	var subjectNames []string
	for _, subj := range s.subjects {
		subjectNames = append(subjectNames, subj.Name)
	}

	s.formType = "settings"
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pomodoro work (min)").Value(s.pomodoroWork).Validate(validateWholeNumber),
			huh.NewInput().Title("Pomodoro break (min)").Value(s.pomodoroBreak).Validate(validateWholeNumber),
			huh.NewInput().Title("Long break (min)").Value(s.pomodoroLongBreak).Validate(validateWholeNumber),
			huh.NewInput().Title("Pomodoros before long break").Value(s.pomodoroCount).Validate(validateWholeNumber),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewInput().Title("Idle timeout (min)").Value(s.idleTimeout).Validate(validateWholeNumber),
			huh.NewSelect[string]().Title("Default analytics range").
				Options(rangeOptions...).
				Value(s.defaultRange),
			huh.NewInput().Title("Default subject").Suggestions(subjectNames).Value(s.defaultCategory),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showSubjectForm() (settingsModel, tea.Cmd) {
	*s.subjectName = ""
	*s.subjectColor = subjectColors[len(s.subjects)%len(subjectColors)]

	colorOptions := make([]huh.Option[string], len(subjectColors))
	for i, c := range subjectColors {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions[i] = huh.NewOption(swatch+" "+c, c)
	}

	s.formType = "subject"
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subject name").Value(s.subjectName).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(s.subjectColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if s.formType == "subject" {
			name := strings.TrimSpace(*s.subjectName)
			if _, err := s.store.CreateSubject(name, *s.subjectColor); err != nil {
				return s, errStatus("Add subject", err)
			}
			return s, tea.Batch(s.refresh(), status("Added subject "+name))
		}
		if err := s.saveSettings(); err != nil {
			return s, errStatus("Save settings", err)
		}
		return s, tea.Batch(s.refresh(), status("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	return s.store.SetSettings([]store.Setting{
		{Key: store.SettingPomodoroWork, Value: minToSecs(*s.pomodoroWork)},
		{Key: store.SettingPomodoroBreak, Value: minToSecs(*s.pomodoroBreak)},
		{Key: store.SettingPomodoroLongBreak, Value: minToSecs(*s.pomodoroLongBreak)},
		{Key: store.SettingPomodoroCount, Value: strings.TrimSpace(*s.pomodoroCount)},
		{Key: store.SettingIdleTimeout, Value: minToSecs(*s.idleTimeout)},
		{Key: store.SettingDefaultRange, Value: *s.defaultRange},
		{Key: store.SettingDefaultCategory, Value: strings.TrimSpace(*s.defaultCategory)},
	})
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType == "subject" {
			title = titleStyle.Render("New Subject")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"), "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "", titleStyle.Render("Subjects"), "")
	if len(s.subjects) == 0 {
		rows = append(rows, mutedStyle.Render("  No subjects yet"))
	}
	for i, subj := range s.subjects {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(subj.Color)).Render("●")
		rows = append(rows, cursor+dot+" "+style.Render(subj.Name))
	}

	rows = append(rows, "", mutedStyle.Render("enter: edit settings  n: new subject  d: archive subject"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingPomodoroWork, store.SettingPomodoroBreak, store.SettingPomodoroLongBreak, store.SettingIdleTimeout:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case store.SettingDefaultCategory:
		if v == "" {
			return "(none)"
		}
	}
	return v
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}
