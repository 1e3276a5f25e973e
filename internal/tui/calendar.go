package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

const eventsPerCell = 2

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type calendarModel struct {
	store  *store.Store
	owner  string
	width  int
	height int

	month    time.Time // first of the displayed month
	selected time.Time // start of the highlighted day
	grid     []analytics.CalendarDay

	formActive bool
	form       *huh.Form
	formType   string // "new", "delete"

	formTitle       *string
	formDescription *string
	formStart       *string
	formEnd         *string
	formAllDay      *bool
	formCategory    *string
	formDeleteID    *string
}

func newCalendarModel(s *store.Store, owner string, now time.Time) calendarModel {
	title, desc, start, end, cat, del := "", "", "", "", "", ""
	allDay := true
	today := analytics.StartOfDay(now)
	return calendarModel{
		store:           s,
		owner:           owner,
		month:           analytics.FirstOfMonth(today),
		selected:        today,
		formTitle:       &title,
		formDescription: &desc,
		formStart:       &start,
		formEnd:         &end,
		formAllDay:      &allDay,
		formCategory:    &cat,
		formDeleteID:    &del,
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	month time.Time
	grid  []analytics.CalendarDay
	err   error
}

func (c calendarModel) refresh() tea.Cmd {
	month := c.month
	return func() tea.Msg {
		grid, err := report.Month(context.Background(), c.store, c.owner, month)
		return calendarDataMsg{month: month, grid: grid, err: err}
	}
}

// selectedDay returns the grid cell for the highlighted date, if visible.
func (c calendarModel) selectedDay() (analytics.CalendarDay, bool) {
	dk := models.DateKey(c.selected)
	for _, d := range c.grid {
		if models.DateKey(d.Date) == dk {
			return d, true
		}
	}
	return analytics.CalendarDay{}, false
}

// moveSelection shifts the highlighted day, following it into the next or
// previous month when needed.
func (c calendarModel) moveSelection(days int) (calendarModel, tea.Cmd) {
	c.selected = analytics.AddDays(c.selected, days)
	if first := analytics.FirstOfMonth(c.selected); !first.Equal(c.month) {
		c.month = first
		c.grid = nil
		return c, c.refresh()
	}
	return c, nil
}

func (c calendarModel) shiftMonth(delta int) (calendarModel, tea.Cmd) {
	c.month = analytics.ShiftMonth(c.month, delta)
	c.grid = nil
	day := min(c.selected.Day(), analytics.DaysInMonth(c.month))
	c.selected = analytics.DayStart(c.month.Year(), c.month.Month(), day, c.month.Location())
	return c, c.refresh()
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case calendarDataMsg:
		if !msg.month.Equal(c.month) {
			return c, nil
		}
		if msg.err != nil {
			c.grid = nil
			return c, errStatus("Load calendar", msg.err)
		}
		c.grid = msg.grid
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return c.moveSelection(-1)
		case key.Matches(msg, keys.Right):
			return c.moveSelection(1)
		case key.Matches(msg, keys.Up):
			return c.moveSelection(-7)
		case key.Matches(msg, keys.Down):
			return c.moveSelection(7)
		case key.Matches(msg, keys.PrevMonth):
			return c.shiftMonth(-1)
		case key.Matches(msg, keys.NextMonth):
			return c.shiftMonth(1)
		case key.Matches(msg, keys.Today):
			now := time.Now()
			c.selected = analytics.StartOfDay(now)
			c.month = analytics.FirstOfMonth(c.selected)
			return c, c.refresh()
		case key.Matches(msg, keys.New):
			return c.showEventForm()
		case key.Matches(msg, keys.Delete):
			return c.showDeleteForm()
		}
	}
	return c, nil
}

func validateDate(s string) error {
	if _, err := models.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (c calendarModel) showEventForm() (calendarModel, tea.Cmd) {
	day := models.DateKey(c.selected)
	*c.formTitle = ""
	*c.formDescription = ""
	*c.formStart = day
	*c.formEnd = day
	*c.formAllDay = true
	*c.formCategory = ""
	c.formType = "new"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(c.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().Title("Description").Value(c.formDescription),
			huh.NewInput().Title("Start date").Value(c.formStart).Validate(validateDate),
			huh.NewInput().Title("End date").Value(c.formEnd).Validate(validateDate),
			huh.NewConfirm().Title("All day?").Value(c.formAllDay),
			huh.NewInput().Title("Category").Value(c.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) showDeleteForm() (calendarModel, tea.Cmd) {
	day, ok := c.selectedDay()
	if !ok || len(day.Events) == 0 {
		return c, status("No events on " + models.DateKey(c.selected))
	}

	options := make([]huh.Option[string], len(day.Events))
	for i, e := range day.Events {
		options[i] = huh.NewOption(e.Title, e.ID)
	}
	*c.formDeleteID = day.Events[0].ID
	c.formType = "delete"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Delete event").
				Options(options...).
				Value(c.formDeleteID),
		),
	).WithShowHelp(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) updateForm(msg tea.Msg) (calendarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		if c.formType == "delete" {
			if err := c.store.DeleteEvent(*c.formDeleteID); err != nil {
				return c, errStatus("Delete event", err)
			}
			return c, tea.Batch(c.refresh(), status("Event deleted"))
		}
		return c, c.saveEvent()
	}

	return c, cmd
}

func (c calendarModel) saveEvent() tea.Cmd {
	start, err := models.ParseDate(strings.TrimSpace(*c.formStart))
	if err != nil {
		return errStatus("Add event", err)
	}
	end, err := models.ParseDate(strings.TrimSpace(*c.formEnd))
	if err != nil {
		return errStatus("Add event", err)
	}
	_, err = c.store.CreateEvent(models.CalendarEvent{
		OwnerID:     c.owner,
		Title:       strings.TrimSpace(*c.formTitle),
		Description: *c.formDescription,
		StartDate:   start,
		EndDate:     end,
		AllDay:      *c.formAllDay,
		Category:    strings.TrimSpace(*c.formCategory),
	})
	if errors.Is(err, store.ErrInvalidEvent) {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	if err != nil {
		return errStatus("Add event", err)
	}
	return tea.Batch(c.refresh(), status("Event added"))
}

func (c calendarModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Event")
		if c.formType == "delete" {
			title = titleStyle.Render("Delete Event on " + models.DateKey(c.selected))
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	cellW := max(8, (w-6)/7)
	cell := func(s lipgloss.Style) lipgloss.Style { return s.Width(cellW).MaxWidth(cellW) }

	header := titleStyle.Render(c.month.Format("January 2006"))

	var heads []string
	for _, h := range weekdayHeaders {
		heads = append(heads, cell(mutedStyle).Render(h))
	}
	rows := []string{header, "", lipgloss.JoinHorizontal(lipgloss.Top, heads...)}
	if len(c.grid) == 0 {
		rows = append(rows, "", mutedStyle.Render("  Loading..."))
	}

	todayKey := models.DateKey(time.Now())
	selectedKey := models.DateKey(c.selected)
	for week := 0; week+7 <= len(c.grid); week += 7 {
		var cells []string
		for _, day := range c.grid[week : week+7] {
			cells = append(cells, c.renderCell(day, cellW, todayKey, selectedKey))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "", c.renderAgenda(w))
	rows = append(rows, "", mutedStyle.Render("  ←/→/↑/↓: move  [/]: month  t: today  n: new event  d: delete event"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c calendarModel) renderCell(day analytics.CalendarDay, width int, todayKey, selectedKey string) string {
	dk := models.DateKey(day.Date)
	numStyle := calendarCellStyle
	switch {
	case dk == selectedKey:
		numStyle = calendarSelectedStyle
	case dk == todayKey:
		numStyle = calendarTodayStyle
	case !day.InCurrentMonth:
		numStyle = calendarOutsideStyle
	}

	lines := []string{numStyle.Render(fmt.Sprintf("%2d", day.Date.Day()))}
	visible, more := day.Visible(eventsPerCell)
	for _, e := range visible {
		lines = append(lines, calendarEventStyle.Render(truncate(e.Title, width-1)))
	}
	if more > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", more)))
	}
	for len(lines) < eventsPerCell+2 {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (c calendarModel) renderAgenda(w int) string {
	title := titleStyle.Render(c.selected.Format("Monday, January 2"))
	day, ok := c.selectedDay()
	if !ok || len(day.Events) == 0 {
		return title + "\n" + mutedStyle.Render("  No events")
	}
	lines := []string{title}
	for _, e := range day.Events {
		start, end := e.Span()
		span := models.DateKey(start)
		if !start.Equal(end) {
			span += " → " + models.DateKey(end)
		}
		line := "  " + highlightStyle.Render(truncate(e.Title, w/2)) + mutedStyle.Render("  "+span)
		if e.Category != "" {
			line += mutedStyle.Render(" [" + e.Category + "]")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
