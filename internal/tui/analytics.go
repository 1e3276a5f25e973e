package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

type analyticsModel struct {
	store  *store.Store
	source store.Source
	owner  string
	width  int
	height int

	rng      analytics.Range
	report   *report.Report
	subjects []store.Subject

	chart barchart.Model
}

func newAnalyticsModel(s *store.Store, owner string) analyticsModel {
	rng := analytics.Weekly
	if v, err := s.GetSetting(store.SettingDefaultRange); err == nil {
		if r, err := analytics.ParseRange(v); err == nil {
			rng = r
		}
	}
	return analyticsModel{
		store:  s,
		source: s,
		owner:  owner,
		rng:    rng,
		chart:  barchart.New(60, 12),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.buildChart()
}

type analyticsDataMsg struct {
	rng      analytics.Range
	report   *report.Report
	subjects []store.Subject
	err      error
}

func (a analyticsModel) refresh() tea.Cmd {
	rng := a.rng
	return func() tea.Msg {
		rep, err := report.Build(context.Background(), a.source, a.owner, rng, time.Now())
		if err != nil {
			return analyticsDataMsg{rng: rng, err: err}
		}
		subjects, _ := a.store.ListSubjects(true)
		return analyticsDataMsg{rng: rng, report: rep, subjects: subjects}
	}
}

func (a analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		if msg.rng != a.rng {
			return a, nil
		}
		if msg.err != nil {
			a.report = nil
			a.buildChart()
			return a, errStatus("Build analytics", msg.err)
		}
		a.report = msg.report
		a.subjects = msg.subjects
		a.buildChart()
		return a, nil

	case sessionRecordedMsg:
		return a, a.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return a.selectRange(analytics.Ranges[(int(a.rng)+len(analytics.Ranges)-1)%len(analytics.Ranges)])
		case key.Matches(msg, keys.Right):
			return a.selectRange(analytics.Ranges[(int(a.rng)+1)%len(analytics.Ranges)])
		}
	}
	return a, nil
}

// selectRange switches to r and clears the previous range's figures until
// the new report arrives.
func (a analyticsModel) selectRange(r analytics.Range) (analyticsModel, tea.Cmd) {
	a.rng = r
	a.report = nil
	a.buildChart()
	return a, a.refresh()
}

func (a analyticsModel) subjectColor(category string) lipgloss.Color {
	for _, s := range a.subjects {
		if s.Name == category {
			return lipgloss.Color(s.Color)
		}
	}
	return colorMuted
}

// buildChart draws one stacked bar per day: completed tasks over the
// remaining open tasks created that day.
func (a *analyticsModel) buildChart() {
	chartWidth := max(20, a.width-8)
	chartHeight := 10
	if a.height > 34 {
		chartHeight = 14
	}

	a.chart = barchart.New(chartWidth, chartHeight)
	if a.report == nil {
		return
	}

	doneStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	openStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	days := a.report.Completion.Days
	label := "Mon"
	if len(days) > 8 {
		label = "02"
	}

	var bars []barchart.BarData
	for _, d := range days {
		values := []barchart.BarValue{
			{Name: "Completed", Value: float64(d.Completed), Style: doneStyle},
			{Name: "Open", Value: float64(d.Total - d.Completed), Style: openStyle},
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Date.Format(label),
			Values: values,
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyticsModel) view() string {
	w := a.width - 4

	var tabs []string
	for _, r := range analytics.Ranges {
		name := strings.ToUpper(r.String()[:1]) + r.String()[1:]
		if r == a.rng {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Analytics"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	if a.report == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("  Loading...")),
		)
	}

	rep := a.report
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s → %s",
		rep.Window.Start.Format("Jan 02"), rep.Window.End.Format("Jan 02, 2006")))

	stat := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(label),
			highlightStyle.Bold(true).Render(value),
		)
	}
	scalars := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total focus", formatMinutes(rep.Summary.TotalMinutes)), "    ",
		stat("Daily average", formatMinutes(rep.Summary.AverageDailyMinutes)), "    ",
		stat("Busiest day", rep.Summary.BusiestDayLabel()), "    ",
		stat("Tasks completed", fmt.Sprintf("%d%%", rep.Completion.CompletionRate)),
	)

	legend := "  " + successStyle.Render("■") + " completed  " + lipgloss.NewStyle().Foreground(colorSubtle).Render("■") + " open"

	nav := mutedStyle.Render("  ←/→: switch range  E: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header+"  "+dateLabel, "",
			scalars, "",
			titleStyle.Render("Focus by subject"),
			a.renderCategories(w), "",
			titleStyle.Render("Task completion"),
			a.chart.View(),
			legend, "",
			nav,
		),
	)
}

func (a analyticsModel) renderCategories(w int) string {
	shares := a.report.Summary.Categories
	if len(shares) == 0 {
		return mutedStyle.Render("  No focus sessions in this range")
	}

	barWidth := max(10, min(40, w-40))
	var rows []string
	for _, c := range shares {
		filled := c.Percentage * barWidth / 100
		color := lipgloss.NewStyle().Foreground(a.subjectColor(c.Category))
		bar := color.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		rows = append(rows, fmt.Sprintf("  %-16s %s %3d%%  %s",
			truncate(c.Category, 16), bar, c.Percentage, mutedStyle.Render(formatMinutes(c.Minutes))))
	}
	return strings.Join(rows, "\n")
}
