package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

// taskFilter cycles all → open → done.
type taskFilter int

const (
	filterAll taskFilter = iota
	filterOpen
	filterDone
)

var taskFilterNames = []string{"All", "Open", "Done"}

type tasksModel struct {
	store  *store.Store
	owner  string
	width  int
	height int

	tasks    []models.Task
	subjects []string
	cursor   int
	filter   taskFilter
	search   string

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "search"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formPriority    *string
	formCategory    *string
	formDue         *string
	formSearch      *string
}

func newTasksModel(s *store.Store, owner string) tasksModel {
	title, desc, prio, cat, due, search := "", "", string(models.PriorityMedium), "", "", ""
	return tasksModel{
		store:           s,
		owner:           owner,
		formTitle:       &title,
		formDescription: &desc,
		formPriority:    &prio,
		formCategory:    &cat,
		formDue:         &due,
		formSearch:      &search,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type tasksDataMsg struct {
	tasks    []models.Task
	subjects []string
	err      error
}

func (t tasksModel) refresh() tea.Cmd {
	f := store.TaskFilter{Search: t.search}
	switch t.filter {
	case filterOpen:
		open := false
		f.Completed = &open
	case filterDone:
		done := true
		f.Completed = &done
	}
	return func() tea.Msg {
		tasks, err := t.store.FilterTasks(context.Background(), t.owner, f)
		if err != nil {
			return tasksDataMsg{err: err}
		}
		var names []string
		subjects, _ := t.store.ListSubjects(false)
		for _, s := range subjects {
			names = append(names, s.Name)
		}
		return tasksDataMsg{tasks: tasks, subjects: names}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		if msg.err != nil {
			return t, errStatus("Load tasks", msg.err)
		}
		t.tasks = msg.tasks
		t.subjects = msg.subjects
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(t.tasks) > 0 {
				if _, err := t.store.ToggleTask(t.tasks[t.cursor].ID); err != nil {
					return t, errStatus("Toggle task", err)
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.New):
			return t.showTaskForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(t.tasks) > 0 {
				task := t.tasks[t.cursor]
				return t.showTaskForm(&task)
			}
		case key.Matches(msg, keys.Delete):
			if len(t.tasks) > 0 {
				if err := t.store.DeleteTask(t.tasks[t.cursor].ID); err != nil {
					return t, errStatus("Delete task", err)
				}
				return t, tea.Batch(t.refresh(), status("Task deleted"))
			}
		case key.Matches(msg, keys.Filter):
			t.filter = (t.filter + 1) % taskFilter(len(taskFilterNames))
			t.cursor = 0
			return t, t.refresh()
		case key.Matches(msg, keys.Search):
			return t.showSearchForm()
		case key.Matches(msg, keys.Back):
			if t.search != "" {
				t.search = ""
				return t, t.refresh()
			}
		}
	}
	return t, nil
}

func validateDueDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := models.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (t tasksModel) showTaskForm(task *models.Task) (tasksModel, tea.Cmd) {
	*t.formTitle = ""
	*t.formDescription = ""
	*t.formPriority = string(models.PriorityMedium)
	*t.formCategory = ""
	*t.formDue = ""
	t.formType = "new"
	t.editingID = ""

	if task != nil {
		*t.formTitle = task.Title
		*t.formDescription = task.Description
		*t.formPriority = string(task.Priority)
		*t.formCategory = task.Category
		if task.DueDate != nil {
			*t.formDue = models.DateKey(*task.DueDate)
		}
		t.formType = "edit"
		t.editingID = task.ID
	}

	prioOptions := make([]huh.Option[string], len(models.Priorities))
	for i, p := range models.Priorities {
		prioOptions[i] = huh.NewOption(string(p), string(p))
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(t.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().Title("Description").Value(t.formDescription).Lines(3),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(t.formPriority),
			huh.NewInput().Title("Subject").Suggestions(t.subjects).Value(t.formCategory),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(t.formDue).Validate(validateDueDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) showSearchForm() (tasksModel, tea.Cmd) {
	*t.formSearch = t.search
	t.formType = "search"
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search title or description").Value(t.formSearch),
		),
	).WithShowHelp(true)
	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		if t.formType == "search" {
			t.search = strings.TrimSpace(*t.formSearch)
			t.cursor = 0
			return t, t.refresh()
		}
		return t, t.saveTask()
	}

	return t, cmd
}

func (t tasksModel) saveTask() tea.Cmd {
	task := models.Task{
		ID:          t.editingID,
		OwnerID:     t.owner,
		Title:       strings.TrimSpace(*t.formTitle),
		Description: *t.formDescription,
		Category:    strings.TrimSpace(*t.formCategory),
	}
	prio, err := models.ParsePriority(*t.formPriority)
	if err != nil {
		return errStatus("Save task", err)
	}
	task.Priority = prio
	if due := strings.TrimSpace(*t.formDue); due != "" {
		d, err := models.ParseDate(due)
		if err != nil {
			return errStatus("Save task", err)
		}
		task.DueDate = &d
	}

	if t.formType == "edit" {
		for _, existing := range t.tasks {
			if existing.ID == t.editingID {
				task.Completed = existing.Completed
			}
		}
		if err := t.store.UpdateTask(task); err != nil {
			return errStatus("Update task", err)
		}
		return tea.Batch(t.refresh(), status("Task updated"))
	}
	if _, err := t.store.CreateTask(task); err != nil {
		return errStatus("Create task", err)
	}
	return tea.Batch(t.refresh(), status("Task added"))
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		switch t.formType {
		case "edit":
			title = titleStyle.Render("Edit Task")
		case "search":
			title = titleStyle.Render("Search Tasks")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()),
		)
	}

	var tabs []string
	for i, name := range taskFilterNames {
		if taskFilter(i) == t.filter {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Tasks"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)
	if t.search != "" {
		header += mutedStyle.Render(fmt.Sprintf("  search: %q (esc clears)", t.search))
	}

	rows := []string{header, ""}
	if len(t.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks. Press n to add one."))
	}

	today := models.DateKey(time.Now())
	for i, task := range t.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if task.Completed {
			check = successStyle.Render("[✓]")
		}
		prio := priorityStyle(string(task.Priority)).Render(fmt.Sprintf("%-6s", task.Priority))
		line := fmt.Sprintf("%s%s %s %s", cursor, check, prio, style.Render(truncate(task.Title, 40)))
		if task.Category != "" {
			line += mutedStyle.Render(" [" + task.Category + "]")
		}
		if task.DueDate != nil {
			due := models.DateKey(*task.DueDate)
			dueStyle := mutedStyle
			if due < today && !task.Completed {
				dueStyle = errorStyle
			}
			line += dueStyle.Render(" due " + due)
		}
		rows = append(rows, line)
	}

	rows = append(rows, "", mutedStyle.Render("  n: new  e: edit  enter: toggle  d: delete  f: filter  /: search"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
