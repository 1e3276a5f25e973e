package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

type notesModel struct {
	store  *store.Store
	owner  string
	width  int
	height int

	notes      []models.Note
	categories []string
	cursor     int
	category   string // "" shows every category
	search     string
	reading    bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "search"
	editingID  string

	formTitle    *string
	formContent  *string
	formCategory *string
	formTags     *string
	formSearch   *string
}

func newNotesModel(s *store.Store, owner string) notesModel {
	title, content, cat, tags, search := "", "", "", "", ""
	return notesModel{
		store:        s,
		owner:        owner,
		formTitle:    &title,
		formContent:  &content,
		formCategory: &cat,
		formTags:     &tags,
		formSearch:   &search,
	}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

type notesDataMsg struct {
	notes      []models.Note
	categories []string
	err        error
}

func (n notesModel) refresh() tea.Cmd {
	f := store.NoteFilter{Search: n.search, Category: n.category}
	return func() tea.Msg {
		ctx := context.Background()
		notes, err := n.store.ListNotes(ctx, n.owner, f)
		if err != nil {
			return notesDataMsg{err: err}
		}
		categories, err := n.store.NoteCategories(ctx, n.owner)
		if err != nil {
			return notesDataMsg{err: err}
		}
		return notesDataMsg{notes: notes, categories: categories}
	}
}

func (n notesModel) selected() *models.Note {
	if n.cursor < 0 || n.cursor >= len(n.notes) {
		return nil
	}
	return &n.notes[n.cursor]
}

// nextCategory cycles "" → each known category → "".
func (n notesModel) nextCategory() string {
	if len(n.categories) == 0 {
		return ""
	}
	if n.category == "" {
		return n.categories[0]
	}
	for i, c := range n.categories {
		if c == n.category && i+1 < len(n.categories) {
			return n.categories[i+1]
		}
	}
	return ""
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.formActive && n.form != nil {
		return n.updateForm(msg)
	}

	switch msg := msg.(type) {
	case notesDataMsg:
		if msg.err != nil {
			return n, errStatus("Load notes", msg.err)
		}
		n.notes = msg.notes
		n.categories = msg.categories
		if n.cursor >= len(n.notes) {
			n.cursor = max(0, len(n.notes)-1)
		}
		if len(n.notes) == 0 {
			n.reading = false
		}
		return n, nil

	case tea.KeyMsg:
		if n.reading {
			switch {
			case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
				n.reading = false
			case key.Matches(msg, keys.Edit):
				if note := n.selected(); note != nil {
					n.reading = false
					return n.showNoteForm(note)
				}
			}
			return n, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.notes)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if n.selected() != nil {
				n.reading = true
			}
		case key.Matches(msg, keys.New):
			return n.showNoteForm(nil)
		case key.Matches(msg, keys.Edit):
			if note := n.selected(); note != nil {
				return n.showNoteForm(note)
			}
		case key.Matches(msg, keys.Delete):
			if note := n.selected(); note != nil {
				if err := n.store.DeleteNote(note.ID); err != nil {
					return n, errStatus("Delete note", err)
				}
				return n, tea.Batch(n.refresh(), status("Note deleted"))
			}
		case key.Matches(msg, keys.Filter):
			n.category = n.nextCategory()
			n.cursor = 0
			return n, n.refresh()
		case key.Matches(msg, keys.Search):
			return n.showSearchForm()
		case key.Matches(msg, keys.Back):
			if n.search != "" {
				n.search = ""
				return n, n.refresh()
			}
		}
	}
	return n, nil
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func (n notesModel) showNoteForm(note *models.Note) (notesModel, tea.Cmd) {
	*n.formTitle = ""
	*n.formContent = ""
	*n.formCategory = n.category
	*n.formTags = ""
	n.formType = "new"
	n.editingID = ""

	if note != nil {
		*n.formTitle = note.Title
		*n.formContent = note.Content
		*n.formCategory = note.Category
		*n.formTags = strings.Join(note.Tags, ", ")
		n.formType = "edit"
		n.editingID = note.ID
	}

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(n.formTitle).Validate(requiredField("title")),
			huh.NewText().Title("Content").Value(n.formContent).Lines(8).Validate(requiredField("content")),
			huh.NewInput().Title("Category").Suggestions(n.categories).Value(n.formCategory),
			huh.NewInput().Title("Tags (comma separated)").Value(n.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) showSearchForm() (notesModel, tea.Cmd) {
	*n.formSearch = n.search
	n.formType = "search"
	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search title or content").Value(n.formSearch),
		),
	).WithShowHelp(true)
	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	if n.form.State == huh.StateCompleted {
		n.formActive = false
		if n.formType == "search" {
			n.search = strings.TrimSpace(*n.formSearch)
			n.cursor = 0
			return n, n.refresh()
		}
		return n, n.saveNote()
	}

	return n, cmd
}

func (n notesModel) saveNote() tea.Cmd {
	note := models.Note{
		ID:       n.editingID,
		OwnerID:  n.owner,
		Title:    *n.formTitle,
		Content:  *n.formContent,
		Category: *n.formCategory,
		Tags:     models.ParseTags(*n.formTags),
	}
	if n.formType == "edit" {
		if err := n.store.UpdateNote(note); err != nil {
			return errStatus("Update note", err)
		}
		return tea.Batch(n.refresh(), status("Note updated"))
	}
	if _, err := n.store.CreateNote(note); err != nil {
		return errStatus("Create note", err)
	}
	return tea.Batch(n.refresh(), status("Note added"))
}

func renderTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return strings.Join(parts, " ")
}

func (n notesModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		title := titleStyle.Render("New Note")
		switch n.formType {
		case "edit":
			title = titleStyle.Render("Edit Note")
		case "search":
			title = titleStyle.Render("Search Notes")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", n.form.View()),
		)
	}

	if note := n.selected(); n.reading && note != nil {
		return n.readView(*note, w)
	}

	filter := "All"
	if n.category != "" {
		filter = n.category
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Notes"), "  ", activeTabStyle.Render(filter),
	)
	if n.search != "" {
		header += mutedStyle.Render(fmt.Sprintf("  search: %q (esc clears)", n.search))
	}

	rows := []string{header, ""}
	if len(n.notes) == 0 {
		rows = append(rows, mutedStyle.Render("No notes. Press n to write one."))
	}

	for i, note := range n.notes {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := cursor + style.Render(truncate(note.Title, 40))
		if note.Category != "" {
			line += mutedStyle.Render(" [" + note.Category + "]")
		}
		if len(note.Tags) > 0 {
			line += " " + accentStyle.Render(renderTags(note.Tags))
		}
		line += mutedStyle.Render(" · " + note.UpdatedAt.Local().Format("Jan 2 15:04"))
		rows = append(rows, line)
	}

	rows = append(rows, "", mutedStyle.Render("  n: new  e: edit  enter: read  d: delete  f: category  /: search"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (n notesModel) readView(note models.Note, w int) string {
	meta := models.NormalizeCategory(note.Category)
	if len(note.Tags) > 0 {
		meta += "  " + renderTags(note.Tags)
	}
	rows := []string{
		titleStyle.Render(note.Title),
		mutedStyle.Render(meta),
		"",
		lipgloss.NewStyle().Width(max(10, w-4)).Render(note.Content),
		"",
		mutedStyle.Render("  e: edit  esc: back"),
	}
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
