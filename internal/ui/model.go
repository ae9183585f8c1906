// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/todo"
)

// EmptyViewMessage is shown when no task passes the filter.
const EmptyViewMessage = "No tasks match the current filter."

type focus int

const (
	focusInput focus = iota
	focusList
	focusEdit
)

// Model is the Bubble Tea model over a *todo.List.
type Model struct {
	ctx  context.Context
	list *todo.List

	input  textinput.Model
	editor textinput.Model

	focus    focus
	filter   todo.Filter
	cursor   int
	session  todo.EditSession
	loading  bool
	adding   bool
	clearing bool
	status   string
	quitting bool
}

// New creates a model for l. The list is loaded by Init.
func New(ctx context.Context, l *todo.List) Model {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.Prompt = "> "
	input.CharLimit = 256
	input.Width = 50
	input.Focus()

	editor := textinput.New()
	editor.Prompt = ""
	editor.CharLimit = 256
	editor.Width = 50

	return Model{
		ctx:     ctx,
		list:    l,
		input:   input,
		editor:  editor,
		focus:   focusInput,
		filter:  todo.FilterAll,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadCmd(m.ctx, m.list),
		waitForChange(m.ctx, m.list),
		textinput.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		switch m.focus {
		case focusEdit:
			return m.updateEdit(msg)
		case focusList:
			return m.updateList(msg)
		default:
			return m.updateInput(msg)
		}

	case loadedMsg:
		m.loading = false
		m.surface(msg.err)
		m.clamp()
		return m, nil

	case addedMsg:
		m.adding = false
		if msg.err != nil {
			m.surface(msg.err)
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case opDoneMsg:
		m.surface(msg.err)
		m.clamp()
		return m, nil

	case editDoneMsg:
		m.surface(msg.err)
		return m, nil

	case clearedMsg:
		m.clearing = false
		m.surface(msg.err)
		m.clamp()
		return m, nil

	case changedMsg:
		m.clamp()
		return m, waitForChange(m.ctx, m.list)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.adding {
			return m, nil
		}
		label := strings.TrimSpace(m.input.Value())
		if label == "" {
			m.status = todo.ErrEmptyLabel.Error()
			return m, nil
		}
		m.status = ""
		m.adding = true
		return m, addCmd(m.ctx, m.list, label)
	case "tab", "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab", "a":
		m.focus = focusInput
		return m, m.input.Focus()
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "1":
		m.setFilter(todo.FilterAll)
	case "2":
		m.setFilter(todo.FilterActive)
	case "3":
		m.setFilter(todo.FilterCompleted)
	case " ", "x":
		if t, ok := m.selected(); ok {
			m.status = ""
			return m, toggleCmd(m.ctx, m.list, t.ID)
		}
	case "d", "delete":
		if t, ok := m.selected(); ok {
			m.status = ""
			return m, deleteCmd(m.ctx, m.list, t.ID)
		}
	case "e", "enter":
		if t, ok := m.selected(); ok {
			return m.beginEdit(t)
		}
	case "c":
		if m.clearing || m.list.Counts().Completed == 0 {
			return m, nil
		}
		m.status = ""
		m.clearing = true
		return m, clearCmd(m.ctx, m.list)
	}
	return m, nil
}

func (m Model) beginEdit(t service.Task) (tea.Model, tea.Cmd) {
	s, err := m.list.BeginEdit(t.ID)
	if err != nil {
		m.surface(err)
		return m, nil
	}
	m.session = s
	m.focus = focusEdit
	m.editor.SetValue(s.Original)
	m.editor.CursorEnd()
	return m, m.editor.Focus()
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "tab":
		return m.endEdit()
	case "esc":
		m.list.CancelEdit(m.session)
		m.leaveEdit()
		return m, nil
	case "up", "down":
		// Moving away is loss of focus, which saves.
		next, cmd := m.endEdit()
		nm := next.(Model)
		if msg.String() == "up" {
			nm.move(-1)
		} else {
			nm.move(1)
		}
		return nm, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// endEdit saves the open session and returns to the list.
func (m Model) endEdit() (tea.Model, tea.Cmd) {
	s, text := m.session, m.editor.Value()
	m.leaveEdit()
	m.status = ""
	return m, saveCmd(m.ctx, m.list, s, text)
}

func (m *Model) leaveEdit() {
	m.session = todo.EditSession{}
	m.editor.Blur()
	m.editor.Reset()
	m.focus = focusList
}

func (m *Model) setFilter(f todo.Filter) {
	m.filter = f
	m.cursor = 0
	m.clamp()
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

func (m *Model) clamp() {
	n := len(m.list.Visible(m.filter))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (service.Task, bool) {
	visible := m.list.Visible(m.filter)
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

// surface puts err on the status line. Completions after the list is
// closed are dropped.
func (m *Model) surface(err error) {
	if err == nil || errors.Is(err, todo.ErrClosed) {
		return
	}
	m.status = err.Error()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("todos") + "\n")

	if m.loading {
		fmt.Fprintf(&b, "Loading tasks for %s...\n", m.list.Username())
		return b.String()
	}

	if m.adding {
		b.WriteString(mutedStyle.Render("> Adding...") + "\n\n")
	} else {
		b.WriteString(m.input.View() + "\n\n")
	}

	m.writeBody(&b)

	tasks := m.list.Tasks()
	if len(tasks) > 0 {
		b.WriteString("\n" + m.footer() + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m Model) writeBody(b *strings.Builder) {
	visible := m.list.Visible(m.filter)
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render(EmptyViewMessage) + "\n")
		return
	}

	for i, t := range visible {
		box := "[ ]"
		if t.IsDone {
			box = checkStyle.Render("[x]")
		}

		if m.focus == focusEdit && t.ID == m.session.TaskID {
			fmt.Fprintf(b, "> %s %s\n", box, m.editor.View())
			continue
		}

		label := t.Label
		if t.IsDone {
			label = doneStyle.Render(label)
		}
		line := fmt.Sprintf("%s %s", box, label)
		if i == m.cursor && m.focus != focusInput {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
}

func (m Model) footer() string {
	counts := m.list.Counts()
	parts := []string{fmt.Sprintf("%d items left", counts.Active)}

	var filters []string
	for i, f := range todo.Filters {
		name := fmt.Sprintf("%d:%s", i+1, f)
		if f == m.filter {
			name = activeFilterStyle.Render(name)
		}
		filters = append(filters, name)
	}
	parts = append(parts, strings.Join(filters, " "))

	if m.clearing {
		parts = append(parts, "Clearing...")
	} else if counts.Completed > 0 {
		parts = append(parts, fmt.Sprintf("Clear Completed (%d)", counts.Completed))
	}
	return strings.Join(parts, "  |  ")
}

func (m Model) help() string {
	switch m.focus {
	case focusEdit:
		return "enter/tab save • esc cancel"
	case focusList:
		return "space toggle • e edit • d delete • c clear completed • 1/2/3 filter • tab new task • q quit"
	default:
		return "enter add • tab tasks • ctrl+c quit"
	}
}
