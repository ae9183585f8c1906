package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/todo"
)

type loadedMsg struct{ err error }

type addedMsg struct{ err error }

// opDoneMsg reports a finished toggle or delete.
type opDoneMsg struct {
	op  string
	err error
}

type editDoneMsg struct {
	outcome todo.EditOutcome
	err     error
}

type clearedMsg struct {
	res todo.ClearResult
	err error
}

// changedMsg signals that the list changed underneath the view.
type changedMsg struct{}

func loadCmd(ctx context.Context, l *todo.List) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: l.Load(ctx)}
	}
}

func addCmd(ctx context.Context, l *todo.List, label string) tea.Cmd {
	return func() tea.Msg {
		_, err := l.Add(ctx, label)
		return addedMsg{err: err}
	}
}

func toggleCmd(ctx context.Context, l *todo.List, id int) tea.Cmd {
	return func() tea.Msg {
		_, err := l.Toggle(ctx, id)
		return opDoneMsg{op: "toggle", err: err}
	}
}

func deleteCmd(ctx context.Context, l *todo.List, id int) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "delete", err: l.Delete(ctx, id)}
	}
}

func saveCmd(ctx context.Context, l *todo.List, s todo.EditSession, text string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := l.SaveEdit(ctx, s, text)
		return editDoneMsg{outcome: outcome, err: err}
	}
}

func clearCmd(ctx context.Context, l *todo.List) tea.Cmd {
	return func() tea.Msg {
		res, err := l.ClearCompleted(ctx)
		return clearedMsg{res: res, err: err}
	}
}

// waitForChange blocks until the list reports a change.
func waitForChange(ctx context.Context, l *todo.List) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-l.Changed():
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
