package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/todo"
)

// Run starts the interface over l and blocks until the user quits or ctx
// ends. l is loaded by the program; closing it is the caller's job.
func Run(ctx context.Context, l *todo.List, in io.Reader, out io.Writer) error {
	if !IsTTY(out) {
		return fmt.Errorf("tui requires a TTY")
	}

	program := tea.NewProgram(New(ctx, l),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := program.Run()
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
