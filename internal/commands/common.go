package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/todo"
)

// newLogger builds the command logger on errOut from cfg.
func newLogger(cfg *config.Config, errOut io.Writer) *log.Logger {
	return logging.ForConfig(errOut, cfg, "todo")
}

// loadList builds and loads the user's list.
// On failure it reports to errOut and returns a non-zero exit code.
func loadList(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*todo.List, int) {
	l := todo.New(svc, todo.Options{
		Username:           cfg.Username,
		Logger:             newLogger(cfg, errOut),
		MaxParallelDeletes: cfg.MaxParallelDeletes,
	})
	if err := l.Load(ctx); err != nil {
		l.Close()
		return nil, reportErr(errOut, err)
	}
	return l, exitcode.Success
}

// resolveRef parses and resolves a task reference from args.
func resolveRef(l *todo.List, args []string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	task, err := ref.Resolve(l)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

// reportErr prints err and maps it to an exit code.
func reportErr(errOut io.Writer, err error) int {
	var opErr *todo.OpError
	var clearErr *todo.ClearError
	switch {
	case errors.Is(err, todo.ErrEmptyLabel),
		errors.Is(err, todo.ErrTaskNotFound),
		errors.Is(err, todo.ErrBusy):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &opErr):
		fmt.Fprintf(errOut, "error: backend error: %s\n", opErr.Message)
		return exitcode.BackendError
	case errors.As(err, &clearErr):
		fmt.Fprintf(errOut, "error: backend error: %v\n", clearErr)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
}

// ok prints the acknowledgement unless quiet.
func ok(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}
