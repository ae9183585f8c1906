package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/todo"
	"todo/internal/ui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd starts the interactive interface.
type TUICmd struct{}

func (c *TUICmd) Name() string      { return "tui" }
func (c *TUICmd) Aliases() []string { return nil }
func (c *TUICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *TUICmd) Usage() string     { return "todo tui" }
func (c *TUICmd) NeedsStore() bool  { return true }
func (c *TUICmd) Interactive() bool { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !ui.IsTTY(out) {
		fmt.Fprintln(errOut, "error: tui requires a TTY")
		return exitcode.UserError
	}

	l := todo.New(svc, todo.Options{
		Username:           cfg.Username,
		Logger:             newLogger(cfg, errOut),
		MaxParallelDeletes: cfg.MaxParallelDeletes,
	})
	defer l.Close()

	if err := ui.Run(ctx, l, os.Stdin, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
