package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct{}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all completed tasks" }
func (c *ClearCmd) Usage() string     { return "todo clear" }
func (c *ClearCmd) NeedsStore() bool  { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(errOut, "error: clear takes no arguments")
		return exitcode.UserError
	}

	l, code := loadList(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer l.Close()

	res, err := l.ClearCompleted(ctx)
	if err != nil {
		return reportErr(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "cleared %d\n", len(res.Deleted))
	}
	return exitcode.Success
}
