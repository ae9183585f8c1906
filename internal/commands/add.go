package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add <label...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Validate before touching the store
	label := strings.TrimSpace(strings.Join(args, " "))
	if label == "" {
		fmt.Fprintln(errOut, "error: label required")
		return exitcode.UserError
	}

	l, code := loadList(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer l.Close()

	if _, err := l.Add(ctx, label); err != nil {
		return reportErr(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
