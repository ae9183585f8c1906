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
	"todo/internal/todo"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's label" }
func (c *EditCmd) Usage() string     { return "todo edit <ref> <label...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if _, err := ParseTaskRef(args); err != nil {
		return resolveFailed(err, errOut)
	}
	label := strings.Join(args[1:], " ")
	if strings.TrimSpace(label) == "" {
		fmt.Fprintln(errOut, "error: label required")
		return exitcode.UserError
	}

	l, code := loadList(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer l.Close()

	task, code := resolveRef(l, args, errOut)
	if code != exitcode.Success {
		return code
	}

	session, err := l.BeginEdit(task.ID)
	if err != nil {
		return reportErr(errOut, err)
	}
	outcome, err := l.SaveEdit(ctx, session, label)
	if err != nil {
		return reportErr(errOut, err)
	}

	if !cfg.Quiet {
		if outcome == todo.EditUnchanged {
			fmt.Fprintln(out, "unchanged")
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
