package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it on a
// completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "todo done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if _, err := ParseTaskRef(args); err != nil {
		return resolveFailed(err, errOut)
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

	if _, err := l.Toggle(ctx, task.ID); err != nil {
		return reportErr(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
