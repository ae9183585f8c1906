package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/todo"
)

// EmptyViewMessage is printed when no task passes the filter.
const EmptyViewMessage = "No tasks match the current filter."

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	filter string
	format string
}

// SetFilter sets the filter (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--filter all|active|completed] [--format text|json|yaml]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "all", "Show all, active or completed tasks")
	fs.StringVar(&c.format, "format", "text", "Output format: text, json or yaml")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	filter, err := todo.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	l, code := loadList(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer l.Close()

	// Positions are counted in the full list so refs stay stable across filters
	var rows []output.Numbered
	for i, t := range l.Tasks() {
		if filter.Match(t) {
			rows = append(rows, output.Numbered{Num: i + 1, Task: t})
		}
	}

	if format == output.FormatText && len(rows) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, EmptyViewMessage)
		}
		return exitcode.Success
	}

	if err := output.WriteTasks(out, format, rows); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
