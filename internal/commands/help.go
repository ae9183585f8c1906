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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-8s %s\n", cmd.Name(), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  todo                                 List all tasks
  todo list [common flags] [--filter all|active|completed] [--format text|json|yaml]
  todo add [common flags] <label...>
  todo create [common flags] <label...>
  todo done [common flags] <ref>       Toggle completion
  todo edit [common flags] <ref> <label...>
  todo rm [common flags] <ref>
  todo clear [common flags]            Delete all completed tasks
  todo status [common flags]
  todo tui [common flags]
  todo help
  todo version

A <ref> is a position as printed by list (3) or a task id (#17).

Common flags:
  --config <dir>   Override config directory
  --user <name>    Override the configured username
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
