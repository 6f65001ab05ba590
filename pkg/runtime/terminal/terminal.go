package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/policy-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

// CLI represents the command-line interface
type CLI struct {
	factory policy.ExplorerFactory
	output  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Explorer policy.ExplorerFactory
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory: opts.Explorer,
		output:  opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy-atlas",
		Short: "Azure Policy compliance reporting tool",
	}

	cmd.AddCommand(commands.NewReportCmd(cli.factory, cli.output))
	cmd.AddCommand(commands.NewScopesCmd(cli.factory, cli.output))
	cmd.AddCommand(commands.NewAssignmentsCmd(cli.factory, cli.output))
	cmd.AddCommand(commands.NewValidateCmd(cli.output))

	return cmd
}
