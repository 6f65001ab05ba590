package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/de-tools/policy-atlas/pkg/services/policydef"
)

type ValidateCmd struct {
	out io.Writer
}

func NewValidateCmd(out io.Writer) *cobra.Command {
	vc := &ValidateCmd{out: out}
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate local policy definition JSON files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  vc.run,
	}
	return cmd
}

func (vc *ValidateCmd) run(cmd *cobra.Command, args []string) error {
	var issues []policydef.Issue

	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot validate %s: %w", path, err)
		}

		var found []policydef.Issue
		if info.IsDir() {
			found, err = policydef.ValidateDir(path)
		} else {
			found, err = policydef.ValidateFile(path)
		}
		if err != nil {
			return err
		}
		issues = append(issues, found...)
	}

	if len(issues) == 0 {
		fmt.Fprintln(vc.out, "All policy definitions are valid")
		return nil
	}

	warn := color.New(color.FgYellow).SprintFunc()
	for _, issue := range issues {
		fmt.Fprintf(vc.out, "%s %s\n", warn(issue.File+":"), issue.Message)
	}
	return fmt.Errorf("found %d validation issue(s)", len(issues))
}
