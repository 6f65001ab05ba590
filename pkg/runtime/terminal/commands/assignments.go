package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

type AssignmentsCmd struct {
	factory       policy.ExplorerFactory
	out           io.Writer
	profile       string
	resourceGroup string
}

func NewAssignmentsCmd(factory policy.ExplorerFactory, out io.Writer) *cobra.Command {
	ac := &AssignmentsCmd{factory: factory, out: out}
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List policy assignments in scope",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.profile, "profile", "", "Azure config profile to use")
	cmd.Flags().StringVar(&ac.resourceGroup, "resource-group", "", "Limit the listing to one resource group")

	return cmd
}

func (ac *AssignmentsCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	explorer, err := ac.factory(ctx, ac.profile)
	if err != nil {
		return err
	}

	assignments, err := explorer.ListAssignments(ctx, explorer.Scope(ac.resourceGroup))
	if err != nil {
		return fmt.Errorf("failed to list policy assignments: %w", err)
	}
	if len(assignments) == 0 {
		fmt.Fprintln(ac.out, "No policy assignments found")
		return nil
	}

	for _, a := range assignments {
		name := a.DisplayName
		if name == "" {
			name = a.Name
		}
		fmt.Fprintf(ac.out, "Assignment: %s\n", name)
		fmt.Fprintf(ac.out, "  Name: %s\n", a.Name)
		fmt.Fprintf(ac.out, "  Scope: %s\n", a.Scope)
		if a.EnforcementMode != "" {
			fmt.Fprintf(ac.out, "  Enforcement: %s\n", a.EnforcementMode)
		}
		if a.Description != "" {
			fmt.Fprintf(ac.out, "  Description: %s\n", a.Description)
		}
		fmt.Fprintln(ac.out)
	}
	return nil
}
