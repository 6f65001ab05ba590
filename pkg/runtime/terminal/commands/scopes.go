package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

type ScopesCmd struct {
	factory policy.ExplorerFactory
	out     io.Writer
	profile string
}

func NewScopesCmd(factory policy.ExplorerFactory, out io.Writer) *cobra.Command {
	sc := &ScopesCmd{factory: factory, out: out}
	cmd := &cobra.Command{
		Use:   "scopes",
		Short: "List resource groups available as report scopes",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profile, "profile", "", "Azure config profile to use")

	return cmd
}

func (sc *ScopesCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	explorer, err := sc.factory(ctx, sc.profile)
	if err != nil {
		return err
	}

	groups, err := explorer.ListResourceGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list resource groups: %w", err)
	}
	if len(groups) == 0 {
		fmt.Fprintln(sc.out, "No resource groups found")
		return nil
	}

	for _, rg := range groups {
		fmt.Fprintf(sc.out, "%s\t%s\n", rg.Name, rg.Location)
	}
	return nil
}
