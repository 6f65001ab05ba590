package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/policy-atlas/pkg/runtime/terminal"
	"github.com/de-tools/policy-atlas/pkg/services/azure"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Explorer: func(ctx context.Context, profile string) (policy.Explorer, error) {
			cfg, err := azure.LoadConfig(ctx, profile)
			if err != nil {
				return nil, err
			}
			return policy.NewExplorer(cfg)
		},
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
