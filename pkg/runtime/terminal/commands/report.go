package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/policy-atlas/pkg/runtime/terminal/console"
	"github.com/de-tools/policy-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/policy-atlas/pkg/services/compliance"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
	"github.com/de-tools/policy-atlas/pkg/services/settings"
)

type ReportCmd struct {
	factory policy.ExplorerFactory
	out     io.Writer

	settingsPath  string
	profile       string
	resourceGroup string
	outputDir     string
	maxDetails    int
	noColor       bool
}

func NewReportCmd(factory policy.ExplorerFactory, out io.Writer) *cobra.Command {
	rc := &ReportCmd{factory: factory, out: out}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a policy compliance report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profile, "profile", "", "Azure config profile to use")
	cmd.Flags().StringVar(&rc.resourceGroup, "resource-group", "", "Limit the report to one resource group")
	cmd.Flags().StringVar(&rc.outputDir, "output-dir", "", "Directory for a plain-text copy of the report")
	cmd.Flags().IntVar(&rc.maxDetails, "max-details", 0, "Cap on non-compliant resources printed to the console")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "Disable colorized output")
	cmd.Flags().StringVar(&rc.settingsPath, "settings", "", "Path to the settings file")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	cfg, err := settings.Load(rc.settingsPath)
	if err != nil {
		return err
	}
	rc.applyDefaults(cfg)

	explorer, err := rc.factory(ctx, rc.profile)
	if err != nil {
		return err
	}

	scope := explorer.Scope(rc.resourceGroup)
	report, err := compliance.NewController(explorer).GenerateReport(ctx, scope)
	switch {
	case errors.Is(err, compliance.ErrNoData):
		fmt.Fprintf(rc.out, "No compliance data found for %s.\n", scope.ResourceID())
		fmt.Fprintln(rc.out, "Policy evaluation can take up to 30 minutes after a new assignment; try again later.")
		return nil
	case errors.Is(err, policy.ErrAuth):
		return fmt.Errorf("not logged in to Azure, run 'az login' first: %w", err)
	case errors.Is(err, policy.ErrScopeNotFound):
		rc.printAvailableScopes(ctx, explorer)
		return err
	case err != nil:
		return err
	}

	reporter := console.NewReporter(rc.out, console.ReporterOptions{
		NoColor:    rc.noColor,
		MaxDetails: rc.maxDetails,
	})
	if err := reporter.Handle(report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if rc.outputDir != "" {
		path, err := export.NewReporter(rc.outputDir).Handle(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(rc.out, "\nReport written to %s\n", path)
	}
	return nil
}

// applyDefaults fills unset flags from the settings file. Flags always
// take precedence.
func (rc *ReportCmd) applyDefaults(cfg *settings.Settings) {
	if rc.profile == "" {
		rc.profile = cfg.Profile
	}
	if rc.outputDir == "" {
		rc.outputDir = cfg.OutputDir
	}
	if rc.maxDetails == 0 {
		rc.maxDetails = cfg.MaxDetails
	}
	if cfg.NoColor {
		rc.noColor = true
	}
}

func (rc *ReportCmd) printAvailableScopes(ctx context.Context, explorer policy.Explorer) {
	groups, err := explorer.ListResourceGroups(ctx)
	if err != nil {
		return
	}
	fmt.Fprintln(rc.out, "Available resource groups:")
	for _, rg := range groups {
		fmt.Fprintf(rc.out, "  - %s (%s)\n", rg.Name, rg.Location)
	}
}
