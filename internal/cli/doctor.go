package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiplog-dev/shiplog/internal/health"
	"github.com/shiplog-dev/shiplog/internal/output"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check that shiplog can run in this repository",
	Long: `Check that shiplog can run in this repository.

Verifies the configuration, the git working tree, the GitHub repository
mapping, the API token variable, the changelog anchor, and the version
tags. Optional checks report problems without failing the run.

Examples:
  shiplog doctor       # Run all checks
  shiplog doc          # Same, shorter`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd)
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command) error {
	report := health.RunHealthChecks()
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		output.PrintWarning(cmd.OutOrStdout(), "Some checks failed. Fix the items marked ✗ and re-run.")
		return NewExitError(ExitRuntimeError)
	}

	output.PrintSuccess(cmd.OutOrStdout(), "All checks passed.")
	return nil
}
