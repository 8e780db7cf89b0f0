// Package cli implements the shiplog command tree. Commands live in this
// package; the work they orchestrate lives in the internal packages below
// them.
package cli

import (
	"github.com/spf13/cobra"

	clierrors "github.com/shiplog-dev/shiplog/internal/errors"
	"github.com/shiplog-dev/shiplog/internal/git"
)

// Command group IDs for help output organization.
const (
	GroupGettingStarted = "getting-started"
	GroupRelease        = "release"
	GroupConfiguration  = "configuration"
)

var (
	cfgFileFlag string
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "shiplog",
	Short: "Generate changelog sections from git history and GitHub metadata",
	Long: `shiplog turns a range of git commits into a reviewed changelog section.

It reads commits from the local repository, enriches them with pull request
and author metadata from GitHub, classifies them by conventional-commit
prefix, computes the next semantic version, and splices the rendered release
into your changelog file.

Project home: https://github.com/shiplog-dev/shiplog`,
	Example: `  shiplog init                       # Create .shiplog/config.yml and CHANGELOG.md
  shiplog generate                   # Release everything since the latest version tag
  shiplog generate --from v1.2.0     # Release v1.2.0..HEAD
  shiplog generate --dry-run         # Print the section instead of writing it
  shiplog show                       # Print the most recently generated section
  shiplog doctor                     # Check repository, config, and token setup`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			git.SetDebugLogger(func(format string, args ...any) {
				cmd.PrintErrf("debug: "+format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&cfgFileFlag, "config", "c", "", "Path to config file (default .shiplog/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging to stderr")
}

// Execute runs the root command and returns the resulting error. Errors that
// carry their own exit code were already printed by the command that returned
// them; anything else is printed here, once.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if _, ok := err.(*ExitError); !ok {
		if cliErr := clierrors.AsCLIError(err); cliErr != nil {
			clierrors.PrintError(cliErr)
		} else {
			clierrors.PrintSimpleError(err, clierrors.Runtime)
		}
	}
	return err
}
