package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/shiplog-dev/shiplog/internal/version"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for shiplog",
	Example: `  # Show version info
  shiplog version`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd)
	},
}

func init() {
	versionCmd.GroupID = GroupGettingStarted
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.Version
}

// printVersion prints the version block in a scripting-friendly form.
func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "shiplog %s\n", version.Version)
	fmt.Fprintf(out, "commit: %s\n", truncateCommit(version.Commit))
	fmt.Fprintf(out, "built: %s\n", version.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// truncateCommit shortens a full commit hash for display.
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
