package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiplog-dev/shiplog/internal/changelog"
	"github.com/shiplog-dev/shiplog/internal/config"
	clierrors "github.com/shiplog-dev/shiplog/internal/errors"
	"github.com/shiplog-dev/shiplog/internal/state"
)

var showFileFlag string

var showCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Print a release section from the changelog file",
	Long: `Print a release section from the changelog file.

Looks up the section by version, ignoring the tag prefix: "1.3.0" and
"v1.3.0" name the same release. With no argument, shows the release recorded
by the most recent generate run. Show reads only the local file, never the
network.

Examples:
  shiplog show                # The release generate last wrote
  shiplog show v1.3.0         # A specific release
  shiplog show 1.3.0          # Same (prefix optional)
  shiplog show --file docs/CHANGES.md v1.3.0`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, args)
	},
}

func init() {
	showCmd.GroupID = GroupRelease
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showFileFlag, "file", "", "Changelog file to read (default: changelog_file from config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFileFlag)
	if err != nil {
		clierrors.PrintError(clierrors.ConfigLoadFailed(err))
		return NewExitError(ExitRuntimeError)
	}

	var target string
	if len(args) == 1 {
		target = args[0]
	} else {
		st, err := state.Load()
		if err != nil || st.LastRelease == "" {
			clierrors.PrintError(clierrors.NoReleaseRecorded())
			return NewExitError(ExitRuntimeError)
		}
		target = st.LastRelease
	}

	path := cfg.ChangelogFile
	if showFileFlag != "" {
		path = showFileFlag
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			clierrors.PrintError(clierrors.ChangelogNotFound(path))
			return NewExitError(ExitMissingAnchor)
		}
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "reading "+path))
		return NewExitError(ExitRuntimeError)
	}

	doc, err := changelog.ParseDocument(string(content))
	if err != nil {
		var anchorErr *changelog.MissingAnchorError
		if errors.As(err, &anchorErr) {
			clierrors.PrintError(clierrors.MissingAnchor(path))
			return NewExitError(ExitMissingAnchor)
		}
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "parsing "+path))
		return NewExitError(ExitRuntimeError)
	}

	section := doc.Section(target)
	if section == "" {
		clierrors.PrintError(clierrors.VersionNotFound(target, path))
		return NewExitError(ExitInvalidArguments)
	}

	fmt.Fprintln(cmd.OutOrStdout(), section)
	return nil
}
