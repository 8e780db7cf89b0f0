package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiplog-dev/shiplog/internal/changelog"
	"github.com/shiplog-dev/shiplog/internal/config"
	clierrors "github.com/shiplog-dev/shiplog/internal/errors"
	"github.com/shiplog-dev/shiplog/internal/git"
	"github.com/shiplog-dev/shiplog/internal/github"
	"github.com/shiplog-dev/shiplog/internal/output"
	"github.com/shiplog-dev/shiplog/internal/progress"
	"github.com/shiplog-dev/shiplog/internal/state"
	"github.com/shiplog-dev/shiplog/internal/version"
)

var (
	generateFromFlag   string
	generateToFlag     string
	generateFileFlag   string
	generateRepoFlag   string
	generateDryRunFlag bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate the next changelog section from a commit range",
	Long: `Generate the next changelog section from a commit range.

Commits between --from (exclusive) and --to (inclusive) are enriched with
pull request and author metadata from GitHub, classified by their
conventional-commit prefix, and rendered as a markdown section headed by the
next semantic version. The section replaces an existing entry for the same
version or is inserted at the top of the changelog file.

Without --from, the range starts at the highest semantic version tag. The
version bump is minor when the range contains features, patch otherwise;
major bumps are never automatic.

Examples:
  shiplog generate                          # Latest version tag up to HEAD
  shiplog generate --from v1.2.0            # Explicit starting tag
  shiplog generate --from v1.2.0 --to v1.3.0-rc1
  shiplog generate --dry-run                # Print instead of writing
  shiplog generate --repo acme/widget       # Override the GitHub repository`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	generateCmd.GroupID = GroupRelease
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFromFlag, "from", "", "Start of the commit range, exclusive (default: latest version tag)")
	generateCmd.Flags().StringVar(&generateToFlag, "to", "HEAD", "End of the commit range, inclusive")
	generateCmd.Flags().StringVar(&generateFileFlag, "file", "", "Changelog file to update (default: changelog_file from config)")
	generateCmd.Flags().StringVar(&generateRepoFlag, "repo", "", "GitHub repository as owner/name (default: origin remote)")
	generateCmd.Flags().BoolVar(&generateDryRunFlag, "dry-run", false, "Print the rendered section instead of updating the file")
}

func runGenerate(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFileFlag)
	if err != nil {
		clierrors.PrintError(clierrors.ConfigLoadFailed(err))
		return NewExitError(ExitRuntimeError)
	}
	registry, err := cfg.Registry()
	if err != nil {
		clierrors.PrintError(clierrors.ConfigLoadFailed(err))
		return NewExitError(ExitRuntimeError)
	}

	repo, err := git.Open("")
	if err != nil {
		clierrors.PrintError(clierrors.NotARepository())
		return NewExitError(ExitRuntimeError)
	}

	display := progress.NewProgressDisplay(progress.DetectTerminalCapabilities())
	display.SetOutput(cmd.ErrOrStderr())
	defer display.StopSpinner()

	// The write phase is skipped on --dry-run.
	totalPhases := 3
	if generateDryRunFlag {
		totalPhases = 2
	}
	resolvePhase := progress.PhaseInfo{Name: "Resolving commits", Number: 1, TotalPhases: totalPhases}
	fetchPhase := progress.PhaseInfo{Name: "Fetching commit metadata", Number: 2, TotalPhases: totalPhases}
	writePhase := progress.PhaseInfo{Name: "Writing changelog", Number: 3, TotalPhases: totalPhases}

	_ = display.StartPhase(resolvePhase)

	from := generateFromFlag
	if from == "" {
		tag, ok, err := repo.LatestVersionTag()
		if err != nil {
			display.FailPhase(resolvePhase, nil)
			clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "finding the latest version tag"))
			return NewExitError(ExitRuntimeError)
		}
		if !ok {
			display.FailPhase(resolvePhase, nil)
			clierrors.PrintError(clierrors.MissingFromRef())
			return NewExitError(ExitInvalidArguments)
		}
		from = tag
	}

	hashes, err := repo.CommitsBetween(from, generateToFlag)
	if err != nil {
		display.FailPhase(resolvePhase, nil)
		clierrors.PrintError(clierrors.UnknownRevision(err))
		return NewExitError(ExitInvalidArguments)
	}
	if len(hashes) == 0 {
		display.FailPhase(resolvePhase, nil)
		clierrors.PrintError(clierrors.EmptyRange(from, generateToFlag))
		return NewExitError(ExitEmptyRange)
	}

	// An explicit end ref dates the release at that commit; otherwise the
	// release is dated today.
	var releaseDate time.Time
	if cmd.Flags().Changed("to") {
		releaseDate, err = repo.CommitDate(generateToFlag)
		if err != nil {
			display.FailPhase(resolvePhase, nil)
			clierrors.PrintError(clierrors.UnknownRevision(err))
			return NewExitError(ExitInvalidArguments)
		}
	}

	display.CompletePhase(resolvePhase, fmt.Sprintf("%s..%s, %d commits", from, generateToFlag, len(hashes)))

	var remote git.RemoteRepo
	switch {
	case generateRepoFlag != "":
		owner, name, found := strings.Cut(generateRepoFlag, "/")
		if !found || owner == "" || name == "" || strings.Contains(name, "/") {
			clierrors.PrintError(clierrors.InvalidRepoFlag(generateRepoFlag))
			return NewExitError(ExitInvalidArguments)
		}
		remote = git.RemoteRepo{Owner: owner, Name: name}
	case cfg.Github.Owner != "" && cfg.Github.Repo != "":
		remote = git.RemoteRepo{Owner: cfg.Github.Owner, Name: cfg.Github.Repo}
	default:
		remote, err = repo.OriginRepo()
		if err != nil {
			clierrors.PrintError(clierrors.OriginNotGitHub(err))
			return NewExitError(ExitRuntimeError)
		}
	}

	client, err := github.NewClient(github.Config{
		Owner:       remote.Owner,
		Repo:        remote.Name,
		Token:       cfg.Token(),
		BaseURL:     cfg.Github.APIBaseURL,
		Concurrency: cfg.FetchConcurrency,
	})
	if err != nil {
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Configuration, "configuring the GitHub client"))
		return NewExitError(ExitRuntimeError)
	}

	_ = display.StartPhase(fetchPhase)
	raw, err := client.CommitsMetadata(cmd.Context(), hashes)
	if err != nil {
		display.FailPhase(fetchPhase, nil)
		clierrors.PrintError(clierrors.FetchFailed(err))
		return NewExitError(ExitRuntimeError)
	}
	display.CompletePhase(fetchPhase, remote.String())

	classified, err := changelog.Classify(registry, raw)
	if err != nil {
		var noneErr *changelog.NoChangelogCommitsError
		if errors.As(err, &noneErr) {
			clierrors.PrintError(clierrors.NoChangelogCommits(noneErr.Skipped))
			return NewExitError(ExitNoChangelogCommits)
		}
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "classifying commits"))
		return NewExitError(ExitRuntimeError)
	}

	release, err := changelog.Assemble(registry, classified, changelog.AssembleOptions{
		PriorVersion: from,
		TagPrefix:    cfg.TagPrefix,
		Date:         releaseDate,
	})
	if err != nil {
		clierrors.PrintError(clierrors.InvalidPriorVersion(from, err))
		return NewExitError(ExitInvalidArguments)
	}

	rendered, err := changelog.RenderReleaseString(release)
	if err != nil {
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "rendering the release"))
		return NewExitError(ExitRuntimeError)
	}

	if generateDryRunFlag {
		// The preview goes to stdout so it can be piped; the closing rule
		// goes to stderr with the progress output.
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		output.PrintRule(cmd.ErrOrStderr(), "dry run, file not written")
		return nil
	}

	changelogPath := cfg.ChangelogFile
	if generateFileFlag != "" {
		changelogPath = generateFileFlag
	}

	_ = display.StartPhase(writePhase)

	content, err := os.ReadFile(changelogPath)
	if err != nil {
		display.FailPhase(writePhase, nil)
		if errors.Is(err, os.ErrNotExist) {
			clierrors.PrintError(clierrors.ChangelogNotFound(changelogPath))
			return NewExitError(ExitMissingAnchor)
		}
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "reading "+changelogPath))
		return NewExitError(ExitRuntimeError)
	}

	doc, err := changelog.ParseDocument(string(content))
	if err != nil {
		display.FailPhase(writePhase, nil)
		var anchorErr *changelog.MissingAnchorError
		if errors.As(err, &anchorErr) {
			clierrors.PrintError(clierrors.MissingAnchor(changelogPath))
			return NewExitError(ExitMissingAnchor)
		}
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "parsing "+changelogPath))
		return NewExitError(ExitRuntimeError)
	}

	if err := doc.Upsert(rendered); err != nil {
		display.FailPhase(writePhase, nil)
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "updating "+changelogPath))
		return NewExitError(ExitRuntimeError)
	}

	if err := os.WriteFile(changelogPath, []byte(doc.Render()), 0o644); err != nil {
		display.FailPhase(writePhase, nil)
		clierrors.PrintError(clierrors.WrapWithMessage(err, clierrors.Runtime, "writing "+changelogPath))
		return NewExitError(ExitRuntimeError)
	}

	display.CompletePhase(writePhase, release.Version)

	st := state.New(version.Version)
	st.LastRelease = release.Version
	st.ReleaseDate = release.Date.Format("2006-01-02")
	st.RangeFrom = from
	st.RangeTo = generateToFlag
	st.CommitCount = len(hashes)
	st.EntryCount = len(classified)
	if err := st.Save(); err != nil {
		output.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("could not record run state: %v", err))
	}

	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s updated for %s (%d entries)", changelogPath, release.Version, len(classified)))
	return nil
}
