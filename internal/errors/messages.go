package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the shiplog CLI.
// These templates ensure consistent, actionable error messages.

// NotARepository creates an error for running outside a git repository.
func NotARepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Run shiplog from inside a repository working tree",
		"Or initialize one with: git init",
	)
}

// MissingFromRef creates an error for a missing --from flag.
func MissingFromRef() *CLIError {
	return NewArgumentErrorWithUsage(
		"the starting tag is required",
		"shiplog generate --from <tag> [--to <ref>]",
		"Pass the previous release tag, e.g. --from v1.2.0",
		"List tags with: git tag --list",
	)
}

// UnknownRevision creates an error for a revision git cannot resolve. The
// cause names the offending revision.
func UnknownRevision(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"resolving the commit range",
		"Revisions may be tags, branches, or commit SHAs",
		"List tags with: git tag --list",
	)
}

// InvalidRepoFlag creates an error for a malformed --repo value.
func InvalidRepoFlag(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid repository %q", value),
		"shiplog generate --repo <owner>/<name>",
		"Example: --repo acme/widget",
	)
}

// OriginNotGitHub creates an error when the origin remote cannot be
// mapped to a GitHub repository.
func OriginNotGitHub(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"cannot determine the GitHub repository",
		"Set github.owner and github.repo in .shiplog/config.yml",
		"Or pass it explicitly: --repo <owner>/<name>",
	)
}

// EmptyRange creates an error for a commit range with no commits.
func EmptyRange(from, to string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("no commits found in range %s..%s", from, to),
		fmt.Sprintf("Inspect the range with: git log --oneline %s..%s", from, to),
		"Pass an earlier tag with --from, or a later ref with --to",
	)
}

// NoChangelogCommits creates an error when every commit in the range was
// dropped by classification.
func NoChangelogCommits(skipped []string) *CLIError {
	msg := "no changelog-worthy commits in range"
	if len(skipped) > 0 {
		msg = fmt.Sprintf("%s; skipped:\n  %s", msg, strings.Join(skipped, "\n  "))
	}
	return NewRuntimeError(
		msg,
		"Only recognized type prefixes are rendered (feat, fix, perf, docs, deps, revert by default)",
		"Adjust the categories table in .shiplog/config.yml to include more types",
	)
}

// MissingAnchor creates an error for a changelog without a title heading.
func MissingAnchor(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s has no top-level title heading to anchor releases", path),
		"Add a '# Changelog' heading at the top of the file",
		"Or start fresh with: shiplog init",
	)
}

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog file not found: %s", path),
		"Create it with: shiplog init",
		"Or point at an existing file with --file",
	)
}

// VersionNotFound creates an error when a release section is absent.
func VersionNotFound(version, path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("version %s not found in %s", version, path),
		"List recorded releases with: grep '^## ' "+path,
	)
}

// NoReleaseRecorded creates an error for show without an argument before
// any generate run.
func NoReleaseRecorded() *CLIError {
	return NewPrerequisiteError(
		"no release recorded yet",
		"Run 'shiplog generate' first",
		"Or name a version explicitly: shiplog show <version>",
	)
}

// FetchFailed creates an error for a failed metadata fetch.
func FetchFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"fetching commit metadata from GitHub",
		"Check your network connection",
		"Authenticated requests have higher rate limits; set the token variable named by github.token_env",
		"Run 'shiplog doctor' to diagnose issues",
	)
}

// ConfigLoadFailed creates an error for unusable configuration.
func ConfigLoadFailed(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"loading configuration",
		"Validate the file with: shiplog config show",
		"Reset the project config with: shiplog init --force",
	)
}

// InvalidPriorVersion creates an error when the starting tag is not a
// semantic version.
func InvalidPriorVersion(version string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("cannot compute the next version from %q", version),
		"The --from tag must be a semantic version, e.g. v1.2.0",
	)
}
