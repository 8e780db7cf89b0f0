// Package health provides environment health checks for shiplog. It validates
// that the repository, configuration, changelog, and GitHub access are usable,
// returning structured reports used by the 'shiplog doctor' command.
// Note: checks use the go-git library directly, so no git binary is required.
package health

import (
	"fmt"
	"os"

	"github.com/shiplog-dev/shiplog/internal/changelog"
	"github.com/shiplog-dev/shiplog/internal/config"
	"github.com/shiplog-dev/shiplog/internal/git"
	"github.com/shiplog-dev/shiplog/internal/state"
)

// Source values for the repository identity check indicating where the
// GitHub owner/name was found.
const (
	SourceConfig = "config"
	SourceOrigin = "origin"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional marks checks whose failure should not fail the report,
	// such as a missing token.
	Optional bool
	// Source indicates where the owner/name was found for the repository
	// identity check. Values: "config", "origin", or empty for other checks.
	Source string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks() *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0),
		Passed: true,
	}

	cfg, _ := config.Load("")

	for _, check := range []CheckResult{
		CheckConfiguration(),
		CheckRepository(),
		CheckGitHubRepo(cfg),
		CheckToken(cfg),
		CheckChangelog(cfg),
		CheckVersionTags(),
	} {
		report.Checks = append(report.Checks, check)
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}

	return report
}

// CheckConfiguration checks that the merged configuration loads and validates.
func CheckConfiguration() CheckResult {
	if _, err := config.Load(""); err != nil {
		return CheckResult{
			Name:    "Configuration",
			Passed:  false,
			Message: err.Error(),
		}
	}

	return CheckResult{
		Name:    "Configuration",
		Passed:  true,
		Message: "loads and validates",
	}
}

// CheckRepository checks that the working directory is inside a git repository.
func CheckRepository() CheckResult {
	if !git.IsRepository("") {
		return CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: "not a git repository - run shiplog from a working tree",
		}
	}

	return CheckResult{
		Name:    "Git repository",
		Passed:  true,
		Message: "working tree found",
	}
}

// CheckGitHubRepo checks that a GitHub owner/name pair can be determined,
// either from configuration or by parsing the origin remote.
func CheckGitHubRepo(cfg *config.Configuration) CheckResult {
	if cfg != nil && cfg.Github.Owner != "" {
		return CheckResult{
			Name:    "GitHub repository",
			Passed:  true,
			Message: fmt.Sprintf("%s/%s (config)", cfg.Github.Owner, cfg.Github.Repo),
			Source:  SourceConfig,
		}
	}

	repo, err := git.Open("")
	if err != nil {
		return CheckResult{
			Name:    "GitHub repository",
			Passed:  false,
			Message: "cannot inspect origin: not a git repository",
			Source:  SourceOrigin,
		}
	}

	origin, err := repo.OriginRepo()
	if err != nil {
		return CheckResult{
			Name:    "GitHub repository",
			Passed:  false,
			Message: fmt.Sprintf("cannot determine owner/name: %v - set github.owner and github.repo", err),
			Source:  SourceOrigin,
		}
	}

	return CheckResult{
		Name:    "GitHub repository",
		Passed:  true,
		Message: fmt.Sprintf("%s (origin)", origin),
		Source:  SourceOrigin,
	}
}

// CheckToken checks whether the configured token variable is set. A missing
// token is reported but does not fail the report: unauthenticated requests
// work, just with lower rate limits.
func CheckToken(cfg *config.Configuration) CheckResult {
	tokenEnv := "GITHUB_TOKEN"
	if cfg != nil {
		tokenEnv = cfg.Github.TokenEnv
	}

	if tokenEnv == "" {
		return CheckResult{
			Name:     "GitHub token",
			Passed:   false,
			Optional: true,
			Message:  "disabled (github.token_env is empty); requests are unauthenticated",
		}
	}

	if os.Getenv(tokenEnv) == "" {
		return CheckResult{
			Name:     "GitHub token",
			Passed:   false,
			Optional: true,
			Message:  fmt.Sprintf("%s is not set; unauthenticated requests are rate limited", tokenEnv),
		}
	}

	return CheckResult{
		Name:    "GitHub token",
		Passed:  true,
		Message: fmt.Sprintf("%s is set", tokenEnv),
	}
}

// CheckChangelog checks that the changelog file exists and has the top-level
// title heading release sections anchor to.
func CheckChangelog(cfg *config.Configuration) CheckResult {
	path := "CHANGELOG.md"
	if cfg != nil {
		path = cfg.ChangelogFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:    "Changelog",
			Passed:  false,
			Message: fmt.Sprintf("%s not found - run 'shiplog init' to create it", path),
		}
	}
	if err != nil {
		return CheckResult{
			Name:    "Changelog",
			Passed:  false,
			Message: fmt.Sprintf("reading %s: %v", path, err),
		}
	}

	if _, err := changelog.ParseDocument(string(data)); err != nil {
		return CheckResult{
			Name:    "Changelog",
			Passed:  false,
			Message: fmt.Sprintf("%s has no top-level title heading to anchor releases", path),
		}
	}

	return CheckResult{
		Name:    "Changelog",
		Passed:  true,
		Message: fmt.Sprintf("%s anchored for release sections", path),
	}
}

// CheckVersionTags checks that the repository has at least one semantic
// version tag to default the range start to. When a previous run recorded a
// release, the recorded tag must still resolve.
func CheckVersionTags() CheckResult {
	repo, err := git.Open("")
	if err != nil {
		return CheckResult{
			Name:     "Version tags",
			Passed:   false,
			Optional: true,
			Message:  "skipped: not a git repository",
		}
	}

	tag, ok, err := repo.LatestVersionTag()
	if err != nil {
		return CheckResult{
			Name:    "Version tags",
			Passed:  false,
			Message: fmt.Sprintf("listing tags: %v", err),
		}
	}
	if !ok {
		return CheckResult{
			Name:     "Version tags",
			Passed:   false,
			Optional: true,
			Message:  "no semantic version tags yet; pass --from on first use",
		}
	}

	if st, err := state.Load(); err == nil && st.LastRelease != "" {
		if _, err := repo.CommitDate(st.LastRelease); err != nil {
			return CheckResult{
				Name:     "Version tags",
				Passed:   false,
				Optional: true,
				Message:  fmt.Sprintf("recorded release %s has no matching tag; latest is %s", st.LastRelease, tag),
			}
		}
	}

	return CheckResult{
		Name:    "Version tags",
		Passed:  true,
		Message: fmt.Sprintf("latest is %s", tag),
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			output += fmt.Sprintf("○ %s: %s\n", check.Name, check.Message)
		default:
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return output
}
