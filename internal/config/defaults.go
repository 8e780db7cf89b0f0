package config

import "github.com/shiplog-dev/shiplog/internal/changelog"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Shiplog Configuration
# Precedence: SHIPLOG_* environment variables > this file > user config > defaults

changelog_file: CHANGELOG.md          # Changelog document to read and update
tag_prefix: v                         # Prefix for release headings (## v1.2.0)

# GitHub settings
github:
  owner: ""                           # Repository owner (empty = derive from origin remote)
  repo: ""                            # Repository name (empty = derive from origin remote)
  token_env: GITHUB_TOKEN             # Environment variable holding the API token
  # api_base_url: ""                  # GitHub Enterprise API endpoint (empty = github.com)

fetch_concurrency: 5                  # Parallel GitHub API requests (1-64)

# Commit classification table. Uncommenting this replaces the built-in
# table entirely; declaration order is section output order.
# categories:
#   - prefix: feat
#     section: Features
#     minor: true                     # Commits here bump the minor version
#   - prefix: fix
#     section: Bug Fixes
#   - prefix: perf
#     section: Performance Improvements
#   - prefix: docs
#     section: Documentation
#   - prefix: deps
#     section: Dependency Upgrades
#     omit_credits: true              # Skip author credits in this section
#   - prefix: revert
#     section: Reverts
#   - prefix: chore
#     hidden: true                    # Classified but never rendered
#   - prefix: test
#     hidden: true
#   - prefix: ci
#     hidden: true
#   - prefix: style
#     hidden: true
#   - prefix: refactor
#     hidden: true
#   - prefix: build
#     hidden: true
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_file": "CHANGELOG.md",
		"tag_prefix":     "v",
		// github: Repository coordinates and authentication for the
		// metadata fetch. Owner and repo stay empty so they derive from
		// the origin remote of whatever repository shiplog runs in.
		"github.owner": "",
		"github.repo":  "",
		// token_env: The token is read from this environment variable,
		// never from a config file.
		"github.token_env":    "GITHUB_TOKEN",
		"github.api_base_url": "",
		// fetch_concurrency: Bounded fan-out for per-commit API calls.
		"fetch_concurrency": 5,
		// categories: The built-in classification table. A config file
		// that sets this key replaces the whole table.
		"categories": categoryTable(changelog.DefaultTypes()),
	}
}

// categoryTable converts a type table to its configuration
// representation, the same shape a YAML config file produces.
func categoryTable(types []changelog.Type) []map[string]interface{} {
	table := make([]map[string]interface{}, 0, len(types))
	for _, t := range types {
		entry := map[string]interface{}{"prefix": t.Prefix}
		if t.Section != "" {
			entry["section"] = t.Section
		}
		if t.Hidden {
			entry["hidden"] = true
		}
		if t.Minor {
			entry["minor"] = true
		}
		if t.OmitCredits {
			entry["omit_credits"] = true
		}
		table = append(table, entry)
	}
	return table
}
