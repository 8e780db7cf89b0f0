// Package config loads shiplog configuration from defaults, the user
// config file, the project config file, and environment variables, in
// increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/shiplog-dev/shiplog/internal/changelog"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// SHIPLOG_TAG_PREFIX or SHIPLOG_GITHUB_OWNER.
const envPrefix = "SHIPLOG_"

// Configuration holds the effective shiplog settings after all layers
// have been merged.
type Configuration struct {
	// ChangelogFile is the path of the changelog document, relative to
	// the working directory unless absolute.
	ChangelogFile string `koanf:"changelog_file" validate:"required"`

	// TagPrefix is prepended to computed versions in release headings.
	TagPrefix string `koanf:"tag_prefix"`

	// Github holds settings for the commit metadata fetch.
	Github GithubConfig `koanf:"github"`

	// FetchConcurrency bounds parallel GitHub API requests. Zero means
	// the client default.
	FetchConcurrency int `koanf:"fetch_concurrency" validate:"min=0,max=64"`

	// Categories is the commit classification table. A config file that
	// sets this replaces the built-in table entirely.
	Categories []changelog.Type `koanf:"categories" validate:"required"`
}

// GithubConfig identifies the repository on GitHub and how to
// authenticate against the API.
type GithubConfig struct {
	// Owner and Repo name the repository. Both are derived from the
	// origin remote when left empty.
	Owner string `koanf:"owner"`
	Repo  string `koanf:"repo"`

	// TokenEnv names the environment variable holding the API token.
	// The token itself never lives in a config file.
	TokenEnv string `koanf:"token_env"`

	// APIBaseURL overrides the GitHub API endpoint, for GitHub
	// Enterprise installations.
	APIBaseURL string `koanf:"api_base_url" validate:"omitempty,url"`
}

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// ProjectConfigPath overrides the default project config location.
	ProjectConfigPath string

	// SkipUserConfig skips the user-level config file. Used by tests to
	// isolate from the developer's own configuration.
	SkipUserConfig bool
}

// Load reads configuration using the given project config path, or the
// default location when empty.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions reads configuration with explicit loading behavior.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("loading default configuration: %w", err)
	}

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	return finalizeConfig(k)
}

// loadDefaults populates the koanf instance with default values.
func loadDefaults(k *koanf.Koanf) error {
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	return nil
}

// loadUserConfig merges the user-level config file if it exists.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil {
		// No resolvable user config dir; nothing to merge.
		return nil
	}
	if !fileExists(path) {
		return nil
	}
	return loadYAMLFile(k, path)
}

// loadProjectConfig merges the project config file if it exists. An
// explicit path that does not exist is an error; the default path is
// optional.
func loadProjectConfig(k *koanf.Koanf, path string) error {
	if path != "" {
		if !fileExists(path) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return loadYAMLFile(k, path)
	}

	defaultPath := ProjectConfigPath()
	if !fileExists(defaultPath) {
		return nil
	}
	return loadYAMLFile(k, defaultPath)
}

// loadYAMLFile validates and merges a single YAML config file.
func loadYAMLFile(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig merges SHIPLOG_* environment variable overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	return k.Load(env.Provider(envPrefix, ".", envTransform), nil)
}

// nestedEnvKeys maps flattened environment variable names onto nested
// configuration keys. GitHub settings live under the github key, so
// their variables need an explicit mapping.
var nestedEnvKeys = map[string]string{
	"github_owner":        "github.owner",
	"github_repo":         "github.repo",
	"github_token_env":    "github.token_env",
	"github_api_base_url": "github.api_base_url",
}

// envTransform converts an environment variable name to its
// configuration key, e.g. SHIPLOG_TAG_PREFIX to tag_prefix.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if nested, ok := nestedEnvKeys[key]; ok {
		return nested
	}
	return key
}

// finalizeConfig unmarshals the merged configuration and applies
// post-processing and validation.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	cfg.ChangelogFile = expandHomePath(cfg.ChangelogFile)

	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Registry builds the commit classification registry from the
// configured category table.
func (c *Configuration) Registry() (*changelog.Registry, error) {
	return changelog.NewRegistry(c.Categories)
}

// Token reads the GitHub API token from the configured environment
// variable. Returns empty when the variable is unset, which limits the
// fetch to unauthenticated rate limits.
func (c *Configuration) Token() string {
	if c.Github.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Github.TokenEnv)
}

// fileExists checks whether a path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// expandHomePath expands a leading ~/ to the user's home directory.
func expandHomePath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
