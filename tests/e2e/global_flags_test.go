//go:build e2e

// Package e2e provides end-to-end tests for the shiplog CLI.
package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiplog-dev/shiplog/internal/cli"
	"github.com/shiplog-dev/shiplog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestE2E_ConfigFlag verifies --config points command runs at an explicit
// config file.
func TestE2E_ConfigFlag(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	alt := filepath.Join(".shiplog", "alt.yml")
	env.WriteProjectConfig("tag_prefix: release-\n")
	// A second config under a non-default name, reachable only via --config.
	altContent := "tag_prefix: build-\n"
	writeFile(t, filepath.Join(env.TempDir(), alt), altContent)

	result := env.Run("--config", alt, "config", "show")

	require.Equal(t, cli.ExitSuccess, result.ExitCode,
		"stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	assert.Contains(t, result.Stdout, "tag_prefix: build-")
}

func TestE2E_ConfigFlagMissingFile(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("--config", "nope.yml", "config", "show")

	require.Equal(t, cli.ExitRuntimeError, result.ExitCode,
		"stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	assert.Contains(t, strings.ToLower(result.Stderr), "not found")
}

// TestE2E_DebugFlag verifies --debug emits repository tracing to stderr
// without touching stdout.
func TestE2E_DebugFlag(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	setupReleaseFixture(t, env)

	result := env.Run("--debug", "generate", "--dry-run")

	require.Equal(t, cli.ExitSuccess, result.ExitCode,
		"stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	assert.Contains(t, result.Stderr, "debug:")
	assert.Contains(t, result.Stderr, "[git]")
	assert.NotContains(t, result.Stdout, "debug:",
		"debug output must not pollute the preview on stdout")
}

func TestE2E_DebugFlagOffByDefault(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	setupReleaseFixture(t, env)

	result := env.Run("generate", "--dry-run")

	require.Equal(t, cli.ExitSuccess, result.ExitCode,
		"stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	assert.NotContains(t, result.Stderr, "[git]")
}

// TestE2E_SubcommandHelp verifies every command answers -h.
func TestE2E_SubcommandHelp(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantSub string
	}{
		"generate help": {
			args:    []string{"generate", "-h"},
			wantSub: "--dry-run",
		},
		"show help": {
			args:    []string{"show", "-h"},
			wantSub: "--file",
		},
		"init help": {
			args:    []string{"init", "-h"},
			wantSub: "--force",
		},
		"config help": {
			args:    []string{"config", "-h"},
			wantSub: "show",
		},
		"doctor help": {
			args:    []string{"doctor", "-h"},
			wantSub: "doctor",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)

			result := env.Run(tt.args...)

			require.Equal(t, cli.ExitSuccess, result.ExitCode,
				"stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
			require.Contains(t, result.Stdout, tt.wantSub)
		})
	}
}

// TestE2E_CommandGroups verifies the root help organizes commands into
// groups.
func TestE2E_CommandGroups(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("--help")

	require.Equal(t, cli.ExitSuccess, result.ExitCode)
	assert.Contains(t, result.Stdout, "Getting Started:")
	assert.Contains(t, result.Stdout, "Release Commands:")
	assert.Contains(t, result.Stdout, "Configuration Commands:")
}

func TestE2E_CommandAliases(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	setupReleaseFixture(t, env)

	// "gen" is an alias for generate.
	result := env.Run("gen", "--dry-run")

	require.Equal(t, cli.ExitSuccess, result.ExitCode,
		"stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	assert.Contains(t, result.Stdout, "## v1.1.0 (")
}
