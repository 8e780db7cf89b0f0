// Package cli tests the generate command's flag surface and argument
// validation.
// Related: internal/cli/generate.go
// Tags: cli, generate, flags

package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getGenerateCmd(t *testing.T) *cobra.Command {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "generate" {
			return cmd
		}
	}
	t.Fatal("generate command not found")
	return nil
}

func TestGenerateCmdRegistration(t *testing.T) {
	t.Parallel()

	cmd := getGenerateCmd(t)
	assert.Equal(t, GroupRelease, cmd.GroupID)
	assert.Contains(t, cmd.Aliases, "gen")
	assert.True(t, cmd.SilenceUsage)
}

func TestGenerateCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := getGenerateCmd(t)

	tests := map[string]struct {
		flagName string
		defValue string
		flagType string
	}{
		"from flag": {
			flagName: "from",
			defValue: "",
			flagType: "string",
		},
		"to flag": {
			flagName: "to",
			defValue: "HEAD",
			flagType: "string",
		},
		"file flag": {
			flagName: "file",
			defValue: "",
			flagType: "string",
		},
		"repo flag": {
			flagName: "repo",
			defValue: "",
			flagType: "string",
		},
		"dry-run flag": {
			flagName: "dry-run",
			defValue: "false",
			flagType: "bool",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.defValue, flag.DefValue)
			assert.Equal(t, tt.flagType, flag.Value.Type())
		})
	}
}

func TestGenerateCmdArgs(t *testing.T) {
	t.Parallel()

	cmd := getGenerateCmd(t)

	tests := map[string]struct {
		args    []string
		wantErr bool
	}{
		"no args": {
			args:    []string{},
			wantErr: false,
		},
		"positional arg rejected": {
			args:    []string{"v1.2.0"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := cmd.Args(cmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateCmdNotInRepo(t *testing.T) {
	chdirTemp(t)

	cmd, _, _ := newCaptureCmd()

	err := runGenerate(cmd)
	require.Error(t, err)
	assert.Equal(t, ExitRuntimeError, ExitCode(err))
}
