package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shiplog-dev/shiplog/internal/config"
)

var (
	cGreen = color.New(color.FgGreen).SprintFunc()
	cDim   = color.New(color.Faint).SprintFunc()
	cBold  = color.New(color.Bold).SprintFunc()
)

// defaultChangelogSeed is the changelog written on first init. The title
// heading is the anchor release sections are inserted under.
const defaultChangelogSeed = `# Changelog

All notable changes to this project are documented in this file.
`

var (
	initUserFlag  bool
	initForceFlag bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize shiplog configuration and changelog",
	Long: `Initialize shiplog with everything needed to get started.

This command:
  1. Creates project configuration at .shiplog/config.yml
  2. Creates CHANGELOG.md with a title heading when no changelog exists

An existing config is left unchanged (use --force to overwrite it). An
existing changelog is never touched.

Configuration precedence (highest to lowest):
  1. Environment variables (SHIPLOG_*)
  2. Project config (.shiplog/config.yml)
  3. User config (~/.config/shiplog/config.yml)
  4. Built-in defaults`,
	Example: `  # Initialize the current project
  shiplog init

  # Create user-level config instead (applies to all your projects)
  shiplog init --user

  # Overwrite an existing config with defaults
  shiplog init --force`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runInit,
}

func init() {
	initCmd.GroupID = GroupGettingStarted
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initUserFlag, "user", false, "Create user-level config (~/.config/shiplog/config.yml)")
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "Overwrite existing config with defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	configPath, err := initConfigPath(initUserFlag)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	if err := initializeConfig(out, configPath, initForceFlag); err != nil {
		return err
	}

	// User-level init configures defaults only; the changelog belongs to a
	// project.
	if initUserFlag {
		return nil
	}

	if err := initializeChangelog(out); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nNext: run %s to check your setup, then %s to cut a release.\n",
		cBold("shiplog doctor"), cBold("shiplog generate"))
	return nil
}

// initializeConfig creates or overwrites the config file and reports what
// happened.
func initializeConfig(out io.Writer, configPath string, force bool) error {
	configExists := fileExistsCheck(configPath)

	if configExists && !force {
		fmt.Fprintf(out, "%s %s: exists at %s\n", cGreen("✓"), cBold("Config"), cDim(configPath))
		return nil
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	if configExists {
		fmt.Fprintf(out, "%s %s: overwritten at %s\n", cGreen("✓"), cBold("Config"), cDim(configPath))
	} else {
		fmt.Fprintf(out, "%s %s: created at %s\n", cGreen("✓"), cBold("Config"), cDim(configPath))
	}
	return nil
}

// initializeChangelog seeds the configured changelog file when it does not
// exist yet.
func initializeChangelog(out io.Writer) error {
	cfg, err := config.Load(cfgFileFlag)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	path := cfg.ChangelogFile
	if fileExistsCheck(path) {
		fmt.Fprintf(out, "%s %s: exists at %s\n", cGreen("✓"), cBold("Changelog"), cDim(path))
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating changelog directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultChangelogSeed), 0o644); err != nil {
		return fmt.Errorf("writing changelog: %w", err)
	}

	fmt.Fprintf(out, "%s %s: created at %s\n", cGreen("✓"), cBold("Changelog"), cDim(path))
	return nil
}

// initConfigPath returns the config location the user or project flag
// selects.
func initConfigPath(user bool) (string, error) {
	if !user {
		return config.ProjectConfigPath(), nil
	}
	return config.UserConfigPath()
}

// writeDefaultConfig writes the commented default configuration template.
func writeDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	template := config.GetDefaultConfigTemplate()
	if err := os.WriteFile(configPath, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
