package cli

import (
	"fmt"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/shiplog-dev/shiplog/internal/config"
	clierrors "github.com/shiplog-dev/shiplog/internal/errors"
)

var configShowJSONFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect shiplog configuration",
	Long: `Inspect shiplog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (SHIPLOG_*)
  2. Project config (.shiplog/config.yml)
  3. User config (~/.config/shiplog/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  shiplog config show

  # Machine-readable form
  shiplog config show --json

  # Create a config file
  shiplog init`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration after all layers merge",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowJSONFlag, "json", false, "Emit JSON instead of YAML")
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFileFlag)
	if err != nil {
		clierrors.PrintError(clierrors.ConfigLoadFailed(err))
		return NewExitError(ExitRuntimeError)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return fmt.Errorf("flattening configuration: %w", err)
	}

	var parser koanf.Parser = kyaml.Parser()
	if configShowJSONFlag {
		parser = kjson.Parser()
	}
	encoded, err := k.Marshal(parser)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	rendered := string(encoded)
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
