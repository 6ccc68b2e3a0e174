// Root command for the colporter CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/colporter/internal/paths"
	"github.com/mesh-intelligence/colporter/pkg/colporter"
	"github.com/mesh-intelligence/colporter/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var flagConfigDir string

// cfg holds the configuration loaded from config.yaml. Set by
// PersistentPreRunE so all subcommands can use it.
var cfg = types.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:     "colporter",
	Short:   "Colporter converts Anki collection archives to JSON",
	Version: colporter.Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The version command needs no configuration.
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}

		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		cfg = configFromViper(v)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
}
