package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration fijkctl would use, with defaults applied.

Without a config file this is the built-in default, which matches the
file written by "fijkctl init".`,
	Args: cobra.NoArgs,
	RunE: runConfigCmd,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(cfg)
		return nil
	}
	return cfg.Encode(os.Stdout)
}
