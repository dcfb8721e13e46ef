package main

import (
	"fmt"
	"log/slog"

	"github.com/aluiziolira/go-scrape-laptops/config"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	configPath string
	verbose    bool
	outputDir  string
)

var rootCmd = &cobra.Command{
	Use:          "laptops",
	Short:        "laptops collects the laptop catalog and prepares price features.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			loaded.Verbose = verbose
		}
		if cmd.Flags().Changed("output-dir") {
			loaded.OutputDir = outputDir
		}
		applyCommandFlags(cmd, loaded)

		logger, level := newLogger(loaded.Verbose)
		slog.SetDefault(logger)
		slog.SetLogLoggerLevel(level.Level())

		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (yaml, json or toml); LAPTOPS_* env vars override it")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&outputDir, "output-dir", "o", "", "Directory for artifacts (default \"data\")")
}

// applyCommandFlags copies explicitly set subcommand flags onto c.
func applyCommandFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("metrics-addr") {
		c.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("category") {
		c.CategoryID, _ = flags.GetString("category")
	}
	if flags.Changed("page-size") {
		c.PageSize, _ = flags.GetInt("page-size")
	}
	if flags.Changed("format") {
		c.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("api-key") {
		c.InferenceAPIKey, _ = flags.GetString("api-key")
	}
}
