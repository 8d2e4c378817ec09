package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/cmd/kalvianroots/commands"
	"github.com/michaelbendio/kalvian-roots/internal/clilog"
	"github.com/michaelbendio/kalvian-roots/internal/config"
)

var (
	version    = "0.1.0"
	configPath string
	sourcePath string
	quiet      bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:     "kalvianroots",
	Short:   "Resolve Finnish parish family records into citations",
	Long:    "kalvianroots resolves a family identifier against a parish-record compendium into a cross-referenced FamilyNetwork, and renders citations, GEDCOM, and search results from it.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			cfg = config.DefaultConfig()
		}
		if sourcePath != "" {
			cfg.Source.Path = sourcePath
		}
		if quiet {
			cfg.Output.Quiet = true
		}
		if noColor {
			cfg.Output.Color = false
		}

		clilog.InitColor(cfg.Output.Color)
		clilog.SetQuiet(cfg.Output.Quiet)

		return commands.Init(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&sourcePath, "source", "", "path to the parish-record compendium (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(commands.GetLookupCommand())
	rootCmd.AddCommand(commands.GetCitationCommand())
	rootCmd.AddCommand(commands.GetPrefetchCommand())
	rootCmd.AddCommand(commands.GetCacheCommand())
	rootCmd.AddCommand(commands.GetExportCommand())
	rootCmd.AddCommand(commands.GetSearchCommand())
	rootCmd.AddCommand(commands.GetInteractiveCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		clilog.PrintError("✗ %v\n", err)
		os.Exit(commands.ExitCodeFor(err))
	}
}
