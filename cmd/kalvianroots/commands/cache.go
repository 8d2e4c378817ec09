package commands

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/internal/clilog"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the family-network cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print entry count and on-disk size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := Service.Cache().All()
		clilog.PrintInfo("  entries: %s\n", humanize.Comma(int64(len(entries))))

		if info, err := os.Stat(Cfg.Cache.Path); err == nil {
			clilog.PrintInfo("  on-disk size: %s (%s)\n", humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard every cached family network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Service.Cache().Clear(); err != nil {
			return err
		}
		clilog.PrintSuccess("✓ cache cleared\n")
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <familyId>",
	Short: "Remove one family from the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Service.Cache().Delete(args[0]); err != nil {
			return err
		}
		clilog.PrintSuccess("✓ deleted %s from cache\n", args[0])
		return nil
	},
}

var cacheReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from the current cache contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Service.Reindex(); err != nil {
			return err
		}
		clilog.PrintSuccess("✓ search index rebuilt\n")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cacheDeleteCmd, cacheReindexCmd)
}

// GetCacheCommand returns the cache command group.
func GetCacheCommand() *cobra.Command {
	return cacheCmd
}
