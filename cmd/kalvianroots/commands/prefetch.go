package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/internal/clilog"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [anchorFamilyId]",
	Short: "Warm the cache by resolving upcoming families in the background",
	Long:  "Without an anchor, walks the entire compendium in file order, skipping already-cached families. With an anchor, resolves at most the configured window size of uncached families following it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrefetch,
}

func runPrefetch(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		clilog.PrintInfo("ℹ prefetching up to %d families after %s...\n", Service.Scheduler.WindowSize, args[0])
		Service.Scheduler.StartPrefetchFrom(args[0])
	} else {
		clilog.PrintInfo("ℹ prefetching the entire compendium...\n")
		Service.Scheduler.StartPrefetchAll("")
	}

	for {
		state := Service.Scheduler.State()
		if !state.IsPrefetching {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	final := Service.Scheduler.State()
	if final.LastError != nil {
		clilog.PrintWarning("⚠ last prefetch error: %v\n", final.LastError)
	}
	clilog.PrintSuccess("✓ prefetched %d/%d families\n", final.CompletedCount, final.TotalCount)
	clilog.PrintHint("  correlation id: %s\n", final.CorrelationID)
	return nil
}

// GetPrefetchCommand returns the prefetch command.
func GetPrefetchCommand() *cobra.Command {
	return prefetchCmd
}
