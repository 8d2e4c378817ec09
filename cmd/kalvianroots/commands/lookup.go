package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/internal/clilog"
	"github.com/michaelbendio/kalvian-roots/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <familyId>",
	Short: "Resolve a family and print its network summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	familyID := args[0]

	ctx, cancel := context.WithTimeout(cmd.Context(), Cfg.Extractor.Timeout)
	defer cancel()

	clilog.PrintInfo("ℹ resolving %s...\n", familyID)

	net, err := Service.LookupFamily(ctx, familyID)
	if err != nil {
		return err
	}

	clilog.PrintSuccess("✓ resolved %s\n", net.MainFamily.FamilyID)
	printFamilySummary(net.MainFamily)

	stats, ok := Service.Stats(familyID)
	if ok {
		clilog.PrintInfo("  resolved by family ID: %d, by birth date: %d, unresolved: %d, total: %d\n",
			stats.ResolvedByFamilyID, stats.ResolvedByBirthDate, stats.Unresolved, stats.Total)
		clilog.PrintHint("  correlation id: %s\n", stats.CorrelationID)
	}
	clilog.PrintInfo("  as-child families: %d, as-parent families: %d, spouse-as-child families: %d\n",
		len(net.AsChildFamilies()), len(net.AsParentFamilies()), len(net.SpouseAsChildFamilies()))

	return nil
}

func printFamilySummary(f types.Family) {
	if len(f.PageReferences) > 0 {
		clilog.PrintInfo("  pages: %v\n", f.PageReferences)
	}
	for i, c := range f.Couples {
		label := "couple"
		if i > 0 {
			label = fmt.Sprintf("remarriage %d", i)
		}
		clilog.PrintInfo("  %s: %s & %s (%d children)\n", label, c.Husband.DisplayName(), c.Wife.DisplayName(), len(c.Children))
	}
}

// GetLookupCommand returns the lookup command.
func GetLookupCommand() *cobra.Command {
	return lookupCmd
}
