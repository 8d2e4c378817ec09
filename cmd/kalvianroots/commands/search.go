package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/internal/clilog"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search cached families and persons by name or family ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	matches, err := Service.Search(args[0])
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		clilog.PrintInfo("  no matches\n")
		return nil
	}

	clilog.PrintSuccess("✓ %d matches\n", len(matches))
	for _, m := range matches {
		fmt.Printf("  %-10s %-7s %s", m.FamilyID, m.Role, m.DisplayName)
		if m.BirthDate != "" {
			fmt.Printf(" (s. %s)", m.BirthDate)
		}
		fmt.Println()
	}
	return nil
}

// GetSearchCommand returns the search command.
func GetSearchCommand() *cobra.Command {
	return searchCmd
}
