package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var citationCmd = &cobra.Command{
	Use:   "citation <familyId> [personName]",
	Short: "Render a citation for a family or one person within it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCitation,
}

func runCitation(cmd *cobra.Command, args []string) error {
	familyID := args[0]
	var target string
	if len(args) > 1 {
		target = args[1]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), Cfg.Extractor.Timeout)
	defer cancel()

	text, err := Service.Citation(ctx, familyID, target)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

// GetCitationCommand returns the citation command.
func GetCitationCommand() *cobra.Command {
	return citationCmd
}
