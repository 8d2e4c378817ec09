package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/internal/clilog"
	"github.com/michaelbendio/kalvian-roots/internal/gedcomexport"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resolved family network",
}

var exportGedcomCmd = &cobra.Command{
	Use:   "gedcom <familyId> <outFile>",
	Short: "Write the resolved network as a GEDCOM 5.5.1 file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		familyID, outFile := args[0], args[1]

		ctx, cancel := context.WithTimeout(cmd.Context(), Cfg.Extractor.Timeout)
		defer cancel()

		doc, err := Service.ExportGEDCOM(ctx, familyID)
		if err != nil {
			return err
		}

		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := gedcomexport.Write(f, doc); err != nil {
			return err
		}

		clilog.PrintSuccess("✓ wrote %s\n", outFile)
		return nil
	},
}

var exportYAMLCmd = &cobra.Command{
	Use:   "yaml <familyId> <outFile>",
	Short: "Write the resolved network as YAML",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		familyID, outFile := args[0], args[1]

		ctx, cancel := context.WithTimeout(cmd.Context(), Cfg.Extractor.Timeout)
		defer cancel()

		data, err := Service.ExportYAML(ctx, familyID)
		if err != nil {
			return err
		}

		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			return err
		}

		clilog.PrintSuccess("✓ wrote %s\n", outFile)
		return nil
	},
}

func init() {
	exportCmd.AddCommand(exportGedcomCmd, exportYAMLCmd)
}

// GetExportCommand returns the export command group.
func GetExportCommand() *cobra.Command {
	return exportCmd
}
