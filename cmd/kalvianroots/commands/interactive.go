package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/michaelbendio/kalvian-roots/internal/clilog"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive session for repeated lookups and citations",
	Long:  "Resolves families and renders citations in a loop without re-invoking the binary per family. Type 'help' for available commands, 'exit' or 'quit' to leave.",
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	clilog.PrintSuccess("✓ interactive mode ready\n")
	clilog.PrintInfo("  type 'help' for available commands\n")
	clilog.PrintInfo("  type 'exit' or 'quit' to leave\n\n")

	startREPL()
	return nil
}

func startREPL() {
	fileInfo, err := os.Stdin.Stat()
	if err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		startSimpleREPL()
		return
	}

	p := prompt.New(
		executeInteractive,
		completeInteractive,
		prompt.OptionPrefix("kalvianroots> "),
		prompt.OptionTitle("kalvianroots interactive"),
		prompt.OptionPrefixTextColor(prompt.Cyan),
	)
	p.Run()
}

func startSimpleREPL() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("kalvianroots> ")
		if !scanner.Scan() {
			break
		}
		executeInteractive(scanner.Text())
	}
}

func completeInteractive(d prompt.Document) []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "lookup", Description: "resolve a family"},
		{Text: "citation", Description: "render a citation"},
		{Text: "search", Description: "search cached persons"},
		{Text: "help", Description: "show available commands"},
		{Text: "exit", Description: "leave interactive mode"},
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

func executeInteractive(in string) {
	in = strings.TrimSpace(in)
	if in == "" {
		return
	}
	parts := strings.Fields(in)
	command, rest := parts[0], parts[1:]

	switch command {
	case "exit", "quit", "q":
		clilog.PrintInfo("goodbye\n")
		os.Exit(0)

	case "help", "h":
		printInteractiveHelp()

	case "lookup", "l":
		if len(rest) == 0 {
			clilog.PrintError("usage: lookup <familyId>\n")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), Cfg.Extractor.Timeout)
		defer cancel()
		net, err := Service.LookupFamily(ctx, strings.Join(rest, " "))
		if err != nil {
			clilog.PrintError("✗ %v\n", err)
			return
		}
		clilog.PrintSuccess("✓ resolved %s\n", net.MainFamily.FamilyID)
		printFamilySummary(net.MainFamily)

	case "citation", "c":
		if len(rest) == 0 {
			clilog.PrintError("usage: citation <familyId> [personName]\n")
			return
		}
		familyID := rest[0]
		var target string
		if len(rest) > 1 {
			target = strings.Join(rest[1:], " ")
		}
		ctx, cancel := context.WithTimeout(context.Background(), Cfg.Extractor.Timeout)
		defer cancel()
		text, err := Service.Citation(ctx, familyID, target)
		if err != nil {
			clilog.PrintError("✗ %v\n", err)
			return
		}
		fmt.Println(text)

	case "search", "s":
		if len(rest) == 0 {
			clilog.PrintError("usage: search <term>\n")
			return
		}
		matches, err := Service.Search(strings.Join(rest, " "))
		if err != nil {
			clilog.PrintError("✗ %v\n", err)
			return
		}
		for _, m := range matches {
			fmt.Printf("  %-10s %-7s %s\n", m.FamilyID, m.Role, m.DisplayName)
		}

	default:
		clilog.PrintError("unknown command: %s (type 'help')\n", command)
	}
}

func printInteractiveHelp() {
	clilog.PrintInfo("  lookup <familyId>              resolve a family and print its summary\n")
	clilog.PrintInfo("  citation <familyId> [person]   render a citation\n")
	clilog.PrintInfo("  search <term>                   search cached persons and families\n")
	clilog.PrintInfo("  exit, quit                      leave interactive mode\n")
}

// GetInteractiveCommand returns the interactive command.
func GetInteractiveCommand() *cobra.Command {
	return interactiveCmd
}
