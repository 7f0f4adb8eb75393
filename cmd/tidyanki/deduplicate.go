package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	dedupOutput string
	dedupDryRun bool
)

var deduplicateCmd = &cobra.Command{
	Use:   "deduplicate <deck>",
	Short: "Export a deck without the cards that already exist elsewhere",
	Long: `Deduplicate checks every card in the deck against the rest of the
collection and writes the ones that are not duplicated anywhere else to a new
.apkg package. The collection itself is never modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		ctx := commandContext(cmd)
		deckName := args[0]

		result, err := tk.dedup.DeduplicateDeck(ctx, deckName)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Printf("%s\n", deckName)
		fmt.Printf("  %d cards, %d unique, %d already elsewhere\n",
			result.Total, len(result.Unique), len(result.Duplicates))

		if dedupDryRun {
			for _, c := range result.Duplicates {
				fmt.Printf("  duplicate: %s\n", oneLine(c.Front()))
			}
			return nil
		}
		if len(result.Unique) == 0 {
			fmt.Println("Nothing left to export.")
			return nil
		}

		outPath := filepath.Join(outputDirOr(dedupOutput), deckName+" (Deduplicated).apkg")
		export, err := tk.export.ExportCards(ctx, deckName, result.Unique, outPath)
		if err != nil {
			return err
		}

		color.Green("Wrote %s (%d notes, %d cards)", export.Path, export.NotesExported, export.CardsCreated)
		return nil
	},
}

func outputDirOr(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.OutputDir
}

func init() {
	deduplicateCmd.Flags().StringVar(&dedupOutput, "output", "", "directory for the deduplicated package (default: OUTPUT_DIR)")
	deduplicateCmd.Flags().BoolVar(&dedupDryRun, "dry-run", false, "report duplicates without writing a package")
	rootCmd.AddCommand(deduplicateCmd)
}
