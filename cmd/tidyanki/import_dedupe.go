package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importOutput string

var importDedupeCmd = &cobra.Command{
	Use:   "import-dedupe <file.apkg>",
	Short: "Strip notes already in the collection from a package",
	Long: `Import-dedupe reads an .apkg package, drops every note whose
comparison field already appears in the collection, and writes the rest to
"<name> (Deduplicated).apkg". Import that file into Anki instead of the
original to avoid re-adding cards you already have.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		result, err := tk.imports.ImportDedupe(commandContext(cmd), args[0], importOutput)
		if err != nil {
			return err
		}

		fmt.Printf("%d notes in package, %d already in the collection\n",
			result.NotesInPackage, result.DuplicateNotes)
		if result.Export.Path == "" {
			fmt.Println("Every note already exists, nothing to write.")
			return nil
		}

		color.Green("Wrote %s (%d notes, %d cards)",
			result.Export.Path, result.Export.NotesExported, result.Export.CardsCreated)
		return nil
	},
}

func init() {
	importDedupeCmd.Flags().StringVar(&importOutput, "output", "", "directory for the deduplicated package (default: next to the source)")
	rootCmd.AddCommand(importDedupeCmd)
}
