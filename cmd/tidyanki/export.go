package main

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tidyanki/tidyanki/internal/models"
)

var (
	exportSearch string
	exportLimit  int
	exportOutput string
	exportAs     string
)

var exportCmd = &cobra.Command{
	Use:   "export <deck>",
	Short: "Export a deck's notes to an .apkg package",
	Long: `Export packages a deck's notes as a standalone .apkg file, optionally
narrowed with --search. Notes get a synthesized front/back note type, since
the collection database does not carry the original model definitions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		deckName := args[0]
		targetName := exportAs
		if targetName == "" {
			targetName = deckName
		}

		filter := models.NoteFilter{
			DeckName: deckName,
			Search:   exportSearch,
			Limit:    exportLimit,
		}
		outPath := filepath.Join(outputDirOr(exportOutput), targetName+".apkg")

		result, err := tk.export.ExportFiltered(commandContext(cmd), filter, targetName, outPath)
		if err != nil {
			return err
		}

		color.Green("Wrote %s (%d notes, %d cards)", result.Path, result.NotesExported, result.CardsCreated)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "only export notes whose fields match")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum number of notes (0 = all)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "directory for the package (default: OUTPUT_DIR)")
	exportCmd.Flags().StringVar(&exportAs, "as", "", "deck name inside the package (default: the source deck)")
	rootCmd.AddCommand(exportCmd)
}
