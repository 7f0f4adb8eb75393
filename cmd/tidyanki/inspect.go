package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/services"
)

var inspectSamples int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Summarize the contents of an .apkg package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Package inspection reads only the file, no collection needed.
		svc := services.NewImportService(nil, services.NewExportService(nil), dedup.Options{})

		info, err := svc.InspectPackage(commandContext(cmd), args[0], inspectSamples)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Printf("%s\n\n", info.Path)
		fmt.Printf("Decks:          %s\n", strings.Join(info.DeckNames, ", "))
		fmt.Printf("Notes:          %d\n", info.NoteCount)
		fmt.Printf("Note types:     %d\n", info.NoteTypeCount)
		fmt.Printf("Cards (est.):   %d\n", info.EstimatedCards)
		fmt.Printf("Media files:    %d\n", info.MediaCount)

		if len(info.FieldCounts) > 0 {
			counts := make([]int, 0, len(info.FieldCounts))
			for n := range info.FieldCounts {
				counts = append(counts, n)
			}
			sort.Ints(counts)
			fmt.Println("\nFields per note:")
			for _, n := range counts {
				fmt.Printf("  %2d fields: %d notes\n", n, info.FieldCounts[n])
			}
		}

		if len(info.SampleNotes) > 0 {
			fmt.Println("\nSample notes:")
			for _, n := range info.SampleNotes {
				fmt.Printf("  %s\n", oneLine(strings.Join(n.Fields, " | ")))
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectSamples, "samples", 5, "number of sample notes to print")
	rootCmd.AddCommand(inspectCmd)
}
