package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List decks in the collection with card counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		ctx := commandContext(cmd)
		decks, err := tk.decks.ListDecks(ctx)
		if err != nil {
			return err
		}

		if len(decks) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		for _, d := range decks {
			bold.Printf("%-50s", d.Name)
			faint.Printf(" %d cards\n", d.CardCount)
		}
		noteCount, err := tk.decks.CountNotes(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("\n%d decks, %d notes\n", len(decks), noteCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decksCmd)
}
