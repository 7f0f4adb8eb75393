package main

import (
	"github.com/spf13/cobra"
)

var (
	searchDeck  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search card text across the collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		cards, err := tk.cards.SearchCards(commandContext(cmd), args[0], searchDeck, searchLimit)
		if err != nil {
			return err
		}

		printCards(cards)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchDeck, "deck", "", "restrict the search to one deck")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "maximum number of matches (0 = all)")
	rootCmd.AddCommand(searchCmd)
}
