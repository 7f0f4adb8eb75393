package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tidyanki/tidyanki/internal/models"
)

var cardsLimit int

var cardsCmd = &cobra.Command{
	Use:   "cards <deck>",
	Short: "List the cards in a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		cards, err := tk.cards.ListDeckCards(commandContext(cmd), args[0], cardsLimit)
		if err != nil {
			return err
		}

		printCards(cards)
		return nil
	},
}

func printCards(cards []models.Card) {
	if len(cards) == 0 {
		fmt.Println("No cards found.")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	for _, c := range cards {
		bold.Println(oneLine(c.Front()))
		if len(c.Fields) > 1 {
			fmt.Printf("  %s\n", oneLine(c.Fields[1]))
		}
		if len(c.Tags) > 0 {
			faint.Printf("  tags: %s\n", strings.Join(c.Tags, " "))
		}
	}
	fmt.Printf("\n%d cards\n", len(cards))
}

// oneLine flattens a field value for terminal display, truncating on rune
// boundaries so multibyte text is never cut mid-character.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > 120 {
		return string(runes[:117]) + "..."
	}
	return s
}

func init() {
	cardsCmd.Flags().IntVar(&cardsLimit, "limit", 0, "maximum number of cards to list (0 = all)")
	rootCmd.AddCommand(cardsCmd)
}
