package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <deck>",
	Short: "Show the scheduling state of a deck's cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		statuses, err := tk.cards.DeckStatus(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			fmt.Println("No cards found.")
			return nil
		}

		newCount, learning, review, suspended := 0, 0, 0, 0
		for _, c := range statuses {
			switch {
			case c.Queue < 0:
				suspended++
			case c.Queue == 0:
				newCount++
			case c.Queue == 1:
				learning++
			default:
				review++
			}
		}

		bold := color.New(color.Bold)
		bold.Printf("%s\n", args[0])
		fmt.Printf("  %d cards: %d new, %d learning, %d review, %d suspended\n",
			len(statuses), newCount, learning, review, suspended)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
