package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var comparePairs bool

var compareCmd = &cobra.Command{
	Use:   "compare <deck1> <deck2>",
	Short: "Report the overlap between two decks",
	Long: `Compare finds cards that appear in both decks, judged by the comparison
field after normalization: HTML tags and sound references stripped, whitespace
collapsed, case and diacritics folded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		report, err := tk.dedup.CompareDecks(commandContext(cmd), args[0], args[1])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Printf("%s vs %s\n\n", report.Deck1Name, report.Deck2Name)
		fmt.Printf("%-30s %6d cards, %4d shared (%.1f%%), %4d unique\n",
			report.Deck1Name, report.Deck1Total, report.Overlap1, report.Deck1Pct, report.Deck1Unique)
		fmt.Printf("%-30s %6d cards, %4d shared (%.1f%%), %4d unique\n",
			report.Deck2Name, report.Deck2Total, report.Overlap2, report.Deck2Pct, report.Deck2Unique)

		if comparePairs && len(report.Pairs) > 0 {
			fmt.Println()
			for _, p := range report.Pairs {
				fmt.Printf("  %s  <->  %s\n", oneLine(p.Deck1Card.Front()), oneLine(p.Deck2Card.Front()))
			}
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().BoolVar(&comparePairs, "pairs", false, "list every matching card pair")
	rootCmd.AddCommand(compareCmd)
}
