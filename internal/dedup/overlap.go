package dedup

import (
	"github.com/tidyanki/tidyanki/internal/models"
)

// Overlap computes every matching pair between two decks. A card matching
// several cards on the other side produces one pair per match; pairs are
// emitted in deck1 input order, then deck2 input order. The report's counts
// track distinct matched cards per side, so reversing the arguments yields
// the same pairs with sides swapped.
func Overlap(deck1Name string, deck1 []models.Card, deck2Name string, deck2 []models.Card, opts Options) models.OverlapReport {
	cmp := opts.compare()

	report := models.OverlapReport{
		Deck1Name:  deck1Name,
		Deck2Name:  deck2Name,
		Deck1Total: len(deck1),
		Deck2Total: len(deck2),
	}

	matched2 := make(map[int]bool)
	for _, c1 := range deck1 {
		if opts.FieldIndex >= len(c1.Fields) {
			continue
		}
		matched1 := false
		for j, c2 := range deck2 {
			if opts.FieldIndex >= len(c2.Fields) {
				continue
			}
			if cmp(c1.Fields[opts.FieldIndex], c2.Fields[opts.FieldIndex]) {
				report.Pairs = append(report.Pairs, models.OverlapPair{Deck1Card: c1, Deck2Card: c2})
				matched1 = true
				matched2[j] = true
			}
		}
		if matched1 {
			report.Overlap1++
		}
	}
	report.Overlap2 = len(matched2)

	report.Deck1Unique = report.Deck1Total - report.Overlap1
	report.Deck2Unique = report.Deck2Total - report.Overlap2
	if report.Deck1Total > 0 {
		report.Deck1Pct = float64(report.Overlap1) / float64(report.Deck1Total) * 100
	}
	if report.Deck2Total > 0 {
		report.Deck2Pct = float64(report.Overlap2) / float64(report.Deck2Total) * 100
	}
	return report
}
