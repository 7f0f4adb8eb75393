package dedup

import (
	"github.com/tidyanki/tidyanki/internal/models"
)

// CompareFunc decides whether two raw field values are duplicates. The
// default compares normalized text.
type CompareFunc func(a, b string) bool

// Options configure the comparison rule.
type Options struct {
	// FieldIndex selects which note field is compared. Default 0 (front).
	FieldIndex int
	// Compare overrides the normalized-equality rule for pairwise
	// operations (FindDuplicates, FilterAgainst, Overlap). Grouping always
	// uses normalized keys since a custom predicate need not be transitive.
	Compare CompareFunc
}

func (o Options) compare() CompareFunc {
	if o.Compare != nil {
		return o.Compare
	}
	return func(a, b string) bool {
		return Normalize(a) == Normalize(b)
	}
}

// key returns the normalized comparison key of a card, or ok=false when the
// card has too few fields to compare. Such cards never match anything.
func key(card models.Card, fieldIndex int) (string, bool) {
	if fieldIndex >= len(card.Fields) {
		return "", false
	}
	return Normalize(card.Fields[fieldIndex]), true
}

// GroupCards partitions cards into duplicate groups. Every card lands in
// exactly one group; cards whose normalized comparison field matches share a
// group. Groups appear in order of their first card, and each group's cards
// keep input order, so the first card is the representative.
func GroupCards(cards []models.Card, opts Options) []models.DuplicateGroup {
	var groups []models.DuplicateGroup
	index := make(map[string]int, len(cards))

	for _, card := range cards {
		k, ok := key(card, opts.FieldIndex)
		if !ok {
			// No comparable field: singleton group.
			groups = append(groups, models.DuplicateGroup{Cards: []models.Card{card}})
			continue
		}
		if i, seen := index[k]; seen {
			groups[i].Cards = append(groups[i].Cards, card)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, models.DuplicateGroup{Key: k, Cards: []models.Card{card}})
	}
	return groups
}

// Representatives reduces duplicate groups to one card each, preserving the
// original relative order of the surviving cards. Running it over already
// reduced output returns the same cards.
func Representatives(groups []models.DuplicateGroup) []models.Card {
	cards := make([]models.Card, 0, len(groups))
	for _, g := range groups {
		cards = append(cards, g.Representative())
	}
	return cards
}

// FindDuplicates returns the cards from newCards whose comparison field
// matches some card in collection.
func FindDuplicates(newCards, collection []models.Card, opts Options) []models.Card {
	dupes, _ := partitionAgainst(newCards, collection, opts)
	return dupes
}

// FilterAgainst returns the cards from newCards that do NOT match any card
// in collection, preserving input order.
func FilterAgainst(newCards, collection []models.Card, opts Options) []models.Card {
	_, unique := partitionAgainst(newCards, collection, opts)
	return unique
}

func partitionAgainst(newCards, collection []models.Card, opts Options) (dupes, unique []models.Card) {
	cmp := opts.compare()
	for _, card := range newCards {
		if opts.FieldIndex >= len(card.Fields) {
			unique = append(unique, card)
			continue
		}
		matched := false
		for _, existing := range collection {
			if opts.FieldIndex >= len(existing.Fields) {
				continue
			}
			if cmp(card.Fields[opts.FieldIndex], existing.Fields[opts.FieldIndex]) {
				matched = true
				break
			}
		}
		if matched {
			dupes = append(dupes, card)
		} else {
			unique = append(unique, card)
		}
	}
	return dupes, unique
}
