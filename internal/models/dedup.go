package models

// DuplicateGroup is a set of cards judged equivalent under the comparison
// rule. Cards keeps input order; the first card is the group's
// representative.
type DuplicateGroup struct {
	Key   string `json:"key"`
	Cards []Card `json:"cards"`
}

// Representative returns the card that survives deduplication for this group.
func (g DuplicateGroup) Representative() Card {
	return g.Cards[0]
}

// DedupResult is the outcome of checking one deck against the rest of the
// collection.
type DedupResult struct {
	DeckName   string `json:"deck_name"`
	Total      int    `json:"total_cards"`
	Unique     []Card `json:"unique_cards"`
	Duplicates []Card `json:"duplicate_cards"`
}

// OverlapPair is one matched pair of cards, one from each compared deck.
type OverlapPair struct {
	Deck1Card Card `json:"deck1_card"`
	Deck2Card Card `json:"deck2_card"`
}

// OverlapReport summarizes the overlap between two decks. Pairs lists every
// matching pair, so a card matching several cards in the other deck appears
// once per match. The counts track distinct cards per side.
type OverlapReport struct {
	Deck1Name   string        `json:"deck1_name"`
	Deck2Name   string        `json:"deck2_name"`
	Deck1Total  int           `json:"deck1_total_cards"`
	Deck2Total  int           `json:"deck2_total_cards"`
	Overlap1    int           `json:"deck1_overlap_cards"`
	Overlap2    int           `json:"deck2_overlap_cards"`
	Deck1Unique int           `json:"deck1_unique_cards"`
	Deck2Unique int           `json:"deck2_unique_cards"`
	Deck1Pct    float64       `json:"overlap_percentage_deck1"`
	Deck2Pct    float64       `json:"overlap_percentage_deck2"`
	Pairs       []OverlapPair `json:"pairs"`
}
