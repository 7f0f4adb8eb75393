package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

// DedupService handles duplicate detection across the collection
type DedupService interface {
	CompareDecks(ctx context.Context, deck1, deck2 string) (*models.OverlapReport, error)
	FindDuplicates(ctx context.Context, deckName string) ([]models.DuplicateGroup, error)
	DeduplicateDeck(ctx context.Context, deckName string) (*models.DedupResult, error)
}

type dedupService struct {
	cards repository.CardRepository
	decks repository.DeckRepository
	opts  dedup.Options
}

// NewDedupService creates a new DedupService. opts carries the comparison
// field index and any custom comparison function.
func NewDedupService(cards repository.CardRepository, decks repository.DeckRepository, opts dedup.Options) DedupService {
	return &dedupService{cards: cards, decks: decks, opts: opts}
}

func (s *dedupService) requireDeck(ctx context.Context, name string) error {
	if name == "" {
		return errors.NewValidationError("deck", "name must not be empty")
	}
	_, err := s.decks.GetByName(ctx, name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("deck", name)
		}
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *dedupService) CompareDecks(ctx context.Context, deck1, deck2 string) (*models.OverlapReport, error) {
	log := logger.FromContext(ctx)
	log.Debug("comparing decks: deck1=%s, deck2=%s", deck1, deck2)

	if deck1 == deck2 {
		return nil, errors.NewValidationError("deck", "cannot compare a deck with itself")
	}
	if err := s.requireDeck(ctx, deck1); err != nil {
		return nil, err
	}
	if err := s.requireDeck(ctx, deck2); err != nil {
		return nil, err
	}

	cards1, err := s.cards.ListByDeck(ctx, deck1, 0)
	if err != nil {
		log.Error("failed to load deck %s: %v", deck1, err)
		return nil, errors.NewInternalError(err)
	}
	cards2, err := s.cards.ListByDeck(ctx, deck2, 0)
	if err != nil {
		log.Error("failed to load deck %s: %v", deck2, err)
		return nil, errors.NewInternalError(err)
	}

	report := dedup.Overlap(deck1, cards1, deck2, cards2, s.opts)
	log.Info("compared %s (%d cards) with %s (%d cards): %d pairs",
		deck1, report.Deck1Total, deck2, report.Deck2Total, len(report.Pairs))
	return &report, nil
}

func (s *dedupService) FindDuplicates(ctx context.Context, deckName string) ([]models.DuplicateGroup, error) {
	log := logger.FromContext(ctx)
	log.Debug("finding duplicates: deck=%s", deckName)

	if err := s.requireDeck(ctx, deckName); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByDeck(ctx, deckName, 0)
	if err != nil {
		log.Error("failed to load deck %s: %v", deckName, err)
		return nil, errors.NewInternalError(err)
	}

	var dupes []models.DuplicateGroup
	for _, g := range dedup.GroupCards(cards, s.opts) {
		if len(g.Cards) > 1 {
			dupes = append(dupes, g)
		}
	}
	log.Debug("found %d duplicate groups in %s", len(dupes), deckName)
	return dupes, nil
}

func (s *dedupService) DeduplicateDeck(ctx context.Context, deckName string) (*models.DedupResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("deduplicating deck: deck=%s", deckName)

	if err := s.requireDeck(ctx, deckName); err != nil {
		return nil, err
	}

	deckCards, err := s.cards.ListByDeck(ctx, deckName, 0)
	if err != nil {
		log.Error("failed to load deck %s: %v", deckName, err)
		return nil, errors.NewInternalError(err)
	}

	all, err := s.cards.ListAll(ctx)
	if err != nil {
		log.Error("failed to load collection cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	rest := make([]models.Card, 0, len(all))
	for _, c := range all {
		if c.DeckName != deckName {
			rest = append(rest, c)
		}
	}

	result := &models.DedupResult{
		DeckName:   deckName,
		Total:      len(deckCards),
		Unique:     dedup.FilterAgainst(deckCards, rest, s.opts),
		Duplicates: dedup.FindDuplicates(deckCards, rest, s.opts),
	}
	log.Info("deck %s: %d cards, %d unique, %d already elsewhere",
		deckName, result.Total, len(result.Unique), len(result.Duplicates))
	return result, nil
}
