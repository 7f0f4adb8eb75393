package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

// CardService handles card-related business logic
type CardService interface {
	ListDeckCards(ctx context.Context, deckName string, limit int) ([]models.Card, error)
	SearchCards(ctx context.Context, query, deckName string, limit int) ([]models.Card, error)
	DeckStatus(ctx context.Context, deckName string) ([]models.CardStatus, error)
}

type cardService struct {
	cards repository.CardRepository
	decks repository.DeckRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, decks repository.DeckRepository) CardService {
	return &cardService{cards: cards, decks: decks}
}

// requireDeck verifies the named deck exists before queries filter on it,
// so an unknown deck reads as NOT_FOUND rather than an empty result.
func (s *cardService) requireDeck(ctx context.Context, name string) error {
	_, err := s.decks.GetByName(ctx, name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("deck", name)
		}
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *cardService) ListDeckCards(ctx context.Context, deckName string, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: deck=%s, limit=%d", deckName, limit)

	if deckName == "" {
		return nil, errors.NewValidationError("deck", "name must not be empty")
	}
	if err := s.requireDeck(ctx, deckName); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByDeck(ctx, deckName, limit)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) SearchCards(ctx context.Context, query, deckName string, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("searching cards: query=%q, deck=%s, limit=%d", query, deckName, limit)

	if query == "" {
		return nil, errors.NewValidationError("query", "must not be empty")
	}
	if deckName != "" {
		if err := s.requireDeck(ctx, deckName); err != nil {
			return nil, err
		}
	}

	cards, err := s.cards.Search(ctx, query, deckName, limit)
	if err != nil {
		log.Error("failed to search cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) DeckStatus(ctx context.Context, deckName string) ([]models.CardStatus, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading card status: deck=%s", deckName)

	if deckName == "" {
		return nil, errors.NewValidationError("deck", "name must not be empty")
	}
	if err := s.requireDeck(ctx, deckName); err != nil {
		return nil, err
	}

	statuses, err := s.cards.ListWithStatus(ctx, deckName)
	if err != nil {
		log.Error("failed to load card status: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return statuses, nil
}
