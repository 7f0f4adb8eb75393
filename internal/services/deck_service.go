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

// DeckService handles deck-related business logic
type DeckService interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, name string) (*models.Deck, error)
	CountNotes(ctx context.Context) (int, error)
}

type deckService struct {
	decks repository.DeckRepository
	notes repository.NoteRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, notes repository.NoteRepository) DeckService {
	return &deckService{decks: decks, notes: notes}
}

// CountNotes returns the number of notes across the whole collection.
func (s *deckService) CountNotes(ctx context.Context) (int, error) {
	count, err := s.notes.Count(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count notes: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return count, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks")

	decks, err := s.decks.List(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: name=%s", name)

	if name == "" {
		return nil, errors.NewValidationError("deck", "name must not be empty")
	}

	deck, err := s.decks.GetByName(ctx, name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("deck", name)
		}
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}
