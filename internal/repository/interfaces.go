package repository

import (
	"context"

	"github.com/tidyanki/tidyanki/internal/models"
)

// DeckRepository handles deck data access
type DeckRepository interface {
	List(ctx context.Context) ([]models.Deck, error)
	GetByName(ctx context.Context, name string) (*models.Deck, error)
}

// NoteRepository handles note data access
type NoteRepository interface {
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	Count(ctx context.Context) (int, error)
}

// CardRepository handles card data access
type CardRepository interface {
	ListAll(ctx context.Context) ([]models.Card, error)
	ListByDeck(ctx context.Context, deckName string, limit int) ([]models.Card, error)
	Search(ctx context.Context, query, deckName string, limit int) ([]models.Card, error)
	ListWithStatus(ctx context.Context, deckName string) ([]models.CardStatus, error)
}

// TemplateRepository handles card template data access
type TemplateRepository interface {
	List(ctx context.Context) ([]models.Template, error)
	Content(ctx context.Context, templateName, noteTypeName string) (*models.TemplateContent, error)
}
