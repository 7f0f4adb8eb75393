package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks")

	rows, err := r.db.QueryContext(ctx, `
SELECT d.id, d.name, COUNT(c.id) AS card_count
FROM decks d
LEFT JOIN cards c ON c.did = d.id
GROUP BY d.id, d.name
ORDER BY d.name COLLATE unicase
`)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		var stored string
		if err := rows.Scan(&d.ID, &stored, &d.CardCount); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		d.Name = displayDeckName(stored)
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) GetByName(ctx context.Context, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: name=%s", name)

	var d models.Deck
	var stored string
	err := r.db.QueryRowContext(ctx, `
SELECT d.id, d.name, COUNT(c.id) AS card_count
FROM decks d
LEFT JOIN cards c ON c.did = d.id
WHERE d.name = ?
GROUP BY d.id, d.name
`, storedDeckName(name)).Scan(&d.ID, &stored, &d.CardCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found: name=%s", name)
		} else {
			log.Error("failed to get deck: %v", err)
		}
		return nil, err
	}
	d.Name = displayDeckName(stored)
	return &d, nil
}
