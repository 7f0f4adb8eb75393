package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) baseQuery() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"c.id", "c.nid", "c.ord", "n.flds", "n.tags", "d.name AS deck_name",
	).From("cards c").
		Join("notes n ON c.nid = n.id").
		Join("decks d ON c.did = d.id")
}

func (r *cardRepository) queryCards(ctx context.Context, query squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var flds, tags, deckName string
		if err := rows.Scan(&c.ID, &c.NoteID, &c.Ord, &flds, &tags, &deckName); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		c.Fields = splitFields(flds)
		c.Tags = splitTags(tags)
		c.DeckName = displayDeckName(deckName)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) ListAll(ctx context.Context) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing all cards")

	cards, err := r.queryCards(ctx, r.baseQuery().OrderBy("c.id"))
	if err != nil {
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckName string, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck=%s, limit=%d", deckName, limit)

	query := r.baseQuery().
		Where(squirrel.Eq{"d.name": storedDeckName(deckName)}).
		OrderBy("c.id")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	cards, err := r.queryCards(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d cards in deck %s", len(cards), deckName)
	return cards, nil
}

func (r *cardRepository) Search(ctx context.Context, queryText, deckName string, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("searching cards: query=%s, deck=%s", queryText, deckName)

	query := r.baseQuery().
		Where(squirrel.Like{"n.flds": "%" + queryText + "%"}).
		OrderBy("c.id")
	if deckName != "" {
		query = query.Where(squirrel.Eq{"d.name": storedDeckName(deckName)})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	cards, err := r.queryCards(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debug("search matched %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) ListWithStatus(ctx context.Context, deckName string) ([]models.CardStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with status: deck=%s", deckName)

	query := sqlBuilder.Select(
		"c.id", "c.type", "c.queue", "c.due", "c.reps", "c.lapses", "c.factor", "d.name AS deck_name",
	).From("cards c").
		Join("decks d ON c.did = d.id").
		OrderBy("c.due")
	if deckName != "" {
		query = query.Where(squirrel.Eq{"d.name": storedDeckName(deckName)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query card status: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardStatus
	for rows.Next() {
		var c models.CardStatus
		var stored string
		if err := rows.Scan(&c.ID, &c.Type, &c.Queue, &c.Due, &c.Reps, &c.Lapses, &c.Factor, &stored); err != nil {
			log.Error("failed to scan card status row: %v", err)
			return nil, err
		}
		c.DeckName = displayDeckName(stored)
		cards = append(cards, c)
	}
	log.Debug("found %d cards with status", len(cards))
	return cards, rows.Err()
}
