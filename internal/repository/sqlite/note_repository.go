package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository implementation
func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("listing notes: deck=%s, search=%s, limit=%d", filter.DeckName, filter.Search, filter.Limit)

	query := sqlBuilder.Select("n.id", "n.guid", "n.mid", "n.flds", "n.tags").
		Distinct().
		From("notes n")

	if filter.DeckName != "" {
		query = query.
			Join("cards c ON c.nid = n.id").
			Join("decks d ON c.did = d.id").
			Where(squirrel.Eq{"d.name": storedDeckName(filter.DeckName)})
	}
	if filter.Search != "" {
		query = query.Where(squirrel.Like{"n.flds": "%" + filter.Search + "%"})
	}
	query = query.OrderBy("n.id")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list notes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var flds, tags string
		if err := rows.Scan(&n.ID, &n.GUID, &n.NoteTypeID, &flds, &tags); err != nil {
			log.Error("failed to scan note row: %v", err)
			return nil, err
		}
		n.Fields = splitFields(flds)
		n.Tags = splitTags(tags)
		notes = append(notes, n)
	}
	log.Debug("found %d notes", len(notes))
	return notes, rows.Err()
}

func (r *noteRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count)
	if err != nil {
		log.Error("failed to count notes: %v", err)
		return 0, err
	}
	return count, nil
}
