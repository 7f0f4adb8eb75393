package services

import (
	"context"
	"fmt"

	"github.com/tidyanki/tidyanki/internal/apkg"
	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

// exportModelID identifies the note type synthesized for cards exported
// straight from a collection, where the original model JSON is not available.
const exportModelID int64 = 1724803200000

// ExportService writes note sets out as .apkg packages
type ExportService interface {
	ExportCards(ctx context.Context, deckName string, cards []models.Card, path string) (*models.ExportResult, error)
	ExportNotes(ctx context.Context, deckName string, notes []models.Note, path string) (*models.ExportResult, error)
	ExportFiltered(ctx context.Context, filter models.NoteFilter, deckName, path string) (*models.ExportResult, error)
}

type exportService struct {
	notes repository.NoteRepository
}

// NewExportService creates a new ExportService. notes may be nil when only
// package-to-package exports are needed.
func NewExportService(notes repository.NoteRepository) ExportService {
	return &exportService{notes: notes}
}

// ExportFiltered packages the notes matching filter under the given deck name.
func (s *exportService) ExportFiltered(ctx context.Context, filter models.NoteFilter, deckName, path string) (*models.ExportResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("exporting filtered notes: deck=%s, search=%q, path=%s", filter.DeckName, filter.Search, path)

	notes, err := s.notes.List(ctx, filter)
	if err != nil {
		log.Error("failed to list notes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.ExportNotes(ctx, deckName, notes, path)
}

func (s *exportService) ExportNotes(ctx context.Context, deckName string, notes []models.Note, path string) (*models.ExportResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("exporting notes: deck=%s, notes=%d, path=%s", deckName, len(notes), path)

	if deckName == "" {
		return nil, errors.NewValidationError("deck", "name must not be empty")
	}
	if len(notes) == 0 {
		return nil, errors.NewValidationError("notes", "nothing to export")
	}

	result, err := apkg.WriteNotes(path, deckName, withNoteTypes(notes))
	if err != nil {
		log.Error("failed to write package: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &result, nil
}

// ExportCards packages cards read from a collection. The collection schema
// carries no model JSON, so the notes get a synthesized front/back type wide
// enough for the longest field list.
func (s *exportService) ExportCards(ctx context.Context, deckName string, cards []models.Card, path string) (*models.ExportResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("exporting cards: deck=%s, cards=%d, path=%s", deckName, len(cards), path)

	if len(cards) == 0 {
		return nil, errors.NewValidationError("cards", "nothing to export")
	}
	return s.ExportNotes(ctx, deckName, notesFromCards(cards), path)
}

// withNoteTypes attaches a synthesized note type to notes that lack one,
// which is every note read from a collection rather than a package.
func withNoteTypes(notes []models.Note) []models.Note {
	maxFields := 0
	missing := false
	for _, n := range notes {
		if n.NoteType != nil {
			continue
		}
		missing = true
		if len(n.Fields) > maxFields {
			maxFields = len(n.Fields)
		}
	}
	if !missing {
		return notes
	}

	nt := synthesizedNoteType(maxFields)
	out := make([]models.Note, len(notes))
	for i, n := range notes {
		if n.NoteType == nil {
			n.NoteTypeID = nt.ID
			n.NoteType = nt
		}
		out[i] = n
	}
	return out
}

// notesFromCards folds cards back into one note per source note id,
// preserving first-appearance order.
func notesFromCards(cards []models.Card) []models.Note {
	maxFields := 0
	for _, c := range cards {
		if len(c.Fields) > maxFields {
			maxFields = len(c.Fields)
		}
	}
	nt := synthesizedNoteType(maxFields)

	seen := map[int64]bool{}
	var notes []models.Note
	for _, c := range cards {
		if seen[c.NoteID] {
			continue
		}
		seen[c.NoteID] = true
		notes = append(notes, models.Note{
			ID:         c.NoteID,
			NoteTypeID: nt.ID,
			NoteType:   nt,
			Fields:     c.Fields,
			Tags:       c.Tags,
		})
	}
	return notes
}

func synthesizedNoteType(fieldCount int) *models.NoteType {
	if fieldCount < 2 {
		fieldCount = 2
	}
	fields := make([]map[string]any, fieldCount)
	for i := range fields {
		fields[i] = map[string]any{"name": fieldName(i), "ord": i}
	}
	return &models.NoteType{
		ID:     exportModelID,
		Name:   "Exported Basic",
		Fields: fields,
		Templates: []map[string]any{
			{
				"name": "Card 1",
				"qfmt": "{{Front}}",
				"afmt": "{{FrontSide}}<hr id=answer>{{Back}}",
			},
		},
		CSS: ".card { font-family: arial; font-size: 20px; text-align: center; }",
	}
}

func fieldName(ord int) string {
	switch ord {
	case 0:
		return "Front"
	case 1:
		return "Back"
	default:
		return fmt.Sprintf("Field %d", ord+1)
	}
}
