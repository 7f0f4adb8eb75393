package services_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tidyanki/tidyanki/internal/apkg"
	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository/sqlite"
	"github.com/tidyanki/tidyanki/internal/services"
	"github.com/tidyanki/tidyanki/internal/testutil"
)

type ImportServiceSuite struct {
	suite.Suite
	db  *sql.DB
	svc services.ImportService
}

func (s *ImportServiceSuite) SetupTest() {
	s.db = testutil.NewTestCollection(s.T())
	s.svc = services.NewImportService(
		sqlite.NewCardRepository(s.db),
		services.NewExportService(nil),
		dedup.Options{},
	)
}

func (s *ImportServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ImportServiceSuite) seedCollection() {
	for _, stmt := range []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO decks (id, name) VALUES (1, 'Vocabulary')`, nil},
		{`INSERT INTO notes (id, guid, mid, flds, tags) VALUES (10, 'g10', 1, ?, '')`,
			[]any{testutil.JoinFields("cat", "chat")}},
		{`INSERT INTO cards (id, nid, did, ord) VALUES (100, 10, 1, 0)`, nil},
	} {
		_, err := s.db.Exec(stmt.sql, stmt.args...)
		s.Require().NoError(err)
	}
}

// writePackage builds a real .apkg with the given fronts and returns its path.
func (s *ImportServiceSuite) writePackage(deckName string, fronts ...string) string {
	nt := &models.NoteType{
		ID:   99,
		Name: "Basic",
		Fields: []map[string]any{
			{"name": "Front", "ord": 0},
			{"name": "Back", "ord": 1},
		},
		Templates: []map[string]any{
			{"name": "Card 1", "qfmt": "{{Front}}", "afmt": "{{Back}}"},
		},
	}
	var notes []models.Note
	for i, front := range fronts {
		notes = append(notes, models.Note{
			GUID:       front,
			ID:         int64(i + 1),
			NoteTypeID: nt.ID,
			NoteType:   nt,
			Fields:     []string{front, "back of " + front},
		})
	}

	path := filepath.Join(s.T().TempDir(), "incoming.apkg")
	_, err := apkg.WriteNotes(path, deckName, notes)
	s.Require().NoError(err)
	return path
}

func (s *ImportServiceSuite) TestInspectPackage() {
	ctx := context.Background()
	path := s.writePackage("Animals", "cat", "dog", "bird")

	info, err := s.svc.InspectPackage(ctx, path, 2)
	s.Require().NoError(err)

	s.Assert().Equal(path, info.Path)
	s.Assert().Contains(info.DeckNames, "Animals")
	s.Assert().Equal(3, info.NoteCount)
	s.Assert().Equal(1, info.NoteTypeCount)
	s.Assert().Equal(3, info.EstimatedCards)
	s.Assert().Equal(map[int]int{2: 3}, info.FieldCounts)
	s.Require().Len(info.SampleNotes, 2)
	s.Assert().Equal([]string{"cat", "back of cat"}, info.SampleNotes[0].Fields)
}

func (s *ImportServiceSuite) TestInspectPackage_BadPath() {
	ctx := context.Background()

	_, err := s.svc.InspectPackage(ctx, filepath.Join(s.T().TempDir(), "missing.apkg"), 5)
	s.Require().Error(err)
	var appErr *errors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(errors.ErrCodeBadRequest, appErr.Code)
}

func (s *ImportServiceSuite) TestImportDedupe_FiltersExistingNotes() {
	ctx := context.Background()
	s.seedCollection()
	path := s.writePackage("Animals", "Cat", "dog")

	result, err := s.svc.ImportDedupe(ctx, path, s.T().TempDir())
	s.Require().NoError(err)

	s.Assert().Equal(2, result.NotesInPackage)
	s.Assert().Equal(1, result.DuplicateNotes)
	s.Assert().Equal(1, result.Export.NotesExported)
	s.Assert().Equal("incoming (Deduplicated).apkg", filepath.Base(result.Export.Path))
	s.Require().FileExists(result.Export.Path)

	out, err := apkg.Open(result.Export.Path)
	s.Require().NoError(err)
	defer out.Close()

	notes, err := out.Notes()
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Assert().Equal("dog", notes[0].Fields[0])

	deckNames, err := out.DeckNames()
	s.Require().NoError(err)
	s.Assert().Contains(deckNames, "Animals")
}

func (s *ImportServiceSuite) TestImportDedupe_NothingNew() {
	ctx := context.Background()
	s.seedCollection()
	path := s.writePackage("Animals", "CAT")

	result, err := s.svc.ImportDedupe(ctx, path, s.T().TempDir())
	s.Require().NoError(err)

	s.Assert().Equal(1, result.NotesInPackage)
	s.Assert().Equal(1, result.DuplicateNotes)
	s.Assert().Empty(result.Export.Path)
}

func TestImportServiceSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceSuite))
}
