package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyanki/tidyanki/internal/apkg"
	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository/sqlite"
	"github.com/tidyanki/tidyanki/internal/services"
	"github.com/tidyanki/tidyanki/internal/testutil"
)

func TestExportCards_FoldsCardsIntoNotes(t *testing.T) {
	svc := services.NewExportService(nil)
	cards := []models.Card{
		{ID: 1, NoteID: 10, Ord: 0, Fields: []string{"cat", "chat"}, Tags: []string{"animals"}},
		{ID: 2, NoteID: 10, Ord: 1, Fields: []string{"cat", "chat"}, Tags: []string{"animals"}},
		{ID: 3, NoteID: 11, Ord: 0, Fields: []string{"dog", "chien"}},
	}

	path := filepath.Join(t.TempDir(), "out.apkg")
	result, err := svc.ExportCards(context.Background(), "Animals", cards, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotesExported)

	a, err := apkg.Open(path)
	require.NoError(t, err)
	defer a.Close()

	notes, err := a.Notes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, []string{"cat", "chat"}, notes[0].Fields)
	assert.Equal(t, []string{"animals"}, notes[0].Tags)
}

func TestExportCards_Empty(t *testing.T) {
	svc := services.NewExportService(nil)

	_, err := svc.ExportCards(context.Background(), "Animals", nil, filepath.Join(t.TempDir(), "out.apkg"))
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
}

func TestExportFiltered(t *testing.T) {
	db := testutil.NewTestCollection(t)
	defer testutil.MustClose(t, db)

	for _, stmt := range []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO decks (id, name) VALUES (1, 'French')`, nil},
		{`INSERT INTO notes (id, guid, mid, flds, tags) VALUES (10, 'g10', 1, ?, '')`,
			[]any{testutil.JoinFields("fromage", "cheese")}},
		{`INSERT INTO notes (id, guid, mid, flds, tags) VALUES (11, 'g11', 1, ?, '')`,
			[]any{testutil.JoinFields("pain", "bread")}},
		{`INSERT INTO cards (id, nid, did, ord) VALUES (100, 10, 1, 0)`, nil},
		{`INSERT INTO cards (id, nid, did, ord) VALUES (101, 11, 1, 0)`, nil},
	} {
		_, err := db.Exec(stmt.sql, stmt.args...)
		require.NoError(t, err)
	}

	svc := services.NewExportService(sqlite.NewNoteRepository(db))
	path := filepath.Join(t.TempDir(), "french.apkg")

	result, err := svc.ExportFiltered(context.Background(),
		models.NoteFilter{DeckName: "French", Search: "cheese"}, "French", path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotesExported)

	a, err := apkg.Open(path)
	require.NoError(t, err)
	defer a.Close()

	notes, err := a.Notes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "fromage", notes[0].Fields[0])
	require.NotNil(t, notes[0].NoteType)
	assert.Equal(t, "Exported Basic", notes[0].NoteType.Name)
}
