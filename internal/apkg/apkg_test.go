package apkg_test

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyanki/tidyanki/internal/apkg"
	"github.com/tidyanki/tidyanki/internal/models"
)

func basicNoteType(id int64) *models.NoteType {
	return &models.NoteType{
		ID:   id,
		Name: "Basic",
		Fields: []map[string]any{
			{"name": "Front", "ord": 0},
			{"name": "Back", "ord": 1},
		},
		Templates: []map[string]any{
			{"name": "Card 1", "qfmt": "{{Front}}", "afmt": "{{FrontSide}}<hr id=answer>{{Back}}"},
		},
		CSS: ".card { font-family: arial; }",
	}
}

func TestWriteAndReadPackage(t *testing.T) {
	nt := basicNoteType(1607392319)
	notes := []models.Note{
		{GUID: "guid-1", NoteTypeID: nt.ID, NoteType: nt, Fields: []string{"cat", "chat"}, Tags: []string{"animals"}},
		{GUID: "guid-2", NoteTypeID: nt.ID, NoteType: nt, Fields: []string{"dog", "chien"}},
	}

	path := filepath.Join(t.TempDir(), "out.apkg")
	result, err := apkg.WriteNotes(path, "French Animals", notes)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotesExported)
	assert.Equal(t, 2, result.CardsCreated)
	assert.FileExists(t, path)

	a, err := apkg.Open(path)
	require.NoError(t, err)
	defer a.Close()

	deckNames, err := a.DeckNames()
	require.NoError(t, err)
	assert.Contains(t, deckNames, "French Animals")

	types, err := a.NoteTypes()
	require.NoError(t, err)
	require.Contains(t, types, nt.ID)
	assert.Equal(t, "Basic", types[nt.ID].Name)
	assert.Len(t, types[nt.ID].Fields, 2)
	assert.Len(t, types[nt.ID].Templates, 1)
	assert.Equal(t, ".card { font-family: arial; }", types[nt.ID].CSS)

	got, err := a.Notes()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "guid-1", got[0].GUID)
	assert.Equal(t, []string{"cat", "chat"}, got[0].Fields)
	assert.Equal(t, []string{"animals"}, got[0].Tags)
	require.NotNil(t, got[0].NoteType)
	assert.Equal(t, nt.ID, got[0].NoteType.ID)
}

func TestWriteNotes_MultipleTemplatesMakeMultipleCards(t *testing.T) {
	nt := basicNoteType(42)
	nt.Templates = append(nt.Templates, map[string]any{
		"name": "Card 2", "qfmt": "{{Back}}", "afmt": "{{Front}}",
	})
	notes := []models.Note{
		{GUID: "g", NoteTypeID: nt.ID, NoteType: nt, Fields: []string{"one", "uno"}},
	}

	path := filepath.Join(t.TempDir(), "out.apkg")
	result, err := apkg.WriteNotes(path, "Reversed", notes)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotesExported)
	assert.Equal(t, 2, result.CardsCreated)
}

func TestWriteNotes_PadsShortFieldLists(t *testing.T) {
	nt := basicNoteType(7)
	notes := []models.Note{
		{GUID: "g", NoteTypeID: nt.ID, NoteType: nt, Fields: []string{"only front"}},
	}

	path := filepath.Join(t.TempDir(), "out.apkg")
	_, err := apkg.WriteNotes(path, "Pad", notes)
	require.NoError(t, err)

	a, err := apkg.Open(path)
	require.NoError(t, err)
	defer a.Close()

	got, err := a.Notes()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"only front", ""}, got[0].Fields)
}

func TestWriteNotes_RejectsNotesWithoutType(t *testing.T) {
	notes := []models.Note{{ID: 9, Fields: []string{"a"}}}

	_, err := apkg.WriteNotes(filepath.Join(t.TempDir(), "out.apkg"), "X", notes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no note type")
}

func TestWriteNotes_MediaRoundTrip(t *testing.T) {
	nt := basicNoteType(3)
	notes := []models.Note{
		{
			GUID:       "g",
			NoteTypeID: nt.ID,
			NoteType:   nt,
			Fields:     []string{`bird <img src="bird.jpg"> [sound:tweet.mp3]`, "oiseau"},
			Media: []models.MediaFile{
				{Filename: "bird.jpg", Data: []byte{0xff, 0xd8, 0xff}},
				{Filename: "tweet.mp3", Data: []byte("ID3")},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out.apkg")
	_, err := apkg.WriteNotes(path, "Birds", notes)
	require.NoError(t, err)

	a, err := apkg.Open(path)
	require.NoError(t, err)
	defer a.Close()

	names, err := a.MediaNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"bird.jpg", "tweet.mp3"}, names)

	got, err := a.Notes()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Media, 2)

	dest := t.TempDir()
	written, err := a.ExtractMedia(dest)
	require.NoError(t, err)
	assert.Len(t, written, 2)
	assert.FileExists(t, filepath.Join(dest, "bird.jpg"))
	assert.FileExists(t, filepath.Join(dest, "tweet.mp3"))
}

// extractCollectionDB pulls the collection database out of a package so a
// test can query columns the reader does not surface.
func extractCollectionDB(t *testing.T, pkgPath string) *sql.DB {
	t.Helper()

	zr, err := zip.OpenReader(pkgPath)
	require.NoError(t, err)
	defer zr.Close()

	dbPath := filepath.Join(t.TempDir(), "collection.anki2")
	for _, entry := range zr.File {
		if entry.Name != "collection.anki2" {
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		out, err := os.Create(dbPath)
		require.NoError(t, err)
		_, err = io.Copy(out, rc)
		require.NoError(t, err)
		require.NoError(t, out.Close())
		require.NoError(t, rc.Close())
	}

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteNotes_ChecksumIgnoresMarkup(t *testing.T) {
	nt := basicNoteType(5)
	notes := []models.Note{
		{GUID: "g", NoteTypeID: nt.ID, NoteType: nt, Fields: []string{"<b>cat</b>", "chat"}},
	}

	path := filepath.Join(t.TempDir(), "out.apkg")
	_, err := apkg.WriteNotes(path, "Markup", notes)
	require.NoError(t, err)

	db := extractCollectionDB(t, path)
	var sfld string
	var csum int64
	require.NoError(t, db.QueryRow(`SELECT sfld, csum FROM notes`).Scan(&sfld, &csum))

	assert.Equal(t, "<b>cat</b>", sfld)
	// First 8 sha1 hex digits of "cat", the tag-stripped sort field.
	assert.Equal(t, int64(2644024973), csum)
}

func TestDetectMediaRefs(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{
			name:   "image reference",
			fields: []string{`<img src="cat.jpg">`},
			want:   []string{"cat.jpg"},
		},
		{
			name:   "sound reference",
			fields: []string{"hello [sound:hello.mp3]"},
			want:   []string{"hello.mp3"},
		},
		{
			name:   "duplicates reported once",
			fields: []string{`<img src="a.png">`, `also <img src='a.png'>`},
			want:   []string{"a.png"},
		},
		{
			name:   "no references",
			fields: []string{"plain text"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apkg.DetectMediaRefs(tt.fields))
		})
	}
}

func TestDeckID_StableAndBounded(t *testing.T) {
	a := apkg.DeckID("French")
	b := apkg.DeckID("French")
	c := apkg.DeckID("German")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Less(t, a, int64(10_000_000_000))
	assert.GreaterOrEqual(t, a, int64(0))
}
