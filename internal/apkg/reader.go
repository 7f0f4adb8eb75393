package apkg

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
)

// collection database filenames an .apkg may carry, in preference order.
var collectionNames = []string{"collection.anki2", "collection.anki21"}

// mediaMapName is the JSON file mapping archive entry names to media filenames.
const mediaMapName = "media"

// Archive is an opened .apkg package: a zip holding a collection database,
// a media name map, and numbered media entries. Close releases the extracted
// temporary files.
type Archive struct {
	path    string
	tempDir string
	db      *sql.DB
	log     *logger.Logger
}

// Open extracts the package at path to a temporary directory and opens its
// collection database.
func Open(path string) (*Archive, error) {
	log := logger.Default().WithPrefix("apkg")

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("package %s: %w", path, err)
	}

	tempDir, err := os.MkdirTemp("", "tidyanki-apkg-")
	if err != nil {
		return nil, err
	}

	a := &Archive{path: path, tempDir: tempDir, log: log}
	if err := a.extract(); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	dbPath := ""
	for _, name := range collectionNames {
		candidate := filepath.Join(tempDir, name)
		if _, err := os.Stat(candidate); err == nil {
			dbPath = candidate
			break
		}
	}
	if dbPath == "" {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("no Anki database found in %s", path)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	a.db = db

	log.Debug("opened package %s (db=%s)", path, filepath.Base(dbPath))
	return a, nil
}

// Close closes the collection database and removes the extracted files.
func (a *Archive) Close() error {
	if a.db != nil {
		a.db.Close()
	}
	return os.RemoveAll(a.tempDir)
}

func (a *Archive) extract() error {
	zr, err := zip.OpenReader(a.path)
	if err != nil {
		return fmt.Errorf("open package %s: %w", a.path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		// Entry names are flat: the collection db, the media map, and
		// numeric media entries. Base() guards against hostile paths.
		name := filepath.Base(f.Name)
		src, err := f.Open()
		if err != nil {
			return err
		}
		dst, err := os.Create(filepath.Join(a.tempDir, name))
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// DeckNames returns the names of the decks the package contains.
func (a *Archive) DeckNames() ([]string, error) {
	var decksJSON string
	if err := a.db.QueryRow(`SELECT decks FROM col LIMIT 1`).Scan(&decksJSON); err != nil {
		return nil, fmt.Errorf("read deck list: %w", err)
	}

	var decks map[string]map[string]any
	if err := json.Unmarshal([]byte(decksJSON), &decks); err != nil {
		return nil, fmt.Errorf("parse deck list: %w", err)
	}

	var names []string
	for _, d := range decks {
		if name, ok := d["name"].(string); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// NoteTypes returns the package's note types keyed by ID, parsed from the
// collection's models JSON.
func (a *Archive) NoteTypes() (map[int64]*models.NoteType, error) {
	var modelsJSON string
	if err := a.db.QueryRow(`SELECT models FROM col LIMIT 1`).Scan(&modelsJSON); err != nil {
		return nil, fmt.Errorf("read note types: %w", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal([]byte(modelsJSON), &raw); err != nil {
		return nil, fmt.Errorf("parse note types: %w", err)
	}

	types := make(map[int64]*models.NoteType, len(raw))
	for idStr, m := range raw {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("note type id %q: %w", idStr, err)
		}
		nt := &models.NoteType{
			ID:        id,
			Fields:    toMapSlice(m["flds"]),
			Templates: toMapSlice(m["tmpls"]),
			Raw:       m,
		}
		if name, ok := m["name"].(string); ok {
			nt.Name = name
		}
		if css, ok := m["css"].(string); ok {
			nt.CSS = css
		}
		types[id] = nt
	}
	return types, nil
}

// Notes returns the package's notes with note types attached and referenced
// media loaded into memory. Media referenced from fields but missing from
// the archive is logged and skipped.
func (a *Archive) Notes() ([]models.Note, error) {
	types, err := a.NoteTypes()
	if err != nil {
		return nil, err
	}
	mediaData, err := a.mediaData()
	if err != nil {
		return nil, err
	}

	rows, err := a.db.Query(`
SELECT n.id, n.guid, n.mid, n.flds, n.tags
FROM notes n
ORDER BY n.id
`)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var flds, tags string
		if err := rows.Scan(&n.ID, &n.GUID, &n.NoteTypeID, &flds, &tags); err != nil {
			return nil, err
		}
		n.Fields = models.SplitFields(flds)
		n.Tags = models.SplitTags(tags)
		n.NoteType = types[n.NoteTypeID]
		if n.NoteType == nil {
			a.log.Warn("note %d references unknown note type %d", n.ID, n.NoteTypeID)
		}

		for _, filename := range DetectMediaRefs(n.Fields) {
			data, ok := mediaData[filename]
			if !ok {
				a.log.Warn("media file not found in package: %s", filename)
				continue
			}
			n.Media = append(n.Media, models.MediaFile{Filename: filename, Data: data})
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// MediaNames returns the filenames of all media in the package.
func (a *Archive) MediaNames() ([]string, error) {
	mapping, err := a.mediaMap()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mapping))
	for _, name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ExtractMedia writes all media files to destDir under their real names and
// returns the written paths.
func (a *Archive) ExtractMedia(destDir string) ([]string, error) {
	mapping, err := a.mediaMap()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for entry, name := range mapping {
		data, err := os.ReadFile(filepath.Join(a.tempDir, entry))
		if err != nil {
			return nil, fmt.Errorf("media entry %s: %w", entry, err)
		}
		dest := filepath.Join(destDir, filepath.Base(name))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return nil, err
		}
		written = append(written, dest)
	}
	sort.Strings(written)
	return written, nil
}

// mediaMap reads the archive's entry-name to filename map. Packages without
// media may omit the map entirely.
func (a *Archive) mediaMap() (map[string]string, error) {
	raw, err := os.ReadFile(filepath.Join(a.tempDir, mediaMapName))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("parse media map: %w", err)
	}
	return mapping, nil
}

// mediaData loads every media file into memory keyed by its real filename.
func (a *Archive) mediaData() (map[string][]byte, error) {
	mapping, err := a.mediaMap()
	if err != nil {
		return nil, err
	}
	data := make(map[string][]byte, len(mapping))
	for entry, name := range mapping {
		b, err := os.ReadFile(filepath.Join(a.tempDir, entry))
		if err != nil {
			return nil, fmt.Errorf("media entry %s: %w", entry, err)
		}
		data[name] = b
	}
	return data, nil
}

func toMapSlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
