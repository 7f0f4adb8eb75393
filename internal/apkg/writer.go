package apkg

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// deckIDMod keeps derived deck IDs inside the range Anki's importer accepts.
const deckIDMod = 10_000_000_000

// DeckID derives a stable deck identifier from a deck name.
func DeckID(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64() % deckIDMod)
}

// fieldChecksum is the integer value of the first 8 sha1 hex digits of the
// stripped sort field, matching how Anki detects duplicate notes on import.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(dedup.StripMarkup(field)))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}

// WriteNotes exports notes as a new deck package at path. Every note must
// carry its note type; one card is written per template of the type. Field
// lists are padded or truncated to the type's field count so the package
// round-trips cleanly.
func WriteNotes(path, deckName string, notes []models.Note) (models.ExportResult, error) {
	log := logger.Default().WithPrefix("apkg")
	log.Info("exporting %d notes to %s", len(notes), path)

	for _, n := range notes {
		if n.NoteType == nil {
			return models.ExportResult{}, fmt.Errorf("note %d has no note type", n.ID)
		}
	}

	tempDir, err := os.MkdirTemp("", "tidyanki-export-")
	if err != nil {
		return models.ExportResult{}, err
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, collectionNames[0])
	cardCount, err := writeCollection(dbPath, deckName, notes)
	if err != nil {
		return models.ExportResult{}, err
	}

	media := collectMedia(notes)
	if err := writePackage(path, dbPath, media); err != nil {
		return models.ExportResult{}, err
	}

	log.Info("exported %d notes (%d cards) to %s", len(notes), cardCount, path)
	return models.ExportResult{Path: path, NotesExported: len(notes), CardsCreated: cardCount}, nil
}

// writeCollection builds the legacy collection database and returns the
// number of cards written.
func writeCollection(dbPath, deckName string, notes []models.Note) (int, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	schema, err := schemaFS.ReadFile("schema/collection.sql")
	if err != nil {
		return 0, err
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return 0, fmt.Errorf("apply package schema: %w", err)
	}

	now := time.Now()
	deckID := DeckID(deckName)

	modelsCol, err := modelsJSON(notes, deckID)
	if err != nil {
		return 0, err
	}
	decksCol, err := decksJSON(deckID, deckName, now)
	if err != nil {
		return 0, err
	}

	_, err = db.Exec(`
INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')
`, dayStart(now).Unix(), now.UnixMilli(), now.UnixMilli(), defaultConf, modelsCol, decksCol, defaultDeckConf)
	if err != nil {
		return 0, fmt.Errorf("write col row: %w", err)
	}

	noteStmt, err := db.Prepare(`
INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')
`)
	if err != nil {
		return 0, err
	}
	defer noteStmt.Close()

	cardStmt, err := db.Prepare(`
INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
VALUES (?, ?, ?, ?, ?, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, '')
`)
	if err != nil {
		return 0, err
	}
	defer cardStmt.Close()

	noteID := now.UnixMilli()
	cardID := noteID + int64(len(notes))
	cardCount := 0
	for _, n := range notes {
		fields := fitFields(n.Fields, n.NoteType.FieldCount())
		guid := n.GUID
		if guid == "" {
			guid = uuid.NewString()
		}

		id := noteID
		noteID++
		_, err := noteStmt.Exec(id, guid, n.NoteType.ID, now.Unix(), tagsColumn(n.Tags),
			models.JoinFields(fields), fields[0], fieldChecksum(fields[0]))
		if err != nil {
			return 0, fmt.Errorf("write note %d: %w", n.ID, err)
		}

		for ord := range n.NoteType.Templates {
			_, err := cardStmt.Exec(cardID, id, deckID, ord, now.Unix())
			if err != nil {
				return 0, fmt.Errorf("write card for note %d: %w", n.ID, err)
			}
			cardID++
			cardCount++
		}
	}
	return cardCount, nil
}

// writePackage zips the collection database and media into an .apkg: media
// entries are numbered, with a JSON map from entry name to real filename.
func writePackage(path, dbPath string, media []models.MediaFile) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	dbBytes, err := os.ReadFile(dbPath)
	if err != nil {
		return err
	}
	if err := writeZipEntry(zw, collectionNames[0], dbBytes); err != nil {
		return err
	}

	mapping := make(map[string]string, len(media))
	for i, m := range media {
		entry := strconv.Itoa(i)
		mapping[entry] = m.Filename
		if err := writeZipEntry(zw, entry, m.Data); err != nil {
			return err
		}
	}
	mapBytes, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	if err := writeZipEntry(zw, mediaMapName, mapBytes); err != nil {
		return err
	}

	return zw.Close()
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// collectMedia gathers note media, one entry per filename.
func collectMedia(notes []models.Note) []models.MediaFile {
	seen := map[string]bool{}
	var media []models.MediaFile
	for _, n := range notes {
		for _, m := range n.Media {
			if !seen[m.Filename] {
				seen[m.Filename] = true
				media = append(media, m)
			}
		}
	}
	return media
}

// modelsJSON serializes the note types used by the given notes, pointing
// them at the target deck. Types that came from a source package keep their
// original JSON so nothing is lost in transit.
func modelsJSON(notes []models.Note, deckID int64) (string, error) {
	byID := map[string]map[string]any{}
	for _, n := range notes {
		nt := n.NoteType
		key := strconv.FormatInt(nt.ID, 10)
		if _, done := byID[key]; done {
			continue
		}
		m := nt.Raw
		if m == nil {
			m = synthesizeModel(nt)
		}
		m["id"] = nt.ID
		m["did"] = deckID
		byID[key] = m
	}
	out, err := json.Marshal(byID)
	return string(out), err
}

// synthesizeModel builds a minimal model JSON object for note types that
// were constructed in memory rather than read from a package.
func synthesizeModel(nt *models.NoteType) map[string]any {
	flds := make([]any, len(nt.Fields))
	for i, f := range nt.Fields {
		flds[i] = f
	}
	tmpls := make([]any, len(nt.Templates))
	for i, t := range nt.Templates {
		t["ord"] = i
		tmpls[i] = t
	}
	return map[string]any{
		"id":        nt.ID,
		"name":      nt.Name,
		"type":      0,
		"mod":       0,
		"usn":       0,
		"sortf":     0,
		"flds":      flds,
		"tmpls":     tmpls,
		"css":       nt.CSS,
		"latexPre":  defaultLatexPre,
		"latexPost": defaultLatexPost,
		"req":       []any{[]any{0, "all", []any{0}}},
	}
}

func decksJSON(deckID int64, deckName string, now time.Time) (string, error) {
	mkDeck := func(id int64, name string) map[string]any {
		return map[string]any{
			"id":               id,
			"name":             name,
			"desc":             "",
			"mod":              now.Unix(),
			"usn":              0,
			"dyn":              0,
			"conf":             1,
			"collapsed":        false,
			"browserCollapsed": false,
			"extendNew":        0,
			"extendRev":        0,
			"newToday":         []int{0, 0},
			"revToday":         []int{0, 0},
			"lrnToday":         []int{0, 0},
			"timeToday":        []int{0, 0},
		}
	}
	decks := map[string]any{
		"1": mkDeck(1, "Default"),
		strconv.FormatInt(deckID, 10): mkDeck(deckID, deckName),
	}
	out, err := json.Marshal(decks)
	return string(out), err
}

// fitFields pads or truncates a field list to the note type's field count.
func fitFields(fields []string, count int) []string {
	if count < 1 {
		count = 1
	}
	out := make([]string, count)
	copy(out, fields)
	return out
}

// tagsColumn renders tags the way Anki stores them: space separated, padded.
func tagsColumn(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 4, 0, 0, 0, t.Location())
}

const (
	defaultLatexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
		"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n" +
		"\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
	defaultLatexPost = "\\end{document}"

	defaultConf = `{"nextPos":1,"estTimes":true,"activeDecks":[1],"sortType":"noteFld",` +
		`"timeLim":0,"sortBackwards":false,"addToCur":true,"curDeck":1,"newBury":true,` +
		`"newSpread":0,"dueCounts":true,"curModel":null,"collapseTime":1200}`

	defaultDeckConf = `{"1":{"id":1,"name":"Default","replayq":true,"timer":0,"maxTaken":60,` +
		`"autoplay":true,"mod":0,"usn":0,"dyn":0,` +
		`"new":{"delays":[1,10],"ints":[1,4,7],"initialFactor":2500,"order":1,"perDay":20,"bury":true},` +
		`"rev":{"perDay":100,"ease4":1.3,"ivlFct":1,"maxIvl":36500,"bury":true,"fuzz":0.05,"minSpace":1},` +
		`"lapse":{"delays":[10],"mult":0,"minInt":1,"leechFails":8,"leechAction":0}}}`
)
