package models

import "strings"

// Anki stores deck hierarchy with a unit separator; decks are displayed
// with "::" between levels.
const (
	FieldSeparator = "\x1f"
	DeckSeparator  = "::"
)

// SplitFields splits a notes.flds column value into field values.
func SplitFields(flds string) []string {
	return strings.Split(flds, FieldSeparator)
}

// JoinFields joins field values into a notes.flds column value.
func JoinFields(fields []string) string {
	return strings.Join(fields, FieldSeparator)
}

// SplitTags splits a notes.tags column value; tags are space separated.
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	return strings.Fields(tags)
}

// Deck is a named collection of cards in the collection database.
type Deck struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
}

// NoteType describes an Anki note type (model): its fields, its card
// templates and styling. Fields and Templates keep the raw JSON objects so
// exports can round-trip a note type without understanding every key.
type NoteType struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Fields    []map[string]any `json:"fields"`
	Templates []map[string]any `json:"templates"`
	CSS       string           `json:"css"`
	Raw       map[string]any   `json:"-"`
}

// FieldCount returns the number of fields notes of this type carry.
func (nt *NoteType) FieldCount() int {
	return len(nt.Fields)
}

// MediaFile is a media file with its filename and binary data.
type MediaFile struct {
	Filename string
	Data     []byte
}

// Note is a single note record: the field values one or more cards are
// rendered from.
type Note struct {
	ID         int64       `json:"id"`
	GUID       string      `json:"guid"`
	NoteTypeID int64       `json:"note_type_id"`
	Fields     []string    `json:"fields"`
	Tags       []string    `json:"tags"`
	NoteType   *NoteType   `json:"-"`
	Media      []MediaFile `json:"-"`
}

// Card is a single flashcard as rendered from a note within a deck.
type Card struct {
	ID       int64    `json:"id"`
	NoteID   int64    `json:"note_id"`
	DeckName string   `json:"deck_name"`
	Ord      int      `json:"ord"`
	Fields   []string `json:"fields"`
	Tags     []string `json:"tags"`
}

// Front returns the card's first field, or "" when the note has no fields.
func (c Card) Front() string {
	if len(c.Fields) == 0 {
		return ""
	}
	return c.Fields[0]
}

// CardStatus is a card's scheduling state.
type CardStatus struct {
	ID       int64  `json:"id"`
	Type     int    `json:"type"`  // 0=new, 1=learning, 2=review, 3=relearning
	Queue    int    `json:"queue"` // -1=suspended, 0=new, 1=learning, 2=review
	Due      int64  `json:"due"`
	Reps     int    `json:"reps"`
	Lapses   int    `json:"lapses"`
	Factor   int    `json:"factor"`
	DeckName string `json:"deck_name"`
}

// Template is a card template together with its owning note type.
type Template struct {
	Name         string `json:"name"`
	NoteTypeName string `json:"note_type_name"`
	NoteTypeID   int64  `json:"note_type_id"`
}

// TemplateContent is the rendered HTML sides of a template.
type TemplateContent struct {
	Name            string `json:"name"`
	NoteTypeName    string `json:"note_type_name"`
	FrontHTML       string `json:"front_html"`
	BackHTML        string `json:"back_html"`
	BrowserQuestion string `json:"browser_question"`
}

// NoteFilter narrows note listings.
type NoteFilter struct {
	DeckName string
	Search   string
	Limit    int
	Offset   int
}

// ExportResult reports what an .apkg export produced.
type ExportResult struct {
	Path          string `json:"path"`
	NotesExported int    `json:"notes_exported"`
	CardsCreated  int    `json:"cards_created"`
}
