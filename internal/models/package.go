package models

// PackageInfo summarizes the contents of an .apkg file.
type PackageInfo struct {
	Path           string      `json:"path"`
	DeckNames      []string    `json:"deck_names"`
	NoteCount      int         `json:"note_count"`
	NoteTypeCount  int         `json:"note_type_count"`
	EstimatedCards int         `json:"estimated_cards"`
	MediaCount     int         `json:"media_count"`
	FieldCounts    map[int]int `json:"field_count_distribution"`
	SampleNotes    []Note      `json:"sample_notes,omitempty"`
}

// ImportResult reports a deduplicating import: how many notes the package
// held, how many already existed in the collection, and what was written.
type ImportResult struct {
	PackagePath    string       `json:"package_path"`
	NotesInPackage int          `json:"notes_in_package"`
	DuplicateNotes int          `json:"duplicate_notes"`
	Export         ExportResult `json:"export"`
}
