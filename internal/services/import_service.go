package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidyanki/tidyanki/internal/apkg"
	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

// ImportService inspects .apkg packages and imports them against the
// collection without re-adding notes that already exist
type ImportService interface {
	InspectPackage(ctx context.Context, path string, sampleLimit int) (*models.PackageInfo, error)
	ImportDedupe(ctx context.Context, path, outputDir string) (*models.ImportResult, error)
}

type importService struct {
	cards  repository.CardRepository
	export ExportService
	opts   dedup.Options
}

// NewImportService creates a new ImportService
func NewImportService(cards repository.CardRepository, export ExportService, opts dedup.Options) ImportService {
	return &importService{cards: cards, export: export, opts: opts}
}

func (s *importService) InspectPackage(ctx context.Context, path string, sampleLimit int) (*models.PackageInfo, error) {
	log := logger.FromContext(ctx)
	log.Debug("inspecting package: path=%s", path)

	a, err := apkg.Open(path)
	if err != nil {
		return nil, errors.NewBadRequestError(fmt.Sprintf("cannot open package: %v", err))
	}
	defer a.Close()

	deckNames, err := a.DeckNames()
	if err != nil {
		log.Error("failed to read package decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	types, err := a.NoteTypes()
	if err != nil {
		log.Error("failed to read package note types: %v", err)
		return nil, errors.NewInternalError(err)
	}
	notes, err := a.Notes()
	if err != nil {
		log.Error("failed to read package notes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	mediaNames, err := a.MediaNames()
	if err != nil {
		log.Error("failed to read package media: %v", err)
		return nil, errors.NewInternalError(err)
	}

	info := &models.PackageInfo{
		Path:          path,
		DeckNames:     deckNames,
		NoteCount:     len(notes),
		NoteTypeCount: len(types),
		MediaCount:    len(mediaNames),
		FieldCounts:   map[int]int{},
	}
	for _, n := range notes {
		info.FieldCounts[len(n.Fields)]++
		if n.NoteType != nil {
			info.EstimatedCards += len(n.NoteType.Templates)
		} else {
			info.EstimatedCards++
		}
		if len(info.SampleNotes) < sampleLimit {
			info.SampleNotes = append(info.SampleNotes, n)
		}
	}

	log.Info("package %s: %d notes, %d note types, %d decks",
		path, info.NoteCount, info.NoteTypeCount, len(info.DeckNames))
	return info, nil
}

func (s *importService) ImportDedupe(ctx context.Context, path, outputDir string) (*models.ImportResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("import with dedup: path=%s, output_dir=%s", path, outputDir)

	a, err := apkg.Open(path)
	if err != nil {
		return nil, errors.NewBadRequestError(fmt.Sprintf("cannot open package: %v", err))
	}
	defer a.Close()

	notes, err := a.Notes()
	if err != nil {
		log.Error("failed to read package notes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	deckNames, err := a.DeckNames()
	if err != nil {
		log.Error("failed to read package decks: %v", err)
		return nil, errors.NewInternalError(err)
	}

	existing, err := s.cards.ListAll(ctx)
	if err != nil {
		log.Error("failed to load collection cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	unique := filterNotes(notes, existing, s.opts)
	result := &models.ImportResult{
		PackagePath:    path,
		NotesInPackage: len(notes),
		DuplicateNotes: len(notes) - len(unique),
	}

	if len(unique) == 0 {
		log.Info("package %s: every note already in the collection, nothing to write", path)
		return result, nil
	}

	outPath := dedupedPackagePath(path, outputDir)
	export, err := s.export.ExportNotes(ctx, targetDeckName(deckNames, path), unique, outPath)
	if err != nil {
		return nil, err
	}
	result.Export = *export

	log.Info("package %s: %d of %d notes new, wrote %s",
		path, len(unique), len(notes), outPath)
	return result, nil
}

// filterNotes keeps the notes whose comparison field does not already appear
// on a collection card. The comparison runs on card-shaped stand-ins so the
// same rule applies to packages and decks alike.
func filterNotes(notes []models.Note, existing []models.Card, opts dedup.Options) []models.Note {
	standins := make([]models.Card, len(notes))
	for i, n := range notes {
		standins[i] = models.Card{NoteID: n.ID, Fields: n.Fields}
	}
	kept := dedup.FilterAgainst(standins, existing, opts)

	keptIDs := make(map[int64]bool, len(kept))
	for _, c := range kept {
		keptIDs[c.NoteID] = true
	}
	var unique []models.Note
	for _, n := range notes {
		if keptIDs[n.ID] {
			unique = append(unique, n)
		}
	}
	return unique
}

// dedupedPackagePath derives "<stem> (Deduplicated).apkg" next to the source
// package, or inside outputDir when one is given.
func dedupedPackagePath(path, outputDir string) string {
	dir := filepath.Dir(path)
	if outputDir != "" {
		dir = outputDir
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, stem+" (Deduplicated).apkg")
}

// targetDeckName picks the deck the deduplicated notes land in: the first
// named deck in the package, or the package stem when only Default exists.
func targetDeckName(deckNames []string, path string) string {
	for _, name := range deckNames {
		if name != "Default" {
			return name
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
