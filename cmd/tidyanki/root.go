package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidyanki/tidyanki/internal/anki"
	"github.com/tidyanki/tidyanki/internal/config"
	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/repository/sqlite"
	"github.com/tidyanki/tidyanki/internal/services"
)

var (
	cfg    config.Config
	dbFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tidyanki",
	Short: "Inspect, compare, and deduplicate Anki collections",
	Long: `Tidyanki is a command-line tool for working with Anki flashcard collections.
It lists decks and cards, finds notes duplicated across decks, compares decks
for overlap, and builds deduplicated .apkg packages from decks or imports.

The collection database is always opened read-only; deduplication results are
written out as new .apkg files rather than applied in place.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if dbFlag != "" {
			cfg.CollectionPath = dbFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.SetDefault(logger.New(
			logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
			logger.WithColors(true),
		))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "path to the collection database (default: auto-detect)")
}

// collection opens the configured collection database, falling back to the
// standard Anki data directories when no path was given.
func collection() (*anki.DB, error) {
	path := cfg.CollectionPath
	if path == "" {
		detected, err := anki.DefaultCollectionPath()
		if err != nil {
			return nil, fmt.Errorf("no collection found, pass --db or set ANKI_DB_PATH: %w", err)
		}
		path = detected
	}
	return anki.Open(path)
}

// toolkit bundles the services the subcommands work with.
type toolkit struct {
	db        *anki.DB
	decks     services.DeckService
	cards     services.CardService
	dedup     services.DedupService
	templates services.TemplateService
	imports   services.ImportService
	export    services.ExportService
}

func newToolkit() (*toolkit, error) {
	db, err := collection()
	if err != nil {
		return nil, err
	}

	cards := sqlite.NewCardRepository(db.DB)
	decks := sqlite.NewDeckRepository(db.DB)
	notes := sqlite.NewNoteRepository(db.DB)
	opts := dedup.Options{FieldIndex: cfg.CompareField}
	export := services.NewExportService(notes)

	return &toolkit{
		db:        db,
		decks:     services.NewDeckService(decks, notes),
		cards:     services.NewCardService(cards, decks),
		dedup:     services.NewDedupService(cards, decks, opts),
		templates: services.NewTemplateService(sqlite.NewTemplateRepository(db.DB)),
		imports:   services.NewImportService(cards, export, opts),
		export:    export,
	}, nil
}

func (t *toolkit) Close() {
	if err := t.db.Close(); err != nil {
		logger.Error("failed to close collection: %v", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	return logger.NewContext(cmd.Context(), logger.Default())
}
