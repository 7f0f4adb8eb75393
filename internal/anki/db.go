package anki

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-sqlite3"

	"github.com/tidyanki/tidyanki/internal/dedup"
	"github.com/tidyanki/tidyanki/internal/logger"
)

// DriverName is a sqlite3 driver variant carrying the custom collation Anki
// declares on deck names. Tests open in-memory databases through it so the
// collation resolves there too.
const DriverName = "sqlite3_anki"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterCollation("unicase", collateUnicase)
		},
	})
}

// collateUnicase compares strings case-insensitively after stripping
// diacritics, matching the collation Anki declares on deck names. It folds
// with the same rule the dedup engine uses so ordering and matching agree.
func collateUnicase(a, b string) int {
	na, nb := dedup.Fold(a), dedup.Fold(b)
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// DB wraps a read-only connection to an Anki collection database.
type DB struct {
	*sql.DB
	path string
	log  *logger.Logger
}

// Open opens the collection database at path read-only. The collection is a
// snapshot for the duration of a run; nothing here ever writes to it.
func Open(path string) (*DB, error) {
	log := logger.Default().WithPrefix("anki")

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("collection database %s: %w", path, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	log.Info("opening collection: %s", path)

	sqlDB, err := sql.Open(DriverName, dsn)
	if err != nil {
		log.Error("failed to open collection: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		log.Error("failed to connect to collection: %v", err)
		sqlDB.Close()
		return nil, err
	}

	log.Debug("collection ready")
	return &DB{DB: sqlDB, path: path, log: log}, nil
}

// Path returns the filesystem path of the opened collection.
func (db *DB) Path() string {
	return db.path
}

// DefaultCollectionPath locates a collection database when none is
// configured: an anki.db in the working directory first, then the standard
// Anki profile directories for the platform.
func DefaultCollectionPath() (string, error) {
	if _, err := os.Stat("anki.db"); err == nil {
		return "anki.db", nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support", "Anki2")
	case "windows":
		base = filepath.Join(os.Getenv("APPDATA"), "Anki2")
	default:
		base = filepath.Join(home, ".local", "share", "Anki2")
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return "", fmt.Errorf("no Anki profile directory found (looked in %s)", base)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		collection := filepath.Join(base, entry.Name(), "collection.anki2")
		if _, err := os.Stat(collection); err == nil {
			return collection, nil
		}
	}
	return "", fmt.Errorf("no collection.anki2 found under %s", base)
}
