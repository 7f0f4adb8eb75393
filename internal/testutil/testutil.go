package testutil

import (
	"database/sql"
	"embed"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidyanki/tidyanki/internal/anki"
	"github.com/tidyanki/tidyanki/internal/models"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// NewTestCollection creates an in-memory database with the modern Anki
// collection schema applied and the unicase collation registered.
func NewTestCollection(t *testing.T) *sql.DB {
	db, err := sql.Open(anki.DriverName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	schema, err := schemaFS.ReadFile("schema/collection.sql")
	require.NoError(t, err, "failed to read collection schema")

	_, err = db.Exec(string(schema))
	require.NoError(t, err, "failed to apply collection schema")

	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// JoinFields joins field values with the Anki field separator, the way the
// notes.flds column stores them.
func JoinFields(fields ...string) string {
	return models.JoinFields(fields)
}
