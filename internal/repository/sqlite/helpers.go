package sqlite

import (
	"strings"

	"github.com/tidyanki/tidyanki/internal/models"
)

// Helper functions shared across repository implementations

// displayDeckName renders a stored deck name for humans ("A\x1fB" -> "A::B").
func displayDeckName(stored string) string {
	return strings.ReplaceAll(stored, models.FieldSeparator, models.DeckSeparator)
}

// storedDeckName converts a display deck name back to its stored form.
func storedDeckName(display string) string {
	return strings.ReplaceAll(display, models.DeckSeparator, models.FieldSeparator)
}

func splitFields(flds string) []string { return models.SplitFields(flds) }

func splitTags(tags string) []string { return models.SplitTags(tags) }
