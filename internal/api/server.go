package api

import (
	"github.com/tidyanki/tidyanki/internal/anki"
	"github.com/tidyanki/tidyanki/internal/services"
)

// Server exposes read-only collection inspection over HTTP. It never writes
// to the collection; every endpoint is a GET.
type Server struct {
	DB              *anki.DB
	DeckService     services.DeckService
	CardService     services.CardService
	DedupService    services.DedupService
	TemplateService services.TemplateService
}
