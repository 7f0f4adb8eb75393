package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", s.handleDecks)
		r.Get("/decks/{name}/cards", s.handleDeckCards)
		r.Get("/decks/{name}/status", s.handleDeckStatus)
		r.Get("/decks/{name}/duplicates", s.handleDeckDuplicates)
		r.Get("/search", s.handleSearch)
		r.Get("/compare", s.handleCompare)
		r.Get("/templates", s.handleTemplates)
	})

	return r
}
