package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
)

// defaultCardLimit caps card listings when the client does not pass one.
const defaultCardLimit = 100

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultCardLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.NewValidationError("limit", "must be a positive integer")
	}
	return limit, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady checks the collection database is still reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.PingContext(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn("readiness check failed: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Collection unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	noteCount, err := s.DeckService.CountNotes(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]any{
		"decks":      decks,
		"count":      len(decks),
		"note_count": noteCount,
	})
}

func (s *Server) handleDeckCards(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	limit, err := queryLimit(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.ListDeckCards(r.Context(), name, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, r, map[string]any{
		"deck":  name,
		"cards": cards,
		"count": len(cards),
	})
}

func (s *Server) handleDeckStatus(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	statuses, err := s.CardService.DeckStatus(r.Context(), name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if statuses == nil {
		statuses = []models.CardStatus{}
	}
	writeJSON(w, r, map[string]any{
		"deck":  name,
		"cards": statuses,
		"count": len(statuses),
	})
}

func (s *Server) handleDeckDuplicates(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	groups, err := s.DedupService.FindDuplicates(r.Context(), name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if groups == nil {
		groups = []models.DuplicateGroup{}
	}
	writeJSON(w, r, map[string]any{
		"deck":   name,
		"groups": groups,
		"count":  len(groups),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	deck := r.URL.Query().Get("deck")
	limit, err := queryLimit(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.SearchCards(r.Context(), query, deck, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, r, map[string]any{
		"query": query,
		"cards": cards,
		"count": len(cards),
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	deck1 := r.URL.Query().Get("deck1")
	deck2 := r.URL.Query().Get("deck2")
	if deck1 == "" || deck2 == "" {
		handleError(w, r, errors.NewBadRequestError("deck1 and deck2 query parameters are required"))
		return
	}

	report, err := s.DedupService.CompareDecks(r.Context(), deck1, deck2)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, report)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.TemplateService.ListTemplates(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	writeJSON(w, r, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}
