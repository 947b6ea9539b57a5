package api

import (
	"context"
	"net/http"

	"track-search-service/internal/search"
)

// Enricher produces the enriched result list for a query.
type Enricher interface {
	Search(ctx context.Context, query string, limit int) ([]search.EnrichedTrack, error)
}

type Server struct {
	enricher Enricher
	limits   search.Config
}

func NewServer(enricher Enricher, limits search.Config) *Server {
	return &Server{
		enricher: enricher,
		limits:   limits,
	}
}

func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "SoundCloud track search API",
		"status":    "online",
		"developer": "track-search-service",
		"usage":     "/search?q=<query>&limit=<1..50>",
		"warning":   "Backed by unofficial scraping; results may break without notice.",
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "track-search-service",
	})
}
