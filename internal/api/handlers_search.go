package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	// Absent or unparseable limits fall back to the default before clamping.
	requested := s.limits.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			requested = v
		}
	}
	processed := s.limits.Clamp(requested)

	results, err := s.enricher.Search(r.Context(), q, processed)
	if err != nil {
		log.Printf("search %q: %v", q, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": "Failed to fetch search results",
		})
		return
	}

	resp := SearchResponse{
		Query:             q,
		RequestedLimit:    requested,
		ProcessedLimit:    processed,
		ActualResultCount: len(results),
		Results:           results,
	}
	if len(results) == 0 {
		resp.Message = "No tracks found for this query"
	}
	writeJSON(w, http.StatusOK, resp)
}
