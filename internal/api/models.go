package api

import "track-search-service/internal/search"

type SearchResponse struct {
	Query             string                 `json:"query"`
	RequestedLimit    int                    `json:"requested_limit"`
	ProcessedLimit    int                    `json:"processed_limit"`
	ActualResultCount int                    `json:"actual_result_count"`
	Message           string                 `json:"message,omitempty"`
	Results           []search.EnrichedTrack `json:"results"`
}
