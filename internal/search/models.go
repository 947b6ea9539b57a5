package search

// EnrichedTrack is the output record for one candidate: the candidate merged
// with its detail lookup, or degraded best-effort data when the lookup
// failed. One is produced per candidate regardless of lookup outcome.
type EnrichedTrack struct {
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Author          string  `json:"author"`
	Thumbnail       *string `json:"thumbnail"`
	DurationSeconds int     `json:"duration_seconds"`
	Genre           string  `json:"genre"`
	PublishedAt     string  `json:"publishedAt"`
	FetchError      bool    `json:"fetchError"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
}
