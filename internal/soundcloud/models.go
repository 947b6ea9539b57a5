package soundcloud

// Candidate is the minimal track reference returned by a search, prior to
// detail enrichment.
type Candidate struct {
	URL        string
	Title      string
	Author     string
	Thumbnail  string
	DurationMs int
}

// TrackDetails is the full payload returned by resolving a track URL.
type TrackDetails struct {
	Title       string
	URL         string
	Author      string
	Thumbnail   string
	Genre       string
	DurationMs  int
	PublishedAt string
}
