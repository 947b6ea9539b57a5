package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"track-search-service/internal/soundcloud"
)

const (
	unknownTitle  = "Unknown Title"
	unknownArtist = "Unknown Artist"
	unknownGenre  = "Unknown"
	unknownDate   = "Unknown"
)

// Client is the SoundCloud capability the orchestrator consumes.
type Client interface {
	Search(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error)
	GetTrackDetails(ctx context.Context, url string) (*soundcloud.TrackDetails, error)
}

// Config holds the limit policy and the per-lookup time bound.
type Config struct {
	DefaultLimit  int
	MaxLimit      int
	LookupTimeout time.Duration
}

// Clamp normalizes a requested result count: non-positive values fall back
// to the default, values above the maximum are capped.
func (c Config) Clamp(requested int) int {
	if requested <= 0 {
		return c.DefaultLimit
	}
	if requested > c.MaxLimit {
		return c.MaxLimit
	}
	return requested
}

type Orchestrator struct {
	client Client
	cfg    Config
}

func NewOrchestrator(client Client, cfg Config) *Orchestrator {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 8 * time.Second
	}
	return &Orchestrator{client: client, cfg: cfg}
}

// Search obtains up to limit candidates for query and enriches each one with
// a concurrent detail lookup. A failed lookup degrades that single record to
// the candidate's own fields with FetchError set; it never drops the record
// or fails the request. Only a failure of the initial search is returned as
// an error. results[i] always corresponds to candidates[i].
func (o *Orchestrator) Search(ctx context.Context, query string, limit int) ([]EnrichedTrack, error) {
	candidates, err := o.client.Search(ctx, query, "track", limit)
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}

	results := make([]EnrichedTrack, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand soundcloud.Candidate) {
			defer wg.Done()
			results[i] = o.enrich(ctx, cand)
		}(i, cand)
	}
	wg.Wait()

	return results, nil
}

func (o *Orchestrator) enrich(ctx context.Context, cand soundcloud.Candidate) EnrichedTrack {
	if cand.URL == "" {
		return degraded(cand, "candidate has no track URL")
	}

	lctx, cancel := context.WithTimeout(ctx, o.cfg.LookupTimeout)
	defer cancel()

	details, err := o.client.GetTrackDetails(lctx, cand.URL)
	if err != nil {
		return degraded(cand, err.Error())
	}

	trackURL := details.URL
	if trackURL == "" {
		trackURL = cand.URL
	}
	return EnrichedTrack{
		Title:           orUnknown(details.Title, unknownTitle),
		URL:             trackURL,
		Author:          orUnknown(details.Author, unknownArtist),
		Thumbnail:       thumbnail(details.Thumbnail),
		DurationSeconds: details.DurationMs / 1000,
		Genre:           orUnknown(details.Genre, unknownGenre),
		PublishedAt:     orUnknown(details.PublishedAt, unknownDate),
	}
}

// degraded builds a best-effort record from the candidate's own fields.
func degraded(cand soundcloud.Candidate, msg string) EnrichedTrack {
	return EnrichedTrack{
		Title:           orUnknown(cand.Title, unknownTitle),
		URL:             cand.URL,
		Author:          orUnknown(cand.Author, unknownArtist),
		Thumbnail:       thumbnail(cand.Thumbnail),
		DurationSeconds: cand.DurationMs / 1000,
		Genre:           unknownGenre,
		PublishedAt:     unknownDate,
		FetchError:      true,
		ErrorMessage:    msg,
	}
}

func orUnknown(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func thumbnail(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
