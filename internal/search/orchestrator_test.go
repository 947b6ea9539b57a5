package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"track-search-service/internal/soundcloud"

	"github.com/stretchr/testify/assert"
)

type stubClient struct {
	searchFn  func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error)
	detailsFn func(ctx context.Context, url string) (*soundcloud.TrackDetails, error)

	detailCalls int64
}

func (s *stubClient) Search(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
	return s.searchFn(ctx, query, kind, limit)
}

func (s *stubClient) GetTrackDetails(ctx context.Context, url string) (*soundcloud.TrackDetails, error) {
	atomic.AddInt64(&s.detailCalls, 1)
	return s.detailsFn(ctx, url)
}

func testConfig() Config {
	return Config{DefaultLimit: 10, MaxLimit: 50, LookupTimeout: time.Second}
}

func TestConfigClamp(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, 10, cfg.Clamp(0))
	assert.Equal(t, 10, cfg.Clamp(-3))
	assert.Equal(t, 1, cfg.Clamp(1))
	assert.Equal(t, 50, cfg.Clamp(50))
	assert.Equal(t, 50, cfg.Clamp(999))
}

func TestSearchUpstreamFailure(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			return nil, errors.New("boom")
		},
	}
	o := NewOrchestrator(client, testConfig())

	_, err := o.Search(context.Background(), "lofi", 3)
	assert.Error(t, err)
	assert.Zero(t, atomic.LoadInt64(&client.detailCalls))
}

func TestSearchNoCandidates(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			return nil, nil
		},
	}
	o := NewOrchestrator(client, testConfig())

	results, err := o.Search(context.Background(), "nothing here", 10)
	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, atomic.LoadInt64(&client.detailCalls))
}

func TestSearchEnrichesAllCandidates(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			assert.Equal(t, "track", kind)
			assert.Equal(t, 2, limit)
			return []soundcloud.Candidate{
				{URL: "https://sc/t1", Title: "Candidate 1"},
				{URL: "https://sc/t2", Title: "Candidate 2"},
			}, nil
		},
		detailsFn: func(ctx context.Context, url string) (*soundcloud.TrackDetails, error) {
			return &soundcloud.TrackDetails{
				Title:       "Detail for " + url,
				URL:         url,
				Author:      "Artist",
				Thumbnail:   "https://img/" + url,
				Genre:       "lofi",
				DurationMs:  123999,
				PublishedAt: "2023-01-01T00:00:00Z",
			}, nil
		},
	}
	o := NewOrchestrator(client, testConfig())

	results, err := o.Search(context.Background(), "lofi", 2)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	assert.Equal(t, "Detail for https://sc/t1", results[0].Title)
	assert.Equal(t, "Artist", results[0].Author)
	assert.Equal(t, "lofi", results[0].Genre)
	assert.Equal(t, 123, results[0].DurationSeconds, "duration should floor ms to seconds")
	assert.False(t, results[0].FetchError)
	assert.Equal(t, "Detail for https://sc/t2", results[1].Title)
}

func TestSearchDefaultsMissingDetailFields(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			return []soundcloud.Candidate{{URL: "https://sc/t1"}}, nil
		},
		detailsFn: func(ctx context.Context, url string) (*soundcloud.TrackDetails, error) {
			// Sparse payload: only the duration is present, no URL either.
			return &soundcloud.TrackDetails{DurationMs: 2500}, nil
		},
	}
	o := NewOrchestrator(client, testConfig())

	results, err := o.Search(context.Background(), "x", 1)
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "Unknown Title", got.Title)
	assert.Equal(t, "Unknown Artist", got.Author)
	assert.Nil(t, got.Thumbnail)
	assert.Equal(t, "Unknown", got.Genre)
	assert.Equal(t, "Unknown", got.PublishedAt)
	assert.Equal(t, 2, got.DurationSeconds)
	assert.Equal(t, "https://sc/t1", got.URL, "should fall back to the candidate URL")
	assert.False(t, got.FetchError)
}

func TestSearchPartialFailurePreservesOrder(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			return []soundcloud.Candidate{
				{URL: "https://sc/t1", Title: "First", Author: "A1", DurationMs: 60000},
				{URL: "https://sc/t2", Title: "Second", Author: "A2", DurationMs: 90000},
				{URL: "https://sc/t3", Title: "Third", Author: "A3", DurationMs: 30000},
			}, nil
		},
		detailsFn: func(ctx context.Context, url string) (*soundcloud.TrackDetails, error) {
			switch url {
			case "https://sc/t1":
				// Finish last so completion order differs from input order.
				time.Sleep(30 * time.Millisecond)
			case "https://sc/t2":
				return nil, errors.New("track unavailable")
			}
			return &soundcloud.TrackDetails{Title: "Resolved " + url, URL: url, Author: "Artist"}, nil
		},
	}
	o := NewOrchestrator(client, testConfig())

	results, err := o.Search(context.Background(), "lofi", 3)
	assert.NoError(t, err)
	assert.Len(t, results, 3)

	assert.Equal(t, "Resolved https://sc/t1", results[0].Title)
	assert.False(t, results[0].FetchError)

	assert.True(t, results[1].FetchError)
	assert.Equal(t, "Second", results[1].Title)
	assert.Equal(t, "A2", results[1].Author)
	assert.Equal(t, 90, results[1].DurationSeconds)
	assert.Contains(t, results[1].ErrorMessage, "track unavailable")

	assert.Equal(t, "Resolved https://sc/t3", results[2].Title)
	assert.False(t, results[2].FetchError)
}

func TestSearchCandidateWithoutURL(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			return []soundcloud.Candidate{
				{Title: "No Link", Author: "Ghost", DurationMs: 1000},
			}, nil
		},
		detailsFn: func(ctx context.Context, url string) (*soundcloud.TrackDetails, error) {
			return nil, errors.New("should not be called")
		},
	}
	o := NewOrchestrator(client, testConfig())

	results, err := o.Search(context.Background(), "x", 1)
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	got := results[0]
	assert.True(t, got.FetchError)
	assert.Contains(t, got.ErrorMessage, "no track URL")
	assert.Equal(t, "No Link", got.Title)
	assert.Equal(t, "Ghost", got.Author)
	assert.Empty(t, got.URL)
	assert.Zero(t, atomic.LoadInt64(&client.detailCalls))
}

func TestSearchLookupTimeout(t *testing.T) {
	client := &stubClient{
		searchFn: func(ctx context.Context, query, kind string, limit int) ([]soundcloud.Candidate, error) {
			return []soundcloud.Candidate{{URL: "https://sc/slow", Title: "Slow"}}, nil
		},
		detailsFn: func(ctx context.Context, url string) (*soundcloud.TrackDetails, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	cfg := testConfig()
	cfg.LookupTimeout = 10 * time.Millisecond
	o := NewOrchestrator(client, cfg)

	results, err := o.Search(context.Background(), "x", 1)
	assert.NoError(t, err, "a timed-out lookup must not fail the request")
	assert.Len(t, results, 1)
	assert.True(t, results[0].FetchError)
	assert.Equal(t, "Slow", results[0].Title)
}
