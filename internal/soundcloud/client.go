package soundcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	DefaultHomeURL = "https://soundcloud.com"
	DefaultAPIURL  = "https://api-v2.soundcloud.com"
)

// ErrNoClientID is returned when no client_id could be scraped from the
// SoundCloud frontend assets.
var ErrNoClientID = errors.New("soundcloud: could not discover client_id")

var (
	scriptSrcRe = regexp.MustCompile(`src="(https://[^"]+\.js)"`)
	clientIDRe  = regexp.MustCompile(`client_id\s*[:=]\s*"([a-zA-Z0-9]{16,})"`)
)

// Client talks to the SoundCloud api-v2 endpoints using a client_id scraped
// from the public frontend. There is no official API behind this; any call
// may stop working when the frontend changes.
type Client struct {
	homeURL string
	apiURL  string
	http    *http.Client

	mu       sync.Mutex
	clientID string
}

func NewClient(homeURL, apiURL string) *Client {
	if homeURL == "" {
		homeURL = DefaultHomeURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		homeURL: homeURL,
		apiURL:  apiURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type apiTrack struct {
	Title        string `json:"title"`
	PermalinkURL string `json:"permalink_url"`
	ArtworkURL   string `json:"artwork_url"`
	Duration     int    `json:"duration"`
	Genre        string `json:"genre"`
	DisplayDate  string `json:"display_date"`
	CreatedAt    string `json:"created_at"`
	User         struct {
		Username string `json:"username"`
	} `json:"user"`
}

type searchResult struct {
	Collection []apiTrack `json:"collection"`
}

// Search queries SoundCloud for the given kind ("track", "user", "playlist")
// and returns up to limit candidates. The upstream may return fewer.
func (c *Client) Search(ctx context.Context, query, kind string, limit int) ([]Candidate, error) {
	path := "/search"
	switch kind {
	case "track", "tracks":
		path = "/search/tracks"
	case "user", "users":
		path = "/search/users"
	case "playlist", "playlists":
		path = "/search/playlists"
	}

	val := url.Values{}
	val.Set("q", query)
	val.Set("limit", fmt.Sprint(limit))

	var body searchResult
	if err := c.getAPI(ctx, path, val, &body); err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	out := make([]Candidate, 0, len(body.Collection))
	for _, t := range body.Collection {
		out = append(out, Candidate{
			URL:        t.PermalinkURL,
			Title:      t.Title,
			Author:     t.User.Username,
			Thumbnail:  t.ArtworkURL,
			DurationMs: t.Duration,
		})
	}
	return out, nil
}

// GetTrackDetails resolves a track permalink URL into its full metadata.
func (c *Client) GetTrackDetails(ctx context.Context, trackURL string) (*TrackDetails, error) {
	val := url.Values{}
	val.Set("url", trackURL)

	var t apiTrack
	if err := c.getAPI(ctx, "/resolve", val, &t); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", trackURL, err)
	}

	published := t.DisplayDate
	if published == "" {
		published = t.CreatedAt
	}
	return &TrackDetails{
		Title:       t.Title,
		URL:         t.PermalinkURL,
		Author:      t.User.Username,
		Thumbnail:   t.ArtworkURL,
		Genre:       t.Genre,
		DurationMs:  t.Duration,
		PublishedAt: published,
	}, nil
}

func (c *Client) getAPI(ctx context.Context, path string, val url.Values, out any) error {
	id, err := c.ensureClientID(ctx)
	if err != nil {
		return err
	}

	status, err := c.getJSON(ctx, c.apiURL+path, val, id, out)
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		// The scraped client_id expires occasionally; rediscover once.
		c.mu.Lock()
		c.clientID = ""
		c.mu.Unlock()

		id, err = c.ensureClientID(ctx)
		if err != nil {
			return err
		}
		_, err = c.getJSON(ctx, c.apiURL+path, val, id, out)
	}
	return err
}

func (c *Client) getJSON(ctx context.Context, rawURL string, val url.Values, clientID string, out any) (int, error) {
	val.Set("client_id", clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+val.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("soundcloud status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

func (c *Client) ensureClientID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clientID != "" {
		return c.clientID, nil
	}
	id, err := c.discoverClientID(ctx)
	if err != nil {
		return "", err
	}
	c.clientID = id
	return id, nil
}

// discoverClientID fetches the SoundCloud homepage, collects the bundled
// script assets, and scans them for an embedded client_id.
func (c *Client) discoverClientID(ctx context.Context) (string, error) {
	home, err := c.fetch(ctx, c.homeURL)
	if err != nil {
		return "", fmt.Errorf("fetching frontend: %w", err)
	}

	scripts := scriptSrcRe.FindAllStringSubmatch(home, -1)
	// The client_id usually lives in one of the last bundles, so walk backwards.
	for i := len(scripts) - 1; i >= 0; i-- {
		src := scripts[i][1]
		if !strings.Contains(src, "sndcdn.com") && !strings.HasPrefix(src, c.homeURL) {
			continue
		}
		body, err := c.fetch(ctx, src)
		if err != nil {
			continue
		}
		if m := clientIDRe.FindStringSubmatch(body); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoClientID
}

func (c *Client) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d fetching %s", resp.StatusCode, rawURL)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
