package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org"
	defaultLanguage = "en"
	defaultCacheTTL = 10 * time.Minute
)

// Sentinel errors for TMDB API responses.
var (
	// ErrNotFound is returned when the requested resource doesn't exist in TMDB.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when TMDB could not be reached or timed out.
	ErrUnavailable = errors.New("tmdb unavailable")

	// ErrUnexpectedResponse is returned for error statuses and undecodable bodies.
	ErrUnexpectedResponse = errors.New("unexpected tmdb response")
)

// Client is a TMDB API client. It performs no retries.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	movies     *cache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the movie detail cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.movies = cache.New(ttl, 2*ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLanguage sets the language filter sent with every request.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: defaultLanguage,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		movies: cache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET against path and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

// SearchMulti searches movies, series and people by title (first page only).
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	var resp searchResponse
	params := url.Values{"query": {query}, "page": {"1"}}
	if err := c.get(ctx, "/3/search/multi", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return resp.Results, nil
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	key := strconv.FormatInt(tmdbID, 10)
	if v, ok := c.movies.Get(key); ok {
		return v.(*Movie), nil
	}

	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), nil, &movie); err != nil {
		return nil, fmt.Errorf("movie %d: %w", tmdbID, err)
	}

	c.movies.SetDefault(key, &movie)
	return &movie, nil
}

// GetTV fetches series metadata, including the season list, by TMDB ID.
func (c *Client) GetTV(ctx context.Context, tmdbID int64) (*TV, error) {
	var tv TV
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d", tmdbID), nil, &tv); err != nil {
		return nil, fmt.Errorf("tv %d: %w", tmdbID, err)
	}
	return &tv, nil
}

// GetSeason fetches one season of a series with all its episodes.
func (c *Client) GetSeason(ctx context.Context, tvID int64, seasonNumber int) (*Season, error) {
	var season Season
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d/season/%d", tvID, seasonNumber), nil, &season); err != nil {
		return nil, fmt.Errorf("tv %d season %d: %w", tvID, seasonNumber, err)
	}
	return &season, nil
}
