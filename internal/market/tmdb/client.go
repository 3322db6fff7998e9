// Package tmdb implements the primary market-data provider client. It
// searches TMDB for comparable movies and enriches each hit with the
// detail payload (keywords and credits included).
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"filmintel/internal/market"
)

// hitsPerQuery bounds how many search hits per keyword are enriched with a
// detail request.
const hitsPerQuery = 2

// maxQueries bounds how many keywords or titles a single search will issue
// requests for, regardless of how many the extractor produced.
const maxQueries = 5

// searchResult is one entry of the TMDB paginated search response.
type searchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	PosterPath  string  `json:"poster_path"`
}

type searchResponse struct {
	Page         int            `json:"page"`
	Results      []searchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// movieDetails models the detail payload with keywords and credits
// appended.
type movieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Budget      int64   `json:"budget"`
	Revenue     int64   `json:"revenue"`
	PosterPath  string  `json:"poster_path"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Keywords struct {
		Keywords []struct {
			Name string `json:"name"`
		} `json:"keywords"`
	} `json:"keywords"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

// Cache stores raw provider payloads keyed by query so repeated lookups
// skip the network.
type Cache interface {
	Get(ctx context.Context, source, query string) ([]byte, bool, error)
	Put(ctx context.Context, source, query string, payload []byte) error
}

const cacheSource = "tmdb"

// Client queries the TMDB API. A client constructed without an API key is
// valid but inert: every search returns an empty result without issuing a
// single request.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	logger     *slog.Logger
}

var _ market.Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRequestsPerSecond paces outgoing requests.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithCache attaches a payload cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a TMDB client. An empty API key is not an error; the client
// simply reports no results so the rest of the pipeline degrades cleanly.
func New(apiKey, baseURL, language string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(3), 1),
		logger:     slog.Default(),
	}
	if client.baseURL == "" {
		client.baseURL = "https://api.themoviedb.org/3"
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchByKeywords searches each keyword as a fuzzy query, enriches the top
// hits with detail payloads, and returns at most limit records. A failing
// keyword or detail lookup is logged and skipped; only context cancellation
// aborts the whole search.
func (c *Client) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]market.Record, error) {
	return c.search(ctx, keywords, limit, false)
}

// SearchByTitles behaves like SearchByKeywords but keeps only hits whose
// normalized title equals the normalized query.
func (c *Client) SearchByTitles(ctx context.Context, titles []string, limit int) ([]market.Record, error) {
	return c.search(ctx, titles, limit, true)
}

func (c *Client) search(ctx context.Context, queries []string, limit int, exact bool) ([]market.Record, error) {
	if !c.Configured() || len(queries) == 0 || limit <= 0 {
		return nil, nil
	}
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}

	records := make([]market.Record, 0, limit)
	for _, query := range queries {
		if len(records) >= limit {
			break
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}

		hits, err := c.searchMovies(ctx, query)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn("tmdb search failed",
				slog.String("query", query),
				slog.Any("error", err))
			continue
		}

		taken := 0
		for _, hit := range hits {
			if len(records) >= limit || taken >= hitsPerQuery {
				break
			}
			if exact && market.NormalizeTitle(hit.Title) != market.NormalizeTitle(query) {
				continue
			}
			rec, err := c.recordForHit(ctx, hit)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				c.logger.Warn("tmdb detail lookup failed",
					slog.Int64("movie_id", hit.ID),
					slog.Any("error", err))
				continue
			}
			records = append(records, rec)
			taken++
		}
	}
	return records, nil
}

func (c *Client) searchMovies(ctx context.Context, query string) ([]searchResult, error) {
	cacheKey := "search:" + market.NormalizeTitle(query)
	if payload, ok := c.cacheGet(ctx, cacheKey); ok {
		var cached searchResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached.Results, nil
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	body, err := c.get(ctx, "/search/movie", params)
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode tmdb search response: %w", err)
	}
	c.cachePut(ctx, cacheKey, body)
	return payload.Results, nil
}

// recordForHit fetches the detail payload for a search hit and assembles
// the provider record. The detail endpoint carries budget, revenue,
// genres, keywords, and credits the search response lacks.
func (c *Client) recordForHit(ctx context.Context, hit searchResult) (market.Record, error) {
	cacheKey := "movie:" + strconv.FormatInt(hit.ID, 10)
	if payload, ok := c.cacheGet(ctx, cacheKey); ok {
		var cached movieDetails
		if err := json.Unmarshal(payload, &cached); err == nil {
			return recordFromDetails(cached), nil
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("append_to_response", "keywords,credits")
	if c.language != "" {
		params.Set("language", c.language)
	}

	body, err := c.get(ctx, "/movie/"+strconv.FormatInt(hit.ID, 10), params)
	if err != nil {
		return market.Record{}, err
	}

	var details movieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return market.Record{}, fmt.Errorf("decode tmdb movie details: %w", err)
	}
	c.cachePut(ctx, cacheKey, body)
	return recordFromDetails(details), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tmdb response: %w", err)
	}
	return body, nil
}

func (c *Client) cacheGet(ctx context.Context, query string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	payload, ok, err := c.cache.Get(ctx, cacheSource, query)
	if err != nil {
		c.logger.Debug("tmdb cache read failed", slog.Any("error", err))
		return nil, false
	}
	return payload, ok
}

func (c *Client) cachePut(ctx context.Context, query string, payload []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, cacheSource, query, payload); err != nil {
		c.logger.Debug("tmdb cache write failed", slog.Any("error", err))
	}
}

func recordFromDetails(details movieDetails) market.Record {
	rec := market.Record{
		Title:       details.Title,
		Year:        market.ParseYear(details.ReleaseDate),
		ReleaseDate: details.ReleaseDate,
		Overview:    details.Overview,
		Rating:      details.VoteAverage,
		VoteCount:   details.VoteCount,
		Popularity:  details.Popularity,
		Budget:      details.Budget,
		Revenue:     details.Revenue,
		Source:      market.SourcePrimary,
		PosterPath:  details.PosterPath,
	}
	for _, genre := range details.Genres {
		if genre.Name != "" {
			rec.Genres = append(rec.Genres, genre.Name)
		}
	}
	for _, keyword := range details.Keywords.Keywords {
		if keyword.Name != "" {
			rec.Keywords = append(rec.Keywords, keyword.Name)
		}
	}
	for i, member := range details.Credits.Cast {
		if i >= 5 {
			break
		}
		if member.Name != "" {
			rec.Cast = append(rec.Cast, member.Name)
		}
	}
	for _, member := range details.Credits.Crew {
		if member.Job == "Director" && member.Name != "" {
			rec.Director = member.Name
			break
		}
	}
	return rec
}
