// Package omdb implements the secondary market-data provider client. OMDb
// serves a flat, string-typed payload; parsing tolerates the provider's
// "N/A" placeholders throughout.
package omdb

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
// requests for. OMDb's free tier has a small daily quota, so the cap is
// tighter than the primary provider's.
const maxQueries = 3

type searchHit struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
}

type searchResponse struct {
	Search   []searchHit `json:"Search"`
	Response string      `json:"Response"`
	Error    string      `json:"Error"`
}

// detailResponse is the full-plot title payload. Every field arrives as a
// string; "N/A" marks absence.
type detailResponse struct {
	Title     string `json:"Title"`
	Year      string `json:"Year"`
	Released  string `json:"Released"`
	Genre     string `json:"Genre"`
	Plot      string `json:"Plot"`
	Actors    string `json:"Actors"`
	Director  string `json:"Director"`
	Rating    string `json:"imdbRating"`
	Votes     string `json:"imdbVotes"`
	Metascore string `json:"Metascore"`
	Poster    string `json:"Poster"`
	Response  string `json:"Response"`
	Error     string `json:"Error"`
}

// Cache stores raw provider payloads keyed by query so repeated lookups
// skip the network.
type Cache interface {
	Get(ctx context.Context, source, query string) ([]byte, bool, error)
	Put(ctx context.Context, source, query string, payload []byte) error
}

const cacheSource = "omdb"

// Client queries the OMDb API. A client constructed without an API key is
// valid but inert: every search returns an empty result without issuing a
// single request.
type Client struct {
	apiKey     string
	baseURL    string
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

// New creates an OMDb client. An empty API key is not an error; the client
// simply reports no results so the rest of the pipeline degrades cleanly.
func New(apiKey, baseURL string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		logger:     slog.Default(),
	}
	if client.baseURL == "" {
		client.baseURL = "https://www.omdbapi.com"
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

// SearchByKeywords runs each keyword through the search endpoint, enriches
// the top hits with full-plot detail lookups, and returns at most limit
// records. Failing keywords are logged and skipped.
func (c *Client) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]market.Record, error) {
	if !c.Configured() || len(keywords) == 0 || limit <= 0 {
		return nil, nil
	}
	if len(keywords) > maxQueries {
		keywords = keywords[:maxQueries]
	}

	records := make([]market.Record, 0, limit)
	for _, keyword := range keywords {
		if len(records) >= limit {
			break
		}
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		hits, err := c.searchTitles(ctx, keyword)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn("omdb search failed",
				slog.String("query", keyword),
				slog.Any("error", err))
			continue
		}

		taken := 0
		for _, hit := range hits {
			if len(records) >= limit || taken >= hitsPerQuery {
				break
			}
			rec, err := c.lookupByID(ctx, hit.IMDbID)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				c.logger.Warn("omdb detail lookup failed",
					slog.String("imdb_id", hit.IMDbID),
					slog.Any("error", err))
				continue
			}
			records = append(records, rec)
			taken++
		}
	}
	return records, nil
}

// SearchByTitles resolves each title through the exact-title endpoint and
// keeps only responses whose normalized title matches the query.
func (c *Client) SearchByTitles(ctx context.Context, titles []string, limit int) ([]market.Record, error) {
	if !c.Configured() || len(titles) == 0 || limit <= 0 {
		return nil, nil
	}
	if len(titles) > maxQueries {
		titles = titles[:maxQueries]
	}

	records := make([]market.Record, 0, limit)
	for _, title := range titles {
		if len(records) >= limit {
			break
		}
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}

		rec, found, err := c.lookupByTitle(ctx, title)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn("omdb title lookup failed",
				slog.String("title", title),
				slog.Any("error", err))
			continue
		}
		if !found {
			continue
		}
		if market.NormalizeTitle(rec.Title) != market.NormalizeTitle(title) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) searchTitles(ctx context.Context, keyword string) ([]searchHit, error) {
	cacheKey := "search:" + market.NormalizeTitle(keyword)
	if payload, ok := c.cacheGet(ctx, cacheKey); ok {
		var cached searchResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached.Search, nil
		}
	}

	params := url.Values{}
	params.Set("s", keyword)
	params.Set("type", "movie")
	params.Set("apikey", c.apiKey)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode omdb search response: %w", err)
	}
	// "Movie not found!" arrives as Response=False with HTTP 200.
	if payload.Response == "False" {
		return nil, nil
	}
	c.cachePut(ctx, cacheKey, body)
	return payload.Search, nil
}

func (c *Client) lookupByID(ctx context.Context, imdbID string) (market.Record, error) {
	cacheKey := "id:" + imdbID
	if payload, ok := c.cacheGet(ctx, cacheKey); ok {
		var cached detailResponse
		if err := json.Unmarshal(payload, &cached); err == nil && cached.Response != "False" {
			return recordFromDetail(cached), nil
		}
	}

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")
	params.Set("apikey", c.apiKey)

	body, err := c.get(ctx, params)
	if err != nil {
		return market.Record{}, err
	}

	var detail detailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return market.Record{}, fmt.Errorf("decode omdb detail response: %w", err)
	}
	if detail.Response == "False" {
		return market.Record{}, fmt.Errorf("omdb: %s", detail.Error)
	}
	c.cachePut(ctx, cacheKey, body)
	return recordFromDetail(detail), nil
}

func (c *Client) lookupByTitle(ctx context.Context, title string) (market.Record, bool, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")
	params.Set("apikey", c.apiKey)

	body, err := c.get(ctx, params)
	if err != nil {
		return market.Record{}, false, err
	}

	var detail detailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return market.Record{}, false, fmt.Errorf("decode omdb detail response: %w", err)
	}
	if detail.Response == "False" {
		return market.Record{}, false, nil
	}
	return recordFromDetail(detail), true, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
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
		return nil, fmt.Errorf("omdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read omdb response: %w", err)
	}
	return body, nil
}

func (c *Client) cacheGet(ctx context.Context, query string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	payload, ok, err := c.cache.Get(ctx, cacheSource, query)
	if err != nil {
		c.logger.Debug("omdb cache read failed", slog.Any("error", err))
		return nil, false
	}
	return payload, ok
}

func (c *Client) cachePut(ctx context.Context, query string, payload []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, cacheSource, query, payload); err != nil {
		c.logger.Debug("omdb cache write failed", slog.Any("error", err))
	}
}

func recordFromDetail(detail detailResponse) market.Record {
	return market.Record{
		Title:       cleanValue(detail.Title),
		Year:        market.ParseYear(cleanValue(detail.Year)),
		ReleaseDate: cleanValue(detail.Released),
		Genres:      market.SplitList(detail.Genre),
		Overview:    cleanValue(detail.Plot),
		Cast:        market.SplitList(detail.Actors),
		Director:    firstListed(detail.Director),
		Rating:      parseFloat(detail.Rating),
		VoteCount:   parseVotes(detail.Votes),
		Metascore:   parseInt(detail.Metascore),
		Source:      market.SourceSecondary,
		PosterPath:  cleanValue(detail.Poster),
	}
}

func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "N/A" {
		return ""
	}
	return value
}

// firstListed collapses OMDb's comma-joined director credit to the first
// name.
func firstListed(value string) string {
	parts := market.SplitList(value)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(cleanValue(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(cleanValue(value))
	if err != nil {
		return 0
	}
	return parsed
}

// parseVotes handles OMDb's thousands separators ("1,234,567").
func parseVotes(value string) int64 {
	cleaned := strings.ReplaceAll(cleanValue(value), ",", "")
	parsed, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
