package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/temcen/popcornpick/internal/config"
)

const breakerName = "tmdb-api"

// ErrUnavailable is returned when the breaker rejects a call.
var ErrUnavailable = errors.New("catalog service unavailable")

// StatusError is a non-200 response from TMDB.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d: %s", e.StatusCode, e.Body)
}

// Client is the TMDB API client. Every call goes through a rate limiter
// and a circuit breaker; responses are cached in Redis when a cache is set.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	cache   *redis.Client

	discoverTTL  time.Duration
	detailsTTL   time.Duration
	providersTTL time.Duration

	language      string
	region        string
	defaultRegion string

	logger *logrus.Logger
}

// NewClient creates a TMDB client. cache may be nil.
func NewClient(cfg *config.CatalogConfig, cache *redis.Client, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		http:          &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(limit, burst),
		cache:         cache,
		discoverTTL:   cfg.DiscoverTTL,
		detailsTTL:    cfg.DetailsTTL,
		providersTTL:  cfg.ProvidersTTL,
		language:      cfg.Language,
		region:        cfg.Region,
		defaultRegion: cfg.DefaultRegion,
		logger:        logger,
	}

	minRequests := cfg.BreakerMinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	ratio := cfg.BreakerFailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Catalog circuit breaker state change")
			breakerState.WithLabelValues(name).Set(float64(to))
		},
		IsSuccessful: isSuccessful,
	})

	return c
}

// isSuccessful keeps client-side outcomes (missing movie, cancelled
// request) from counting against the upstream.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// Region returns the configured watch-provider region.
func (c *Client) Region() string { return c.region }

// DefaultRegion returns the fallback watch-provider region.
func (c *Client) DefaultRegion() string { return c.defaultRegion }

// BreakerState reports the breaker state for health checks.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// DiscoverMovies fetches one page of the discover endpoint.
func (c *Client) DiscoverMovies(ctx context.Context, params DiscoverParams) (*DiscoverResponse, error) {
	var result DiscoverResponse
	if err := c.getJSON(ctx, "discover", "/discover/movie", params.Values(), c.discoverTTL, &result); err != nil {
		return nil, fmt.Errorf("failed to discover movies: %w", err)
	}
	return &result, nil
}

// GetMovieDetails fetches runtime and release dates for one movie.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "release_dates")

	var result MovieDetails
	path := fmt.Sprintf("/movie/%d", movieID)
	if err := c.getJSON(ctx, "details", path, params, c.detailsTTL, &result); err != nil {
		return nil, fmt.Errorf("failed to get movie %d details: %w", movieID, err)
	}
	return &result, nil
}

// GetWatchProviders fetches streaming availability for one movie.
func (c *Client) GetWatchProviders(ctx context.Context, movieID int) (*WatchProvidersResponse, error) {
	var result WatchProvidersResponse
	path := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := c.getJSON(ctx, "providers", path, url.Values{}, c.providersTTL, &result); err != nil {
		return nil, fmt.Errorf("failed to get movie %d watch providers: %w", movieID, err)
	}
	return &result, nil
}

// GetCertifications fetches the certification list for every country.
func (c *Client) GetCertifications(ctx context.Context) (*CertificationListResponse, error) {
	var result CertificationListResponse
	if err := c.getJSON(ctx, "certifications", "/certification/movie/list", url.Values{}, c.detailsTTL, &result); err != nil {
		return nil, fmt.Errorf("failed to get certifications: %w", err)
	}
	return &result, nil
}

// GetGenres fetches the movie genre list.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var result struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.getJSON(ctx, "genres", "/genre/movie/list", url.Values{}, c.detailsTTL, &result); err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	return result.Genres, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, ttl time.Duration, out interface{}) error {
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}

	// The API key is kept out of the cache key.
	cacheKey := "catalog:" + path + "?" + params.Encode()
	if body, ok := c.cached(ctx, cacheKey); ok {
		requestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
		return json.Unmarshal(body, out)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doGet(ctx, path, params)
	})
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			requestsTotal.WithLabelValues(endpoint, "rejected").Inc()
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		return err
	}
	requestsTotal.WithLabelValues(endpoint, "success").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	c.store(ctx, cacheKey, body, ttl)
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("path", path).Debug("Fetching TMDB resource")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}
	return body, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Debug("Catalog cache read failed")
		}
		return nil, false
	}
	return body, true
}

func (c *Client) store(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if c.cache == nil || ttl <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, body, ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("Catalog cache write failed")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
