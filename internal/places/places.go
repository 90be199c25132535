// Package places finds the nearest physical facility for a keyword via
// the Google Places nearby-search API. "Nearest" is entirely the
// service's ranking; the client takes the first result as-is.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	DefaultRadius  = 5000

	requestTimeout = 10 * time.Second
)

// ErrNotConfigured marks configuration errors (missing key, keyword, or
// location) as distinct from search failures.
var ErrNotConfigured = errors.New("places: not configured")

// Coordinate is a validated lat/lng pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is within world bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Facility is the name and short-form address of a returned place.
type Facility struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type searchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
	} `json:"results"`
}

// Client issues nearby-search requests. Each call is independent and
// stateless: no retries, no caching, no rate limiting.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// FindNearest returns the first (nearest-ranked) result for keyword
// around loc, or (nil, nil) when the search succeeded with zero
// results. Configuration errors fail fast before any network call.
// Every failure path logs its specific cause so "search failed" and
// "nothing found" stay distinguishable in logs.
func (c *Client) FindNearest(ctx context.Context, keyword string, loc Coordinate, radius int) (*Facility, error) {
	if keyword == "" {
		c.logger.Error("places lookup rejected: empty keyword")
		return nil, fmt.Errorf("%w: keyword required", ErrNotConfigured)
	}
	if !loc.Valid() {
		c.logger.Error("places lookup rejected: invalid location", zap.Float64("lat", loc.Lat), zap.Float64("lng", loc.Lng))
		return nil, fmt.Errorf("%w: location out of range", ErrNotConfigured)
	}
	if c.apiKey == "" {
		c.logger.Error("places lookup rejected: api key not configured")
		return nil, fmt.Errorf("%w: api key missing", ErrNotConfigured)
	}
	if radius <= 0 {
		radius = DefaultRadius
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("location", loc.String())
	params.Set("radius", strconv.Itoa(radius))
	params.Set("keyword", keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.logger.Error("places request timed out", zap.String("keyword", keyword), zap.Error(err))
		} else {
			c.logger.Error("places transport error", zap.String("keyword", keyword), zap.Error(err))
		}
		return nil, fmt.Errorf("places: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("places response unreadable", zap.Error(err))
		return nil, fmt.Errorf("places: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("places request failed", zap.Int("status_code", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("places: http status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		c.logger.Error("places response malformed", zap.Error(err))
		return nil, fmt.Errorf("places: parse response: %w", err)
	}
	if sr.Status != "OK" {
		if sr.Status == "ZERO_RESULTS" {
			c.logger.Info("no places found", zap.String("keyword", keyword))
			return nil, nil
		}
		c.logger.Error("places api error", zap.String("api_status", sr.Status), zap.String("message", sr.ErrorMessage))
		return nil, fmt.Errorf("places: api status %s: %s", sr.Status, sr.ErrorMessage)
	}
	if len(sr.Results) == 0 {
		c.logger.Info("no places found", zap.String("keyword", keyword))
		return nil, nil
	}

	nearest := sr.Results[0]
	name := nearest.Name
	if name == "" {
		name = "Unknown"
	}
	address := nearest.Vicinity
	if address == "" {
		address = "Address not available"
	}
	c.logger.Info("nearest place found", zap.String("keyword", keyword), zap.String("name", name))
	return &Facility{Name: name, Address: address}, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
