// Package geocode resolves free-text place names to coordinates through a
// Nominatim-compatible search endpoint. Lookups never fail from the caller's
// point of view: every problem is logged and reported as "not found".
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripplanner-backend/internal/metrics"
	"tripplanner-backend/internal/models"
)

// maxResponseBytes bounds how much of an upstream response is decoded.
const maxResponseBytes = 1 << 20

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) Result
}

// Result is the outcome of a lookup. Coordinates is meaningful only when Found.
type Result struct {
	Coordinates models.Coordinates
	Found       bool
}

// ClientConfig contains options for creating a new Client.
type ClientConfig struct {
	BaseURL   string // e.g. https://nominatim.openstreetmap.org
	UserAgent string // required by Nominatim's usage policy
	Timeout   time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a Geocoder backed by the Nominatim search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// NewClient creates a new Nominatim Client.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Geocode returns the first match for place.
func (c *Client) Geocode(ctx context.Context, place string) Result {
	place = strings.TrimSpace(place)
	if place == "" {
		return Result{}
	}

	coords, found, err := c.lookup(ctx, place)
	switch {
	case err != nil:
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		c.logger.Warn("Geocoding failed", zap.String("place", place), zap.Error(err))
		return Result{}
	case !found:
		metrics.GeocodeLookups.WithLabelValues("not_found").Inc()
		c.logger.Debug("Geocoding returned no match", zap.String("place", place))
		return Result{}
	default:
		metrics.GeocodeLookups.WithLabelValues("found").Inc()
		return Result{Coordinates: coords, Found: true}
	}
}

func (c *Client) lookup(ctx context.Context, place string) (models.Coordinates, bool, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&results); err != nil {
		return models.Coordinates{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return models.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("parse lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("parse lon %q: %w", results[0].Lon, err)
	}
	return models.Coordinates{Lat: lat, Lon: lon}, true, nil
}
