package zippopotam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
)

const serviceLabel = "geocoder"

// Client implements domain.Geocoder using the Zippopotam.us API. The API is
// unauthenticated and returns coordinates as JSON strings.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Zippopotam geocoding client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// Geocode resolves a US ZIP code to coordinates and a "City, ST" name.
// Unknown ZIP codes return domain.ErrZipNotFound.
func (c *Client) Geocode(ctx context.Context, zip string) (domain.Location, error) {
	u := fmt.Sprintf("%s/us/%s", c.baseURL, url.PathEscape(zip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(serviceLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "not_found").Inc()
		c.logger.Debug("zip code not found", "zip", zip)
		return domain.Location{}, fmt.Errorf("zip %s: %w", zip, domain.ErrZipNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.Location{}, fmt.Errorf("zippopotam API error: status %d: %s", resp.StatusCode, body)
	}

	var zipResp response
	if err := json.NewDecoder(resp.Body).Decode(&zipResp); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("decode response: %w", err)
	}

	if len(zipResp.Places) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "not_found").Inc()
		return domain.Location{}, fmt.Errorf("zip %s: %w", zip, domain.ErrZipNotFound)
	}

	p := zipResp.Places[0]
	lat, err := strconv.ParseFloat(p.Latitude, 64)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("parse latitude %q: %w", p.Latitude, err)
	}
	lon, err := strconv.ParseFloat(p.Longitude, 64)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("parse longitude %q: %w", p.Longitude, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "success").Inc()
	return domain.Location{
		Zip:  zip,
		Name: fmt.Sprintf("%s, %s", p.PlaceName, p.State),
		Lat:  lat,
		Lon:  lon,
	}, nil
}

// Zippopotam API response types.

type response struct {
	PostCode string  `json:"post code"`
	Places   []place `json:"places"`
}

type place struct {
	PlaceName string `json:"place name"`
	State     string `json:"state abbreviation"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}
