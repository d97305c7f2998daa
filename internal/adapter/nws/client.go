package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
)

const (
	serviceLabel = "nws"

	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxElapsed      = 15 * time.Second
)

// Client implements domain.WeatherSource against the National Weather Service
// API. api.weather.gov requires a User-Agent identifying the caller and
// returns transient 5xx responses often enough that every call runs a retry
// loop behind a shared circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
	metrics    *observability.Metrics
	breaker    *gobreaker.CircuitBreaker[*http.Response]

	retryInitialInterval time.Duration
	retryMaxElapsed      time.Duration
}

// NewClient creates an NWS API client.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "nws",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:              baseURL,
		userAgent:            userAgent,
		logger:               logger,
		metrics:              metrics,
		breaker:              breaker,
		retryInitialInterval: defaultRetryInitialInterval,
		retryMaxElapsed:      defaultRetryMaxElapsed,
	}
}

// HourlyForecast resolves the gridpoint for the coordinates, then fetches its
// hourly forecast periods.
func (c *Client) HourlyForecast(ctx context.Context, lat, lon float64) ([]domain.HourlyPeriod, error) {
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)

	var points pointsResponse
	if err := c.getJSON(ctx, pointsURL, &points); err != nil {
		return nil, fmt.Errorf("resolve gridpoint: %w", err)
	}
	if points.Properties.ForecastHourly == "" {
		return nil, errors.New("gridpoint response missing hourly forecast URL")
	}

	var forecast hourlyResponse
	if err := c.getJSON(ctx, points.Properties.ForecastHourly, &forecast); err != nil {
		return nil, fmt.Errorf("fetch hourly forecast: %w", err)
	}
	return forecast.Properties.Periods, nil
}

// ActiveAlerts fetches the alerts in effect at the coordinates. Alert outages
// degrade to no alerts rather than failing the whole forecast.
func (c *Client) ActiveAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	alertsURL := fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", c.baseURL, lat, lon)

	var active alertsResponse
	if err := c.getJSON(ctx, alertsURL, &active); err != nil {
		c.logger.Warn("active alerts unavailable", "error", err)
		return []domain.Alert{}, nil
	}

	alerts := make([]domain.Alert, 0, len(active.Features))
	for _, f := range active.Features {
		alerts = append(alerts, f.Properties)
	}
	return alerts, nil
}

// getJSON fetches fullURL and unmarshals the body into out. Network errors,
// 429s, and 5xx responses are retried with exponential backoff; other non-200
// statuses and an open breaker fail immediately.
func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	var body []byte
	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			start := time.Now()
			r, doErr := c.httpClient.Do(req)
			c.metrics.UpstreamDuration.WithLabelValues(serviceLabel).Observe(time.Since(start).Seconds())
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= http.StatusInternalServerError || r.StatusCode == http.StatusTooManyRequests {
				b, _ := io.ReadAll(r.Body)
				r.Body.Close()
				return nil, fmt.Errorf("nws API error: status %d: %s", r.StatusCode, b)
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, b))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "error").Inc()
			return fmt.Errorf("read body: %w", err)
		}
		c.metrics.UpstreamRequests.WithLabelValues(serviceLabel, "success").Inc()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitialInterval
	bo.MaxElapsedTime = c.retryMaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// NWS API response types.

type pointsResponse struct {
	Properties struct {
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type hourlyResponse struct {
	Properties struct {
		Periods []domain.HourlyPeriod `json:"periods"`
	} `json:"properties"`
}

type alertsResponse struct {
	Features []struct {
		Properties domain.Alert `json:"properties"`
	} `json:"features"`
}
