package forecaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
)

// Forecaster resolves a ZIP code to coordinates, pulls the hourly forecast
// and active alerts, and scores the upcoming school days. It is the single
// entry point shared by the HTTP API and the refresh pipeline.
type Forecaster struct {
	geocoder domain.Geocoder
	weather  domain.WeatherSource
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Forecaster from its collaborators.
func New(geocoder domain.Geocoder, weather domain.WeatherSource, logger *slog.Logger, metrics *observability.Metrics) *Forecaster {
	return &Forecaster{
		geocoder: geocoder,
		weather:  weather,
		logger:   logger,
		metrics:  metrics,
	}
}

// Forecast produces the report for one ZIP code under the given district
// profile. Failures return a degraded report alongside the error, so callers
// always have an envelope to serve.
func (f *Forecaster) Forecast(ctx context.Context, zip string, profile domain.Profile) (domain.Report, error) {
	loc, err := f.geocoder.Geocode(ctx, zip)
	if err != nil {
		if errors.Is(err, domain.ErrZipNotFound) {
			f.metrics.ForecastRequests.WithLabelValues("not_found").Inc()
			f.logger.Warn("zip code not found", "zip", zip)
			return domain.NewErrorReport(domain.ErrZipNotFound.Error()), fmt.Errorf("geocode %s: %w", zip, err)
		}
		f.metrics.ForecastRequests.WithLabelValues("upstream_error").Inc()
		f.logger.Error("geocode failed", "zip", zip, "error", err)
		return domain.NewErrorReport(domain.ErrUpstreamUnavailable.Error()), fmt.Errorf("geocode %s: %w", zip, domain.ErrUpstreamUnavailable)
	}

	periods, err := f.weather.HourlyForecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		f.metrics.ForecastRequests.WithLabelValues("upstream_error").Inc()
		f.logger.Error("hourly forecast failed", "zip", zip, "location", loc.Name, "error", err)
		return domain.NewErrorReport(domain.ErrUpstreamUnavailable.Error()), fmt.Errorf("hourly forecast for %s: %w", zip, domain.ErrUpstreamUnavailable)
	}
	if len(periods) == 0 {
		f.metrics.ForecastRequests.WithLabelValues("no_data").Inc()
		f.logger.Warn("no forecast periods returned", "zip", zip, "location", loc.Name)
		return domain.NewErrorReport(domain.ErrNoForecastData.Error()), fmt.Errorf("hourly forecast for %s: %w", zip, domain.ErrNoForecastData)
	}

	alerts, err := f.weather.ActiveAlerts(ctx, loc.Lat, loc.Lon)
	if err != nil {
		// Alerts sharpen the score but their outage never blocks a forecast.
		f.logger.Warn("scoring without alerts", "zip", zip, "error", err)
		alerts = nil
	}

	results := domain.Forecast(periods, alerts, profile)

	f.metrics.ForecastRequests.WithLabelValues("ok").Inc()
	f.metrics.DaysScored.Add(float64(len(results)))
	for _, r := range results {
		f.metrics.SeverityScore.Observe(r.Breakdown.BaseSeverityScore)
	}

	f.logger.Info("forecast complete",
		"zip", zip,
		"location", loc.Name,
		"profile", profile.Name,
		"days", len(results),
	)
	return domain.NewReport(loc, profile.Name, results), nil
}
