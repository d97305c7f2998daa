package domain

import (
	"context"
	"errors"
)

// Failure classes the forecaster translates into degraded reports. The HTTP
// layer maps them onto status codes.
var (
	// ErrUpstreamUnavailable marks a weather source that could not be
	// reached or answered with an error.
	ErrUpstreamUnavailable = errors.New("upstream weather data unavailable")

	// ErrNoForecastData marks a reachable source that returned no hourly
	// periods to score.
	ErrNoForecastData = errors.New("no hourly forecast data available")
)

// WeatherSource yields the hourly forecast and active alerts for a point.
type WeatherSource interface {
	// HourlyForecast returns the gridpoint hourly periods covering the next
	// several days at the given coordinates.
	HourlyForecast(ctx context.Context, lat, lon float64) ([]HourlyPeriod, error)

	// ActiveAlerts returns the alerts currently in effect at the given
	// coordinates. Implementations degrade to an empty slice rather than
	// fail the forecast.
	ActiveAlerts(ctx context.Context, lat, lon float64) ([]Alert, error)
}
