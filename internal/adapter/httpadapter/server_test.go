package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/snow-day-forecast-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockForecaster struct {
	report     domain.Report
	err        error
	calls      int
	gotZip     string
	gotProfile domain.Profile
}

func (m *mockForecaster) Forecast(_ context.Context, zip string, profile domain.Profile) (domain.Report, error) {
	m.calls++
	m.gotZip = zip
	m.gotProfile = profile
	return m.report, m.err
}

func newTestServer(svc httpadapter.ForecastService, readyErr error) *httpadapter.Server {
	profile, _ := domain.ProfileByName(domain.DefaultProfileName)
	return httpadapter.NewServer(":0", svc, profile, &mockReadiness{err: readyErr}, slog.Default(), observability.NewMetricsForTesting())
}

func successReport() domain.Report {
	return domain.Report{
		Success:         true,
		Location:        "East Lansing, MI",
		Zipcode:         "48823",
		DistrictProfile: "Average District",
		Probabilities: []domain.ForecastResult{
			{Date: "2026-01-14", Weekday: "Wednesday", Probability: 35, Likelihood: domain.LikelihoodPossible},
		},
	}
}

func TestForecastReturnsReport(t *testing.T) {
	mock := &mockForecaster{report: successReport()}
	srv := newTestServer(mock, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?zip=48823", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, "48823", report.Zipcode)
	require.Len(t, report.Probabilities, 1)
	assert.Equal(t, 35, report.Probabilities[0].Probability)

	assert.Equal(t, "48823", mock.gotZip)
	assert.Equal(t, "Average District", mock.gotProfile.Name, "default profile when none requested")
}

func TestForecastProfileOverride(t *testing.T) {
	mock := &mockForecaster{report: successReport()}
	srv := newTestServer(mock, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?zip=48823&profile=tough", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rural/Tough (tolerates more snow)", mock.gotProfile.Name)
}

func TestForecastRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "missing zip", target: "/api/v1/forecast"},
		{name: "short zip", target: "/api/v1/forecast?zip=123"},
		{name: "non-numeric zip", target: "/api/v1/forecast?zip=abcde"},
		{name: "unknown profile", target: "/api/v1/forecast?zip=48823&profile=lenient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockForecaster{report: successReport()}
			srv := newTestServer(mock, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)

			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, mock.calls, "invalid input should never reach the forecaster")

			var report domain.Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.False(t, report.Success)
			assert.NotEmpty(t, report.Error)
		})
	}
}

func TestForecastZipNotFound(t *testing.T) {
	mock := &mockForecaster{
		report: domain.NewErrorReport("zip code not found"),
		err:    fmt.Errorf("geocode 99999: %w", domain.ErrZipNotFound),
	}
	srv := newTestServer(mock, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?zip=99999", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Success)
	assert.Equal(t, "zip code not found", report.Error)
	assert.NotNil(t, report.Probabilities)
}

func TestForecastUpstreamUnavailable(t *testing.T) {
	mock := &mockForecaster{
		report: domain.NewErrorReport("upstream weather data unavailable"),
		err:    fmt.Errorf("hourly forecast for 48823: %w", domain.ErrUpstreamUnavailable),
	}
	srv := newTestServer(mock, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?zip=48823", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Success)
	assert.Equal(t, "upstream weather data unavailable", report.Error)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockForecaster{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockForecaster{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockForecaster{}, fmt.Errorf("first refresh cycle has not completed"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockForecaster{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
