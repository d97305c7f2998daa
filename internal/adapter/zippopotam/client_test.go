package zippopotam

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	eastLansingPayload = `{
		"post code": "48823",
		"country": "United States",
		"country abbreviation": "US",
		"places": [
			{
				"place name": "East Lansing",
				"longitude": "-84.4758",
				"state": "Michigan",
				"state abbreviation": "MI",
				"latitude": "42.7446"
			}
		]
	}`
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    testMetrics(),
	}
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/us/48823", r.URL.Path)

		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := w.Write([]byte(eastLansingPayload))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, err := c.Geocode(context.Background(), "48823")
	require.NoError(t, err)

	assert.Equal(t, "48823", loc.Zip)
	assert.Equal(t, "East Lansing, MI", loc.Name)
	assert.Equal(t, 42.7446, loc.Lat)
	assert.Equal(t, -84.4758, loc.Lon)
}

func TestClient_Geocode_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "00000")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrZipNotFound)
}

func TestClient_Geocode_EmptyPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"post code": "99999", "places": []}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "99999")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrZipNotFound)
}

func TestClient_Geocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "48823")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.NotErrorIs(t, err, domain.ErrZipNotFound)
}

func TestClient_Geocode_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"post code": "48823", "places": [{"place name": "East Lansing", "state abbreviation": "MI", "latitude": "not-a-number", "longitude": "-84.4758"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "48823")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse latitude")
}

func TestClient_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		baseURL:    srv.URL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    testMetrics(),
	}

	_, err := c.Geocode(context.Background(), "48823")
	require.Error(t, err)
}
