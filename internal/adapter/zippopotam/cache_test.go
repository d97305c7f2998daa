package zippopotam

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.Location
	err    error
}

func (m *countingGeocoder) Geocode(_ context.Context, _ string) (domain.Location, error) {
	m.calls++
	if m.err != nil {
		return domain.Location{}, m.err
	}
	return m.result, nil
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.Location{Zip: "48823", Name: "East Lansing, MI", Lat: 42.7446, Lon: -84.4758},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	l1, err := cached.Geocode(context.Background(), "48823")
	require.NoError(t, err)
	assert.Equal(t, "East Lansing, MI", l1.Name)

	l2, err := cached.Geocode(context.Background(), "48823")
	require.NoError(t, err)
	assert.Equal(t, l1, l2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_DifferentZipsMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.Location{Name: "Somewhere, MI"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.Geocode(context.Background(), "48823")
	_, _ = cached.Geocode(context.Background(), "48824")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_ErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("temporary outage")}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.Geocode(context.Background(), "48823")
	require.Error(t, err)

	inner.err = nil
	inner.result = domain.Location{Zip: "48823", Name: "East Lansing, MI"}

	loc, err := cached.Geocode(context.Background(), "48823")
	require.NoError(t, err)
	assert.Equal(t, "East Lansing, MI", loc.Name)
	assert.Equal(t, 2, inner.calls, "failed lookup should not be cached")
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("48823", domain.Location{Name: "East Lansing, MI"})
	c.put("49684", domain.Location{Name: "Traverse City, MI"})

	loc, ok := c.get("48823")
	assert.True(t, ok)
	assert.Equal(t, "East Lansing, MI", loc.Name)

	_, ok = c.get("00000")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.Location{Name: "A"})
	c.put("b", domain.Location{Name: "B"})
	c.put("c", domain.Location{Name: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	loc, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", loc.Name)

	loc, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", loc.Name)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.Location{Name: "A"})
	c.put("b", domain.Location{Name: "B"})

	// Access "a" to promote it
	c.get("a")

	// Insert "c"; evicts "b" (LRU), not "a"
	c.put("c", domain.Location{Name: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.Location{Name: "A1"})
	c.put("a", domain.Location{Name: "A2"})

	loc, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", loc.Name)
}
