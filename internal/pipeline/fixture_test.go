package pipeline_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureForecaster runs the real scoring engine over a canned scenario.
type fixtureForecaster struct {
	fixture pipeline.Fixture
}

func (f *fixtureForecaster) Forecast(_ context.Context, zip string, profile domain.Profile) (domain.Report, error) {
	loc := domain.Location{Zip: zip, Name: "East Lansing, MI", Lat: 42.7446, Lon: -84.4758}
	results := domain.Forecast(f.fixture.Periods, f.fixture.Alerts, profile)
	return domain.NewReport(loc, profile.Name, results), nil
}

func TestLoadFixture_Blizzard(t *testing.T) {
	f, err := pipeline.LoadFixture(filepath.Join("testdata", "blizzard.json"))
	require.NoError(t, err)

	assert.Equal(t, "blizzard", f.Scenario)
	assert.Equal(t, time.Date(2026, time.January, 12, 18, 0, 0, 0, time.UTC), f.ReferenceTime.UTC())
	assert.Len(t, f.Periods, 13)
	require.Len(t, f.Alerts, 1)
	assert.Equal(t, "Blizzard Warning", f.Alerts[0].Event)
	assert.Equal(t, 85, f.Expected.Probability)
}

func TestLoadFixture_MissingFile(t *testing.T) {
	_, err := pipeline.LoadFixture(filepath.Join("testdata", "no_such_scenario.json"))
	require.ErrorContains(t, err, "read fixture")
}

// TestRefresher_Run_ScenarioFixtures drives a full refresh cycle over every
// scenario in testdata and checks the published outlook against the
// expectation pinned in the fixture.
func TestRefresher_Run_ScenarioFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		fixture, err := pipeline.LoadFixture(path)
		require.NoError(t, err)

		t.Run(fixture.Scenario, func(t *testing.T) {
			// Both the scoring engine and the refresh loop see the scenario's
			// reference time.
			fakeClock := clockwork.NewFakeClockAt(fixture.ReferenceTime)
			pipeline.SetClock(fakeClock)
			domain.SetClock(fakeClock)
			t.Cleanup(func() {
				pipeline.SetClock(nil)
				domain.SetClock(nil)
			})

			svc := &fixtureForecaster{fixture: fixture}
			pub := &mockPublisher{}
			r := pipeline.New(svc, pub, testConfig(), slog.Default(), newTestMetrics())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = r.Run(ctx)
			}()

			fakeClock.BlockUntil(1)
			cancel()
			waitForStop(t, done)

			reports := pub.published()
			require.Len(t, reports, 1)
			report := reports[0]
			require.True(t, report.Success)
			require.NotEmpty(t, report.Probabilities)

			var day domain.ForecastResult
			found := false
			for _, result := range report.Probabilities {
				if result.Date == fixture.Expected.Date {
					day = result
					found = true
					break
				}
			}
			require.True(t, found, "no result for scenario day %s", fixture.Expected.Date)

			assert.Equal(t, fixture.Expected.Weekday, day.Weekday)
			assert.Equal(t, fixture.Expected.Probability, day.Probability)
			assert.Equal(t, fixture.Expected.Likelihood, day.Likelihood)
			assert.InDelta(t, fixture.Expected.Confidence, day.Confidence, 0.001)
		})
	}
}
