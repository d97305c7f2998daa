// Command genmock generates the weather scenario fixtures used by the
// pipeline and integration test suites. Each scenario is one school day of
// hourly periods in the forecast point's own zone; the expected scoring
// summary is produced by running the real forecast engine under a fixed
// clock, so the fixtures stay honest as the engine is recalibrated.
//
// Usage:
//
//	go run ./cmd/genmock [-out internal/pipeline/testdata]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/pipeline"
)

// All scenarios share one frame: it is Monday evening UTC and the day being
// scored is Tuesday January 13th in US Eastern time.
var (
	eastern       = time.FixedZone("EST", -5*60*60)
	referenceTime = time.Date(2026, time.January, 12, 18, 0, 0, 0, time.UTC)
	scenarioDay   = time.Date(2026, time.January, 13, 0, 0, 0, 0, eastern)
)

// hourSpec is one row of a scenario table. qpfMM of zero means no measurable
// precipitation for the hour.
type hourSpec struct {
	tempF    float64
	wind     string
	forecast string
	popPct   float64
	qpfMM    float64
	visM     float64
}

type scenario struct {
	name   string
	hours  []hourSpec
	alerts []domain.Alert
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", filepath.Join("internal", "pipeline", "testdata"),
		"output directory for scenario fixtures")
	flag.Parse()

	// Score against the same clock the fixtures advertise.
	domain.SetClock(clockwork.NewFakeClockAt(referenceTime))
	defer domain.SetClock(nil)

	profile, _ := domain.ProfileByName(domain.DefaultProfileName)

	for _, s := range scenarios() {
		fixture, err := buildFixture(s, profile)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.name, err)
		}

		path := filepath.Join(*outDir, s.name+".json")
		if err := writeJSON(path, fixture); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("%s: probability %d (%s), confidence %.2f",
			s.name, fixture.Expected.Probability, fixture.Expected.Likelihood, fixture.Expected.Confidence)
	}
	return nil
}

// buildFixture runs the engine over the scenario and pins the scenario day's
// result as the fixture expectation.
func buildFixture(s scenario, profile domain.Profile) (pipeline.Fixture, error) {
	periods := buildPeriods(s.hours)
	results := domain.Forecast(periods, s.alerts, profile)

	date := scenarioDay.Format("2006-01-02")
	for _, r := range results {
		if r.Date != date {
			continue
		}
		return pipeline.Fixture{
			Scenario:      s.name,
			ReferenceTime: referenceTime,
			Periods:       periods,
			Alerts:        s.alerts,
			Expected: pipeline.FixtureExpectation{
				Date:        r.Date,
				Weekday:     r.Weekday,
				Probability: r.Probability,
				Likelihood:  r.Likelihood,
				Confidence:  r.Confidence,
			},
		}, nil
	}
	return pipeline.Fixture{}, fmt.Errorf("engine produced no result for %s", date)
}

func buildPeriods(hours []hourSpec) []domain.HourlyPeriod {
	periods := make([]domain.HourlyPeriod, 0, len(hours))
	for i, h := range hours {
		start := scenarioDay.Add(time.Duration(i) * time.Hour)
		temp := h.tempF
		pop := h.popPct
		vis := h.visM

		qpf := domain.QuantitativeValue{UnitCode: "wmoUnit:mm"}
		if h.qpfMM > 0 {
			v := h.qpfMM
			qpf.Value = &v
		}

		periods = append(periods, domain.HourlyPeriod{
			Number:                     i + 1,
			StartTime:                  start,
			EndTime:                    start.Add(time.Hour),
			Temperature:                &temp,
			TemperatureUnit:            "F",
			WindSpeed:                  h.wind,
			ShortForecast:              h.forecast,
			Visibility:                 domain.FlexibleQuantity{UnitCode: "wmoUnit:m", Value: &vis},
			ProbabilityOfPrecipitation: domain.QuantitativeValue{UnitCode: "wmoUnit:percent", Value: &pop},
			QuantitativePrecipitation:  qpf,
		})
	}
	return periods
}

func scenarios() []scenario {
	return []scenario{
		{
			name: "blizzard",
			hours: []hourSpec{
				{20, "30 mph", "Heavy Snow and Blowing Snow", 95, 7.62, 200},
				{20, "30 mph", "Heavy Snow and Blowing Snow", 95, 7.62, 200},
				{19, "30 mph", "Heavy Snow and Blowing Snow", 95, 7.62, 200},
				{19, "32 mph", "Heavy Snow and Blowing Snow", 95, 7.62, 200},
				{18, "32 mph", "Heavy Snow and Blowing Snow", 95, 7.62, 200},
				{18, "35 mph", "Heavy Snow and Blowing Snow", 97, 7.62, 200},
				{17, "35 mph", "Heavy Snow and Blowing Snow", 97, 7.62, 200},
				{17, "35 mph", "Heavy Snow and Blowing Snow", 97, 7.62, 200},
				{16, "35 mph", "Heavy Snow and Blowing Snow", 97, 7.62, 200},
				{16, "33 mph", "Heavy Snow and Blowing Snow", 95, 7.62, 200},
				{15, "33 mph", "Heavy Snow and Blowing Snow", 90, 5.08, 400},
				{15, "30 mph", "Snow", 80, 2.54, 800},
				{14, "25 mph", "Mostly Cloudy and Blustery", 20, 0, 3000},
			},
			alerts: []domain.Alert{{
				Event:     "Blizzard Warning",
				Effective: time.Date(2026, time.January, 12, 22, 0, 0, 0, eastern),
				Expires:   time.Date(2026, time.January, 13, 18, 0, 0, 0, eastern),
			}},
		},
		{
			name: "light_snow",
			hours: []hourSpec{
				{31, "5 mph", "Mostly Cloudy", 10, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 10, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 15, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 15, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 20, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 30, 0, 16093},
				{31, "5 mph", "Light Snow", 60, 0.254, 4828},
				{31, "5 mph", "Light Snow", 60, 0.254, 4828},
				{31, "5 mph", "Mostly Cloudy", 25, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 20, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 15, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 10, 0, 16093},
				{31, "5 mph", "Mostly Cloudy", 10, 0, 16093},
			},
		},
		{
			name: "icy_mix",
			hours: []hourSpec{
				{28, "10 mph", "Cloudy", 20, 0, 10000},
				{28, "10 mph", "Cloudy", 20, 0, 10000},
				{27, "10 mph", "Cloudy", 30, 0, 10000},
				{27, "10 mph", "Cloudy", 40, 0, 10000},
				{28, "10 mph", "Freezing Rain", 80, 1.27, 3219},
				{28, "10 mph", "Freezing Rain", 80, 1.27, 3219},
				{28, "10 mph", "Freezing Rain", 80, 1.27, 3219},
				{28, "10 mph", "Freezing Rain", 80, 1.27, 3219},
				{28, "10 mph", "Freezing Rain", 80, 1.27, 3219},
				{29, "10 mph", "Cloudy", 40, 0, 10000},
				{29, "10 mph", "Cloudy", 30, 0, 10000},
				{30, "10 mph", "Cloudy", 20, 0, 10000},
				{30, "10 mph", "Cloudy", 20, 0, 10000},
			},
		},
		{
			name: "cold_snap",
			hours: []hourSpec{
				{-8, "15 mph", "Clear", 0, 0, 16093},
				{-9, "15 mph", "Clear", 0, 0, 16093},
				{-10, "15 mph", "Clear", 0, 0, 16093},
				{-11, "15 mph", "Clear", 0, 0, 16093},
				{-12, "15 mph", "Clear", 0, 0, 16093},
				{-12, "15 mph", "Clear", 0, 0, 16093},
				{-13, "15 mph", "Clear", 0, 0, 16093},
				{-13, "15 mph", "Clear", 0, 0, 16093},
				{-12, "15 mph", "Sunny", 0, 0, 16093},
				{-12, "15 mph", "Sunny", 0, 0, 16093},
				{-10, "15 mph", "Sunny", 0, 0, 16093},
				{-9, "15 mph", "Sunny", 0, 0, 16093},
				{-8, "15 mph", "Sunny", 0, 0, 16093},
			},
		},
		{
			name: "clear",
			hours: []hourSpec{
				{31, "5 mph", "Mostly Clear", 5, 0, 16093},
				{31, "5 mph", "Mostly Clear", 5, 0, 16093},
				{30, "5 mph", "Mostly Clear", 5, 0, 16093},
				{30, "5 mph", "Mostly Clear", 5, 0, 16093},
				{31, "5 mph", "Mostly Clear", 5, 0, 16093},
				{32, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{34, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{35, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{36, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{37, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{38, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{38, "5 mph", "Mostly Sunny", 5, 0, 16093},
				{37, "5 mph", "Mostly Sunny", 5, 0, 16093},
			},
		},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
