package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
)

// Fixture is one generated weather scenario, written by cmd/genmock and read
// by the pipeline and integration tests.
type Fixture struct {
	Scenario      string                `json:"scenario"`
	ReferenceTime time.Time             `json:"reference_time"`
	Periods       []domain.HourlyPeriod `json:"periods"`
	Alerts        []domain.Alert        `json:"alerts"`
	Expected      FixtureExpectation    `json:"expected"`
}

// FixtureExpectation pins the engine's output for the scenario day, computed
// at generation time with the clock held at ReferenceTime.
type FixtureExpectation struct {
	Date        string            `json:"date"`
	Weekday     string            `json:"weekday"`
	Probability int               `json:"probability"`
	Likelihood  domain.Likelihood `json:"likelihood"`
	Confidence  float64           `json:"confidence"`
}

// LoadFixture reads a scenario fixture from disk.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return f, nil
}
