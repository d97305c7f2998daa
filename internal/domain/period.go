package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// QuantitativeValue is the NWS JSON-LD unit/value pair used for measured
// quantities. Value is nil when the upstream omits the measurement.
type QuantitativeValue struct {
	UnitCode string   `json:"unitCode,omitempty"`
	Value    *float64 `json:"value"`
}

// FlexibleQuantity tolerates the three shapes NWS feeds use for visibility:
// a {unitCode, value} object, a bare number, or a display string ("10 miles").
// Malformed input decodes to the zero value rather than failing the period.
type FlexibleQuantity struct {
	UnitCode string
	Value    *float64
	Text     string
}

func (q *FlexibleQuantity) UnmarshalJSON(data []byte) error {
	*q = FlexibleQuantity{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var qv QuantitativeValue
		if err := json.Unmarshal(data, &qv); err == nil {
			q.UnitCode = qv.UnitCode
			q.Value = qv.Value
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			q.Text = s
		}
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err == nil {
			q.Value = &v
		}
	}
	return nil
}

func (q FlexibleQuantity) MarshalJSON() ([]byte, error) {
	if q.Text != "" {
		return json.Marshal(q.Text)
	}
	return json.Marshal(QuantitativeValue{UnitCode: q.UnitCode, Value: q.Value})
}

// HourlyPeriod is one hourly observation from the NWS gridpoint hourly
// forecast. StartTime carries the forecast point's own UTC offset, so
// StartTime.Hour() is the local hour used for all commute-window logic.
type HourlyPeriod struct {
	Number          int       `json:"number,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	IsDaytime       bool      `json:"isDaytime,omitempty"`
	Temperature     *float64  `json:"temperature"`
	TemperatureUnit string    `json:"temperatureUnit,omitempty"`
	WindSpeed       string    `json:"windSpeed,omitempty"`
	WindGust        string    `json:"windGust,omitempty"`

	Icon             string `json:"icon,omitempty"`
	ShortForecast    string `json:"shortForecast,omitempty"`
	DetailedForecast string `json:"detailedForecast,omitempty"`

	Visibility                 FlexibleQuantity  `json:"visibility"`
	ProbabilityOfPrecipitation QuantitativeValue `json:"probabilityOfPrecipitation"`
	QuantitativePrecipitation  QuantitativeValue `json:"quantitativePrecipitation"`
	WindChill                  QuantitativeValue `json:"windChill"`
}

// Alert is an active NWS warning or advisory. Only the event name and the
// effective window matter for scoring; unknown event names contribute nothing.
type Alert struct {
	Event     string    `json:"event"`
	Effective time.Time `json:"effective"`
	Expires   time.Time `json:"expires"`
}

// Location identifies the forecast point resolved from a ZIP code.
type Location struct {
	Zip  string  `json:"zip"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"` // "City, ST"
}
