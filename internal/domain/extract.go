package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRe matches the first decimal number in a display string,
// e.g. "15 to 20 mph" -> 15, "0.25 miles" -> 0.25.
var numberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

const (
	// defaultTemperatureF substitutes for a missing period temperature so
	// analyzer arithmetic never sees a hole. Freezing point is neutral: it
	// neither triggers cold scoring nor inflates snow ratios.
	defaultTemperatureF = 32.0

	mmPerInch     = 25.4
	metersPerMile = 1609.344
)

// extractNumber pulls the leading numeric value out of a display string.
// Returns false when the string contains no digits.
func extractNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// TemperatureF returns the period temperature in °F. Celsius values are
// converted; an absent temperature yields the freezing-point default.
func (p HourlyPeriod) TemperatureF() float64 {
	if p.Temperature == nil {
		return defaultTemperatureF
	}
	if isCelsiusUnit(p.TemperatureUnit) {
		return celsiusToFahrenheit(*p.Temperature)
	}
	return *p.Temperature
}

// WindSpeedMPH extracts the leading wind speed in mph from the display
// string. Ranges like "15 to 20 mph" yield the lower bound.
func (p HourlyPeriod) WindSpeedMPH() (float64, bool) {
	return extractNumber(p.WindSpeed)
}

// WindGustMPH extracts the leading gust speed in mph from the display string.
func (p HourlyPeriod) WindGustMPH() (float64, bool) {
	return extractNumber(p.WindGust)
}

// VisibilityMiles returns the period visibility in miles, converting from
// meters when the unit code says so. Zero and absent both report false:
// upstream sends null-valued visibility far more often than a true zero.
func (p HourlyPeriod) VisibilityMiles() (float64, bool) {
	var v float64
	switch {
	case p.Visibility.Value != nil:
		v = *p.Visibility.Value
		if isMetersUnit(p.Visibility.UnitCode) {
			v /= metersPerMile
		}
	case p.Visibility.Text != "":
		var ok bool
		v, ok = extractNumber(p.Visibility.Text)
		if !ok {
			return 0, false
		}
	default:
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// QPFInches returns the liquid-equivalent precipitation in inches.
// NWS gridpoints report millimeters; an explicit inch unit passes through.
func (p HourlyPeriod) QPFInches() (float64, bool) {
	if p.QuantitativePrecipitation.Value == nil {
		return 0, false
	}
	v := *p.QuantitativePrecipitation.Value
	if strings.Contains(p.QuantitativePrecipitation.UnitCode, ":in") {
		return v, true
	}
	return v / mmPerInch, true
}

// PrecipProbability returns the precipitation probability percentage (0-100).
func (p HourlyPeriod) PrecipProbability() (float64, bool) {
	if p.ProbabilityOfPrecipitation.Value == nil {
		return 0, false
	}
	return *p.ProbabilityOfPrecipitation.Value, true
}

// WindChillF returns the apparent temperature in °F. The upstream windChill
// value wins when present; otherwise it is derived from temperature and wind
// speed. False only when there is no direct value and no parseable wind.
func (p HourlyPeriod) WindChillF() (float64, bool) {
	if p.WindChill.Value != nil {
		v := *p.WindChill.Value
		if isCelsiusUnit(p.WindChill.UnitCode) {
			return celsiusToFahrenheit(v), true
		}
		return v, true
	}

	wind, ok := p.WindSpeedMPH()
	if !ok {
		return 0, false
	}
	return WindChillFormula(p.TemperatureF(), wind), true
}

func isCelsiusUnit(unit string) bool {
	return unit == "C" || strings.Contains(unit, "degC")
}

func isMetersUnit(unit string) bool {
	return unit == "m" || strings.HasSuffix(unit, ":m")
}

func celsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32.0
}
