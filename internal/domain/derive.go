package domain

import "math"

// Wind chill is defined by NWS only below 50°F with wind above 3 mph.
// Outside that envelope the apparent temperature is the air temperature.
const (
	windChillMaxTempF   = 50.0
	windChillMinWindMPH = 3.0
)

// WindChillFormula computes the NWS wind chill in °F from air temperature
// (°F) and wind speed (mph):
//
//	WC = 35.74 + 0.6215*T - 35.75*V^0.16 + 0.4275*T*V^0.16
func WindChillFormula(tempF, windMPH float64) float64 {
	if tempF > windChillMaxTempF || windMPH <= windChillMinWindMPH {
		return tempF
	}
	v := math.Pow(windMPH, 0.16)
	return 35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v
}

// Snow-to-liquid ratios selected by temperature at time of fall. Colder air
// produces fluffier snow: an inch of liquid at 10°F yields nearly double the
// depth of the same inch at 31°F.
const (
	snowRatioAbove30F = 8.0
	snowRatioAbove25F = 9.5
	snowRatioAbove20F = 10.0
	snowRatioAbove15F = 12.0
	snowRatioColder   = 15.0
)

// SnowDepthInches converts liquid-equivalent QPF (inches) to expected snow
// depth using the period's own temperature rather than a daily average; the
// ratio depends on conditions when the snow actually falls.
func SnowDepthInches(qpfInches, periodTempF float64) float64 {
	if qpfInches <= 0 {
		return 0
	}

	var ratio float64
	switch {
	case periodTempF > 30:
		ratio = snowRatioAbove30F
	case periodTempF > 25:
		ratio = snowRatioAbove25F
	case periodTempF > 20:
		ratio = snowRatioAbove20F
	case periodTempF > 15:
		ratio = snowRatioAbove15F
	default:
		ratio = snowRatioColder
	}
	return qpfInches * ratio
}
