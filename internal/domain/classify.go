package domain

import "strings"

// snowKeywords flag a period as wintry precipitation. "ice" also matches
// "ice storm" and "ice pellets".
var snowKeywords = []string{"snow", "blizzard", "sleet", "freezing rain", "ice", "wintry"}

// HazardCategory classifies the icing hazard in a period's forecast text.
type HazardCategory string

const (
	HazardNone            HazardCategory = ""
	HazardFreezingRain    HazardCategory = "freezing_rain"
	HazardIceStorm        HazardCategory = "ice_storm"
	HazardSleet           HazardCategory = "sleet"
	HazardFreezingDrizzle HazardCategory = "freezing_drizzle"
)

// IsSnowPeriod reports whether the period's combined short forecast, detailed
// forecast, and icon text mention any wintry precipitation keyword.
func IsSnowPeriod(p HourlyPeriod) bool {
	combined := strings.ToLower(p.ShortForecast + " " + p.DetailedForecast + " " + p.Icon)
	for _, kw := range snowKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

// ClassifyHazard returns the dominant icing category in the period's forecast
// text. Freezing rain and ice storms outrank sleet, which outranks drizzle,
// when a period mentions several.
func ClassifyHazard(p HourlyPeriod) HazardCategory {
	combined := strings.ToLower(p.ShortForecast + " " + p.DetailedForecast)
	switch {
	case strings.Contains(combined, "freezing rain"):
		return HazardFreezingRain
	case strings.Contains(combined, "ice storm"):
		return HazardIceStorm
	case strings.Contains(combined, "sleet"), strings.Contains(combined, "ice pellets"):
		return HazardSleet
	case strings.Contains(combined, "freezing drizzle"):
		return HazardFreezingDrizzle
	}
	return HazardNone
}
