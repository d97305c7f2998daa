package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// The forecast covers the next school days only, never today and never a
// weekend.
const maxForecastDays = 4

const isoDateLayout = "2006-01-02"

// GroupByDate buckets hourly periods by civil date in the period's own zone.
// Keys use ISO dates so lexical order matches chronological order.
func GroupByDate(periods []HourlyPeriod) map[string][]HourlyPeriod {
	byDate := make(map[string][]HourlyPeriod)
	for _, p := range periods {
		key := p.StartTime.Format(isoDateLayout)
		byDate[key] = append(byDate[key], p)
	}
	return byDate
}

// Forecast scores the upcoming school days from a run of hourly periods and
// the active alerts. Results come back in date order, at most
// maxForecastDays of them.
func Forecast(periods []HourlyPeriod, alerts []Alert, profile Profile) []ForecastResult {
	byDate := GroupByDate(periods)

	dates := make([]string, 0, len(byDate))
	for key := range byDate {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	today := clock.Now().Format(isoDateLayout)

	results := make([]ForecastResult, 0, maxForecastDays)
	for _, key := range dates {
		dayPeriods := byDate[key]
		day := dayPeriods[0].StartTime
		if key <= today || day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		sev := ScoreDay(dayPeriods, alerts, profile)
		prob, conf := SeverityToProbability(sev.BaseScore, sev.AlertType)
		conf = decayConfidence(conf, ForecastAgeHours(dayPeriods))

		results = append(results, ForecastResult{
			Date:        key,
			Weekday:     day.Weekday().String(),
			Probability: prob,
			Likelihood:  LikelihoodFor(prob),
			Confidence:  round2(conf),
			Reason:      buildReason(sev, profile),
			Breakdown:   newScoreBreakdown(sev),
			Note:        forecastNote,
		})
		if len(results) >= maxForecastDays {
			break
		}
	}
	return results
}

// buildReason assembles the plain-English explanation, strongest signals
// first, joined by " | ".
func buildReason(sev SeverityBreakdown, profile Profile) string {
	var reasons []string

	if sev.AlertType != "" {
		reasons = append(reasons, sev.AlertType+" in effect")
	}

	if sev.ExtremeCold > 0 {
		reasons = append(reasons, fmt.Sprintf("Extreme cold: %d°F wind chill during bus hours", int(sev.MinBusHourChill)))
	} else if sev.MinBusHourChill <= profile.ColdThresholdF {
		reasons = append(reasons, fmt.Sprintf("Dangerous wind chill: %d°F", int(sev.MinBusHourChill)))
	}

	if sev.TotalSnowInches >= profile.AccumulationThreshold {
		reasons = append(reasons, fmt.Sprintf("Expected %.1f\" of snow (threshold: %.1f\")",
			sev.TotalSnowInches, profile.AccumulationThreshold))
	}

	if sev.CommuteWindowSnowInches > 0 {
		reasons = append(reasons, fmt.Sprintf("%.1f\" during morning commute (5-9am)", sev.CommuteWindowSnowInches))
	}

	if sev.ContinuousSnowHours >= continuousSnowBonusHours {
		reasons = append(reasons, fmt.Sprintf("Snow falling continuously for %d hours during peak time", sev.ContinuousSnowHours))
	}

	if sev.RefreezeFlag {
		reasons = append(reasons, "Dangerous refreeze risk (snow ends early, temps drop)")
	}

	if sev.HazardousPrecip > 0 {
		reasons = append(reasons, "Freezing rain or ice hazard detected")
	}

	if sev.DriftingRisk > 0 {
		reasons = append(reasons, "Wind-driven drifting expected with recent snow")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "No significant winter weather expected")
	}
	return strings.Join(reasons, " | ")
}
