package domain

import (
	"math"
	"strings"
	"time"
)

// Commute-relevant windows in local hours, inclusive on both bounds unless a
// comparison below says otherwise.
const (
	peakWindowStart = 5 // 5am-9am: buses load and routes run
	peakWindowEnd   = 9
	preDawnStart    = 3 // 3am-4am: snow beats the plows to untreated roads

	refreezeLastSnowHour = 4 // snow ending by 4am sets up a flash freeze
	refreezeWindowStart  = 4 // commute temperatures checked 4am-10am
	refreezeWindowEnd    = 10

	roadWindowStart = 6 // 6am-6pm: daytime road conditions
	roadWindowEnd   = 18

	busWindowStart = 6 // 6am-9am: children waiting at stops
	busWindowEnd   = 9

	driftingLagHours = 6 // wind this long after snowfall still lofts it
)

// Early-morning timing tiers, applied per period by snow depth.
const (
	peakDepthHeavy    = 0.4
	peakDepthModerate = 0.15
	peakScoreHeavy    = 35.0
	peakScoreModerate = 20.0
	peakScoreTrace    = 8.0

	preDawnDepthHeavy = 0.3
	preDawnScoreHeavy = 18.0
	preDawnScoreTrace = 10.0

	continuousSnowBonusHours = 3
	continuousSnowBonus      = 15.0
)

// Accumulation tiers, expressed relative to the district threshold.
const (
	accumMarginWellOver = 4.0 // inches past threshold
	accumMarginOver     = 2.0
	accumMarginNearMiss = 1.0 // inches under threshold that still score
	accumTraceFloor     = 0.5

	accumScoreWellOver = 40.0
	accumScoreOver     = 30.0
	accumScoreAt       = 18.0
	accumScoreNearMiss = 8.0
	accumScoreTrace    = 2.0
)

// Refreeze tiers on the minimum commute-window temperature.
const (
	refreezeHardTempF = 20.0
	refreezeSoftTempF = 28.0
	refreezeHardScore = 22.0
	refreezeSoftScore = 12.0
)

// Road-condition tiers on daytime temperatures and, during snow, visibility.
const (
	roadAvgFrigidF   = 15.0
	roadAvgColdF     = 25.0
	roadAvgFreezingF = 32.0

	roadAvgFrigidScore        = 16.0
	roadAvgColdScore          = 10.0
	roadAvgFreezingScore      = 5.0
	roadMinBelowFreezingScore = 6.0

	roadVisWhiteoutMiles = 0.25
	roadVisHeavyMiles    = 0.5
	roadVisReducedMiles  = 1.0

	roadVisWhiteoutScore = 15.0
	roadVisHeavyScore    = 10.0
	roadVisReducedScore  = 6.0
)

// Drifting tiers: sustained wind moving fresh snow back onto cleared roads.
const (
	driftingWindMPH         = 25.0
	driftingDuringSnowScore = 12.0
	driftingAfterSnowScore  = 8.0
	driftingCap             = 20.0
)

// Hazardous precipitation scores, applied per period.
const (
	hazardFreezingRainScore    = 50.0
	hazardIceStormScore        = 48.0
	hazardSleetScore           = 35.0
	hazardFreezingDrizzleScore = 20.0
	hazardCap                  = 50.0
)

// Cold tiers step 5°F below the profile cold threshold. A day with no usable
// bus-hour sample reads as freezing, which scores nothing.
const (
	coldTierStepF    = 5.0
	defaultBusChillF = 32.0

	extremeColdSevereScore = 22.0
	extremeColdHighScore   = 15.0
	extremeColdEntryScore  = 8.0
	extremeColdCap         = 25.0

	windChillDangerSevereScore = 12.0
	windChillDangerHighScore   = 8.0
	windChillDangerEntryScore  = 5.0
)

// Alert categories matched by substring against NWS event names. An alert
// counts only when its effective interval overlaps the 3am-10am decision
// window on the target day.
const (
	decisionWindowStartHour = 3
	decisionWindowEndHour   = 10

	AlertBlizzardWarning       = "Blizzard Warning"
	AlertIceStormWarning       = "Ice Storm Warning"
	AlertWinterStormWarning    = "Winter Storm Warning"
	AlertWinterWeatherAdvisory = "Winter Weather Advisory"

	alertBlizzardScore    = 50.0
	alertIceStormScore    = 48.0
	alertWinterStormScore = 40.0
	alertAdvisoryScore    = 20.0
)

// timingDetails carries the early-morning analyzer's auxiliary output.
type timingDetails struct {
	CommuteWindowSnowInches float64
	PeakPrecipProbability   float64
	ContinuousSnowHours     int
}

// hasSnowQPF reports whether the period is wintry with measurable
// liquid-equivalent precipitation.
func hasSnowQPF(p HourlyPeriod) bool {
	if !IsSnowPeriod(p) {
		return false
	}
	qpf, ok := p.QPFInches()
	return ok && qpf > 0
}

// periodSnowDepth returns the expected snow depth for one period, or 0 when
// the period is not wintry or carries no measurable QPF.
func periodSnowDepth(p HourlyPeriod) float64 {
	if !hasSnowQPF(p) {
		return 0
	}
	qpf, _ := p.QPFInches()
	return SnowDepthInches(qpf, p.TemperatureF())
}

func dayHasSnow(periods []HourlyPeriod) bool {
	for _, p := range periods {
		if IsSnowPeriod(p) {
			return true
		}
	}
	return false
}

// analyzeEarlyMorningTiming scores snow landing in the commute windows,
// weighted by how much falls per hour and whether it falls continuously,
// then scaled by the district timing weight.
func analyzeEarlyMorningTiming(periods []HourlyPeriod, profile Profile) (float64, timingDetails) {
	var score float64
	var det timingDetails
	var windowSnow float64

	for _, p := range periods {
		if !hasSnowQPF(p) {
			continue
		}
		depth := periodSnowDepth(p)
		hour := p.StartTime.Hour()

		switch {
		case hour >= peakWindowStart && hour <= peakWindowEnd:
			windowSnow += depth
			switch {
			case depth >= peakDepthHeavy:
				score += peakScoreHeavy
			case depth >= peakDepthModerate:
				score += peakScoreModerate
			default:
				score += peakScoreTrace
			}
			if prob, ok := p.PrecipProbability(); ok && prob > det.PeakPrecipProbability {
				det.PeakPrecipProbability = prob
			}
		case hour >= preDawnStart && hour < peakWindowStart:
			if depth >= preDawnDepthHeavy {
				score += preDawnScoreHeavy
			} else {
				score += preDawnScoreTrace
			}
		}
	}

	det.ContinuousSnowHours = continuousSnowHours(periods, peakWindowStart, peakWindowEnd)
	if det.ContinuousSnowHours >= continuousSnowBonusHours {
		score += continuousSnowBonus
	}

	det.CommuteWindowSnowInches = round1(windowSnow)
	return score * profile.TimingWeight, det
}

// continuousSnowHours returns the longest run of consecutive snow-QPF periods
// inside the window. A dry or non-wintry hour breaks the run.
func continuousSnowHours(periods []HourlyPeriod, startHour, endHour int) int {
	consecutive, longest := 0, 0
	for _, p := range periods {
		hour := p.StartTime.Hour()
		if hour >= startHour && hour <= endHour && hasSnowQPF(p) {
			consecutive++
			if consecutive > longest {
				longest = consecutive
			}
		} else {
			consecutive = 0
		}
	}
	return longest
}

// analyzeTotalAccumulation sums snow depth across the day and scores the
// total against the district accumulation threshold.
func analyzeTotalAccumulation(periods []HourlyPeriod, profile Profile) (float64, float64) {
	var total float64
	for _, p := range periods {
		total += periodSnowDepth(p)
	}

	thr := profile.AccumulationThreshold
	var score float64
	switch {
	case total >= thr+accumMarginWellOver:
		score = accumScoreWellOver
	case total >= thr+accumMarginOver:
		score = accumScoreOver
	case total >= thr:
		score = accumScoreAt
	case total >= thr-accumMarginNearMiss:
		score = accumScoreNearMiss
	case total >= accumTraceFloor:
		score = accumScoreTrace
	}
	return score, total
}

// analyzeRefreezeRisk catches the "2 inches but icy roads" day: snow that
// ends pre-dawn followed by temperatures cold enough to freeze the melt
// before the commute.
func analyzeRefreezeRisk(periods []HourlyPeriod) (float64, bool) {
	lastSnowHour := -1
	for _, p := range periods {
		if hasSnowQPF(p) {
			lastSnowHour = p.StartTime.Hour()
		}
	}
	if lastSnowHour < 0 || lastSnowHour > refreezeLastSnowHour {
		return 0, false
	}

	lowest := 0.0
	found := false
	for _, p := range periods {
		hour := p.StartTime.Hour()
		if hour < refreezeWindowStart || hour > refreezeWindowEnd {
			continue
		}
		t := p.TemperatureF()
		if !found || t < lowest {
			lowest = t
			found = true
		}
	}
	if !found {
		return 0, false
	}

	switch {
	case lowest < refreezeHardTempF:
		return refreezeHardScore, true
	case lowest < refreezeSoftTempF:
		return refreezeSoftScore, true
	}
	return 0, false
}

// analyzeRoadConditions scores daytime cold and, only when snow is falling
// somewhere in the day, low visibility. Visibility never contributes on a
// snow-free day.
func analyzeRoadConditions(periods []HourlyPeriod) float64 {
	var temps, visibilities []float64
	for _, p := range periods {
		hour := p.StartTime.Hour()
		if hour < roadWindowStart || hour > roadWindowEnd {
			continue
		}
		temps = append(temps, p.TemperatureF())
		if v, ok := p.VisibilityMiles(); ok {
			visibilities = append(visibilities, v)
		}
	}
	if len(temps) == 0 {
		return 0
	}

	var sum float64
	lowest := temps[0]
	for _, t := range temps {
		sum += t
		if t < lowest {
			lowest = t
		}
	}
	avg := sum / float64(len(temps))

	var score float64
	switch {
	case avg < roadAvgFrigidF:
		score += roadAvgFrigidScore
	case avg < roadAvgColdF:
		score += roadAvgColdScore
	case avg < roadAvgFreezingF:
		score += roadAvgFreezingScore
	}
	if lowest < roadAvgFreezingF {
		score += roadMinBelowFreezingScore
	}

	if dayHasSnow(periods) && len(visibilities) > 0 {
		minVis := visibilities[0]
		for _, v := range visibilities {
			if v < minVis {
				minVis = v
			}
		}
		switch {
		case minVis < roadVisWhiteoutMiles:
			score += roadVisWhiteoutScore
		case minVis < roadVisHeavyMiles:
			score += roadVisHeavyScore
		case minVis < roadVisReducedMiles:
			score += roadVisReducedScore
		}
	}
	return score
}

// analyzeDriftingRisk scores high wind during snowfall or within a few hours
// after it, when fresh snow is still loose enough to drift across roads.
func analyzeDriftingRisk(periods []HourlyPeriod) float64 {
	lastSnowHour := -1
	for _, p := range periods {
		if hasSnowQPF(p) {
			lastSnowHour = p.StartTime.Hour()
		}
	}
	if lastSnowHour < 0 {
		return 0
	}

	var score float64
	for _, p := range periods {
		wind, ok := p.WindSpeedMPH()
		if !ok || wind <= driftingWindMPH {
			continue
		}
		hour := p.StartTime.Hour()
		switch {
		case IsSnowPeriod(p):
			score += driftingDuringSnowScore
		case hour >= lastSnowHour && hour-lastSnowHour <= driftingLagHours:
			score += driftingAfterSnowScore
		}
	}
	return math.Min(score, driftingCap)
}

// analyzeHazardousPrecip scores icing precipitation, the near-guaranteed
// closure family.
func analyzeHazardousPrecip(periods []HourlyPeriod) float64 {
	var score float64
	for _, p := range periods {
		switch ClassifyHazard(p) {
		case HazardFreezingRain:
			score += hazardFreezingRainScore
		case HazardIceStorm:
			score += hazardIceStormScore
		case HazardSleet:
			score += hazardSleetScore
		case HazardFreezingDrizzle:
			score += hazardFreezingDrizzleScore
		}
	}
	return math.Min(score, hazardCap)
}

// minBusHourChill returns the lowest wind chill while children wait at bus
// stops. Days with no usable sample read as freezing.
func minBusHourChill(periods []HourlyPeriod) float64 {
	lowest := 0.0
	found := false
	for _, p := range periods {
		hour := p.StartTime.Hour()
		if hour < busWindowStart || hour > busWindowEnd {
			continue
		}
		chill, ok := p.WindChillF()
		if !ok {
			continue
		}
		if !found || chill < lowest {
			lowest = chill
			found = true
		}
	}
	if !found {
		return defaultBusChillF
	}
	return lowest
}

// analyzeWindChillDanger scores dangerous bus-hour cold on days that also
// carry snow or ice. Its positivity is what triggers the cold+snow
// compounding boost in ScoreDay.
func analyzeWindChillDanger(periods []HourlyPeriod, minChill float64, profile Profile) float64 {
	if !dayHasSnow(periods) {
		return 0
	}
	c := profile.ColdThresholdF
	switch {
	case minChill <= c-2*coldTierStepF:
		return windChillDangerSevereScore
	case minChill <= c-coldTierStepF:
		return windChillDangerHighScore
	case minChill <= c:
		return windChillDangerEntryScore
	}
	return 0
}

// analyzeExtremeCold scores pure cold closures on days with no snow or ice.
// Capped so dry cold never outranks a snow or ice event.
func analyzeExtremeCold(periods []HourlyPeriod, minChill float64, profile Profile) float64 {
	if dayHasSnow(periods) {
		return 0
	}
	c := profile.ColdThresholdF
	var score float64
	switch {
	case minChill <= c-2*coldTierStepF:
		score = extremeColdSevereScore
	case minChill <= c-coldTierStepF:
		score = extremeColdHighScore
	case minChill <= c:
		score = extremeColdEntryScore
	}
	return math.Min(score, extremeColdCap)
}

// analyzeAlerts keeps the highest-scoring alert whose effective interval
// overlaps the decision window anchored to the day's first period. Alerts
// that expire before the window opens or begin after it closes are ignored,
// as are events with no known winter category.
func analyzeAlerts(periods []HourlyPeriod, alerts []Alert) (string, float64) {
	if len(alerts) == 0 || len(periods) == 0 {
		return "", 0
	}

	dayStart := periods[0].StartTime
	windowStart := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
		decisionWindowStartHour, 0, 0, 0, dayStart.Location())
	windowEnd := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
		decisionWindowEndHour, 0, 0, 0, dayStart.Location())

	var best string
	var bestScore float64
	for _, a := range alerts {
		if a.Effective.IsZero() || a.Expires.IsZero() {
			continue
		}
		if a.Expires.Before(windowStart) || a.Effective.After(windowEnd) {
			continue
		}
		label, score := classifyAlertEvent(a.Event)
		if score > bestScore {
			best, bestScore = label, score
		}
	}
	return best, bestScore
}

// classifyAlertEvent maps an NWS event name to its winter category and score,
// strongest category first.
func classifyAlertEvent(event string) (string, float64) {
	switch {
	case strings.Contains(event, AlertBlizzardWarning):
		return AlertBlizzardWarning, alertBlizzardScore
	case strings.Contains(event, AlertIceStormWarning):
		return AlertIceStormWarning, alertIceStormScore
	case strings.Contains(event, AlertWinterStormWarning):
		return AlertWinterStormWarning, alertWinterStormScore
	case strings.Contains(event, AlertWinterWeatherAdvisory):
		return AlertWinterWeatherAdvisory, alertAdvisoryScore
	}
	return "", 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
