package domain

import "math"

// Cold+snow compounding. When a day carries both meaningful snow and a
// dangerous bus-hour chill, crews clear slower and a delayed start helps
// less, so the snow subtotal earns a bounded boost.
const (
	coldSnowBoostFraction = 0.15
	coldSnowBoostCap      = 10.0
	coldSnowSnowFloor     = 5.0
)

// SeverityBreakdown is the per-day factor ledger produced by ScoreDay.
// Scores are kept unrounded; rounding happens at report assembly.
type SeverityBreakdown struct {
	EarlyMorningTiming float64
	TotalSnowInches    float64
	AccumulationScore  float64
	RefreezeRisk       float64
	RefreezeFlag       bool
	HazardousPrecip    float64
	DriftingRisk       float64
	WindChillDanger    float64
	ExtremeCold        float64
	ColdSnowBoost      float64
	MinBusHourChill    float64
	RoadConditions     float64
	AlertType          string
	AlertScore         float64
	BaseScore          float64

	CommuteWindowSnowInches float64
	PeakPrecipProbability   float64
	ContinuousSnowHours     int
}

// ScoreDay runs every analyzer over one local day of hourly periods and sums
// the factor scores into the base severity score. Alert scores stay out of
// the base score; the probability mapper applies them as overrides instead.
func ScoreDay(periods []HourlyPeriod, alerts []Alert, profile Profile) SeverityBreakdown {
	var b SeverityBreakdown

	timingScore, det := analyzeEarlyMorningTiming(periods, profile)
	b.EarlyMorningTiming = timingScore
	b.CommuteWindowSnowInches = det.CommuteWindowSnowInches
	b.PeakPrecipProbability = det.PeakPrecipProbability
	b.ContinuousSnowHours = det.ContinuousSnowHours

	b.AccumulationScore, b.TotalSnowInches = analyzeTotalAccumulation(periods, profile)
	b.RefreezeRisk, b.RefreezeFlag = analyzeRefreezeRisk(periods)
	b.RoadConditions = analyzeRoadConditions(periods)
	b.DriftingRisk = analyzeDriftingRisk(periods)
	b.HazardousPrecip = analyzeHazardousPrecip(periods)

	b.MinBusHourChill = minBusHourChill(periods)
	b.WindChillDanger = analyzeWindChillDanger(periods, b.MinBusHourChill, profile)
	b.ExtremeCold = analyzeExtremeCold(periods, b.MinBusHourChill, profile)

	snowSubtotal := b.EarlyMorningTiming + b.AccumulationScore + b.DriftingRisk
	if b.WindChillDanger > 0 && snowSubtotal >= coldSnowSnowFloor {
		b.ColdSnowBoost = math.Min(snowSubtotal*coldSnowBoostFraction, coldSnowBoostCap)
	}

	b.AlertType, b.AlertScore = analyzeAlerts(periods, alerts)

	b.BaseScore = b.EarlyMorningTiming + b.AccumulationScore + b.RefreezeRisk +
		b.RoadConditions + b.DriftingRisk + b.HazardousPrecip +
		b.WindChillDanger + b.ExtremeCold + b.ColdSnowBoost

	return b
}
