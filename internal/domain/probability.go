package domain

import "math"

// Likelihood is the closure outlook shown to parents.
type Likelihood string

const (
	LikelihoodVeryUnlikely Likelihood = "VERY UNLIKELY"
	LikelihoodUnlikely     Likelihood = "UNLIKELY"
	LikelihoodPossible     Likelihood = "POSSIBLE"
	LikelihoodLikely       Likelihood = "LIKELY"
	LikelihoodVeryLikely   Likelihood = "VERY LIKELY"
)

// Likelihood bucket upper bounds on probability.
const (
	likelihoodVeryUnlikelyMax = 15
	likelihoodUnlikelyMax     = 35
	likelihoodPossibleMax     = 55
	likelihoodLikelyMax       = 75
)

// Probability and confidence pairs for the alert overrides. An active
// warning carries more signal than any score band, so these bypass the
// bands outright.
const (
	alertBlizzardProb = 85
	alertBlizzardConf = 0.95

	alertIceStormProb = 80
	alertIceStormConf = 0.93

	alertWinterStormProb = 65
	alertWinterStormConf = 0.85

	alertAdvisoryProb = 40
	alertAdvisoryConf = 0.70
)

// Severity score bands. Confidence dips in the middle bands where closure
// calls are genuinely borderline and recovers at both extremes.
const (
	bandQuietMax      = 20.0
	bandMarginalMax   = 40.0
	bandBorderlineMax = 60.0
	bandElevatedMax   = 80.0
	bandHighMax       = 100.0

	bandQuietProb      = 5
	bandQuietConf      = 0.92
	bandMarginalProb   = 15
	bandMarginalConf   = 0.85
	bandBorderlineProb = 35
	bandBorderlineConf = 0.75
	bandElevatedProb   = 60
	bandElevatedConf   = 0.80
	bandHighProb       = 75
	bandHighConf       = 0.85
	bandExtremeProb    = 88
	bandExtremeConf    = 0.90

	probabilityCeiling = 99
)

// Confidence decay for days still far out, and the floor under it.
const (
	staleAfterHours     = 48
	veryStaleAfterHours = 72
	staleConfFactor     = 0.90
	veryStaleConfFactor = 0.80
	minConfidence       = 0.5

	defaultForecastAgeHours = 72
)

// SeverityToProbability maps a base severity score to a closure probability
// and confidence pair. An alert label from the alert analyzer overrides the
// score bands.
func SeverityToProbability(score float64, alertType string) (int, float64) {
	switch alertType {
	case AlertBlizzardWarning:
		return alertBlizzardProb, alertBlizzardConf
	case AlertIceStormWarning:
		return alertIceStormProb, alertIceStormConf
	case AlertWinterStormWarning:
		return alertWinterStormProb, alertWinterStormConf
	case AlertWinterWeatherAdvisory:
		return alertAdvisoryProb, alertAdvisoryConf
	}

	var prob int
	var conf float64
	switch {
	case score < bandQuietMax:
		prob, conf = bandQuietProb, bandQuietConf
	case score < bandMarginalMax:
		prob, conf = bandMarginalProb, bandMarginalConf
	case score < bandBorderlineMax:
		prob, conf = bandBorderlineProb, bandBorderlineConf
	case score < bandElevatedMax:
		prob, conf = bandElevatedProb, bandElevatedConf
	case score < bandHighMax:
		prob, conf = bandHighProb, bandHighConf
	default:
		prob, conf = bandExtremeProb, bandExtremeConf
	}

	if prob > probabilityCeiling {
		prob = probabilityCeiling
	}
	return prob, conf
}

// decayConfidence widens the uncertainty on days still far out and applies
// the confidence floor.
func decayConfidence(conf float64, ageHours int) float64 {
	switch {
	case ageHours > veryStaleAfterHours:
		conf *= veryStaleConfFactor
	case ageHours > staleAfterHours:
		conf *= staleConfFactor
	}
	return math.Max(minConfidence, conf)
}

// ForecastAgeHours returns the whole hours from now until the day's first
// period. A day with no periods reads as three days out.
func ForecastAgeHours(periods []HourlyPeriod) int {
	if len(periods) == 0 {
		return defaultForecastAgeHours
	}
	age := int(periods[0].StartTime.Sub(clock.Now()).Hours())
	if age < 0 {
		return 0
	}
	return age
}

// LikelihoodFor buckets a probability into its outlook label.
func LikelihoodFor(probability int) Likelihood {
	switch {
	case probability < likelihoodVeryUnlikelyMax:
		return LikelihoodVeryUnlikely
	case probability < likelihoodUnlikelyMax:
		return LikelihoodUnlikely
	case probability < likelihoodPossibleMax:
		return LikelihoodPossible
	case probability < likelihoodLikelyMax:
		return LikelihoodLikely
	}
	return LikelihoodVeryLikely
}
