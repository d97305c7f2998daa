package domain

import "math"

// Fixed report copy.
const (
	forecastNote     = "Estimate based on NWS forecast. Check official district announcements."
	reportAccuracy   = "Days 1-2: 75-85% | Days 3-4: 60-70% (depends on forecast stability)"
	reportDisclaimer = "Estimates only. School closure decisions made by district superintendents. Always check official announcements."

	reportTimestampLayout = "2006-01-02 03:04 PM"

	noAlertLabel = "None"
)

// ScoreBreakdown is the published per-day factor ledger. Field order and
// names are part of the output contract; consumers chart these directly.
type ScoreBreakdown struct {
	EarlyMorningTiming float64 `json:"early_morning_timing"`
	TotalSnowInches    float64 `json:"total_snow_inches"`
	AccumulationScore  float64 `json:"accumulation_score"`
	RefreezeRisk       float64 `json:"refreeze_risk"`
	HazardousPrecip    float64 `json:"hazardous_precip"`
	DriftingRisk       float64 `json:"drifting_risk"`
	WindChillDanger    float64 `json:"windchill_danger"`
	ExtremeCold        float64 `json:"extreme_cold"`
	MinBusHourChill    int     `json:"min_bus_hour_chill"`
	RoadConditions     float64 `json:"road_conditions"`
	Alert              string  `json:"alert"`
	BaseSeverityScore  float64 `json:"base_severity_score"`
}

// newScoreBreakdown rounds and labels a raw breakdown for publication. The
// bus-hour chill truncates toward zero and a missing alert reads "None".
func newScoreBreakdown(sev SeverityBreakdown) ScoreBreakdown {
	alert := sev.AlertType
	if alert == "" {
		alert = noAlertLabel
	}
	return ScoreBreakdown{
		EarlyMorningTiming: sev.EarlyMorningTiming,
		TotalSnowInches:    sev.TotalSnowInches,
		AccumulationScore:  sev.AccumulationScore,
		RefreezeRisk:       sev.RefreezeRisk,
		HazardousPrecip:    sev.HazardousPrecip,
		DriftingRisk:       sev.DriftingRisk,
		WindChillDanger:    sev.WindChillDanger,
		ExtremeCold:        sev.ExtremeCold,
		MinBusHourChill:    int(sev.MinBusHourChill),
		RoadConditions:     sev.RoadConditions,
		Alert:              alert,
		BaseSeverityScore:  round1(sev.BaseScore),
	}
}

// ForecastResult is one school day's published outlook.
type ForecastResult struct {
	Date        string         `json:"date"`
	Weekday     string         `json:"weekday"`
	Probability int            `json:"probability"`
	Likelihood  Likelihood     `json:"likelihood"`
	Confidence  float64        `json:"confidence"`
	Reason      string         `json:"reason"`
	Breakdown   ScoreBreakdown `json:"score_breakdown"`
	Note        string         `json:"note"`
}

// Report is the envelope around a forecast run. A failed run carries only
// Success, Error and an empty Probabilities slice.
type Report struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	Location        string           `json:"location,omitempty"`
	Zipcode         string           `json:"zipcode,omitempty"`
	DistrictProfile string           `json:"district_profile,omitempty"`
	Probabilities   []ForecastResult `json:"probabilities"`
	Timestamp       string           `json:"timestamp,omitempty"`
	Accuracy        string           `json:"accuracy,omitempty"`
	Disclaimer      string           `json:"disclaimer,omitempty"`
}

// NewReport stamps the envelope around a set of day results.
func NewReport(loc Location, profileName string, results []ForecastResult) Report {
	if results == nil {
		results = []ForecastResult{}
	}
	return Report{
		Success:         true,
		Location:        loc.Name,
		Zipcode:         loc.Zip,
		DistrictProfile: profileName,
		Probabilities:   results,
		Timestamp:       clock.Now().Format(reportTimestampLayout),
		Accuracy:        reportAccuracy,
		Disclaimer:      reportDisclaimer,
	}
}

// NewErrorReport is the degraded envelope for a run that could not score.
func NewErrorReport(message string) Report {
	return Report{
		Success:       false,
		Error:         message,
		Probabilities: []ForecastResult{},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
