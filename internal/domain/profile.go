package domain

// Profile bundles the calibration constants approximating one school
// district's closure tolerance. Any custom profile may be supplied; the named
// presets below cover the common cases.
type Profile struct {
	Name                  string  `json:"name"`
	AccumulationThreshold float64 `json:"accumulation_threshold"` // inches of day-total snow the district absorbs before closing
	TimingWeight          float64 `json:"timing_weight"`          // multiplier on the early-morning commute score
	ColdThresholdF        float64 `json:"cold_threshold_f"`       // bus-hour wind chill (°F) where cold scoring begins
}

// DefaultProfileName is the preset assumed when none is requested.
const DefaultProfileName = "average"

// defaultColdThresholdF is the wind chill where districts start weighing a
// cold-only closure. Tiers step down 5°F and 10°F below it.
const defaultColdThresholdF = -15.0

var profiles = map[string]Profile{
	"conservative": {
		Name:                  "Urban/Conservative (closes early)",
		AccumulationThreshold: 3.0,
		TimingWeight:          2.5,
		ColdThresholdF:        defaultColdThresholdF,
	},
	"average": {
		Name:                  "Average District",
		AccumulationThreshold: 4.5,
		TimingWeight:          2.2,
		ColdThresholdF:        defaultColdThresholdF,
	},
	"tough": {
		Name:                  "Rural/Tough (tolerates more snow)",
		AccumulationThreshold: 6.0,
		TimingWeight:          1.8,
		ColdThresholdF:        defaultColdThresholdF,
	},
}

// ProfileByName returns the named district preset. Unknown names fall back to
// the average preset; ok reports whether the name matched.
func ProfileByName(name string) (Profile, bool) {
	if p, ok := profiles[name]; ok {
		return p, true
	}
	return profiles[DefaultProfileName], false
}
