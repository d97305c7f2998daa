package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreDay(t *testing.T) {
	t.Run("quiet day scores zero", func(t *testing.T) {
		periods := []HourlyPeriod{
			clearAt(analyzeDay, 6, 40),
			clearAt(analyzeDay, 8, 40),
			clearAt(analyzeDay, 12, 40),
		}
		b := ScoreDay(periods, nil, flatProfile())

		assert.Equal(t, 0.0, b.BaseScore)
		assert.Equal(t, defaultBusChillF, b.MinBusHourChill)
		assert.Equal(t, "", b.AlertType)
		assert.False(t, b.RefreezeFlag)
	})

	t.Run("factor composition on a storm day", func(t *testing.T) {
		periods := []HourlyPeriod{
			snowAt(analyzeDay, 5, 20, 0.05),
			snowAt(analyzeDay, 6, 20, 0.05),
			snowAt(analyzeDay, 7, 20, 0.05),
			snowAt(analyzeDay, 8, 20, 0.05),
			snowAt(analyzeDay, 9, 20, 0.05),
		}
		b := ScoreDay(periods, nil, flatProfile())

		assert.Equal(t, 5*peakScoreHeavy+continuousSnowBonus, b.EarlyMorningTiming)
		assert.Equal(t, accumScoreTrace, b.AccumulationScore)
		assert.InDelta(t, 3.0, b.TotalSnowInches, 1e-9)
		assert.Equal(t, 3.0, b.CommuteWindowSnowInches)
		assert.Equal(t, 5, b.ContinuousSnowHours)
		assert.Equal(t, roadAvgColdScore+roadMinBelowFreezingScore, b.RoadConditions)
		assert.Equal(t, 0.0, b.RefreezeRisk)
		assert.Equal(t, 0.0, b.WindChillDanger)
		assert.Equal(t, 0.0, b.ExtremeCold)
		assert.Equal(t, 208.0, b.BaseScore)
	})

	t.Run("cold and snow compound", func(t *testing.T) {
		p := snowAt(analyzeDay, 6, -10, 0.1)
		p.WindSpeed = "20 mph"
		b := ScoreDay([]HourlyPeriod{p}, nil, flatProfile())

		assert.InDelta(t, WindChillFormula(-10, 20), b.MinBusHourChill, 1e-9)
		assert.Equal(t, windChillDangerSevereScore, b.WindChillDanger)
		assert.Equal(t, 0.0, b.ExtremeCold)

		// snow subtotal 37 = timing 35 + accumulation 2 + drifting 0
		assert.InDelta(t, 37*coldSnowBoostFraction, b.ColdSnowBoost, 1e-9)
		assert.InDelta(t, 76.55, b.BaseScore, 1e-9)
	})

	t.Run("dry cold day scores extreme cold", func(t *testing.T) {
		p := clearAt(analyzeDay, 7, -10)
		p.WindSpeed = "20 mph"
		b := ScoreDay([]HourlyPeriod{p}, nil, flatProfile())

		assert.Equal(t, extremeColdSevereScore, b.ExtremeCold)
		assert.Equal(t, 0.0, b.WindChillDanger)
		assert.Equal(t, 0.0, b.ColdSnowBoost)
		assert.Equal(t, extremeColdSevereScore+roadAvgFrigidScore+roadMinBelowFreezingScore, b.BaseScore)
	})

	t.Run("boost needs meaningful snow", func(t *testing.T) {
		flurry := snowAt(analyzeDay, 13, -10, 0.004)
		windy := clearAt(analyzeDay, 7, -10)
		windy.WindSpeed = "20 mph"
		b := ScoreDay([]HourlyPeriod{windy, flurry}, nil, flatProfile())

		assert.Equal(t, windChillDangerSevereScore, b.WindChillDanger)
		assert.Equal(t, 0.0, b.ColdSnowBoost)
	})

	t.Run("alert stays out of the base score", func(t *testing.T) {
		periods := []HourlyPeriod{clearAt(analyzeDay, 6, 40)}
		alerts := []Alert{{
			Event:     "Blizzard Warning",
			Effective: analyzeDay,
			Expires:   analyzeDay.Add(23 * time.Hour),
		}}

		withAlert := ScoreDay(periods, alerts, flatProfile())
		without := ScoreDay(periods, nil, flatProfile())

		assert.Equal(t, AlertBlizzardWarning, withAlert.AlertType)
		assert.Equal(t, alertBlizzardScore, withAlert.AlertScore)
		assert.Equal(t, without.BaseScore, withAlert.BaseScore)
	})
}
