package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seasonValidator is eight days of a fictional January: four closures, four
// normal days, one overcall (60 on an open day) and one undercall (40 on a
// closed day).
func seasonValidator() *Validator {
	v := NewValidator()
	v.AddPrediction("2026-01-05", 85, true)
	v.AddPrediction("2026-01-06", 75, true)
	v.AddPrediction("2026-01-07", 60, false)
	v.AddPrediction("2026-01-08", 40, true)
	v.AddPrediction("2026-01-09", 25, false)
	v.AddPrediction("2026-01-12", 10, false)
	v.AddPrediction("2026-01-13", 90, true)
	v.AddPrediction("2026-01-14", 15, false)
	return v
}

func TestValidator_Stats(t *testing.T) {
	stats, err := seasonValidator().Stats()
	require.NoError(t, err)

	assert.Equal(t, 8, stats.Predictions)
	assert.InDelta(t, 0.75, stats.Accuracy, 1e-9)
	assert.InDelta(t, 0.75, stats.Precision, 1e-9)
	assert.InDelta(t, 0.75, stats.Recall, 1e-9)
	assert.InDelta(t, 0.75, stats.F1, 1e-9)
	assert.InDelta(t, 0.9375, stats.ROCAUC, 1e-9)
	assert.InDelta(t, 0.24, stats.CalibrationError, 1e-9)
	assert.InDelta(t, 1.0, stats.ConfidentCorrect, 1e-9)
	assert.InDelta(t, 0.5, stats.ClosureRate, 1e-9)
}

func TestValidator_Stats_TooFewPredictions(t *testing.T) {
	v := NewValidator()
	for day, prob := range map[string]int{
		"2026-01-05": 80,
		"2026-01-06": 20,
		"2026-01-07": 55,
		"2026-01-08": 10,
	} {
		v.AddPrediction(day, prob, prob > 50)
	}

	_, err := v.Stats()
	assert.ErrorIs(t, err, ErrTooFewPredictions)
}

func TestValidator_Stats_AllClosures(t *testing.T) {
	v := NewValidator()
	for _, day := range []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		v.AddPrediction(day, 80, true)
	}

	stats, err := v.Stats()
	require.NoError(t, err)

	assert.InDelta(t, 1.0, stats.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, stats.Recall, 1e-9)
	assert.InDelta(t, 1.0, stats.ClosureRate, 1e-9)
	// One-class seasons carry no ranking signal.
	assert.InDelta(t, 0.5, stats.ROCAUC, 1e-9)
}

func TestRocAUC(t *testing.T) {
	t.Run("perfect ranking", func(t *testing.T) {
		preds := []Prediction{
			{PredictedProb: 90, ActualClosed: true},
			{PredictedProb: 85, ActualClosed: true},
			{PredictedProb: 20, ActualClosed: false},
			{PredictedProb: 10, ActualClosed: false},
		}
		assert.InDelta(t, 1.0, rocAUC(preds), 1e-9)
	})

	t.Run("inverted ranking", func(t *testing.T) {
		preds := []Prediction{
			{PredictedProb: 10, ActualClosed: true},
			{PredictedProb: 90, ActualClosed: false},
		}
		assert.InDelta(t, 0.0, rocAUC(preds), 1e-9)
	})

	t.Run("ties score zero", func(t *testing.T) {
		preds := []Prediction{
			{PredictedProb: 60, ActualClosed: true},
			{PredictedProb: 60, ActualClosed: false},
			{PredictedProb: 60, ActualClosed: true},
			{PredictedProb: 60, ActualClosed: false},
		}
		assert.InDelta(t, 0.0, rocAUC(preds), 1e-9)
	})
}

func TestCalibrationError_SingleBin(t *testing.T) {
	// Five low calls, none closed: the only populated bin is 0-20 with
	// midpoint 0.10 against an observed rate of 0.
	preds := []Prediction{
		{PredictedProb: 10}, {PredictedProb: 12}, {PredictedProb: 15},
		{PredictedProb: 11}, {PredictedProb: 18},
	}
	assert.InDelta(t, 0.10, calibrationError(preds), 1e-9)
}

func TestConfidentCorrect_NoConfidentCalls(t *testing.T) {
	preds := []Prediction{
		{PredictedProb: 40, ActualClosed: false},
		{PredictedProb: 50, ActualClosed: true},
		{PredictedProb: 60, ActualClosed: true},
	}
	assert.Zero(t, confidentCorrect(preds))
}
