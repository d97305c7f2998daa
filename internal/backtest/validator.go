// Package backtest scores recorded closure predictions against what the
// district actually did, so a season of forecasts can be graded after the
// fact.
package backtest

import (
	"fmt"
	"math"
)

// Prediction pairs one day's predicted closure probability with the actual
// outcome.
type Prediction struct {
	Date          string `json:"date"` // YYYY-MM-DD
	PredictedProb int    `json:"predicted_prob"`
	ActualClosed  bool   `json:"actual_closed"`
}

// Thresholds for the binary metrics.
const (
	minPredictions = 5

	closureThreshold = 50 // probability above which a prediction counts as a closure call

	confidentClosedProb = 70 // above this, the model is confidently calling a closure
	confidentOpenProb   = 30 // below this, confidently calling a normal day

	calibrationBinWidth = 20
)

// ErrTooFewPredictions rejects datasets too small for the metrics to mean
// anything.
var ErrTooFewPredictions = fmt.Errorf("need at least %d predictions to validate", minPredictions)

// Stats is the aggregate scorecard over a set of predictions. Accuracy,
// precision and recall use the >50 binary cut; ConfidentCorrect restricts to
// the >70 / <30 calls.
type Stats struct {
	Predictions      int     `json:"n_predictions"`
	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	ROCAUC           float64 `json:"roc_auc"`
	CalibrationError float64 `json:"calibration_error"`
	ConfidentCorrect float64 `json:"confident_correct"`
	ClosureRate      float64 `json:"closure_rate"`
}

// Validator accumulates prediction-versus-outcome records for one district's
// season.
type Validator struct {
	predictions []Prediction
}

func NewValidator() *Validator {
	return &Validator{}
}

// AddPrediction records one day's predicted probability against whether the
// district actually closed.
func (v *Validator) AddPrediction(date string, predictedProb int, actualClosed bool) {
	v.predictions = append(v.predictions, Prediction{
		Date:          date,
		PredictedProb: predictedProb,
		ActualClosed:  actualClosed,
	})
}

// Stats computes the scorecard. Fewer than five recorded predictions returns
// ErrTooFewPredictions.
func (v *Validator) Stats() (Stats, error) {
	n := len(v.predictions)
	if n < minPredictions {
		return Stats{}, ErrTooFewPredictions
	}

	var correct, closures int
	var truePositives, falsePositives, falseNegatives int
	for _, p := range v.predictions {
		predictedClosed := p.PredictedProb > closureThreshold
		if predictedClosed == p.ActualClosed {
			correct++
		}
		switch {
		case predictedClosed && p.ActualClosed:
			truePositives++
		case predictedClosed && !p.ActualClosed:
			falsePositives++
		case !predictedClosed && p.ActualClosed:
			falseNegatives++
		}
		if p.ActualClosed {
			closures++
		}
	}

	var precision, recall, f1 float64
	if truePositives+falsePositives > 0 {
		precision = float64(truePositives) / float64(truePositives+falsePositives)
	}
	if truePositives+falseNegatives > 0 {
		recall = float64(truePositives) / float64(truePositives+falseNegatives)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return Stats{
		Predictions:      n,
		Accuracy:         float64(correct) / float64(n),
		Precision:        precision,
		Recall:           recall,
		F1:               f1,
		ROCAUC:           rocAUC(v.predictions),
		CalibrationError: calibrationError(v.predictions),
		ConfidentCorrect: confidentCorrect(v.predictions),
		ClosureRate:      float64(closures) / float64(n),
	}, nil
}

// rocAUC approximates the area under the ROC curve as the share of
// closed/open day pairs the model ranked in the right order. Ties score
// zero, and a season with no closures (or nothing but closures) reads as
// coin-flip discrimination.
func rocAUC(preds []Prediction) float64 {
	var positives, negatives int
	for _, p := range preds {
		if p.ActualClosed {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return 0.5
	}

	concordant := 0
	for _, closed := range preds {
		if !closed.ActualClosed {
			continue
		}
		for _, open := range preds {
			if open.ActualClosed {
				continue
			}
			if closed.PredictedProb > open.PredictedProb {
				concordant++
			}
		}
	}
	return float64(concordant) / float64(positives*negatives)
}

// calibrationError returns the mean absolute gap between each 20-point
// probability bin's midpoint and the closure rate observed inside it. Empty
// bins are skipped; bins are half-open, which the engine's probability
// ceiling of 99 never exposes.
func calibrationError(preds []Prediction) float64 {
	var sum float64
	var bins int
	for low := 0; low < 100; low += calibrationBinWidth {
		high := low + calibrationBinWidth
		var inBin, closed int
		for _, p := range preds {
			if p.PredictedProb < low || p.PredictedProb >= high {
				continue
			}
			inBin++
			if p.ActualClosed {
				closed++
			}
		}
		if inBin == 0 {
			continue
		}
		expected := float64(low+high) / 2 / 100
		observed := float64(closed) / float64(inBin)
		sum += math.Abs(expected - observed)
		bins++
	}
	if bins == 0 {
		return 0
	}
	return sum / float64(bins)
}

// confidentCorrect returns accuracy over only the confident calls. Middling
// predictions carry no penalty here; they are simply excluded.
func confidentCorrect(preds []Prediction) float64 {
	var confident, correct int
	for _, p := range preds {
		switch {
		case p.PredictedProb > confidentClosedProb:
			confident++
			if p.ActualClosed {
				correct++
			}
		case p.PredictedProb < confidentOpenProb:
			confident++
			if !p.ActualClosed {
				correct++
			}
		}
	}
	if confident == 0 {
		return 0
	}
	return float64(correct) / float64(confident)
}
