// Command validate scores a season of recorded closure predictions against
// what the district actually did: overall accuracy, precision and recall,
// ranking quality, and probability calibration, each with a pass/warn/fail
// verdict. Predictions come from a CSV log with date, predicted probability,
// and actual-closure columns, or from a bundled demo season.
//
// Usage:
//
//	go run ./cmd/validate -csv data/season_2025_26.csv
//	go run ./cmd/validate -demo
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/snow-day-forecast-service/internal/backtest"
)

// Verdict thresholds on the season-level metrics.
const (
	accuracyPass = 0.75
	accuracyWarn = 0.65
	aucPass      = 0.80
	aucWarn      = 0.70
	calibPass    = 0.10
)

type status int

const (
	statusPass status = iota
	statusWarn
	statusFail
)

func (s status) String() string {
	switch s {
	case statusPass:
		return "\033[32mPASS\033[0m"
	case statusWarn:
		return "\033[33mWARN\033[0m"
	}
	return "\033[31mFAIL\033[0m"
}

// check is one scorecard line: a named verdict plus the reading behind it.
type check struct {
	name   string
	status status
	detail string
}

func main() {
	csvPath := flag.String("csv", "", "prediction log CSV with date,predicted_prob,actual_closed rows")
	demo := flag.Bool("demo", false, "score the bundled demo season instead of a CSV log")
	flag.Parse()

	if *csvPath == "" && !*demo {
		flag.Usage()
		os.Exit(1)
	}
	if *csvPath != "" && *demo {
		fmt.Fprintln(os.Stderr, "FATAL: -csv and -demo are mutually exclusive")
		os.Exit(1)
	}

	if code := run(*csvPath, *demo); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string, demo bool) int {
	fmt.Println("=== Snow Day Prediction Validation ===")
	fmt.Println()

	predictions, source, err := loadPredictions(csvPath, demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load predictions: %v\n", err)
		return 1
	}

	v := backtest.NewValidator()
	for _, p := range predictions {
		v.AddPrediction(p.Date, p.PredictedProb, p.ActualClosed)
	}

	stats, err := v.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Printf("Dataset: %s, %d predictions, %.1f%% closure rate\n",
		source, stats.Predictions, stats.ClosureRate*100)
	printStats(stats)

	checks := []check{
		checkAccuracy(stats),
		checkRanking(stats),
		checkCalibration(stats),
	}

	fmt.Println()
	failed := false
	for _, c := range checks {
		fmt.Printf("  %-42s %s\n", c.name, c.status)
		if c.status == statusFail {
			failed = true
		}
	}

	fmt.Println()
	for _, c := range checks {
		fmt.Printf("  %s\n", c.detail)
	}

	if failed {
		fmt.Println("\nValidation FAILED.")
		return 1
	}
	fmt.Println("\nValidation passed.")
	return 0
}

func loadPredictions(csvPath string, demo bool) ([]backtest.Prediction, string, error) {
	if demo {
		return demoSeason(), "demo season", nil
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	predictions, err := backtest.ReadPredictions(f)
	if err != nil {
		return nil, "", err
	}
	return predictions, csvPath, nil
}

func printStats(stats backtest.Stats) {
	fmt.Println()
	fmt.Printf("  Accuracy             %6.1f%%\n", stats.Accuracy*100)
	fmt.Printf("  Precision            %6.1f%%\n", stats.Precision*100)
	fmt.Printf("  Recall               %6.1f%%\n", stats.Recall*100)
	fmt.Printf("  F1 score             %6.3f\n", stats.F1)
	fmt.Printf("  ROC AUC              %6.3f\n", stats.ROCAUC)
	fmt.Printf("  Calibration error    %6.3f\n", stats.CalibrationError)
	fmt.Printf("  Confident-call acc   %6.1f%%\n", stats.ConfidentCorrect*100)
}

// ── Scorecard checks ──

func checkAccuracy(stats backtest.Stats) check {
	c := check{name: "Overall accuracy"}
	switch {
	case stats.Accuracy > accuracyPass:
		c.status = statusPass
		c.detail = fmt.Sprintf("Accuracy %.1f%%: the model calls most days correctly.", stats.Accuracy*100)
	case stats.Accuracy > accuracyWarn:
		c.status = statusWarn
		c.detail = fmt.Sprintf("Accuracy %.1f%%: reasonable, with room for improvement.", stats.Accuracy*100)
	default:
		c.status = statusFail
		c.detail = fmt.Sprintf("Accuracy %.1f%%: the model needs recalibration or a data review.", stats.Accuracy*100)
	}
	return c
}

func checkRanking(stats backtest.Stats) check {
	c := check{name: "Ranking (ROC AUC)"}
	switch {
	case stats.ROCAUC > aucPass:
		c.status = statusPass
		c.detail = fmt.Sprintf("ROC AUC %.3f: strong separation of closures from openings.", stats.ROCAUC)
	case stats.ROCAUC > aucWarn:
		c.status = statusWarn
		c.detail = fmt.Sprintf("ROC AUC %.3f: adequate separation of closures from openings.", stats.ROCAUC)
	default:
		c.status = statusFail
		c.detail = fmt.Sprintf("ROC AUC %.3f: rankings are close to chance, check the forecast inputs.", stats.ROCAUC)
	}
	return c
}

// checkCalibration warns rather than fails: a miscalibrated model that still
// ranks days correctly is usable while it is being retuned.
func checkCalibration(stats backtest.Stats) check {
	c := check{name: "Probability calibration"}
	if stats.CalibrationError < calibPass {
		c.status = statusPass
		c.detail = fmt.Sprintf("Calibration error %.3f: stated probabilities match observed closure rates.", stats.CalibrationError)
	} else {
		c.status = statusWarn
		c.detail = fmt.Sprintf("Calibration error %.3f: probabilities run over- or under-confident.", stats.CalibrationError)
	}
	return c
}

// ── Demo data ──

// demoSeason is a hand-scored 2025-26 winter for a mid-Michigan district:
// nine closures in 23 calls, including a squall the model undercalled and
// two forecast storms that fizzled after the district was warned.
func demoSeason() []backtest.Prediction {
	return []backtest.Prediction{
		{Date: "2025-12-01", PredictedProb: 5, ActualClosed: false},
		{Date: "2025-12-08", PredictedProb: 5, ActualClosed: false},
		{Date: "2025-12-12", PredictedProb: 15, ActualClosed: false},
		{Date: "2025-12-16", PredictedProb: 35, ActualClosed: false},
		{Date: "2025-12-19", PredictedProb: 15, ActualClosed: false},
		{Date: "2026-01-05", PredictedProb: 15, ActualClosed: false},
		{Date: "2026-01-07", PredictedProb: 40, ActualClosed: false},
		{Date: "2026-01-09", PredictedProb: 60, ActualClosed: true},
		{Date: "2026-01-13", PredictedProb: 85, ActualClosed: true},
		{Date: "2026-01-15", PredictedProb: 88, ActualClosed: true},
		{Date: "2026-01-20", PredictedProb: 35, ActualClosed: true},
		{Date: "2026-01-22", PredictedProb: 15, ActualClosed: true},
		{Date: "2026-01-26", PredictedProb: 75, ActualClosed: false},
		{Date: "2026-01-28", PredictedProb: 65, ActualClosed: true},
		{Date: "2026-01-30", PredictedProb: 40, ActualClosed: true},
		{Date: "2026-02-03", PredictedProb: 88, ActualClosed: true},
		{Date: "2026-02-05", PredictedProb: 85, ActualClosed: true},
		{Date: "2026-02-10", PredictedProb: 80, ActualClosed: false},
		{Date: "2026-02-12", PredictedProb: 35, ActualClosed: false},
		{Date: "2026-02-17", PredictedProb: 5, ActualClosed: false},
		{Date: "2026-02-24", PredictedProb: 5, ActualClosed: false},
		{Date: "2026-03-03", PredictedProb: 5, ActualClosed: false},
		{Date: "2026-03-05", PredictedProb: 15, ActualClosed: false},
	}
}
