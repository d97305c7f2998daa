package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadPredictions parses prediction records from CSV rows of
// date,predicted_prob,actual_closed. A header row is skipped when present.
// actual_closed accepts any strconv.ParseBool form (true/false, 1/0, t/f).
func ReadPredictions(r io.Reader) ([]Prediction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	preds := make([]Prediction, 0, len(rows))
	for i, row := range rows {
		line := i + 1
		if len(row) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", line, len(row))
		}
		if i == 0 && isHeaderRow(row) {
			continue
		}

		prob, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: predicted_prob %q is not an integer", line, row[1])
		}
		if prob < 0 || prob > 100 {
			return nil, fmt.Errorf("line %d: predicted_prob %d outside 0-100", line, prob)
		}

		closed, err := strconv.ParseBool(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: actual_closed %q is not a boolean", line, row[2])
		}

		preds = append(preds, Prediction{
			Date:          strings.TrimSpace(row[0]),
			PredictedProb: prob,
			ActualClosed:  closed,
		})
	}
	return preds, nil
}

// isHeaderRow reports whether the first row looks like column names rather
// than data.
func isHeaderRow(row []string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(row[1]))
	return err != nil
}
