package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/snow-day-forecast-service/internal/config"
	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
)

const sourceName = "snow-day-forecast-service"

// Writer produces forecast records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishReport emits one record per forecast day in a single WriteMessages
// call. All records share the report's ZIP as message key, so a district's
// days stay ordered within one partition.
func (w *Writer) PublishReport(ctx context.Context, report domain.Report, runID string) error {
	msgs, err := buildMessages(report, runID)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// forecastRecord is the published row: one school day plus the report context
// it was generated under.
type forecastRecord struct {
	Zip             string `json:"zip"`
	Location        string `json:"location"`
	DistrictProfile string `json:"district_profile"`
	GeneratedAt     string `json:"generated_at"`
	domain.ForecastResult
}

// buildMessages maps a report onto Kafka messages, one per forecast day.
func buildMessages(report domain.Report, runID string) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(report.Probabilities))
	for _, result := range report.Probabilities {
		msg, err := serializeToMessage(report, result, runID)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// serializeToMessage marshals one forecast day into a Kafka message.
func serializeToMessage(report domain.Report, result domain.ForecastResult, runID string) (kafkago.Message, error) {
	record := forecastRecord{
		Zip:             report.Zipcode,
		Location:        report.Location,
		DistrictProfile: report.DistrictProfile,
		GeneratedAt:     report.Timestamp,
		ForecastResult:  result,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.Zipcode),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "source", Value: []byte(sourceName)},
			{Key: "run_id", Value: []byte(runID)},
		},
	}, nil
}
