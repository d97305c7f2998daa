package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/snow-day-forecast-service/internal/config"
	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
)

// Exponential backoff after a failed cycle: start at 5s, double each retry,
// cap at 2m. Keeps retry pressure off the upstream APIs during outages.
const (
	initialBackoff = 5 * time.Second
	maxBackoff     = 2 * time.Minute
)

var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock swaps the package clock, for tests. Passing nil restores the real
// clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// ForecastService produces the report for one refresh cycle.
type ForecastService interface {
	Forecast(ctx context.Context, zip string, profile domain.Profile) (domain.Report, error)
}

// Publisher delivers one report's forecast records to the sink.
type Publisher interface {
	PublishReport(ctx context.Context, report domain.Report, runID string) error
}

// Refresher periodically forecasts the home ZIP and publishes the results.
type Refresher struct {
	svc       ForecastService
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	zip      string
	profile  domain.Profile
	interval time.Duration
}

// New creates a Refresher for the configured home ZIP.
func New(svc ForecastService, publisher Publisher, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		svc:       svc,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		zip:       cfg.HomeZip,
		profile:   cfg.Profile,
		interval:  cfg.RefreshInterval,
	}
}

// CheckReadiness returns nil once at least one refresh cycle has completed,
// or an error describing why the service is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("first refresh cycle has not completed")
	}
	return nil
}

// Run executes refresh cycles until the context is cancelled. The first cycle
// starts immediately; later ones wait out the configured interval, or a
// backoff after failures.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "zip", r.zip, "interval", r.interval)
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !r.refreshOnce(ctx, &backoff) {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// refreshOnce runs one forecast-and-publish cycle and waits for the next.
// Returns false if the refresher should stop.
func (r *Refresher) refreshOnce(ctx context.Context, backoff *time.Duration) bool {
	if err := r.runCycle(ctx); err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.metrics.RefreshCycles.WithLabelValues("failure").Inc()
		r.logger.Error("refresh cycle failed", "error", err)
		if !sleepWithContext(ctx, *backoff) {
			return false
		}
		*backoff = nextBackoff(*backoff)
		return true
	}

	r.metrics.RefreshCycles.WithLabelValues("success").Inc()
	r.ready.Store(true)
	*backoff = initialBackoff
	return sleepWithContext(ctx, r.interval)
}

// runCycle forecasts the home ZIP and publishes one record per day, all
// stamped with a fresh run ID.
func (r *Refresher) runCycle(ctx context.Context) error {
	runID := uuid.NewString()

	report, err := r.svc.Forecast(ctx, r.zip, r.profile)
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}

	if err := r.publisher.PublishReport(ctx, report, runID); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	r.metrics.RecordsPublished.Add(float64(len(report.Probabilities)))
	r.logger.Info("refresh cycle complete",
		"run_id", runID,
		"zip", r.zip,
		"records", len(report.Probabilities),
	)
	return nil
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	select {
	case <-ctx.Done():
		return false
	case <-clock.After(d):
		return true
	}
}
