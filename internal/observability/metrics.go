package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast service.
type Metrics struct {
	ForecastRequests *prometheus.CounterVec // labels: outcome={ok,invalid,not_found,no_data,upstream_error}
	DaysScored       prometheus.Counter
	SeverityScore    prometheus.Histogram

	// Upstream adapter metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: service={nws,geocoder}, outcome={success,not_found,error}
	UpstreamDuration *prometheus.HistogramVec // labels: service={nws,geocoder}
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Background refresh and publishing metrics.
	RefreshCycles    *prometheus.CounterVec // labels: outcome={success,failure}
	RecordsPublished prometheus.Counter
	RefresherRunning prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "forecast_requests_total",
			Help:      "Forecast computations by outcome.",
		}, []string{"outcome"}),
		DaysScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "days_scored_total",
			Help:      "Total school days scored across all forecasts.",
		}),
		SeverityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snowday",
			Name:      "base_severity_score",
			Help:      "Distribution of per-day base severity scores.",
			Buckets:   []float64{0, 5, 10, 20, 40, 60, 80, 100, 150, 250},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by service and outcome.",
		}, []string{"service", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snowday",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"service"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "geocode_cache_total",
			Help:      "ZIP geocoding cache lookups by result.",
		}, []string{"result"}),
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "refresh_cycles_total",
			Help:      "Background refresh cycles by outcome.",
		}, []string{"outcome"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "records_published_total",
			Help:      "Forecast records written to the sink topic.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowday",
			Name:      "refresher_running",
			Help:      "1 when the background refresher is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastRequests,
		m.DaysScored,
		m.SeverityScore,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.RefreshCycles,
		m.RecordsPublished,
		m.RefresherRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowday", Name: "forecast_requests_total"}, []string{"outcome"}),
		DaysScored:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowday", Name: "days_scored_total"}),
		SeverityScore:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "snowday", Name: "base_severity_score"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowday", Name: "upstream_requests_total"}, []string{"service", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "snowday", Name: "upstream_request_duration_seconds"}, []string{"service"}),
		GeocodeCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowday", Name: "geocode_cache_total"}, []string{"result"}),
		RefreshCycles:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowday", Name: "refresh_cycles_total"}, []string{"outcome"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowday", Name: "records_published_total"}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "snowday", Name: "refresher_running"}),
	}
}
