// Package metrics provides Prometheus instrumentation for co2cast runs.
//
// Collectors live on a private registry so several Metrics values can coexist
// (one per engine, or per test). A one-shot CLI run has nothing to scrape, so
// the registry is exported with WriteTextfile for the node_exporter textfile
// collector instead of an HTTP listener.
//
// Metrics exposed:
//   - co2cast_forecasts_total: Counter of forecast runs by strategy and status
//   - co2cast_forecast_duration_seconds: Histogram of forecast run durations by strategy
//   - co2cast_no_comparable_country_total: Counter of related-rates runs with no benchmark
//   - co2cast_comparisons_found: Gauge of candidates found by the last comparable-country search
//   - co2cast_selected_period: Gauge of the last WMA period chosen
//   - co2cast_dataset_countries: Gauge of countries in the loaded dataset
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const namespace = "co2cast"

// Metrics groups the co2cast collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	ForecastsTotal      *prometheus.CounterVec
	ForecastDuration    *prometheus.HistogramVec
	NoComparableCountry prometheus.Counter
	ComparisonsFound    prometheus.Gauge
	SelectedPeriod      prometheus.Gauge
	DatasetCountries    prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ForecastsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_total",
			Help:      "Total number of forecast runs by strategy and status",
		}, []string{"strategy", "status"}),

		ForecastDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_duration_seconds",
			Help:      "Duration of forecast runs by strategy",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"strategy"}),

		NoComparableCountry: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_comparable_country_total",
			Help:      "Total number of related-rates runs that found no comparable country",
		}),

		ComparisonsFound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "comparisons_found",
			Help:      "Candidates found by the last comparable-country search",
		}),

		SelectedPeriod: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_period",
			Help:      "Last WMA period chosen",
		}),

		DatasetCountries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_countries",
			Help:      "Countries in the loaded dataset",
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordForecast counts one forecast run and observes its duration.
func (m *Metrics) RecordForecast(strategy, status string, seconds float64) {
	if m == nil {
		return
	}
	m.ForecastsTotal.WithLabelValues(strategy, status).Inc()
	m.ForecastDuration.WithLabelValues(strategy).Observe(seconds)
}

// RecordNoComparableCountry counts a related-rates run with an empty result.
func (m *Metrics) RecordNoComparableCountry() {
	if m == nil {
		return
	}
	m.NoComparableCountry.Inc()
}

func (m *Metrics) SetComparisonsFound(n int) {
	if m == nil {
		return
	}
	m.ComparisonsFound.Set(float64(n))
}

func (m *Metrics) SetSelectedPeriod(n int) {
	if m == nil {
		return
	}
	m.SelectedPeriod.Set(float64(n))
}

func (m *Metrics) SetDatasetCountries(n int) {
	if m == nil {
		return
	}
	m.DatasetCountries.Set(float64(n))
}

// WriteTextfile writes every collected metric to path in the Prometheus text
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
