// Package engine runs co2cast forecasts against a loaded dataset.
//
// The forecast package is pure and never logs. Engine wraps each of its
// operations with context checks, stage timing, structured logs and
// Prometheus metrics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/co2cast/internal/dataset"
	"github.com/rshade/co2cast/internal/forecast"
	"github.com/rshade/co2cast/internal/logging"
	"github.com/rshade/co2cast/internal/metrics"
)

// ErrNilStore is returned by New when no dataset store is supplied.
var ErrNilStore = errors.New("engine: nil dataset store")

// Engine runs forecasts over one immutable dataset. It is safe for
// concurrent use.
type Engine struct {
	store   dataset.Store
	params  forecast.Params
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New validates params and returns an Engine over store.
// m may be nil to disable metrics.
func New(store dataset.Store, params forecast.Params, logger zerolog.Logger, m *metrics.Metrics) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m.SetDatasetCountries(store.Len())

	return &Engine{
		store:   store,
		params:  params,
		logger:  logging.Component(logger, "engine"),
		metrics: m,
	}, nil
}

// Params returns the engine's forecast parameters.
func (e *Engine) Params() forecast.Params {
	return e.params
}

// CountrySummary describes one dataset country.
type CountrySummary struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Population int64  `json:"population"`
	FirstYear  int    `json:"first_year"`
	LastYear   int    `json:"last_year"`
	Points     int    `json:"co2_points"`
}

// Countries summarizes the dataset's countries in dataset order.
func (e *Engine) Countries() []CountrySummary {
	names := e.store.Names()
	out := make([]CountrySummary, 0, len(names))
	for _, name := range names {
		rec, _ := e.store.Get(name)
		summary := CountrySummary{
			Name:       rec.Name,
			Code:       rec.Code,
			Population: rec.Population,
			Points:     len(rec.CO2),
		}
		if len(rec.CO2) > 0 {
			summary.FirstYear = rec.CO2[0].Year
			summary.LastYear = rec.CO2[len(rec.CO2)-1].Year
		}
		out = append(out, summary)
	}
	return out
}

// Period scores every candidate WMA window for country and returns the
// selection.
func (e *Engine) Period(ctx context.Context, country string) (forecast.PeriodSelection, error) {
	if err := ctx.Err(); err != nil {
		return forecast.PeriodSelection{}, err
	}

	rec, ok := e.store.Get(country)
	if !ok {
		err := fmt.Errorf("%w: %q", forecast.ErrInvalidCountry, country)
		e.logFailure("period", country, err)
		return forecast.PeriodSelection{}, err
	}

	sel, err := forecast.SelectPeriod(rec.CO2, e.params.MaxPeriod)
	if err != nil {
		err = fmt.Errorf("select period for %q: %w", country, err)
		e.logFailure("period", country, err)
		return forecast.PeriodSelection{}, err
	}

	e.metrics.SetSelectedPeriod(sel.Period)
	e.logger.Debug().
		Str(logging.FieldCountry, country).
		Int("period", sel.Period).
		Float64("mad", sel.MAD).
		Int("candidates", len(sel.Scores)).
		Msg("selected WMA period")

	return sel, nil
}

// WMA forecasts country with a weighted moving average. A period of 0 lets
// the period selector choose.
func (e *Engine) WMA(ctx context.Context, country string, period int) (forecast.WMAResult, error) {
	if err := ctx.Err(); err != nil {
		return forecast.WMAResult{}, err
	}

	start := time.Now()
	result, err := forecast.RunWMA(e.store, country, period, e.params)
	duration := time.Since(start)

	label := forecast.StrategyWMA.String()
	if err != nil {
		e.metrics.RecordForecast(label, metrics.StatusError, duration.Seconds())
		e.logFailure(label, country, err)
		return forecast.WMAResult{}, err
	}
	e.metrics.RecordForecast(label, metrics.StatusSuccess, duration.Seconds())
	e.metrics.SetSelectedPeriod(result.Period)

	e.logger.Info().
		Str(logging.FieldCountry, country).
		Str(logging.FieldStrategy, label).
		Int("period", result.Period).
		Bool("period_selected", period == 0).
		Int("known_points", result.Known).
		Int("forecast_points", len(result.Forecast())).
		Int64("duration_us", duration.Microseconds()).
		Msg("forecast complete")

	return result, nil
}

// RelatedRates forecasts country from comparable countries' growth ratios.
// An empty result means no comparable country was found and is not an error.
func (e *Engine) RelatedRates(ctx context.Context, country string) (forecast.RelatedRatesResult, error) {
	if err := ctx.Err(); err != nil {
		return forecast.RelatedRatesResult{}, err
	}
	label := forecast.StrategyRelatedRates.String()
	start := time.Now()

	comparisons, err := forecast.FindComparisons(e.store, country, e.params)
	if err != nil {
		e.metrics.RecordForecast(label, metrics.StatusError, time.Since(start).Seconds())
		e.logFailure(label, country, err)
		return forecast.RelatedRatesResult{}, err
	}
	matchDuration := time.Since(start)
	e.metrics.SetComparisonsFound(len(comparisons))
	e.logger.Debug().
		Str(logging.FieldCountry, country).
		Int("candidates", len(comparisons)).
		Int64("duration_us", matchDuration.Microseconds()).
		Msg("found comparable countries")

	if err := ctx.Err(); err != nil {
		return forecast.RelatedRatesResult{}, err
	}

	result, err := forecast.RelatedRatesFrom(e.store, country, comparisons, e.params)
	duration := time.Since(start)
	if err != nil {
		e.metrics.RecordForecast(label, metrics.StatusError, duration.Seconds())
		e.logFailure(label, country, err)
		return forecast.RelatedRatesResult{}, err
	}
	e.metrics.RecordForecast(label, metrics.StatusSuccess, duration.Seconds())

	if result.Empty() {
		e.metrics.RecordNoComparableCountry()
		e.logger.Info().
			Str(logging.FieldCountry, country).
			Str(logging.FieldStrategy, label).
			Msg("no comparable country")
		return result, nil
	}

	e.logger.Info().
		Str(logging.FieldCountry, country).
		Str(logging.FieldStrategy, label).
		Strs("benchmarks", result.Keys()[1:]).
		Int64("match_us", matchDuration.Microseconds()).
		Int64("duration_us", duration.Microseconds()).
		Msg("forecast complete")

	return result, nil
}

// Recommendation is the strategy chosen for a country together with the
// forecast that strategy produced. Exactly one of WMA and RelatedRates is set.
type Recommendation struct {
	Country      string                       `json:"country"`
	Choice       forecast.StrategyChoice      `json:"choice"`
	WMA          *forecast.WMAResult          `json:"wma,omitempty"`
	RelatedRates *forecast.RelatedRatesResult `json:"related_rates,omitempty"`
}

// Recommend picks the forecasting strategy for country and runs it. The WMA
// branch reuses the period the selector chose. When related rates is chosen
// and no comparable country exists, the empty related-rates result is
// returned as is.
func (e *Engine) Recommend(ctx context.Context, country string) (Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return Recommendation{}, err
	}

	choice, err := forecast.ChooseStrategy(e.store, country, e.params)
	if err != nil {
		e.logFailure("recommend", country, err)
		return Recommendation{}, err
	}
	e.logger.Debug().
		Str(logging.FieldCountry, country).
		Stringer(logging.FieldStrategy, choice.Strategy).
		Int("period", choice.Period).
		Float64("mean_change", choice.MeanChange).
		Float64("threshold", e.params.VolatilityThreshold).
		Msg("strategy selected")

	rec := Recommendation{Country: country, Choice: choice}
	switch choice.Strategy {
	case forecast.StrategyRelatedRates:
		result, err := e.RelatedRates(ctx, country)
		if err != nil {
			return Recommendation{}, err
		}
		rec.RelatedRates = &result
	default:
		result, err := e.WMA(ctx, country, choice.Period)
		if err != nil {
			return Recommendation{}, err
		}
		rec.WMA = &result
	}
	return rec, nil
}

func (e *Engine) logFailure(op, country string, err error) {
	e.logger.Error().
		Err(err).
		Str("operation", op).
		Str(logging.FieldCountry, country).
		Msg("forecast failed")
}
