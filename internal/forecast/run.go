package forecast

import (
	"fmt"

	"github.com/rshade/co2cast/internal/dataset"
)

// WMAResult is a WMA forecast for one country.
type WMAResult struct {
	Country string `json:"country"`

	// Period is the window length used.
	Period int `json:"period"`

	// Series holds every known CO2 point followed by the forecast points.
	Series dataset.Series `json:"series"`

	// Known is the number of leading points in Series that are observations.
	Known int `json:"known"`
}

// Forecast returns only the predicted points.
func (r WMAResult) Forecast() dataset.Series {
	if r.Known >= len(r.Series) {
		return dataset.Series{}
	}
	return r.Series[r.Known:]
}

// RunWMA forecasts country's emissions with a weighted moving average.
// A period of 0 selects the window with SelectPeriod.
func RunWMA(store dataset.Store, country string, period int, p Params) (WMAResult, error) {
	rec, err := lookup(store, country)
	if err != nil {
		return WMAResult{}, err
	}

	if period == 0 {
		sel, err := SelectPeriod(rec.CO2, p.MaxPeriod)
		if err != nil {
			return WMAResult{}, fmt.Errorf("select period for %q: %w", country, err)
		}
		period = sel.Period
	}

	series, err := ForecastWMA(period, rec.CO2, p.Horizon)
	if err != nil {
		return WMAResult{}, fmt.Errorf("forecast %q: %w", country, err)
	}

	return WMAResult{
		Country: country,
		Period:  period,
		Series:  series,
		Known:   len(rec.CO2),
	}, nil
}

// StrategyChoice is the outcome of ChooseStrategy.
type StrategyChoice struct {
	Strategy Strategy `json:"strategy"`

	// Period is the WMA window selected for the country; it also sets how
	// many recent changes were averaged.
	Period int `json:"period"`

	// MeanChange is the mean year-on-year CO2 change over that window.
	MeanChange float64 `json:"mean_change"`
}

// ChooseStrategy selects the forecasting method for country from the mean of
// its last n year-on-year CO2 changes, where n is the selected WMA period.
func ChooseStrategy(store dataset.Store, country string, p Params) (StrategyChoice, error) {
	rec, err := lookup(store, country)
	if err != nil {
		return StrategyChoice{}, err
	}

	sel, err := SelectPeriod(rec.CO2, p.MaxPeriod)
	if err != nil {
		return StrategyChoice{}, fmt.Errorf("select period for %q: %w", country, err)
	}

	changes := IncreaseRates(rec.CO2, sel.Period)
	mean, err := MeanChange(changes)
	if err != nil {
		return StrategyChoice{}, err
	}
	strategy, err := DetermineStrategy(changes, p.VolatilityThreshold)
	if err != nil {
		return StrategyChoice{}, err
	}

	return StrategyChoice{Strategy: strategy, Period: sel.Period, MeanChange: mean}, nil
}
