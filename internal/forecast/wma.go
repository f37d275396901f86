package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rshade/co2cast/internal/dataset"
)

// WeightedAverage returns the recency-weighted mean of window, ordered oldest
// to newest. Position i (0-based) carries weight 0.1·(i+1), so the newest
// value counts most:
//
//	avg = Σ vᵢ·wᵢ / Σ wᵢ
//
// The result is a convex combination of the window's values.
// Returns 0 for an empty window.
func WeightedAverage(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	return stat.Mean(window, recencyWeights(len(window)))
}

// recencyWeights returns the weights 0.1, 0.2, ... 0.1·n.
func recencyWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = weightStep * float64(i+1)
	}
	return weights
}

// MovingAverages slides an n-value window one year at a time across series
// and returns the weighted average of each window, dated window start + n
// (the year the window "predicts"). Returns nil if n < 1 or the series holds
// n values or fewer.
func MovingAverages(n int, series dataset.Series) dataset.Series {
	if n < 1 || len(series) <= n {
		return nil
	}

	values := series.Values()
	out := make(dataset.Series, 0, len(series)-n)
	for i := 0; i+n < len(series); i++ {
		out = append(out, dataset.YearValue{
			Year:  series[i].Year + n,
			Value: WeightedAverage(values[i : i+n]),
		})
	}
	return out
}

// MeanAbsoluteDeviation returns the mean absolute error between each moving
// average and the actual value n positions later in series.
// Requires len(series) == len(averages) + n.
func MeanAbsoluteDeviation(n int, series, averages dataset.Series) (float64, error) {
	if len(averages) == 0 {
		return 0, fmt.Errorf("%w: no moving averages to score", ErrInsufficientHistory)
	}
	if len(series) != len(averages)+n {
		return 0, fmt.Errorf("%w: %d values do not align with %d averages for period %d",
			ErrInsufficientHistory, len(series), len(averages), n)
	}

	errs := make([]float64, len(averages))
	floats.SubTo(errs, series[n:].Values(), averages.Values())
	for i, e := range errs {
		errs[i] = math.Abs(e)
	}
	return stat.Mean(errs, nil), nil
}

// ForecastWMA returns series extended by horizon weighted-moving-average
// predictions. Each prediction averages the trailing n points, including
// earlier predictions, and is dated one year after the previous point.
//
// n must lie in [MinPeriod, MaxWeightedPeriod] and series must hold at least
// n+1 points.
func ForecastWMA(n int, series dataset.Series, horizon int) (dataset.Series, error) {
	if n < MinPeriod || n > MaxWeightedPeriod {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidPeriod, n, MinPeriod, MaxWeightedPeriod)
	}
	if len(series) < n+1 {
		return nil, fmt.Errorf("%w: period %d needs at least %d points, got %d",
			ErrInsufficientHistory, n, n+1, len(series))
	}
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be >= 1, got %d", ErrInvalidParams, horizon)
	}

	out := make(dataset.Series, len(series), len(series)+horizon)
	copy(out, series)

	// Trailing buffer of the last n values; predictions slide into it.
	window := make([]float64, n, n+1)
	copy(window, series.Values()[len(series)-n:])
	year := series[len(series)-1].Year

	for step := 0; step < horizon; step++ {
		next := WeightedAverage(window)
		year++
		out = append(out, dataset.YearValue{Year: year, Value: next})
		window = append(window[1:], next)
	}

	return out, nil
}
