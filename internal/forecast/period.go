package forecast

import (
	"fmt"

	"github.com/rshade/co2cast/internal/dataset"
)

// PeriodScore is the mean absolute deviation a WMA window length achieved
// over a country's history.
type PeriodScore struct {
	Period int     `json:"period"`
	MAD    float64 `json:"mad"`
}

// PeriodSelection is the outcome of SelectPeriod.
type PeriodSelection struct {
	// Period is the chosen window length.
	Period int `json:"period"`

	// MAD is the chosen period's mean absolute deviation.
	MAD float64 `json:"mad"`

	// Scores lists every candidate in ascending period order.
	Scores []PeriodScore `json:"scores"`
}

// SelectPeriod picks the WMA window length n with the lowest historical mean
// absolute deviation over series. Candidates are MinPeriod <= n < min(len(series), maxPeriod).
// Ties keep the smallest n.
//
// Returns ErrInsufficientHistory if no candidate exists (two points or fewer).
func SelectPeriod(series dataset.Series, maxPeriod int) (PeriodSelection, error) {
	upper := min(len(series), maxPeriod)
	if upper <= MinPeriod {
		return PeriodSelection{}, fmt.Errorf("%w: %d CO2 points leave no candidate period",
			ErrInsufficientHistory, len(series))
	}

	sel := PeriodSelection{Scores: make([]PeriodScore, 0, upper-MinPeriod)}
	for n := MinPeriod; n < upper; n++ {
		mad, err := MeanAbsoluteDeviation(n, series, MovingAverages(n, series))
		if err != nil {
			return PeriodSelection{}, err
		}
		sel.Scores = append(sel.Scores, PeriodScore{Period: n, MAD: mad})

		if sel.Period == 0 || mad < sel.MAD {
			sel.Period = n
			sel.MAD = mad
		}
	}

	return sel, nil
}
