package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rshade/co2cast/internal/dataset"
)

// Strategy identifies a forecasting method.
type Strategy int

const (
	// StrategyWMA is the weighted moving average method.
	StrategyWMA Strategy = iota

	// StrategyRelatedRates is the comparable-country related rates method.
	StrategyRelatedRates
)

// String returns the strategy's CLI name.
func (s Strategy) String() string {
	switch s {
	case StrategyWMA:
		return "wma"
	case StrategyRelatedRates:
		return "related-rates"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IncreaseRates returns the year-on-year CO2 differences over the last n+1
// points of series (n differences), oldest first. Shorter series yield fewer
// differences.
func IncreaseRates(series dataset.Series, n int) []float64 {
	if n < 1 || len(series) < 2 {
		return nil
	}
	start := len(series) - n - 1
	if start < 0 {
		start = 0
	}
	usable := series[start:]

	changes := make([]float64, 0, len(usable)-1)
	for i := 1; i < len(usable); i++ {
		changes = append(changes, usable[i].Value-usable[i-1].Value)
	}
	return changes
}

// MeanChange returns the arithmetic mean of changes.
func MeanChange(changes []float64) (float64, error) {
	if len(changes) == 0 {
		return 0, ErrNoChanges
	}
	return stat.Mean(changes, nil), nil
}

// DetermineStrategy picks related rates when the mean of changes is at least
// threshold in magnitude (a trend too steep for averaging to track), and WMA
// otherwise.
func DetermineStrategy(changes []float64, threshold float64) (Strategy, error) {
	mean, err := MeanChange(changes)
	if err != nil {
		return StrategyWMA, err
	}
	if math.Abs(mean) >= threshold {
		return StrategyRelatedRates, nil
	}
	return StrategyWMA, nil
}
