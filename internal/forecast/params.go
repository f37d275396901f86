package forecast

import "fmt"

// Params holds the tunable policy values of the forecasting core.
type Params struct {
	// GDPTolerance is the GDP-per-capita match tolerance (exclusive).
	GDPTolerance float64

	// VolatilityThreshold is the inclusive |mean CO2 change| threshold for
	// choosing related rates over WMA.
	VolatilityThreshold float64

	// MatchWindowStart and MatchWindowEnd bound the years (inclusive) a
	// comparable-country match may fall in.
	MatchWindowStart int
	MatchWindowEnd   int

	// Horizon is the number of future years the WMA forecast appends.
	Horizon int

	// MaxPeriod is the exclusive upper bound on WMA window lengths considered
	// by the period selector.
	MaxPeriod int

	// RateSteps is the number of growth ratios taken from a comparable country.
	RateSteps int

	// HistoryPoints is the number of known CO2 points reported with a
	// related-rates result.
	HistoryPoints int
}

// DefaultParams returns the standard policy values.
func DefaultParams() Params {
	return Params{
		GDPTolerance:        DefaultGDPTolerance,
		VolatilityThreshold: DefaultVolatilityThreshold,
		MatchWindowStart:    DefaultMatchWindowStart,
		MatchWindowEnd:      DefaultMatchWindowEnd,
		Horizon:             DefaultHorizon,
		MaxPeriod:           DefaultMaxPeriod,
		RateSteps:           DefaultRateSteps,
		HistoryPoints:       DefaultHistoryPoints,
	}
}

// Validate reports the first invalid field as an ErrInvalidParams error.
func (p Params) Validate() error {
	switch {
	case p.GDPTolerance <= 0:
		return fmt.Errorf("%w: gdp tolerance must be > 0, got %g", ErrInvalidParams, p.GDPTolerance)
	case p.VolatilityThreshold < 0:
		return fmt.Errorf("%w: volatility threshold must be >= 0, got %g", ErrInvalidParams, p.VolatilityThreshold)
	case p.MatchWindowStart > p.MatchWindowEnd:
		return fmt.Errorf("%w: match window start %d is after end %d",
			ErrInvalidParams, p.MatchWindowStart, p.MatchWindowEnd)
	case p.Horizon < 1:
		return fmt.Errorf("%w: horizon must be >= 1, got %d", ErrInvalidParams, p.Horizon)
	case p.MaxPeriod <= MinPeriod || p.MaxPeriod > MaxWeightedPeriod+1:
		return fmt.Errorf("%w: max period must be in [%d, %d], got %d",
			ErrInvalidParams, MinPeriod+1, MaxWeightedPeriod+1, p.MaxPeriod)
	case p.RateSteps < 1:
		return fmt.Errorf("%w: rate steps must be >= 1, got %d", ErrInvalidParams, p.RateSteps)
	case p.HistoryPoints < 1:
		return fmt.Errorf("%w: history points must be >= 1, got %d", ErrInvalidParams, p.HistoryPoints)
	}
	return nil
}
