// Package forecast implements the CO2 emission forecasting core: the weighted
// moving average (WMA) forecaster and its period selector, the comparable
// country matcher, the related-rates forecaster, and the strategy selector
// that chooses between the two methods.
//
// All functions are deterministic and side-effect free. They read country
// records from an injected dataset.Store and never log.
package forecast

const (
	// DefaultGDPTolerance is the absolute GDP-per-capita distance below which a
	// candidate country's historical level counts as a match for the target's
	// latest level. Same units as the stored GDP per capita.
	DefaultGDPTolerance = 100.0

	// DefaultVolatilityThreshold is the mean year-on-year CO2 change (absolute
	// units of the emissions series) at or above which related rates is chosen.
	DefaultVolatilityThreshold = 20.0

	// DefaultMatchWindowStart is the first year a comparable-country match may fall in.
	DefaultMatchWindowStart = 1991

	// DefaultMatchWindowEnd is the last year a comparable-country match may fall in.
	// It leaves room for DefaultRateSteps subsequent years of emissions data.
	DefaultMatchWindowEnd = 2012

	// DefaultHorizon is the number of future years the WMA forecaster appends.
	DefaultHorizon = 5

	// DefaultMaxPeriod is the exclusive upper bound of WMA window lengths
	// considered by the period selector. Beyond this, older data no longer
	// carries useful weight.
	DefaultMaxPeriod = 9

	// DefaultRateSteps is the number of year-on-year CO2 growth ratios taken
	// from a comparable country.
	DefaultRateSteps = 4

	// DefaultHistoryPoints is the number of known CO2 points reported under
	// DatasetKey in a related-rates result.
	DefaultHistoryPoints = 5

	// MinPeriod is the smallest valid WMA window length.
	MinPeriod = 2

	// MaxWeightedPeriod is the largest WMA window length the 0.1-step weighting
	// scheme supports.
	MaxWeightedPeriod = 9

	// DatasetKey is the related-rates result key holding the target's known CO2 points.
	DatasetKey = "dataset"

	// weightStep is the weight increment between consecutive window positions.
	weightStep = 0.1
)
