package forecast

import (
	"errors"
	"fmt"

	"github.com/rshade/co2cast/internal/dataset"
)

// Basis names the similarity axis that selected a benchmark country.
type Basis string

const (
	// BasisPopulation marks a benchmark chosen by population proximity.
	BasisPopulation Basis = "population"

	// BasisGrowthRate marks a benchmark chosen by GDP growth-rate proximity.
	BasisGrowthRate Basis = "growth_rate"
)

// Benchmark is one comparable country and the forecast derived from its
// emission growth ratios.
type Benchmark struct {
	Comparison

	// Bases lists the filters that selected this country, in filter order.
	Bases []Basis `json:"bases"`

	// Rates are the comparable country's CO2 growth ratios from Year.
	Rates []float64 `json:"rates"`

	// Forecast starts at the target's latest known point and compounds Rates.
	Forecast dataset.Series `json:"forecast"`
}

// RelatedRatesResult is the related-rates forecast for one target country.
// A zero value (Empty() == true) means no comparable country was found.
type RelatedRatesResult struct {
	// Country is the target country.
	Country string `json:"country"`

	// Dataset holds the target's last known CO2 points.
	Dataset dataset.Series `json:"dataset"`

	// Benchmarks holds one entry per distinct matched country: population
	// match first, then the growth-rate match if it differs.
	Benchmarks []Benchmark `json:"benchmarks"`
}

// Empty reports whether no comparable country was found.
func (r RelatedRatesResult) Empty() bool {
	return len(r.Benchmarks) == 0
}

// Keys returns the result's mapping keys: DatasetKey followed by each
// benchmark country. Returns nil for an empty result.
func (r RelatedRatesResult) Keys() []string {
	if r.Empty() {
		return nil
	}
	keys := make([]string, 0, len(r.Benchmarks)+1)
	keys = append(keys, DatasetKey)
	for _, b := range r.Benchmarks {
		keys = append(keys, b.Country)
	}
	return keys
}

// AsMap returns the result as a key → series mapping (see Keys).
func (r RelatedRatesResult) AsMap() map[string]dataset.Series {
	out := make(map[string]dataset.Series)
	if r.Empty() {
		return out
	}
	out[DatasetKey] = r.Dataset
	for _, b := range r.Benchmarks {
		out[b.Country] = b.Forecast
	}
	return out
}

// ComparisonRates returns the steps year-on-year CO2 growth ratios of rec
// starting at year: ratio[i] = co2[year+i+1] / co2[year+i].
//
// Returns ErrInsufficientHistory if any year in [year, year+steps] is missing
// or a base year has zero emissions.
func ComparisonRates(rec dataset.CountryRecord, year, steps int) ([]float64, error) {
	levels := make([]float64, steps+1)
	for i := range levels {
		v, ok := rec.CO2.Value(year + i)
		if !ok {
			return nil, fmt.Errorf("%w: %q has no CO2 for %d", ErrInsufficientHistory, rec.Name, year+i)
		}
		levels[i] = v
	}

	rates := make([]float64, steps)
	for i := range rates {
		if levels[i] == 0 {
			return nil, fmt.Errorf("%w: %q has zero CO2 in %d", ErrInsufficientHistory, rec.Name, year+i)
		}
		rates[i] = GrowthRate(levels[i], levels[i+1])
	}
	return rates, nil
}

// ProjectFromRates compounds rates onto latest. The first point is latest
// itself, unchanged; point i is point i-1 × rates[i-1], dated one year later.
func ProjectFromRates(latest dataset.YearValue, rates []float64) dataset.Series {
	out := make(dataset.Series, 0, len(rates)+1)
	out = append(out, latest)
	current := latest
	for _, rate := range rates {
		current = dataset.YearValue{Year: current.Year + 1, Value: current.Value * rate}
		out = append(out, current)
	}
	return out
}

// RunRelatedRates forecasts country's emissions from the growth ratios of the
// comparable countries selected by PopulationFilter and GrowthRateFilter.
// When both filters pick the same country it appears once.
//
// Returns an empty result, not an error, when no comparable country exists.
// If no candidate supports a growth-rate comparison, only the population
// benchmark is reported.
func RunRelatedRates(store dataset.Store, country string, p Params) (RelatedRatesResult, error) {
	comparisons, err := FindComparisons(store, country, p)
	if err != nil {
		return RelatedRatesResult{}, err
	}
	return RelatedRatesFrom(store, country, comparisons, p)
}

// RelatedRatesFrom builds the related-rates result for country from an
// already computed FindComparisons pool.
func RelatedRatesFrom(store dataset.Store, country string, comparisons []Comparison, p Params) (RelatedRatesResult, error) {
	target, err := lookup(store, country)
	if err != nil {
		return RelatedRatesResult{}, err
	}
	latest, ok := target.CO2.Latest()
	if !ok {
		return RelatedRatesResult{}, fmt.Errorf("%w: %q has no CO2 data", ErrInsufficientHistory, country)
	}
	if len(comparisons) == 0 {
		return RelatedRatesResult{}, nil
	}

	byPopulation, err := PopulationFilter(store, country, comparisons)
	if err != nil {
		return RelatedRatesResult{}, fmt.Errorf("population filter: %w", err)
	}
	matches := []match{{byPopulation, BasisPopulation}}

	byGrowth, err := GrowthRateFilter(store, country, comparisons)
	switch {
	case err == nil:
		matches = append(matches, match{byGrowth, BasisGrowthRate})
	case !errors.Is(err, ErrInsufficientHistory):
		return RelatedRatesResult{}, fmt.Errorf("growth rate filter: %w", err)
	}

	result := RelatedRatesResult{
		Country: country,
		Dataset: target.CO2.Tail(p.HistoryPoints),
	}
	for _, m := range matches {
		if i := result.benchmarkIndex(m.c.Country); i >= 0 {
			result.Benchmarks[i].Bases = append(result.Benchmarks[i].Bases, m.basis)
			continue
		}

		benchmark, err := lookup(store, m.c.Country)
		if err != nil {
			return RelatedRatesResult{}, err
		}
		rates, err := ComparisonRates(benchmark, m.c.Year, p.RateSteps)
		if err != nil {
			return RelatedRatesResult{}, err
		}
		result.Benchmarks = append(result.Benchmarks, Benchmark{
			Comparison: m.c,
			Bases:      []Basis{m.basis},
			Rates:      rates,
			Forecast:   ProjectFromRates(latest, rates),
		})
	}
	return result, nil
}

// match pairs a filter's pick with the filter that made it.
type match struct {
	c     Comparison
	basis Basis
}

func (r RelatedRatesResult) benchmarkIndex(country string) int {
	for i, b := range r.Benchmarks {
		if b.Country == country {
			return i
		}
	}
	return -1
}
