package forecast

import (
	"fmt"
	"math"

	"github.com/rshade/co2cast/internal/dataset"
)

// Comparison is a candidate benchmark country: at Year its GDP per capita was
// within tolerance of the target's latest level.
type Comparison struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	GDP     float64 `json:"gdp"`
}

// GrowthRate returns the year-on-year ratio to/from.
func GrowthRate(from, to float64) float64 {
	return to / from
}

// lookup fetches a record or reports ErrInvalidCountry.
func lookup(store dataset.Store, country string) (dataset.CountryRecord, error) {
	rec, ok := store.Get(country)
	if !ok {
		return dataset.CountryRecord{}, fmt.Errorf("%w: %q", ErrInvalidCountry, country)
	}
	return rec, nil
}

// latestGDPGrowth returns the ratio of rec's latest GDP per capita to the
// year before it.
func latestGDPGrowth(rec dataset.CountryRecord) (float64, error) {
	latest, ok := rec.GDP.Latest()
	if !ok {
		return 0, fmt.Errorf("%w: %q has no GDP data", ErrInsufficientHistory, rec.Name)
	}
	prev, ok := rec.GDP.Value(latest.Year - 1)
	if !ok || prev <= 0 {
		return 0, fmt.Errorf("%w: %q has no GDP for %d", ErrInsufficientHistory, rec.Name, latest.Year-1)
	}
	return GrowthRate(prev, latest.Value), nil
}

// FindComparisons returns every other country whose GDP per capita, in some
// year inside [p.MatchWindowStart, p.MatchWindowEnd], lay strictly within
// p.GDPTolerance of the target's latest GDP per capita. Each candidate
// contributes its earliest qualifying year. Candidates keep store order and
// never include the target.
//
// An empty result means no comparable country exists.
func FindComparisons(store dataset.Store, country string, p Params) ([]Comparison, error) {
	target, err := lookup(store, country)
	if err != nil {
		return nil, err
	}
	latest, ok := target.GDP.Latest()
	if !ok {
		return nil, fmt.Errorf("%w: %q has no GDP data", ErrInsufficientHistory, country)
	}

	var comparisons []Comparison
	for _, name := range store.Names() {
		if name == country {
			continue
		}
		candidate, _ := store.Get(name)
		for _, yv := range candidate.GDP {
			if yv.Year < p.MatchWindowStart || yv.Year > p.MatchWindowEnd {
				continue
			}
			if math.Abs(yv.Value-latest.Value) < p.GDPTolerance {
				comparisons = append(comparisons, Comparison{Country: name, Year: yv.Year, GDP: yv.Value})
				break
			}
		}
	}
	return comparisons, nil
}

// PopulationFilter returns the comparison whose country's population is
// closest to the target's. Ties keep the earliest candidate.
func PopulationFilter(store dataset.Store, country string, comparisons []Comparison) (Comparison, error) {
	if len(comparisons) == 0 {
		return Comparison{}, ErrNoCandidates
	}
	target, err := lookup(store, country)
	if err != nil {
		return Comparison{}, err
	}

	best := -1
	var bestGap int64
	for i, c := range comparisons {
		candidate, err := lookup(store, c.Country)
		if err != nil {
			return Comparison{}, err
		}
		gap := candidate.Population - target.Population
		if gap < 0 {
			gap = -gap
		}
		if best < 0 || gap < bestGap {
			best, bestGap = i, gap
		}
	}
	return comparisons[best], nil
}

// GrowthRateFilter returns the comparison whose GDP-per-capita growth ratio
// at its matched year (Year / Year-1) is closest to the target's latest
// growth ratio. Candidates without GDP for Year-1 are skipped. Ties keep the
// earliest candidate.
//
// Returns ErrInsufficientHistory if the target's growth ratio cannot be
// computed or no candidate has the data for one.
func GrowthRateFilter(store dataset.Store, country string, comparisons []Comparison) (Comparison, error) {
	if len(comparisons) == 0 {
		return Comparison{}, ErrNoCandidates
	}
	target, err := lookup(store, country)
	if err != nil {
		return Comparison{}, err
	}
	targetGrowth, err := latestGDPGrowth(target)
	if err != nil {
		return Comparison{}, err
	}

	best := -1
	var bestDelta float64
	for i, c := range comparisons {
		candidate, err := lookup(store, c.Country)
		if err != nil {
			return Comparison{}, err
		}
		prev, ok := candidate.GDP.Value(c.Year - 1)
		if !ok || prev <= 0 {
			continue
		}
		delta := math.Abs(targetGrowth - GrowthRate(prev, c.GDP))
		if best < 0 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	if best < 0 {
		return Comparison{}, fmt.Errorf("%w: no candidate has GDP for the year before its match",
			ErrInsufficientHistory)
	}
	return comparisons[best], nil
}
