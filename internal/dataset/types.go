// Package dataset provides the per-country population, GDP per capita and
// CO2 emission series consumed by the forecasting core, together with the
// loaders that build an in-memory record store from CSV or JSON files.
package dataset

import (
	"sort"
)

// YearValue is a single observation of a yearly series.
type YearValue struct {
	// Year is the calendar year of the observation.
	Year int `json:"year"`

	// Value is the observed (or predicted) value for Year.
	Value float64 `json:"value"`
}

// Series is a yearly series ordered by ascending year with no duplicate years.
type Series []YearValue

// NewSeries builds a Series from a year-keyed map, sorted by ascending year.
func NewSeries(byYear map[int]float64) Series {
	s := make(Series, 0, len(byYear))
	for year, value := range byYear {
		s = append(s, YearValue{Year: year, Value: value})
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Year < s[j].Year })
	return s
}

// Latest returns the most recent observation.
// Returns (YearValue{}, false) if the series is empty.
func (s Series) Latest() (YearValue, bool) {
	if len(s) == 0 {
		return YearValue{}, false
	}
	return s[len(s)-1], true
}

// Value returns the value recorded for year.
// Returns (0, false) if the series has no observation for that year.
func (s Series) Value(year int) (float64, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Year >= year })
	if i < len(s) && s[i].Year == year {
		return s[i].Value, true
	}
	return 0, false
}

// Tail returns a copy of the last n observations, or the whole series if it
// holds fewer than n.
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	start := len(s) - n
	if start < 0 {
		start = 0
	}
	return s[start:].Clone()
}

// Values returns the observation values in year order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, yv := range s {
		values[i] = yv.Value
	}
	return values
}

// Clone returns an independent copy of the series.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// CountryRecord holds the historical figures for one country.
type CountryRecord struct {
	// Name is the country name used for lookups (case sensitive).
	Name string `json:"name"`

	// Code is the ISO 3166-1 alpha-3 code, e.g. "CAN".
	Code string `json:"code"`

	// Population is the country's current population.
	Population int64 `json:"population"`

	// GDP is GDP per capita by year.
	GDP Series `json:"gdp"`

	// CO2 is CO2 emissions by year.
	CO2 Series `json:"co2"`
}
