package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/co2cast/internal/dataset"
	"github.com/rshade/co2cast/internal/forecast"
)

func TestGaps(t *testing.T) {
	s := dataset.NewSeries(map[int]float64{2000: 1, 2001: 1, 2004: 1, 2006: 1})
	assert.Equal(t, []int{2002, 2003, 2005}, gaps(s))
	assert.Empty(t, gaps(dataset.NewSeries(map[int]float64{2000: 1, 2001: 1})))
	assert.Empty(t, gaps(nil))
}

func TestCanBenchmark(t *testing.T) {
	p := forecast.DefaultParams()

	tests := []struct {
		name string
		gdp  map[int]float64
		co2  map[int]float64
		want bool
	}{
		{
			name: "window year with following CO2",
			gdp:  map[int]float64{2000: 1},
			co2:  map[int]float64{2000: 1, 2001: 1, 2002: 1, 2003: 1, 2004: 1},
			want: true,
		},
		{
			name: "CO2 stops short",
			gdp:  map[int]float64{2000: 1},
			co2:  map[int]float64{2000: 1, 2001: 1, 2002: 1, 2003: 1},
			want: false,
		},
		{
			name: "GDP only outside the window",
			gdp:  map[int]float64{1985: 1, 2015: 1},
			co2:  map[int]float64{1985: 1, 1986: 1, 1987: 1, 1988: 1, 1989: 1},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := dataset.CountryRecord{
				Name: "Atlantis",
				GDP:  dataset.NewSeries(tt.gdp),
				CO2:  dataset.NewSeries(tt.co2),
			}
			assert.Equal(t, tt.want, canBenchmark(rec, p))
		})
	}
}

func TestSampleDataset(t *testing.T) {
	store, err := dataset.LoadSample(zerolog.Nop())
	require.NoError(t, err)

	reports := inspect(store, forecast.DefaultParams())
	require.Len(t, reports, store.Len())
	for _, r := range reports {
		assert.Equal(t, "1990-2017", r.CO2Span, r.Name)
		assert.Empty(t, r.CO2Gaps, r.Name)
		assert.True(t, r.Benchmark, r.Name)
	}
	assert.NoError(t, check(reports, 2, true))

	var buf bytes.Buffer
	require.NoError(t, printReports(&buf, reports))
	assert.Contains(t, buf.String(), "Dataset stats: 12 countries")
}

func TestCheck(t *testing.T) {
	reports := []countryReport{{Name: "Atlantis", CO2Gaps: []int{2003}}}

	assert.Error(t, check(reports, 2, false))
	assert.NoError(t, check(reports, 1, false))

	err := check(reports, 1, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis: CO2 series is missing years [2003]")
}
