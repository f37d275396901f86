package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/co2cast/internal/dataset"
)

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "wma", StrategyWMA.String())
	assert.Equal(t, "related-rates", StrategyRelatedRates.String())
	assert.Equal(t, "Strategy(7)", Strategy(7).String())

	text, err := StrategyRelatedRates.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "related-rates", string(text))
}

func TestIncreaseRates(t *testing.T) {
	s := series(2010, 10, 20, 40, 70, 75)

	tests := []struct {
		name string
		n    int
		want []float64
	}{
		{"last two changes", 2, []float64{30, 5}},
		{"every change", 4, []float64{10, 20, 30, 5}},
		{"n beyond history", 9, []float64{10, 20, 30, 5}},
		{"zero n", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IncreaseRates(s, tt.n))
		})
	}

	assert.Nil(t, IncreaseRates(series(2010, 1), 3))
}

func TestMeanChange(t *testing.T) {
	mean, err := MeanChange([]float64{10, 20, 30, 5})
	require.NoError(t, err)
	assert.InDelta(t, 16.25, mean, 1e-12)

	_, err = MeanChange(nil)
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestDetermineStrategy(t *testing.T) {
	tests := []struct {
		name    string
		changes []float64
		want    Strategy
	}{
		{"exactly at threshold", []float64{20}, StrategyRelatedRates},
		{"negative at threshold", []float64{-20}, StrategyRelatedRates},
		{"averages to threshold", []float64{10, 30}, StrategyRelatedRates},
		{"steep rise", []float64{40, 55, 61}, StrategyRelatedRates},
		{"steep decline", []float64{-30, -25}, StrategyRelatedRates},
		{"just below threshold", []float64{19.999}, StrategyWMA},
		{"volatile but flat on average", []float64{50, -50, 45, -45}, StrategyWMA},
		{"stable", []float64{1.5, -0.7}, StrategyWMA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetermineStrategy(tt.changes, DefaultVolatilityThreshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetermineStrategy(nil, DefaultVolatilityThreshold)
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestChooseStrategy(t *testing.T) {
	steep := dataset.CountryRecord{Name: "Steep", CO2: series(2010, 100, 130, 160, 190, 220, 250, 280)}
	calm := dataset.CountryRecord{Name: "Calm", CO2: eightYears}
	store := newTestStore(t, steep, calm)

	got, err := ChooseStrategy(store, "Steep", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, StrategyRelatedRates, got.Strategy)
	assert.InDelta(t, 30, got.MeanChange, 1e-9)
	assert.Equal(t, MinPeriod, got.Period, "longer windows lag a straight line further")

	got, err = ChooseStrategy(store, "Calm", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, StrategyWMA, got.Strategy)
	assert.Equal(t, 3, got.Period)
	// The last three changes telescope to the 2014→2017 difference.
	assert.InDelta(t, (208.7-201.4)/3, got.MeanChange, 1e-9)

	_, err = ChooseStrategy(store, "Lemuria", DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidCountry)
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero tolerance", func(p *Params) { p.GDPTolerance = 0 }},
		{"negative threshold", func(p *Params) { p.VolatilityThreshold = -1 }},
		{"inverted window", func(p *Params) { p.MatchWindowStart, p.MatchWindowEnd = 2012, 1991 }},
		{"zero horizon", func(p *Params) { p.Horizon = 0 }},
		{"max period too small", func(p *Params) { p.MaxPeriod = MinPeriod }},
		{"max period too large", func(p *Params) { p.MaxPeriod = MaxWeightedPeriod + 2 }},
		{"zero rate steps", func(p *Params) { p.RateSteps = 0 }},
		{"zero history points", func(p *Params) { p.HistoryPoints = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}
