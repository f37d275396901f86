package report

import (
	"fmt"
	"strings"

	"github.com/rshade/co2cast/internal/dataset"
	"github.com/rshade/co2cast/internal/engine"
	"github.com/rshade/co2cast/internal/forecast"
)

// Row kinds in the WMA table.
const (
	kindObserved = "observed"
	kindForecast = "forecast"
)

// placeholder fills table cells with no value.
const placeholder = "-"

// WMA renders a weighted moving average forecast.
func (r *Renderer) WMA(res forecast.WMAResult) error {
	if r.format == FormatJSON {
		return r.writeJSON(wmaDoc{
			Country:  res.Country,
			Strategy: forecast.StrategyWMA,
			Period:   res.Period,
			Observed: res.Series[:res.Known],
			Forecast: res.Forecast(),
		})
	}

	if err := r.heading("%s: weighted moving average forecast (period %d)", res.Country, res.Period); err != nil {
		return err
	}
	tw := r.table()
	fmt.Fprintln(tw, "YEAR\tCO2 (MT)\tKIND")
	for i, p := range res.Series {
		kind := kindObserved
		if i >= res.Known {
			kind = kindForecast
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.Year, r.number(p.Value, co2Precision), kind)
	}
	return tw.Flush()
}

type wmaDoc struct {
	Country  string            `json:"country"`
	Strategy forecast.Strategy `json:"strategy"`
	Period   int               `json:"period"`
	Observed dataset.Series    `json:"observed"`
	Forecast dataset.Series    `json:"forecast"`
}

// RelatedRates renders a related-rates forecast, or NoComparableMessage when
// the result is empty.
func (r *Renderer) RelatedRates(res forecast.RelatedRatesResult, country string) error {
	if r.format == FormatJSON {
		return r.writeJSON(newRelatedRatesDoc(res, country))
	}

	if res.Empty() {
		_, err := fmt.Fprintf(r.w, NoComparableMessage+"\n", country)
		return err
	}

	if err := r.heading("%s: related rates forecast", res.Country); err != nil {
		return err
	}
	tw := r.table()
	for _, b := range res.Benchmarks {
		fmt.Fprintf(tw, "  %s\tmatched %d at GDP per capita %s\t(%s)\n",
			b.Country, b.Year, r.number(b.GDP, 2), basesLabel(b.Bases))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	columns := res.Keys()
	series := res.AsMap()

	tw = r.table()
	header := make([]string, 0, len(columns)+1)
	header = append(header, "YEAR")
	for _, c := range columns {
		header = append(header, strings.ToUpper(c))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, year := range yearSpan(series) {
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, fmt.Sprint(year))
		for _, c := range columns {
			if v, ok := series[c].Value(year); ok {
				cells = append(cells, r.number(v, co2Precision))
			} else {
				cells = append(cells, placeholder)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

type relatedRatesDoc struct {
	Country    string                    `json:"country"`
	Strategy   forecast.Strategy         `json:"strategy"`
	Comparable bool                      `json:"comparable"`
	Series     map[string]dataset.Series `json:"series"`
	Benchmarks []forecast.Benchmark      `json:"benchmarks"`
}

func newRelatedRatesDoc(res forecast.RelatedRatesResult, country string) relatedRatesDoc {
	benchmarks := res.Benchmarks
	if benchmarks == nil {
		benchmarks = []forecast.Benchmark{}
	}
	return relatedRatesDoc{
		Country:    country,
		Strategy:   forecast.StrategyRelatedRates,
		Comparable: !res.Empty(),
		Series:     res.AsMap(),
		Benchmarks: benchmarks,
	}
}

// yearSpan returns every year from the earliest to the latest point across
// series.
func yearSpan(series map[string]dataset.Series) []int {
	first, last := 0, 0
	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		if first == 0 || s[0].Year < first {
			first = s[0].Year
		}
		if end := s[len(s)-1].Year; end > last {
			last = end
		}
	}
	if first == 0 {
		return nil
	}
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

func basesLabel(bases []forecast.Basis) string {
	labels := make([]string, len(bases))
	for i, b := range bases {
		labels[i] = strings.ReplaceAll(string(b), "_", " ")
	}
	return strings.Join(labels, ", ")
}

// Period renders the WMA period scores for country.
func (r *Renderer) Period(country string, sel forecast.PeriodSelection) error {
	if r.format == FormatJSON {
		return r.writeJSON(struct {
			Country string `json:"country"`
			forecast.PeriodSelection
		}{country, sel})
	}

	if err := r.heading("%s: WMA period selection", country); err != nil {
		return err
	}
	tw := r.table()
	fmt.Fprintln(tw, "PERIOD\tMAD\t")
	for _, s := range sel.Scores {
		marker := ""
		if s.Period == sel.Period {
			marker = "selected"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Period, r.number(s.MAD, co2Precision), marker)
	}
	return tw.Flush()
}

// Recommendation renders the chosen strategy followed by its forecast.
func (r *Renderer) Recommendation(rec engine.Recommendation, threshold float64) error {
	if r.format == FormatJSON {
		doc := recommendationDoc{
			Country:    rec.Country,
			Strategy:   rec.Choice.Strategy,
			Period:     rec.Choice.Period,
			MeanChange: rec.Choice.MeanChange,
			Threshold:  threshold,
		}
		if rec.WMA != nil {
			doc.WMA = &wmaDoc{
				Country:  rec.WMA.Country,
				Strategy: forecast.StrategyWMA,
				Period:   rec.WMA.Period,
				Observed: rec.WMA.Series[:rec.WMA.Known],
				Forecast: rec.WMA.Forecast(),
			}
		}
		if rec.RelatedRates != nil {
			rr := newRelatedRatesDoc(*rec.RelatedRates, rec.Country)
			doc.RelatedRates = &rr
		}
		return r.writeJSON(doc)
	}

	if err := r.heading("%s: recommended strategy %s", rec.Country, rec.Choice.Strategy); err != nil {
		return err
	}
	if err := r.note("mean CO2 change over the last %d years: %s (threshold %s)",
		rec.Choice.Period, r.number(rec.Choice.MeanChange, co2Precision), r.number(threshold, 1)); err != nil {
		return err
	}

	switch {
	case rec.WMA != nil:
		return r.WMA(*rec.WMA)
	case rec.RelatedRates != nil:
		return r.RelatedRates(*rec.RelatedRates, rec.Country)
	}
	return nil
}

type recommendationDoc struct {
	Country      string            `json:"country"`
	Strategy     forecast.Strategy `json:"strategy"`
	Period       int               `json:"period"`
	MeanChange   float64           `json:"mean_change"`
	Threshold    float64           `json:"threshold"`
	WMA          *wmaDoc           `json:"wma,omitempty"`
	RelatedRates *relatedRatesDoc  `json:"related_rates,omitempty"`
}

// Countries renders the dataset's countries.
func (r *Renderer) Countries(countries []engine.CountrySummary) error {
	if r.format == FormatJSON {
		if countries == nil {
			countries = []engine.CountrySummary{}
		}
		return r.writeJSON(countries)
	}

	tw := r.table()
	fmt.Fprintln(tw, "COUNTRY\tCODE\tPOPULATION\tYEARS\tCO2 POINTS")
	for _, c := range countries {
		years := placeholder
		if c.Points > 0 {
			years = fmt.Sprintf("%d-%d", c.FirstYear, c.LastYear)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.Name, c.Code, r.integer(c.Population), years, c.Points)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return r.note("%d countries", len(countries))
}
