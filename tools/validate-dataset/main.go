// Package main provides a tool to check a co2cast country dataset before it
// is embedded or passed to the CLI with --data.
//
// The tool loads the dataset with the same parser the CLI uses, then reports
// per-country coverage: the year span of each series, missing years inside
// that span, and whether the country can serve as a related-rates benchmark
// (GDP data inside the match window plus enough later CO2 years).
//
// Usage:
//
//	go run ./tools/validate-dataset [--data FILE] [--min-countries N]
//
// Flags:
//
//	--data           Dataset file (.csv or .json); empty checks the embedded sample
//	--min-countries  Fail when fewer countries load (default: 2)
//	--strict         Fail when any series has missing years
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/rshade/co2cast/internal/dataset"
	"github.com/rshade/co2cast/internal/forecast"
)

// countryReport summarises one country's coverage.
type countryReport struct {
	Name      string
	CO2Span   string
	GDPSpan   string
	CO2Gaps   []int
	GDPGaps   []int
	Benchmark bool
}

func main() {
	data := flag.String("data", "", "Dataset file (.csv or .json); empty checks the embedded sample")
	minCountries := flag.Int("min-countries", 2, "Minimum number of countries expected")
	strict := flag.Bool("strict", false, "Fail when any series has missing years")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Timestamp().Str("component", "validate-dataset").Logger()

	store, err := dataset.LoadFile(*data, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}

	reports := inspect(store, forecast.DefaultParams())
	if err := printReports(os.Stdout, reports); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	if err := check(reports, *minCountries, *strict); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Validation passed")
}

// inspect builds a coverage report for every country in store order.
func inspect(store dataset.Store, p forecast.Params) []countryReport {
	names := store.Names()
	reports := make([]countryReport, 0, len(names))
	for _, name := range names {
		rec, _ := store.Get(name)
		reports = append(reports, countryReport{
			Name:      name,
			CO2Span:   span(rec.CO2),
			GDPSpan:   span(rec.GDP),
			CO2Gaps:   gaps(rec.CO2),
			GDPGaps:   gaps(rec.GDP),
			Benchmark: canBenchmark(rec, p),
		})
	}
	return reports
}

// canBenchmark reports whether rec has a GDP point inside the match window
// followed by the CO2 years a related-rates projection reads.
func canBenchmark(rec dataset.CountryRecord, p forecast.Params) bool {
	for _, point := range rec.GDP {
		if point.Year < p.MatchWindowStart || point.Year > p.MatchWindowEnd {
			continue
		}
		complete := true
		for year := point.Year; year <= point.Year+p.RateSteps; year++ {
			if _, ok := rec.CO2.Value(year); !ok {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

func span(s dataset.Series) string {
	if len(s) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", s[0].Year, s[len(s)-1].Year)
}

// gaps lists the years missing between the first and last point of s.
func gaps(s dataset.Series) []int {
	var missing []int
	for i := 1; i < len(s); i++ {
		for year := s[i-1].Year + 1; year < s[i].Year; year++ {
			missing = append(missing, year)
		}
	}
	return missing
}

func printReports(w io.Writer, reports []countryReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNTRY\tCO2 YEARS\tGDP YEARS\tGAPS\tBENCHMARK")
	for _, r := range reports {
		benchmark := "no"
		if r.Benchmark {
			benchmark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Name, r.CO2Span, r.GDPSpan, len(r.CO2Gaps)+len(r.GDPGaps), benchmark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Dataset stats: %d countries\n", len(reports))
	return err
}

func check(reports []countryReport, minCountries int, strict bool) error {
	if len(reports) < minCountries {
		return fmt.Errorf("only %d countries found, expected at least %d", len(reports), minCountries)
	}
	if !strict {
		return nil
	}
	for _, r := range reports {
		if len(r.CO2Gaps) > 0 {
			return fmt.Errorf("%s: CO2 series is missing years %v", r.Name, r.CO2Gaps)
		}
		if len(r.GDPGaps) > 0 {
			return fmt.Errorf("%s: GDP series is missing years %v", r.Name, r.GDPGaps)
		}
	}
	return nil
}
