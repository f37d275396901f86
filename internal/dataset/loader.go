package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Required CSV columns. Column order in the file is free; the header names them.
const (
	colCountry    = "country"
	colCode       = "code"
	colPopulation = "population"
	colYear       = "year"
	colGDP        = "gdp_per_capita"
	colCO2        = "co2"
)

var requiredColumns = []string{colCountry, colCode, colPopulation, colYear, colGDP, colCO2}

// sampleCSV is a small synthetic dataset used when no dataset path is configured.
//
//go:embed data/sample_countries.csv
var sampleCSV []byte

// LoadSample parses the embedded sample dataset.
func LoadSample(logger zerolog.Logger) (*MemoryStore, error) {
	return LoadCSV(bytes.NewReader(sampleCSV), logger)
}

// LoadFile loads a dataset from path, choosing the parser by file extension
// (".csv" or ".json"). An empty path loads the embedded sample dataset.
func LoadFile(path string, logger zerolog.Logger) (*MemoryStore, error) {
	if path == "" {
		logger.Debug().Msg("no dataset path configured, using embedded sample dataset")
		return LoadSample(logger)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	var store *MemoryStore
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		store, err = LoadCSV(f, logger)
	case ".json":
		store, err = LoadJSON(f, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logger.Debug().
		Str("path", path).
		Int("countries", store.Len()).
		Msg("dataset loaded")
	return store, nil
}

// countryBuilder accumulates CSV rows for one country.
type countryBuilder struct {
	record CountryRecord
	gdp    map[int]float64
	co2    map[int]float64
}

// LoadCSV parses a long-form CSV dataset with one row per (country, year).
// Malformed rows are skipped and logged at warn level. Countries keep the
// order of their first appearance in the file; the population of the latest
// row wins.
func LoadCSV(r io.Reader, logger zerolog.Logger) (*MemoryStore, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	builders := make(map[string]*countryBuilder)
	var order []string
	latestYear := make(map[string]int)
	skipped := 0
	line := 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			skipped++
			logger.Warn().Err(err).Int("line", line).Msg("skipping malformed dataset row")
			continue
		}

		name := strings.TrimSpace(row[cols[colCountry]])
		year, yearErr := strconv.Atoi(strings.TrimSpace(row[cols[colYear]]))
		population, popErr := strconv.ParseInt(strings.TrimSpace(row[cols[colPopulation]]), 10, 64)
		gdp, gdpErr := strconv.ParseFloat(strings.TrimSpace(row[cols[colGDP]]), 64)
		co2, co2Err := strconv.ParseFloat(strings.TrimSpace(row[cols[colCO2]]), 64)

		if name == "" || yearErr != nil || popErr != nil || gdpErr != nil || co2Err != nil ||
			population <= 0 || gdp <= 0 || co2 < 0 {
			skipped++
			logger.Warn().
				Int("line", line).
				Str("country", name).
				Msg("skipping dataset row with invalid values")
			continue
		}

		b, ok := builders[name]
		if !ok {
			b = &countryBuilder{
				record: CountryRecord{Name: name, Code: strings.TrimSpace(row[cols[colCode]])},
				gdp:    make(map[int]float64),
				co2:    make(map[int]float64),
			}
			builders[name] = b
			order = append(order, name)
		}
		if _, seen := latestYear[name]; !seen || year >= latestYear[name] {
			latestYear[name] = year
			b.record.Population = population
		}
		b.gdp[year] = gdp
		b.co2[year] = co2
	}

	if skipped > 0 {
		logger.Warn().Int("skipped_rows", skipped).Msg("dataset rows skipped during load")
	}
	if len(order) == 0 {
		return nil, ErrEmptyDataset
	}

	records := make([]CountryRecord, 0, len(order))
	for _, name := range order {
		b := builders[name]
		b.record.GDP = NewSeries(b.gdp)
		b.record.CO2 = NewSeries(b.co2)
		records = append(records, b.record)
	}
	return NewMemoryStore(records...)
}

// columnIndex maps required column names to their header positions.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}
	return cols, nil
}

// jsonDataset is the JSON document shape accepted by LoadJSON.
type jsonDataset struct {
	Countries []jsonCountry `json:"countries"`
}

type jsonCountry struct {
	Name       string             `json:"name"`
	Code       string             `json:"code"`
	Population int64              `json:"population"`
	GDP        map[string]float64 `json:"gdp"`
	CO2        map[string]float64 `json:"co2"`
}

// LoadJSON parses a JSON dataset of the form
//
//	{"countries": [{"name": "Canada", "code": "CAN", "population": 36540000,
//	  "gdp": {"2016": 44000.5}, "co2": {"2016": 540.1}}]}
//
// Records keep document order. Countries without a name or a positive
// population are skipped, as are year entries with a non-positive GDP or a
// negative CO2 value; each skip is logged at warn level. A year key that is
// not an integer is an error.
func LoadJSON(r io.Reader, logger zerolog.Logger) (*MemoryStore, error) {
	var doc jsonDataset
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	records := make([]CountryRecord, 0, len(doc.Countries))
	skipped := 0
	for i, c := range doc.Countries {
		gdp, err := yearKeyed(c.GDP)
		if err != nil {
			return nil, fmt.Errorf("country %q gdp: %w", c.Name, err)
		}
		co2, err := yearKeyed(c.CO2)
		if err != nil {
			return nil, fmt.Errorf("country %q co2: %w", c.Name, err)
		}

		name := strings.TrimSpace(c.Name)
		if name == "" || c.Population <= 0 {
			skipped++
			logger.Warn().
				Int("index", i).
				Str("country", name).
				Int64("population", c.Population).
				Msg("skipping dataset country with invalid values")
			continue
		}
		skipped += dropInvalid(logger, name, "gdp", gdp, func(v float64) bool { return v > 0 })
		skipped += dropInvalid(logger, name, "co2", co2, func(v float64) bool { return v >= 0 })

		records = append(records, CountryRecord{
			Name:       name,
			Code:       strings.TrimSpace(c.Code),
			Population: c.Population,
			GDP:        NewSeries(gdp),
			CO2:        NewSeries(co2),
		})
	}

	if skipped > 0 {
		logger.Warn().Int("skipped_entries", skipped).Msg("dataset entries skipped during load")
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return NewMemoryStore(records...)
}

// dropInvalid deletes the years of values that fail valid and returns how
// many were removed.
func dropInvalid(logger zerolog.Logger, country, field string, values map[int]float64, valid func(float64) bool) int {
	dropped := 0
	for year, v := range values {
		if valid(v) {
			continue
		}
		delete(values, year)
		dropped++
		logger.Warn().
			Str("country", country).
			Str("field", field).
			Int("year", year).
			Float64("value", v).
			Msg("skipping dataset value")
	}
	return dropped
}

func yearKeyed(in map[string]float64) (map[int]float64, error) {
	out := make(map[int]float64, len(in))
	for key, value := range in {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", key, err)
		}
		out[year] = value
	}
	return out, nil
}
