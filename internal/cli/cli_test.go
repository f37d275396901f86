package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/co2cast/internal/cli"
	"github.com/rshade/co2cast/internal/config"
	"github.com/rshade/co2cast/internal/report"
)

// isolateEnv clears every CO2CAST_* variable for the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvConfigPath, config.EnvDataPath, config.EnvLogLevel, config.EnvLogFormat,
		config.EnvOutputFormat, config.EnvMetricsFile, config.EnvGDPTolerance,
		config.EnvVolatilityThreshold, config.EnvMatchWindowStart, config.EnvMatchWindowEnd,
		config.EnvHorizon, config.EnvMaxPeriod, config.EnvRateSteps, config.EnvHistoryPoints,
	} {
		t.Setenv(name, "")
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeDataset writes a two-country CSV dataset and returns its path.
func writeDataset(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("country,code,population,year,gdp_per_capita,co2\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "Atlantis,ATL,5000000,%d,%.2f,%.3f\n", 2010+i, 10000+100*float64(i), 100+2*float64(i))
		fmt.Fprintf(&b, "New Borealis,NBO,9000000,%d,%.2f,%.3f\n", 2010+i, 20000+50*float64(i), 300-float64(i))
	}
	path := filepath.Join(t.TempDir(), "countries.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestWMA_CustomDataset(t *testing.T) {
	isolateEnv(t)
	data := writeDataset(t)

	out, _, err := execute(t, "--data", data, "wma", "Atlantis", "--period", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Atlantis: weighted moving average forecast (period 3)")
	assert.Equal(t, 8, strings.Count(out, " observed\n"))
	assert.Equal(t, 5, strings.Count(out, " forecast\n"))
	assert.Contains(t, out, "2022")
}

func TestWMA_MultiWordCountry(t *testing.T) {
	isolateEnv(t)
	data := writeDataset(t)

	quoted, _, err := execute(t, "--data", data, "wma", "New Borealis")
	require.NoError(t, err)
	split, _, err := execute(t, "--data", data, "wma", "New", "Borealis")
	require.NoError(t, err)

	assert.Contains(t, quoted, "New Borealis: weighted moving average forecast")
	assert.Equal(t, quoted, split)
}

func TestWMA_SampleJSON(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "wma", "Canada", "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Country  string `json:"country"`
		Strategy string `json:"strategy"`
		Period   int    `json:"period"`
		Observed []struct {
			Year int `json:"year"`
		} `json:"observed"`
		Forecast []struct {
			Year  int     `json:"year"`
			Value float64 `json:"value"`
		} `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Canada", doc.Country)
	assert.Equal(t, "wma", doc.Strategy)
	assert.Equal(t, 2, doc.Period)
	assert.Len(t, doc.Observed, 28)
	require.Len(t, doc.Forecast, 5)
	for i, p := range doc.Forecast {
		assert.Equal(t, 2018+i, p.Year)
		assert.Positive(t, p.Value)
	}
}

func TestWMA_InvalidPeriod(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "wma", "Canada", "--period", "12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid moving average period")
}

func TestUnknownCountry(t *testing.T) {
	isolateEnv(t)

	for _, sub := range []string{"wma", "related-rates", "recommend", "period"} {
		t.Run(sub, func(t *testing.T) {
			_, _, err := execute(t, sub, "Narnia")
			require.Error(t, err)
			assert.Contains(t, err.Error(), `country not found: "Narnia"`)
		})
	}
}

func TestMissingCountryArgument(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "wma")
	assert.Error(t, err)
}

func TestRelatedRates(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "related-rates", "Canada")
	require.NoError(t, err)
	assert.Contains(t, out, "Canada: related rates forecast")
	assert.Contains(t, out, "Sweden")
	assert.Contains(t, out, "United States")
	assert.Contains(t, out, "DATASET")
}

func TestRelatedRates_NoComparableCountry(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "rr", "United States")
	require.NoError(t, err, "an empty result is not a failure")
	assert.Equal(t, fmt.Sprintf(report.NoComparableMessage, "United States")+"\n", out)
}

func TestRecommend(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		country  string
		strategy string
	}{
		{"Canada", "wma"},
		{"India", "related-rates"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			out, _, err := execute(t, "recommend", tt.country, "--output", "json")
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &doc))
			assert.Equal(t, tt.strategy, doc["strategy"])
			assert.Equal(t, tt.country, doc["country"])
		})
	}
}

func TestPeriod(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "period", "Canada")
	require.NoError(t, err)
	assert.Contains(t, out, "Canada: WMA period selection")
	assert.Equal(t, 1, strings.Count(out, "selected"))
}

func TestCountries(t *testing.T) {
	isolateEnv(t)
	data := writeDataset(t)

	out, _, err := execute(t, "countries", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Atlantis")
	assert.Contains(t, out, "New Borealis")
	assert.Contains(t, out, "2010-2017")
	assert.Contains(t, out, "2 countries")
}

func TestDatasetErrors(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "countries", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")

	unsupported := filepath.Join(t.TempDir(), "countries.xlsx")
	require.NoError(t, os.WriteFile(unsupported, []byte("x"), 0o600))
	_, _, err = execute(t, "countries", "--data", unsupported)
	require.Error(t, err)
}

func TestInvalidOutputFormat(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "countries", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestEnvironmentOutput(t *testing.T) {
	isolateEnv(t)
	t.Setenv(config.EnvOutputFormat, "json")

	out, _, err := execute(t, "countries")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))

	out, _, err = execute(t, "countries", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "COUNTRY", "flags override the environment")
}

func TestDebugLogging(t *testing.T) {
	isolateEnv(t)

	_, quiet, err := execute(t, "period", "Canada")
	require.NoError(t, err)
	assert.NotContains(t, quiet, "configuration resolved")

	_, logs, err := execute(t, "period", "Canada", "--debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"message":"configuration resolved"`)
	assert.Contains(t, logs, `"request_id"`)
}

func TestMetricsFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "co2cast.prom")

	_, _, err := execute(t, "wma", "Canada", "--metrics-file", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "co2cast_forecasts_total")
	assert.Contains(t, text, `strategy="wma"`)
	assert.Contains(t, text, "co2cast_dataset_countries 12")
}

func TestMetricsFile_FailedForecast(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "co2cast.prom")

	_, _, err := execute(t, "wma", "Atlantis", "--metrics-file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `country not found: "Atlantis"`)

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "metrics are written after a failed command")
	text := string(raw)
	assert.Contains(t, text, `co2cast_forecasts_total{status="error",strategy="wma"} 1`)
	assert.NotContains(t, text, `status="success"`)
}

func TestConfigShow(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "config", "show", "--data", "/srv/countries.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "path: /srv/countries.csv")
	assert.Contains(t, out, "volatility_threshold: 20")
	assert.Contains(t, out, "horizon: 5")
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "co2cast.yaml")

	out, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to "+path)

	_, _, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", path, "--force")
	require.NoError(t, err)

	out, _, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "gdp_tolerance: 100")
}
