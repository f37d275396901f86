// Package config loads co2cast settings.
//
// Values are resolved in increasing precedence: built-in defaults, a YAML
// file, CO2CAST_* environment variables, then command-line flags (applied by
// the CLI after Load returns).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/co2cast/internal/forecast"
	"github.com/rshade/co2cast/internal/logging"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "CO2CAST_CONFIG"

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config is the full co2cast configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Forecast ForecastConfig `yaml:"forecast"`
	Logging  logging.Config `yaml:"logging"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatasetConfig locates the country dataset. An empty Path selects the
// embedded sample dataset.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// ForecastConfig mirrors forecast.Params.
type ForecastConfig struct {
	GDPTolerance        float64 `yaml:"gdp_tolerance"`
	VolatilityThreshold float64 `yaml:"volatility_threshold"`
	MatchWindowStart    int     `yaml:"match_window_start"`
	MatchWindowEnd      int     `yaml:"match_window_end"`
	Horizon             int     `yaml:"horizon"`
	MaxPeriod           int     `yaml:"max_period"`
	RateSteps           int     `yaml:"rate_steps"`
	HistoryPoints       int     `yaml:"history_points"`
}

// OutputConfig selects how results are rendered.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus textfile export. Empty File disables it.
type MetricsConfig struct {
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := forecast.DefaultParams()
	return Config{
		Forecast: ForecastConfig{
			GDPTolerance:        p.GDPTolerance,
			VolatilityThreshold: p.VolatilityThreshold,
			MatchWindowStart:    p.MatchWindowStart,
			MatchWindowEnd:      p.MatchWindowEnd,
			Horizon:             p.Horizon,
			MaxPeriod:           p.MaxPeriod,
			RateSteps:           p.RateSteps,
			HistoryPoints:       p.HistoryPoints,
		},
		Logging: logging.Config{Level: "info", Format: logging.FormatConsole},
		Output:  OutputConfig{Format: OutputTable},
	}
}

// Load resolves the configuration from defaults, the YAML file at path and
// the environment. An empty path falls back to $CO2CAST_CONFIG; when both
// are empty no file is read. A named file that does not exist is an error.
func Load(path string, logger zerolog.Logger) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		logger.Debug().Str("path", path).Msg("config file loaded")
	}

	ApplyEnv(&cfg, logger)
	return cfg, nil
}

// decode overlays YAML from r onto cfg. Unknown keys are rejected; an empty
// document leaves cfg unchanged.
func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid log format %q (want %s or %s)",
			c.Logging.Format, logging.FormatConsole, logging.FormatJSON)
	}
	switch c.Output.Format {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output.Format, OutputTable, OutputJSON)
	}
	return nil
}

// Params converts the forecast section to forecast.Params.
func (c Config) Params() forecast.Params {
	f := c.Forecast
	return forecast.Params{
		GDPTolerance:        f.GDPTolerance,
		VolatilityThreshold: f.VolatilityThreshold,
		MatchWindowStart:    f.MatchWindowStart,
		MatchWindowEnd:      f.MatchWindowEnd,
		Horizon:             f.Horizon,
		MaxPeriod:           f.MaxPeriod,
		RateSteps:           f.RateSteps,
		HistoryPoints:       f.HistoryPoints,
	}
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes c as YAML to path, creating parent directories. An
// existing file is only replaced when overwrite is set.
func (c Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	var b bytes.Buffer
	if err := c.Encode(&b); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, b.Bytes(), 0o644)
}
