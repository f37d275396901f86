package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Environment variables read by ApplyEnv.
const (
	EnvDataPath            = "CO2CAST_DATA"
	EnvLogLevel            = "CO2CAST_LOG_LEVEL"
	EnvLogFormat           = "CO2CAST_LOG_FORMAT"
	EnvOutputFormat        = "CO2CAST_OUTPUT"
	EnvMetricsFile         = "CO2CAST_METRICS_FILE"
	EnvGDPTolerance        = "CO2CAST_GDP_TOLERANCE"
	EnvVolatilityThreshold = "CO2CAST_VOLATILITY_THRESHOLD"
	EnvMatchWindowStart    = "CO2CAST_MATCH_WINDOW_START"
	EnvMatchWindowEnd      = "CO2CAST_MATCH_WINDOW_END"
	EnvHorizon             = "CO2CAST_HORIZON"
	EnvMaxPeriod           = "CO2CAST_MAX_PERIOD"
	EnvRateSteps           = "CO2CAST_RATE_STEPS"
	EnvHistoryPoints       = "CO2CAST_HISTORY_POINTS"
)

// ApplyEnv overlays CO2CAST_* environment variables onto cfg. A value that
// does not parse is logged and the current setting is kept.
func ApplyEnv(cfg *Config, logger zerolog.Logger) {
	envString(EnvDataPath, &cfg.Dataset.Path)
	envString(EnvLogLevel, &cfg.Logging.Level)
	envString(EnvLogFormat, &cfg.Logging.Format)
	envString(EnvOutputFormat, &cfg.Output.Format)
	envString(EnvMetricsFile, &cfg.Metrics.File)

	f := &cfg.Forecast
	envFloat(logger, EnvGDPTolerance, &f.GDPTolerance)
	envFloat(logger, EnvVolatilityThreshold, &f.VolatilityThreshold)
	envInt(logger, EnvMatchWindowStart, &f.MatchWindowStart)
	envInt(logger, EnvMatchWindowEnd, &f.MatchWindowEnd)
	envInt(logger, EnvHorizon, &f.Horizon)
	envInt(logger, EnvMaxPeriod, &f.MaxPeriod)
	envInt(logger, EnvRateSteps, &f.RateSteps)
	envInt(logger, EnvHistoryPoints, &f.HistoryPoints)
}

func envString(name string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func envInt(logger zerolog.Logger, name string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn().Str("value", raw).Int("current", *dst).Msgf("invalid %s, keeping current value", name)
		return
	}
	*dst = parsed
}

func envFloat(logger zerolog.Logger, name string, dst *float64) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warn().Str("value", raw).Float64("current", *dst).Msgf("invalid %s, keeping current value", name)
		return
	}
	*dst = parsed
}
