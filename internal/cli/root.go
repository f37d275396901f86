// Package cli implements the co2cast command tree.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/co2cast/internal/config"
	"github.com/rshade/co2cast/internal/dataset"
	"github.com/rshade/co2cast/internal/engine"
	"github.com/rshade/co2cast/internal/logging"
	"github.com/rshade/co2cast/internal/metrics"
	"github.com/rshade/co2cast/internal/report"
)

// Persistent flag names.
const (
	flagData        = "data"
	flagConfig      = "config"
	flagOutput      = "output"
	flagDebug       = "debug"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagMetricsFile = "metrics-file"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	cfg        config.Config
	logger     zerolog.Logger
	metrics    *metrics.Metrics

	eng *engine.Engine
}

// NewRootCmd creates the root command for the co2cast CLI.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "co2cast",
		Short: "Forecast national CO2 emissions",
		Long: `co2cast forecasts a country's CO2 emissions from its own history with a
weighted moving average, or from the emission growth of comparable countries
(related rates), and recommends which method suits the country.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(flagData, "", "dataset file (.csv or .json); empty uses the built-in sample")
	flags.StringVar(&a.configPath, flagConfig, "", "config file (default $"+config.EnvConfigPath+")")
	flags.StringP(flagOutput, "o", config.OutputTable, "output format: table or json")
	flags.Bool(flagDebug, false, "enable debug logging")
	flags.String(flagLogLevel, "info", "log level: trace, debug, info, warn, error")
	flags.String(flagLogFormat, logging.FormatConsole, "log format: console or json")
	flags.String(flagMetricsFile, "", "write Prometheus metrics to this file on exit")

	cmd.AddCommand(
		newWMACmd(a),
		newRelatedRatesCmd(a),
		newRecommendCmd(a),
		newPeriodCmd(a),
		newCountriesCmd(a),
		newConfigCmd(a),
	)
	a.finishAfter(cmd)

	return cmd
}

// finishAfter wraps the RunE of every command below root so the metrics
// textfile is written whether or not the command succeeds. Cobra skips
// post-run hooks after a failed RunE.
func (a *app) finishAfter(root *cobra.Command) {
	for _, c := range root.Commands() {
		a.finishAfter(c)
		if c.RunE == nil {
			continue
		}
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if ferr := a.finish(); ferr != nil {
				if err != nil {
					a.logger.Error().Err(ferr).Msg("metrics not written")
					return err
				}
				return ferr
			}
			return err
		}
	}
}

const rootCmdExample = `  # Forecast with a weighted moving average, choosing the window automatically
  co2cast wma Canada

  # Force a 4-year window
  co2cast wma "United Kingdom" --period 4

  # Forecast from comparable countries' emission growth
  co2cast related-rates India

  # Let co2cast choose the method
  co2cast recommend China -o json

  # Use your own dataset
  co2cast --data ./countries.csv countries`

// setup resolves configuration and builds the logger. The dataset is loaded
// lazily by engine so config subcommands never touch it.
func (a *app) setup(cmd *cobra.Command) error {
	bootstrap := logging.New(logging.Config{Level: "warn"}, cmd.ErrOrStderr())

	cfg, err := config.Load(a.configPath, bootstrap)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
	a.logger, _ = logging.WithRequestID(logger, "")
	a.metrics = metrics.New()

	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("dataset", datasetLabel(cfg.Dataset.Path)).
		Str("output", cfg.Output.Format).
		Msg("configuration resolved")
	return nil
}

// applyFlags copies explicitly set persistent flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed(flagData) {
		cfg.Dataset.Path, _ = flags.GetString(flagData)
	}
	if flags.Changed(flagOutput) {
		cfg.Output.Format, _ = flags.GetString(flagOutput)
	}
	if flags.Changed(flagLogLevel) {
		cfg.Logging.Level, _ = flags.GetString(flagLogLevel)
	}
	if flags.Changed(flagLogFormat) {
		cfg.Logging.Format, _ = flags.GetString(flagLogFormat)
	}
	if flags.Changed(flagMetricsFile) {
		cfg.Metrics.File, _ = flags.GetString(flagMetricsFile)
	}
	if debug, _ := flags.GetBool(flagDebug); debug {
		cfg.Logging.Level = zerolog.DebugLevel.String()
	}
}

// engine loads the dataset and builds the forecast engine on first use.
func (a *app) engine() (*engine.Engine, error) {
	if a.eng != nil {
		return a.eng, nil
	}

	store, err := dataset.LoadFile(a.cfg.Dataset.Path, logging.Component(a.logger, "dataset"))
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(store, a.cfg.Params(), a.logger, a.metrics)
	if err != nil {
		return nil, err
	}
	a.eng = eng
	return eng, nil
}

func (a *app) renderer(cmd *cobra.Command) (*report.Renderer, error) {
	format, err := report.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return report.New(cmd.OutOrStdout(), format), nil
}

// finish writes the metrics textfile when one is configured.
func (a *app) finish() error {
	if a.cfg.Metrics.File == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug().Str("path", a.cfg.Metrics.File).Msg("metrics written")
	return nil
}

func datasetLabel(path string) string {
	if path == "" {
		return "built-in sample"
	}
	return path
}
