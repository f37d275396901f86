package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// countryArg joins the positional arguments so multi-word country names work
// with or without quoting.
func countryArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func newWMACmd(a *app) *cobra.Command {
	var period int

	cmd := &cobra.Command{
		Use:   "wma <country>",
		Short: "Forecast with a weighted moving average",
		Long: `Forecasts the country's CO2 emissions with a weighted moving average whose
weights rise linearly toward the most recent year. Each predicted year is fed
back into the window for the next. The window length is the one with the
lowest historical mean absolute deviation unless --period is given.`,
		Example: `  co2cast wma Canada
  co2cast wma United Kingdom --period 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			result, err := eng.WMA(cmd.Context(), countryArg(args), period)
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.WMA(result)
		},
	}

	cmd.Flags().IntVar(&period, "period", 0, "window length in years, 2-9 (0 selects automatically)")
	return cmd
}

func newRelatedRatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "related-rates <country>",
		Aliases: []string{"rr"},
		Short:   "Forecast from comparable countries' emission growth",
		Long: `Finds countries whose GDP per capita once matched the target's latest level,
picks the closest by population and the closest by GDP growth rate, and
projects the target's emissions with their subsequent CO2 growth ratios.`,
		Example: `  co2cast related-rates India`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			country := countryArg(args)
			result, err := eng.RelatedRates(cmd.Context(), country)
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RelatedRates(result, country)
		},
	}
}

func newRecommendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <country>",
		Short: "Choose a forecasting method and run it",
		Long: `Averages the country's recent year-on-year CO2 changes. A mean change at least
as large as the volatility threshold selects related rates; anything smaller
selects the weighted moving average.`,
		Example: `  co2cast recommend China`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			rec, err := eng.Recommend(cmd.Context(), countryArg(args))
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Recommendation(rec, eng.Params().VolatilityThreshold)
		},
	}
}

func newPeriodCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "period <country>",
		Short:   "Show the mean absolute deviation of each WMA window length",
		Example: `  co2cast period Canada`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			country := countryArg(args)
			sel, err := eng.Period(cmd.Context(), country)
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Period(country, sel)
		},
	}
}

func newCountriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Countries(eng.Countries())
		},
	}
}
