package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
	"github.com/wisefig/ledgerlens/internal/insights"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Predict spending over the coming days",
		Long: `Forecast future spend from your daily spending history. Needs at
least 10 days of recorded expenses before it will extrapolate.

Examples:
  lens forecast
  lens forecast --days 14
  lens forecast --category Grocery`,
		RunE: runForecast,
	}

	cmd.Flags().IntP("days", "d", 30, "forecast horizon in days")
	cmd.Flags().StringP("category", "c", "", "restrict the forecast to one category")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	days, _ := cmd.Flags().GetInt("days")
	category, _ := cmd.Flags().GetString("category")

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analyzer := insights.New(nil, nil, slog.Default())
	result := analyzer.PredictSpending(ctx, eng.History().Snapshot(), category, days)

	fmt.Print(cli.RenderForecast(result, days))
	return nil
}
