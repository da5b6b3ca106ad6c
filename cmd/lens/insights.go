package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wisefig/ledgerlens/internal/cli"
	"github.com/wisefig/ledgerlens/internal/insights"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Analyze your history for patterns, anomalies, and recommendations",
		Long: `Run every analysis over your recorded transactions: weekday patterns,
category concentration, unusual amounts, seasonality, budget deviations,
and a 30-day outlook. Budget targets come from the "budgets" section of
the config file, e.g.:

  budgets:
    Grocery: 500
    Food: 250

or from repeated --budget flags, which override the config:

  lens insights --budget Grocery=500 --budget Food=250`,
		RunE: runInsights,
	}

	cmd.Flags().StringArrayP("budget", "b", nil, "budget target as Category=Amount (repeatable)")

	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	budgets := make(map[string]float64)
	for category, value := range viper.GetStringMap("budgets") {
		switch v := value.(type) {
		case float64:
			budgets[category] = v
		case int:
			budgets[category] = float64(v)
		}
	}

	overrides, _ := cmd.Flags().GetStringArray("budget")
	for _, pair := range overrides {
		name, amountStr, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid budget %q, expected Category=Amount", pair)
		}
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return fmt.Errorf("invalid budget amount in %q: %w", pair, err)
		}
		budgets[name] = amount
	}

	analyzer := insights.New(nil, nil, slog.Default())
	findings := analyzer.Generate(ctx, eng.History().Snapshot(), budgets)

	fmt.Print(cli.RenderInsights(findings))
	return nil
}
