package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize [description...]",
		Short: "Suggest a category for a transaction description",
		Long: `Run the scoring engine over a free-text description and print the
suggested category with its confidence and reasoning.

Examples:
  lens categorize "Shell gas station"
  lens categorize --kind income "freelance web project"
  lens categorize --amount 240.00 "weekly groceries at costco"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCategorize,
	}

	cmd.Flags().Float64P("amount", "a", 0, "transaction amount, enables anomaly checking")
	cmd.Flags().StringP("kind", "k", "expense", "transaction kind (expense, income)")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	description := strings.Join(args, " ")
	kind, _ := cmd.Flags().GetString("kind")

	var amount *float64
	if cmd.Flags().Changed("amount") {
		v, _ := cmd.Flags().GetFloat64("amount")
		amount = &v
	}

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := eng.Categorize(ctx, description, amount, kind)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderCategorization(description, result))
	return nil
}
