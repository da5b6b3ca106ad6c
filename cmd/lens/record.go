package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
	"github.com/wisefig/ledgerlens/internal/model"
)

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [description...]",
		Short: "Record a transaction into your history",
		Long: `Save a transaction. Without --category the engine categorizes the
description first and records its suggestion.

Examples:
  lens record --amount 54.20 "costco groceries"
  lens record --amount 1200 --category Rent --date 2026-08-01 "august rent"
  lens record --amount 850 --kind income "freelance invoice"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecord,
	}

	cmd.Flags().Float64P("amount", "a", 0, "transaction amount (required)")
	cmd.Flags().StringP("kind", "k", "expense", "transaction kind (expense, income)")
	cmd.Flags().StringP("category", "c", "", "category label, inferred when omitted")
	cmd.Flags().StringP("date", "d", "", "transaction date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	description := strings.Join(args, " ")
	amount, _ := cmd.Flags().GetFloat64("amount")
	kindStr, _ := cmd.Flags().GetString("kind")
	category, _ := cmd.Flags().GetString("category")
	dateStr, _ := cmd.Flags().GetString("date")

	kind, err := model.ParseKind(kindStr)
	if err != nil {
		return err
	}

	date := time.Now()
	if dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
		}
	}

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if category == "" {
		result, err := eng.Categorize(ctx, description, &amount, kindStr)
		if err != nil {
			return err
		}
		category = result.Category
		fmt.Print(cli.RenderCategorization(description, result))
	} else if !model.IsValidCategory(kind, category) {
		return fmt.Errorf("unknown %s category %q, run 'lens categories' to list them", kind, category)
	}

	txn := model.Transaction{
		Date:        date,
		Description: description,
		Category:    category,
		Kind:        kind,
		Amount:      amount,
	}
	txn.ID = txn.GenerateHash()

	if err := eng.RecordTransaction(ctx, txn); err != nil {
		return err
	}
	eng.RefreshModel()

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Recorded %s $%.2f as %s", kind, amount, category)))
	return nil
}
