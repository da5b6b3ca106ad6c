package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded transactions",
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "number of transactions to show")
	cmd.Flags().StringP("category", "c", "", "only show transactions in this category")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	category, _ := cmd.Flags().GetString("category")

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns := eng.History().Snapshot()
	if category != "" {
		filtered := txns[:0]
		for _, txn := range txns {
			if txn.Category == category {
				filtered = append(filtered, txn)
			}
		}
		txns = filtered
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[len(txns)-limit:]
	}

	fmt.Print(cli.RenderHistory(txns))
	return nil
}
