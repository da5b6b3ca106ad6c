package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
	"github.com/wisefig/ledgerlens/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the known expense and income categories",
		RunE:  runCategories,
	}

	cmd.Flags().StringP("kind", "k", "", "only list one kind (expense, income)")

	return cmd
}

func runCategories(cmd *cobra.Command, _ []string) error {
	kinds := []model.TransactionKind{model.KindExpense, model.KindIncome}
	if kindStr, _ := cmd.Flags().GetString("kind"); kindStr != "" {
		kind, err := model.ParseKind(kindStr)
		if err != nil {
			return err
		}
		kinds = []model.TransactionKind{kind}
	}

	for _, kind := range kinds {
		label := strings.ToUpper(string(kind)[:1]) + string(kind)[1:]
		fmt.Println(cli.TitleStyle.Render(label + " categories"))
		for _, def := range model.CategoriesFor(kind) {
			keywords := strings.Join(def.Keywords, ", ")
			fmt.Printf("  %s %s\n",
				cli.BoldStyle.Render(fmt.Sprintf("%-12s", def.Name)),
				cli.SubtleStyle.Render(keywords))
		}
		fmt.Println()
	}
	return nil
}
