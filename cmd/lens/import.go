package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Each transaction is categorized by the engine as it is imported, and
duplicates (same date, amount, and description) are skipped.

Examples:
  lens import ~/Downloads/statement_jan.qfx
  lens import ~/Downloads/*.qfx
  lens import --dry-run ~/Downloads/statement_jan.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	seen := make(map[string]bool)
	for _, txn := range eng.History().Snapshot() {
		seen[txn.GenerateHash()] = true
	}

	parser := ofx.NewParser()
	var pending []model.Transaction
	var duplicates int

	for _, file := range allFiles {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file, err)
		}

		txns, err := parser.ParseFile(f, eng.Owner())
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}

		for _, txn := range txns {
			hash := txn.GenerateHash()
			if seen[hash] {
				duplicates++
				continue
			}
			seen[hash] = true
			pending = append(pending, txn)
		}
	}

	if dryRun {
		fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
			"Dry run: would import %d transactions (%d duplicates skipped)", len(pending), duplicates)))
		return nil
	}
	if len(pending) == 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
			"Nothing to import (%d duplicates skipped)", duplicates)))
		return nil
	}

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
	)

	imported := 0
	for _, txn := range pending {
		result, err := eng.Categorize(ctx, txn.Description, &txn.Amount, string(txn.Kind))
		if err != nil {
			slog.Warn("failed to categorize imported transaction",
				"description", txn.Description,
				"error", err)
		} else {
			txn.Category = result.Category
		}

		if err := eng.RecordTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	eng.RefreshModel()

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
		"✓ Imported %d transactions from %d files (%d duplicates skipped)",
		imported, len(allFiles), duplicates)))
	return nil
}
