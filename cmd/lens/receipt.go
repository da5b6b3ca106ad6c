package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wisefig/ledgerlens/internal/cli"
	"github.com/wisefig/ledgerlens/internal/receipt"
)

func receiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt [image file]",
		Short: "Extract vendor, amount, and date from a receipt image",
		Long: `Read a photographed or scanned receipt and extract structured fields.
Requires tesseract-ocr to be installed.

Examples:
  lens receipt ~/scans/grocery-run.jpg
  lens receipt --raw ~/scans/dinner.png`,
		Args: cobra.ExactArgs(1),
		RunE: runReceipt,
	}

	cmd.Flags().Bool("raw", false, "also print the raw OCR text")

	return cmd
}

func runReceipt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	showRaw, _ := cmd.Flags().GetBool("raw")

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	ocr, err := buildOCR()
	if err != nil {
		return err
	}

	eng, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pipeline := receipt.NewPipeline(ocr, eng, slog.Default())
	extraction, err := pipeline.Extract(ctx, imageData)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderReceipt(extraction))
	if showRaw && extraction.RawText != "" {
		fmt.Println(cli.SubtleStyle.Render("--- raw text ---"))
		fmt.Println(extraction.RawText)
	}

	return nil
}
