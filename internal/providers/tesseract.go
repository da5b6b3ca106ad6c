// Package providers holds the external service clients: the tesseract OCR
// wrapper and the HTTP embedding client. Both are pluggable behind the
// interfaces in the service package and both degrade cleanly when the
// backing service is missing.
package providers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wisefig/ledgerlens/internal/service"
)

const tesseractTimeout = 30 * time.Second

// ocrProfiles are the page-segmentation modes tried in order. Receipts
// vary between single-column blocks and sparse text, so several passes
// run and the one with the best mean word confidence wins.
var ocrProfiles = []string{"6", "4", "11"}

// TesseractConfig configures the OCR wrapper.
type TesseractConfig struct {
	// BinaryPath overrides the tesseract executable location.
	BinaryPath string
	// Language is the tesseract language pack, default "eng".
	Language string
}

// Tesseract extracts text from receipt images by shelling out to the
// tesseract CLI. It implements service.TextExtractor.
type Tesseract struct {
	binaryPath string
	language   string
	logger     *slog.Logger
}

// NewTesseract creates the OCR wrapper, verifying the binary exists up
// front so a missing install surfaces at startup rather than on the first
// receipt.
func NewTesseract(cfg TesseractConfig, logger *slog.Logger) (*Tesseract, error) {
	if logger == nil {
		logger = slog.Default()
	}

	binaryPath := cfg.BinaryPath
	if binaryPath == "" {
		binaryPath = "tesseract"
	}
	if _, err := exec.LookPath(binaryPath); err != nil {
		return nil, fmt.Errorf("tesseract not found at %s: install tesseract-ocr", binaryPath)
	}

	language := cfg.Language
	if language == "" {
		language = "eng"
	}

	go cleanupTempImages()

	return &Tesseract{
		binaryPath: binaryPath,
		language:   language,
		logger:     logger,
	}, nil
}

// ExtractText runs OCR over the image with each profile and returns the
// pass with the highest mean word confidence.
func (t *Tesseract) ExtractText(ctx context.Context, image []byte) (service.OCRResult, error) {
	tmpFile, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return service.OCRResult{}, fmt.Errorf("failed to create temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.Write(image); err != nil {
		_ = tmpFile.Close()
		return service.OCRResult{}, fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return service.OCRResult{}, fmt.Errorf("failed to close temp image: %w", err)
	}

	var best service.OCRResult
	var lastErr error
	for _, psm := range ocrProfiles {
		result, err := t.runProfile(ctx, tmpFile.Name(), psm)
		if err != nil {
			lastErr = err
			t.logger.Debug("ocr profile failed", "psm", psm, "error", err)
			continue
		}
		if result.Confidence > best.Confidence || best.Text == "" {
			best = result
		}
	}

	if best.Text == "" && lastErr != nil {
		return service.OCRResult{}, lastErr
	}

	t.logger.Debug("ocr complete", "chars", len(best.Text), "confidence", best.Confidence)
	return best, nil
}

// runProfile executes one tesseract pass in TSV mode, which carries a
// per-word confidence column alongside the text.
func (t *Tesseract) runProfile(ctx context.Context, imagePath, psm string) (service.OCRResult, error) {
	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, tesseractTimeout)
		defer cancel()
	}

	args := []string{
		imagePath, "stdout",
		"-l", t.language,
		"--psm", psm,
		"tsv",
	}
	cmd := exec.CommandContext(cmdCtx, t.binaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return service.OCRResult{}, fmt.Errorf("tesseract error: %s", strings.TrimSpace(stderr.String()))
		}
		return service.OCRResult{}, fmt.Errorf("failed to execute tesseract: %w", err)
	}

	return parseTSV(stdout.String()), nil
}

// parseTSV rebuilds line-structured text from tesseract's TSV output and
// averages the word confidences. Tesseract reports confidence 0-100 with
// -1 for non-word rows.
func parseTSV(output string) service.OCRResult {
	var text strings.Builder
	var confSum float64
	var confCount int

	prevLine := ""
	for _, row := range strings.Split(output, "\n") {
		cols := strings.Split(row, "\t")
		if len(cols) < 12 || cols[0] == "level" {
			continue
		}

		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		// Columns 1-4 identify page/block/paragraph/line; a change starts a
		// new output line.
		lineKey := strings.Join(cols[1:5], ":")
		if prevLine != "" && lineKey != prevLine {
			text.WriteByte('\n')
		} else if prevLine != "" {
			text.WriteByte(' ')
		}
		prevLine = lineKey

		text.WriteString(word)
		confSum += conf
		confCount++
	}

	result := service.OCRResult{Text: strings.TrimSpace(text.String())}
	if confCount > 0 {
		result.Confidence = confSum / float64(confCount) / 100
	}
	return result
}

// cleanupTempImages removes stale receipt temp files older than a day.
// Crashed runs can leave them behind.
func cleanupTempImages() {
	pattern := filepath.Join(os.TempDir(), "receipt-*.png")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err == nil && info.ModTime().Before(cutoff) {
			_ = os.Remove(path)
		}
	}
}
