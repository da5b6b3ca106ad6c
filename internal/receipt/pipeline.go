// Package receipt implements the receipt image extraction pipeline:
// preprocessing, OCR, and structured field parsing. Every stage degrades
// rather than aborts; a failed stage simply leaves its field absent and
// lowers the aggregate confidence.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/wisefig/ledgerlens/internal/common"
	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/service"
)

// Confidence weights for the extracted fields. OCR quality contributes
// proportionally; each successfully parsed field adds a fixed increment.
const (
	ocrConfidenceWeight = 0.3
	amountWeight        = 0.4
	dateWeight          = 0.3
	vendorWeight        = 0.3
)

// Categorizer re-scores a vendor name through the main categorization
// path. It is the subset of the decision engine the pipeline needs.
type Categorizer interface {
	Categorize(ctx context.Context, description string, amount *float64, kind string) (model.CategorizationResult, error)
}

// Pipeline runs the extraction stages in order over one receipt image.
type Pipeline struct {
	ocr         service.TextExtractor
	categorizer Categorizer
	logger      *slog.Logger
	now         func() time.Time
}

// NewPipeline creates a pipeline. The categorizer is optional; when nil,
// categories come only from the vendor table and keyword buckets.
func NewPipeline(ocr service.TextExtractor, categorizer Categorizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ocr:         ocr,
		categorizer: categorizer,
		logger:      logger,
		now:         time.Now,
	}
}

// Extract decodes and processes a receipt image into structured fields.
// The only hard failures are undecodable image bytes and a missing OCR
// backend; everything after that degrades field by field. An empty OCR
// result is a valid terminal outcome with zero confidence, not an error.
func (p *Pipeline) Extract(ctx context.Context, imageData []byte) (model.ReceiptExtraction, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return model.ReceiptExtraction{}, fmt.Errorf("%w: %v", common.ErrInvalidImage, err)
	}
	p.logger.Debug("receipt image decoded", "format", format, "width", img.Bounds().Dx())

	processed := Preprocess(img)

	encoded, err := encodePNG(processed)
	if err != nil {
		p.logger.Warn("failed to re-encode preprocessed image, using original bytes", "error", err)
		encoded = imageData
	}

	text, ocrConfidence, err := p.extractText(ctx, encoded)
	if err != nil {
		return model.ReceiptExtraction{}, err
	}

	result := model.ReceiptExtraction{
		RawText:  text,
		Category: model.FallbackExpenseCategory,
	}
	if text == "" {
		p.logger.Info("no text found on receipt")
		return result, nil
	}

	confidence := ocrConfidence * ocrConfidenceWeight

	if amount := ExtractAmount(text); amount != nil {
		result.Amount = amount
		confidence += amountWeight
	}

	if date := ExtractDate(text, p.now()); date != nil {
		result.Date = date
		confidence += dateWeight
	}

	vendor, category := ExtractVendor(text)
	if vendor != "" {
		result.Vendor = vendor
		confidence += vendorWeight

		switch {
		case category != "":
			result.Category = category
		default:
			result.Category = p.categorizeVendor(ctx, vendor, result.Amount)
		}
	}

	result.Confidence = model.ClampConfidence(confidence)

	p.logger.Debug("receipt extracted",
		"vendor", result.Vendor,
		"category", result.Category,
		"has_amount", result.Amount != nil,
		"has_date", result.Date != nil,
		"confidence", result.Confidence)

	return result, nil
}

// extractText runs OCR, treating provider failure as "no text" so the
// caller still receives the decoded-but-unreadable terminal result.
func (p *Pipeline) extractText(ctx context.Context, imageData []byte) (string, float64, error) {
	if p.ocr == nil {
		return "", 0, fmt.Errorf("%w: no OCR backend configured", common.ErrProviderUnavailable)
	}

	res, err := p.ocr.ExtractText(ctx, imageData)
	if err != nil {
		p.logger.Warn("text extraction failed", "error", err)
		return "", 0, nil
	}
	return res.Text, res.Confidence, nil
}

// categorizeVendor asks the decision engine to categorize an unknown
// vendor name, falling back to keyword buckets when the engine is absent
// or declines.
func (p *Pipeline) categorizeVendor(ctx context.Context, vendor string, amount *float64) string {
	suggested := SuggestCategory(vendor)
	if p.categorizer == nil {
		return suggested
	}

	res, err := p.categorizer.Categorize(ctx, vendor, amount, string(model.KindExpense))
	if err != nil {
		p.logger.Warn("vendor re-categorization failed", "vendor", vendor, "error", err)
		return suggested
	}
	return res.Category
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
