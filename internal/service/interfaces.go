// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/wisefig/ledgerlens/internal/model"
)

// HistoryStore is the contract for persisting a user's transaction history.
// The core only requires load-all, append, and replace-all semantics; the
// storage layout behind them is the implementation's concern.
type HistoryStore interface {
	Load(ctx context.Context, owner string) ([]model.Transaction, error)
	Append(ctx context.Context, txn model.Transaction) error
	ReplaceAll(ctx context.Context, owner string, txns []model.Transaction) error
	Close() error
}

// OCRResult is the raw output of a text extraction pass.
type OCRResult struct {
	Text string
	// Confidence is the provider's mean per-token confidence, normalized
	// to [0, 1].
	Confidence float64
}

// TextExtractor extracts raw text from an encoded image.
// Implementations must honor ctx deadlines; a timeout is reported as an
// error and treated upstream as provider-unavailable.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (OCRResult, error)
}

// Embedder produces a fixed-length vector for a text span.
// Implementations return common.ErrProviderUnavailable (possibly wrapped)
// when the backing model cannot be reached.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// DailyPoint is one day of aggregated spending, input to forecasting.
type DailyPoint struct {
	Date   time.Time
	Amount float64
}

// Forecaster predicts spending over a forward horizon from a daily series.
type Forecaster interface {
	Forecast(ctx context.Context, series []DailyPoint, horizonDays int) (model.ForecastResult, error)
}

// OutlierDetector scores how atypical a candidate value is relative to a
// sample distribution. A negative score with isOutlier=true marks an
// anomaly. Implementations must be deterministic for identical input.
type OutlierDetector interface {
	Score(samples []float64, candidate float64) (isOutlier bool, score float64)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
