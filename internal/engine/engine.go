// Package engine implements the category decision engine that blends
// lexical, semantic, and historical signals into one ranked decision.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wisefig/ledgerlens/internal/anomaly"
	"github.com/wisefig/ledgerlens/internal/common"
	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/scorer"
	"github.com/wisefig/ledgerlens/internal/service"
)

// Blend weights for combining lexical and semantic confidence. The fixed
// 0.4/0.6 split can produce a blended confidence higher than either
// individual signal; this is preserved for compatibility with the original
// scoring behavior.
const (
	lexicalBlendWeight  = 0.4
	semanticBlendWeight = 0.6
)

// Config holds configuration options for the decision engine.
type Config struct {
	Owner        string
	HistoryLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Owner:        "default",
		HistoryLimit: DefaultHistoryLimit,
	}
}

// DecisionEngine orchestrates the scorers and the anomaly detector.
// It is stateless per call apart from shared read access to the history.
type DecisionEngine struct {
	lexicalSolo    *scorer.LexicalScorer
	lexicalBlended *scorer.LexicalScorer
	semantic       *scorer.SemanticScorer
	historical     *scorer.HistoricalMatcher
	detector       *anomaly.Detector
	history        *History
	store          service.HistoryStore
	logger         *slog.Logger
	owner          string
}

// New creates a decision engine with default configuration. The embedder,
// outlier detector, and store may be nil; the engine degrades accordingly.
func New(embedder service.Embedder, outliers service.OutlierDetector, store service.HistoryStore, logger *slog.Logger) *DecisionEngine {
	return NewWithConfig(embedder, outliers, store, logger, DefaultConfig())
}

// NewWithConfig creates a decision engine with custom configuration.
func NewWithConfig(embedder service.Embedder, outliers service.OutlierDetector, store service.HistoryStore, logger *slog.Logger, cfg Config) *DecisionEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Owner == "" {
		cfg.Owner = "default"
	}

	return &DecisionEngine{
		lexicalSolo:    scorer.NewLexicalScorer(),
		lexicalBlended: scorer.NewLexicalScorerWithCap(scorer.BlendedCap),
		semantic:       scorer.NewSemanticScorer(embedder, logger),
		historical:     scorer.NewHistoricalMatcher(logger),
		detector:       anomaly.NewDetector(outliers, logger),
		history:        NewHistory(cfg.HistoryLimit),
		store:          store,
		logger:         logger,
		owner:          cfg.Owner,
	}
}

// History exposes the shared transaction history.
func (e *DecisionEngine) History() *History {
	return e.history
}

// Owner returns the history owner this engine operates on.
func (e *DecisionEngine) Owner() string {
	return e.owner
}

// LoadHistory loads the owner's persisted history into the ring and
// trains the historical matcher from it.
func (e *DecisionEngine) LoadHistory(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	txns, err := e.store.Load(ctx, e.owner)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	e.history.Replace(txns)
	e.historical.Retrain(e.history.Snapshot())

	e.logger.Info("history loaded", "owner", e.owner, "count", e.history.Len())
	return nil
}

// RefreshModel rebuilds the historical matcher's vector space from a
// snapshot of the current history. Concurrent Categorize calls keep using
// the previous model until the swap completes.
func (e *DecisionEngine) RefreshModel() {
	e.historical.Retrain(e.history.Snapshot())
}

// Categorize produces a category, confidence, and reasoning for a
// transaction description. Layered override order: lexical, then semantic
// blend, then historical override, then anomaly annotation. Historical
// evidence is trusted over generic keyword or semantic matching because it
// reflects the specific user's labeling behavior.
func (e *DecisionEngine) Categorize(ctx context.Context, description string, amount *float64, kindStr string) (model.CategorizationResult, error) {
	kind, err := model.ParseKind(kindStr)
	if err != nil {
		return model.CategorizationResult{}, fmt.Errorf("%w: %v", common.ErrInvalidKind, err)
	}

	semantic := e.scoreSemantic(ctx, description, kind)

	var result model.CategorizationResult
	if semantic != nil {
		lexical := e.lexicalBlended.Score(description, kind)
		blended := lexicalBlendWeight*lexical.Confidence + semanticBlendWeight*semantic.Confidence

		category := lexical.Category
		if semantic.Confidence > lexical.Confidence {
			category = semantic.Category
		}

		result = model.CategorizationResult{
			Category:   category,
			Confidence: blended,
			Reasoning:  lexical.Reasoning + "; " + semantic.Reasoning,
		}
	} else {
		lexical := e.lexicalSolo.Score(description, kind)
		result = model.CategorizationResult{
			Category:   lexical.Category,
			Confidence: lexical.Confidence,
			Reasoning:  lexical.Reasoning,
		}
	}

	// Historical evidence fully replaces the result when it is strictly
	// more confident. No blending.
	if historical := e.scoreHistorical(description); historical != nil && historical.Confidence > result.Confidence {
		result = model.CategorizationResult{
			Category:   historical.Category,
			Confidence: historical.Confidence,
			Reasoning:  historical.Reasoning,
		}
	}

	if amount != nil {
		prior := e.history.AmountsForCategory(result.Category)
		isAnomaly, score := e.detector.Evaluate(prior, *amount)
		result.IsAnomaly = isAnomaly
		result.AnomalyScore = score
	}

	result.Confidence = model.ClampConfidence(result.Confidence)

	e.logger.Debug("transaction categorized",
		"kind", kind,
		"category", result.Category,
		"confidence", result.Confidence,
		"anomaly", result.IsAnomaly)

	return result, nil
}

// RecordTransaction appends a labeled transaction to the shared history
// and persists it. The historical model is not retrained here; call
// RefreshModel out of band.
func (e *DecisionEngine) RecordTransaction(ctx context.Context, txn model.Transaction) error {
	if _, err := model.ParseKind(string(txn.Kind)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidKind, err)
	}
	if txn.Category == "" {
		txn.Category = model.FallbackCategory(txn.Kind)
	}
	if txn.Owner == "" {
		txn.Owner = e.owner
	}

	e.history.Append(txn)

	if e.store != nil {
		if err := e.store.Append(ctx, txn); err != nil {
			return fmt.Errorf("failed to persist transaction: %w", err)
		}
	}

	return nil
}

// scoreSemantic runs the semantic scorer, catching any internal failure
// and treating it as "no signal".
func (e *DecisionEngine) scoreSemantic(ctx context.Context, description string, kind model.TransactionKind) (signal *scorer.Signal) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("semantic scorer failed", "panic", r)
			signal = nil
		}
	}()
	return e.semantic.Score(ctx, description, kind)
}

// scoreHistorical runs the historical matcher, catching any internal
// failure and treating it as "no signal".
func (e *DecisionEngine) scoreHistorical(description string) (signal *scorer.Signal) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("historical matcher failed", "panic", r)
			signal = nil
		}
	}()
	return e.historical.Match(description)
}
