package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/service"
)

// similarityThreshold is the minimum cosine similarity for the semantic
// scorer to voice an opinion.
const similarityThreshold = 0.3

// semanticCap bounds semantic confidence.
const semanticCap = 0.95

// SemanticScorer scores descriptions by embedding similarity against each
// category's context phrases. It fails soft: any provider failure yields
// "no opinion" rather than an error, so the decision engine can degrade to
// lexical scoring alone.
type SemanticScorer struct {
	embedder service.Embedder
	logger   *slog.Logger
	// Context phrases never change at runtime, so their embeddings are
	// cached after the first successful lookup.
	phraseCache map[string][]float64
	mu          sync.RWMutex
}

// NewSemanticScorer creates a semantic scorer backed by the given embedder.
// A nil embedder produces a scorer that never has an opinion.
func NewSemanticScorer(embedder service.Embedder, logger *slog.Logger) *SemanticScorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticScorer{
		embedder:    embedder,
		logger:      logger,
		phraseCache: make(map[string][]float64),
	}
}

// Score returns the best-matching category by embedding similarity, or nil
// when the provider is unavailable or no phrase clears the threshold.
func (s *SemanticScorer) Score(ctx context.Context, description string, kind model.TransactionKind) *Signal {
	if s.embedder == nil {
		return nil
	}

	queryVec, err := s.embedder.Embed(ctx, description)
	if err != nil {
		s.logger.Debug("embedding provider unavailable, skipping semantic scoring",
			"error", err)
		return nil
	}

	bestSim := 0.0
	bestCategory := ""
	bestPhrase := ""

	for _, def := range model.CategoriesFor(kind) {
		for _, phrase := range def.Context {
			phraseVec, err := s.phraseEmbedding(ctx, phrase)
			if err != nil {
				s.logger.Debug("failed to embed context phrase",
					"phrase", phrase,
					"error", err)
				continue
			}

			sim := cosineSimilarity(queryVec, phraseVec)
			if sim > bestSim {
				bestSim = sim
				bestCategory = def.Name
				bestPhrase = phrase
			}
		}
	}

	if bestSim <= similarityThreshold {
		return nil
	}

	confidence := bestSim
	if confidence > semanticCap {
		confidence = semanticCap
	}

	return &Signal{
		Category:   bestCategory,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("semantically similar to %q (%.2f)", bestPhrase, bestSim),
	}
}

// phraseEmbedding returns the cached embedding for a context phrase,
// computing and caching it on first use.
func (s *SemanticScorer) phraseEmbedding(ctx context.Context, phrase string) ([]float64, error) {
	s.mu.RLock()
	vec, ok := s.phraseCache[phrase]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, phrase)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.phraseCache[phrase] = vec
	s.mu.Unlock()

	return vec, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score zero.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
