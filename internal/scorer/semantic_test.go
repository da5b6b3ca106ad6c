package scorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefig/ledgerlens/internal/model"
)

// fakeEmbedder returns canned vectors per input text and a default vector
// for everything else.
type fakeEmbedder struct {
	vectors    map[string][]float64
	defaultVec []float64
	err        error
	calls      int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return f.defaultVec, nil
}

func TestSemanticScorer_MatchesClosestPhrase(t *testing.T) {
	// The description embeds identically to the Petrol context phrase and
	// orthogonally to everything else.
	embedder := &fakeEmbedder{
		vectors: map[string][]float64{
			"topped up the tank":                     {1, 0, 0},
			"filling up the car at a gas station":    {1, 0, 0},
		},
		defaultVec: []float64{0, 1, 0},
	}

	scorer := NewSemanticScorer(embedder, nil)
	signal := scorer.Score(context.Background(), "topped up the tank", model.KindExpense)

	require.NotNil(t, signal)
	assert.Equal(t, "Petrol", signal.Category)
	assert.InDelta(t, semanticCap, signal.Confidence, 0.001)
	assert.Contains(t, signal.Reasoning, "semantically similar")
}

func TestSemanticScorer_BelowThresholdHasNoOpinion(t *testing.T) {
	// Query vector is orthogonal to every phrase vector.
	embedder := &fakeEmbedder{
		vectors: map[string][]float64{
			"mystery purchase": {0, 0, 1},
		},
		defaultVec: []float64{1, 0, 0},
	}

	scorer := NewSemanticScorer(embedder, nil)
	signal := scorer.Score(context.Background(), "mystery purchase", model.KindExpense)

	assert.Nil(t, signal)
}

func TestSemanticScorer_NilEmbedder(t *testing.T) {
	scorer := NewSemanticScorer(nil, nil)
	assert.Nil(t, scorer.Score(context.Background(), "anything", model.KindExpense))
}

func TestSemanticScorer_ProviderFailureFailsSoft(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("connection refused")}

	scorer := NewSemanticScorer(embedder, nil)
	signal := scorer.Score(context.Background(), "coffee shop", model.KindExpense)

	assert.Nil(t, signal)
}

func TestSemanticScorer_CachesPhraseEmbeddings(t *testing.T) {
	embedder := &fakeEmbedder{defaultVec: []float64{1, 1, 0}}
	scorer := NewSemanticScorer(embedder, nil)

	_ = scorer.Score(context.Background(), "weekly shop", model.KindExpense)
	afterFirst := embedder.calls

	_ = scorer.Score(context.Background(), "weekly shop again", model.KindExpense)

	// Second call embeds only the query; every context phrase is cached.
	assert.Equal(t, afterFirst+1, embedder.calls)
}
