package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefig/ledgerlens/internal/common"
	"github.com/wisefig/ledgerlens/internal/model"
)

// constantEmbedder maps every text to the same vector, making every
// semantic comparison a perfect match.
type constantEmbedder struct{}

func (constantEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func TestDecisionEngine_InvalidKind(t *testing.T) {
	eng := New(nil, nil, nil, nil)

	_, err := eng.Categorize(context.Background(), "some purchase", nil, "transfer")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidKind)
}

func TestDecisionEngine_AlwaysProducesValidCategory(t *testing.T) {
	eng := New(nil, nil, nil, nil)

	descriptions := []string{
		"walmart grocery run",
		"completely unrecognizable text zxqv",
		"",
		"shell gas 42.00",
	}
	for _, desc := range descriptions {
		result, err := eng.Categorize(context.Background(), desc, nil, "expense")
		require.NoError(t, err)
		assert.Contains(t, model.CategoryNames(model.KindExpense), result.Category, "description %q", desc)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
		assert.NotEmpty(t, result.Reasoning)
	}
}

func TestDecisionEngine_LexicalOnlyWithoutEmbedder(t *testing.T) {
	eng := New(nil, nil, nil, nil)

	result, err := eng.Categorize(context.Background(), "shell gas station", nil, "expense")
	require.NoError(t, err)
	assert.Equal(t, "Petrol", result.Category)
	assert.Contains(t, result.Reasoning, "matched keywords")
}

func TestDecisionEngine_SemanticBlend(t *testing.T) {
	eng := New(constantEmbedder{}, nil, nil, nil)

	// With a constant embedder every phrase matches perfectly, so the
	// semantic signal is 0.95 on the first-declared category. The lexical
	// side falls back at 0.3, and the blend is the fixed 0.4/0.6 mix.
	result, err := eng.Categorize(context.Background(), "zxqv wvut", nil, "expense")
	require.NoError(t, err)

	wantConfidence := lexicalBlendWeight*0.3 + semanticBlendWeight*0.95
	assert.InDelta(t, wantConfidence, result.Confidence, 0.001)
	assert.Equal(t, "Rent", result.Category)
	assert.Contains(t, result.Reasoning, ";")
}

func TestDecisionEngine_HistoricalOverride(t *testing.T) {
	eng := New(nil, nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, eng.RecordTransaction(ctx, model.Transaction{
		Date:        time.Now(),
		Description: "netflix monthly subscription",
		Category:    "Extra",
		Kind:        model.KindExpense,
		Amount:      15.99,
	}))
	eng.RefreshModel()

	result, err := eng.Categorize(ctx, "netflix monthly subscription", nil, "expense")
	require.NoError(t, err)

	// The perfect historical match (0.9) beats the lexical fallback (0.3)
	// and fully replaces the result.
	assert.Equal(t, "Extra", result.Category)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.Contains(t, result.Reasoning, "similar to previous transaction")
}

func TestDecisionEngine_AnomalyAnnotation(t *testing.T) {
	eng := New(nil, nil, nil, nil)
	ctx := context.Background()

	for _, amount := range []float64{45.20, 52.10, 48.00, 61.35, 50.75} {
		require.NoError(t, eng.RecordTransaction(ctx, model.Transaction{
			Date:        time.Now(),
			Description: "weekly groceries",
			Category:    "Grocery",
			Kind:        model.KindExpense,
			Amount:      amount,
		}))
	}

	huge := 5000.0
	result, err := eng.Categorize(ctx, "walmart grocery run", &huge, "expense")
	require.NoError(t, err)
	require.Equal(t, "Grocery", result.Category)
	assert.True(t, result.IsAnomaly)
	assert.Negative(t, result.AnomalyScore)

	typical := 50.0
	result, err = eng.Categorize(ctx, "walmart grocery run", &typical, "expense")
	require.NoError(t, err)
	assert.False(t, result.IsAnomaly)
}

func TestDecisionEngine_AnomalyGateBelowFiveSamples(t *testing.T) {
	eng := New(nil, nil, nil, nil)
	ctx := context.Background()

	for _, amount := range []float64{45.20, 52.10, 48.00, 61.35} {
		require.NoError(t, eng.RecordTransaction(ctx, model.Transaction{
			Date:        time.Now(),
			Description: "weekly groceries",
			Category:    "Grocery",
			Kind:        model.KindExpense,
			Amount:      amount,
		}))
	}

	huge := 5000.0
	result, err := eng.Categorize(ctx, "walmart grocery run", &huge, "expense")
	require.NoError(t, err)
	assert.False(t, result.IsAnomaly)
	assert.Zero(t, result.AnomalyScore)
}

func TestDecisionEngine_RecordDefaultsCategoryAndOwner(t *testing.T) {
	eng := NewWithConfig(nil, nil, nil, nil, Config{Owner: "alice"})
	ctx := context.Background()

	require.NoError(t, eng.RecordTransaction(ctx, model.Transaction{
		Date:        time.Now(),
		Description: "something",
		Kind:        model.KindExpense,
		Amount:      10,
	}))

	snapshot := eng.History().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Extra", snapshot[0].Category)
	assert.Equal(t, "alice", snapshot[0].Owner)
}

func TestDecisionEngine_RecordRejectsInvalidKind(t *testing.T) {
	eng := New(nil, nil, nil, nil)

	err := eng.RecordTransaction(context.Background(), model.Transaction{
		Date:        time.Now(),
		Description: "bad",
		Kind:        "transfer",
		Amount:      10,
	})
	assert.ErrorIs(t, err, common.ErrInvalidKind)
}
