package scorer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefig/ledgerlens/internal/model"
)

func TestHistoricalMatcher_ExactRepeatMatches(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain([]model.Transaction{
		{Description: "netflix monthly subscription", Category: "Extra"},
		{Description: "shell station fill up", Category: "Petrol"},
	})

	signal := matcher.Match("netflix monthly subscription")
	require.NotNil(t, signal)
	assert.Equal(t, "Extra", signal.Category)
	// An identical description is a perfect cosine match, capped at 0.9.
	assert.InDelta(t, 0.9, signal.Confidence, 0.001)
	assert.Contains(t, signal.Reasoning, "netflix monthly subscription")
}

func TestHistoricalMatcher_PartialOverlapMatches(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain([]model.Transaction{
		{Description: "netflix monthly subscription", Category: "Extra"},
		{Description: "kroger weekly groceries", Category: "Grocery"},
	})

	signal := matcher.Match("monthly subscription")
	require.NotNil(t, signal)
	assert.Equal(t, "Extra", signal.Category)
	assert.Greater(t, signal.Confidence, historicalThreshold)
}

func TestHistoricalMatcher_DissimilarHasNoOpinion(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain([]model.Transaction{
		{Description: "netflix monthly subscription", Category: "Extra"},
	})

	assert.Nil(t, matcher.Match("gym membership renewal"))
}

func TestHistoricalMatcher_EmptyHistory(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)

	assert.Nil(t, matcher.Match("anything at all"))

	matcher.Retrain(nil)
	assert.Nil(t, matcher.Match("anything at all"))
}

func TestHistoricalMatcher_IgnoresUnlabeledEntries(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain([]model.Transaction{
		{Description: "mystery merchant", Category: ""},
	})

	assert.Nil(t, matcher.Match("mystery merchant"))
}

func TestHistoricalMatcher_RetrainReplacesModel(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain([]model.Transaction{
		{Description: "costco bulk shopping", Category: "Grocery"},
	})
	require.NotNil(t, matcher.Match("costco bulk shopping"))

	// After retraining on different history the old document is gone.
	matcher.Retrain([]model.Transaction{
		{Description: "planet fitness dues", Category: "Gym"},
	})
	assert.Nil(t, matcher.Match("costco bulk shopping"))

	signal := matcher.Match("planet fitness dues")
	require.NotNil(t, signal)
	assert.Equal(t, "Gym", signal.Category)
}

func TestHistoricalMatcher_ConcurrentRetrainAndMatch(t *testing.T) {
	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain([]model.Transaction{
		{Description: "netflix monthly subscription", Category: "Extra"},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			matcher.Retrain([]model.Transaction{
				{Description: "netflix monthly subscription", Category: "Extra"},
				{Description: fmt.Sprintf("merchant %d", i), Category: "Grocery"},
			})
		}
	}()

	// Matches during retraining always see a complete model.
	for i := 0; i < 200; i++ {
		if signal := matcher.Match("netflix monthly subscription"); signal != nil {
			assert.Equal(t, "Extra", signal.Category)
		}
	}
	<-done
}

func TestHistoricalMatcher_ManyDocuments(t *testing.T) {
	var history []model.Transaction
	for i := 0; i < 100; i++ {
		history = append(history, model.Transaction{
			Description: fmt.Sprintf("merchant number %d purchase", i),
			Category:    "Extra",
		})
	}
	history = append(history, model.Transaction{
		Description: "annual insurance premium payment",
		Category:    "Insurance",
	})

	matcher := NewHistoricalMatcher(nil)
	matcher.Retrain(history)

	signal := matcher.Match("annual insurance premium payment")
	require.NotNil(t, signal)
	assert.Equal(t, "Insurance", signal.Category)
}
