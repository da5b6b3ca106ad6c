package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefig/ledgerlens/internal/model"
)

func TestLexicalScorer_Score(t *testing.T) {
	tests := []struct {
		name           string
		description    string
		kind           model.TransactionKind
		wantCategory   string
		wantConfidence float64
	}{
		{
			name:           "grocery keywords with pattern bonuses",
			description:    "walmart grocery run",
			kind:           model.KindExpense,
			wantCategory:   "Grocery",
			wantConfidence: 0.95, // large score, capped
		},
		{
			name:         "gas station by brand name",
			description:  "Shell gas station",
			kind:         model.KindExpense,
			wantCategory: "Petrol",
		},
		{
			name:         "restaurant dinner via keyword and pattern",
			description:  "dinner at the new restaurant",
			kind:         model.KindExpense,
			wantCategory: "Food",
		},
		{
			name:         "phone bill",
			description:  "verizon monthly phone bill",
			kind:         model.KindExpense,
			wantCategory: "Mobile",
		},
		{
			name:           "no match falls back to Extra",
			description:    "zxqv wvut",
			kind:           model.KindExpense,
			wantCategory:   "Extra",
			wantConfidence: 0.3,
		},
		{
			name:           "no income match falls back to GONG",
			description:    "zxqv wvut",
			kind:           model.KindIncome,
			wantCategory:   "GONG",
			wantConfidence: 0.4,
		},
		{
			name:         "university income",
			description:  "uco student payment",
			kind:         model.KindIncome,
			wantCategory: "UCO",
		},
		{
			name:         "freelance income",
			description:  "freelance consulting invoice",
			kind:         model.KindIncome,
			wantCategory: "GONG",
		},
	}

	scorer := NewLexicalScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := scorer.Score(tt.description, tt.kind)
			assert.Equal(t, tt.wantCategory, signal.Category)
			if tt.wantConfidence > 0 {
				assert.InDelta(t, tt.wantConfidence, signal.Confidence, 0.001)
			}
			assert.NotEmpty(t, signal.Reasoning)
		})
	}
}

func TestLexicalScorer_Deterministic(t *testing.T) {
	scorer := NewLexicalScorer()

	first := scorer.Score("starbucks coffee downtown", model.KindExpense)
	for i := 0; i < 10; i++ {
		again := scorer.Score("starbucks coffee downtown", model.KindExpense)
		assert.Equal(t, first, again)
	}
}

func TestLexicalScorer_TieBreakDeclarationOrder(t *testing.T) {
	scorer := NewLexicalScorer()

	// "gas" (Petrol) and "gym" (Gym) are both three-letter full matches
	// scoring 6 each; Petrol is declared first and must win.
	signal := scorer.Score("gas gym", model.KindExpense)
	assert.Equal(t, "Petrol", signal.Category)
}

func TestLexicalScorer_BlendedCapLower(t *testing.T) {
	blended := NewLexicalScorerWithCap(BlendedCap)

	signal := blended.Score("grocery supermarket walmart costco kroger", model.KindExpense)
	assert.Equal(t, "Grocery", signal.Category)
	assert.InDelta(t, BlendedCap, signal.Confidence, 0.001)
}

func TestLexicalScorer_FallbackReasoning(t *testing.T) {
	scorer := NewLexicalScorer()

	signal := scorer.Score("qqqq", model.KindExpense)
	require.Equal(t, "Extra", signal.Category)
	assert.Contains(t, signal.Reasoning, "no keyword matched")
}
