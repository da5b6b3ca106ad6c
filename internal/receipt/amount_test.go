package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "total line beats line items",
			text: "WALMART\n123 Main St\nItem A 5.00\nItem B 10.00\nTOTAL 42.17\nTHANK YOU",
			want: 42.17,
		},
		{
			name: "amount due cue",
			text: "Invoice\nService fee 12.00\nLate charge 3.50\nother\nother\nAMOUNT DUE: $15.50",
			want: 15.50,
		},
		{
			name: "dollar sign format",
			text: "lunch special\nfiller\nfiller\nfiller\nTOTAL: $8.75",
			want: 8.75,
		},
		{
			name: "single amount",
			text: "$23.10",
			want: 23.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAmount(tt.text)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 0.001)
		})
	}
}

func TestExtractAmount_NoCandidates(t *testing.T) {
	assert.Nil(t, ExtractAmount("no numbers here"))
	assert.Nil(t, ExtractAmount("integer only 42"))
	assert.Nil(t, ExtractAmount(""))
}

func TestExtractAmount_TieKeepsEarliest(t *testing.T) {
	// Two candidates with identical context scores: the first one wins.
	got := ExtractAmount("TOTAL 10.00\nTOTAL 20.00")
	require.NotNil(t, got)
	assert.InDelta(t, 10.00, *got, 0.001)
}

func TestExtractAmount_ImplausiblyLargeSkipped(t *testing.T) {
	got := ExtractAmount("ref 99999999.99\nfiller\nfiller\nfiller\nTOTAL 12.00")
	require.NotNil(t, got)
	assert.InDelta(t, 12.00, *got, 0.001)
}
