package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDate(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{
			name: "slash numeric",
			text: "WALMART\n01/15/2024\nTOTAL 10.00",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "dash numeric iso order",
			text: "receipt 2024-01-15 store #4",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "short month name",
			text: "Date: Jan 15, 2024",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day first with month name",
			text: "15 January 2024",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "two digit year",
			text: "purchased 1/15/24",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDate(tt.text, now)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestExtractDate_SanityWindow(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	// A misread year far in the past is rejected.
	assert.Nil(t, ExtractDate("01/15/2019", now))

	// More than thirty days ahead is rejected.
	assert.Nil(t, ExtractDate("06/15/2024", now))

	// A few days ahead is fine (post-dated receipts happen).
	got := ExtractDate("02/10/2024", now)
	require.NotNil(t, got)
}

func TestExtractDate_NoDate(t *testing.T) {
	now := time.Now()
	assert.Nil(t, ExtractDate("no dates in this text", now))
	assert.Nil(t, ExtractDate("", now))
}
