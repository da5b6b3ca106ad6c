package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefig/ledgerlens/internal/model"
)

func TestHistory_AppendEvictsOldest(t *testing.T) {
	h := NewHistory(3)

	for i := 1; i <= 5; i++ {
		h.Append(model.Transaction{Description: fmt.Sprintf("txn %d", i)})
	}

	snapshot := h.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "txn 3", snapshot[0].Description)
	assert.Equal(t, "txn 5", snapshot[2].Description)
}

func TestHistory_ReplaceKeepsMostRecent(t *testing.T) {
	h := NewHistory(2)

	h.Replace([]model.Transaction{
		{Description: "a"},
		{Description: "b"},
		{Description: "c"},
	})

	snapshot := h.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "b", snapshot[0].Description)
	assert.Equal(t, "c", snapshot[1].Description)
}

func TestHistory_SnapshotIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Append(model.Transaction{Description: "original"})

	snapshot := h.Snapshot()
	snapshot[0].Description = "mutated"

	assert.Equal(t, "original", h.Snapshot()[0].Description)
}

func TestHistory_AmountsForCategory(t *testing.T) {
	h := NewHistory(10)
	h.Append(model.Transaction{Category: "Grocery", Amount: 10})
	h.Append(model.Transaction{Category: "Food", Amount: 20})
	h.Append(model.Transaction{Category: "Grocery", Amount: 30})

	assert.Equal(t, []float64{10, 30}, h.AmountsForCategory("Grocery"))
	assert.Empty(t, h.AmountsForCategory("Rent"))
}

func TestHistory_DefaultLimit(t *testing.T) {
	h := NewHistory(0)

	for i := 0; i < DefaultHistoryLimit+50; i++ {
		h.Append(model.Transaction{Amount: float64(i)})
	}

	assert.Equal(t, DefaultHistoryLimit, h.Len())
}
