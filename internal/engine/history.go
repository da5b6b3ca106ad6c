package engine

import (
	"sync"

	"github.com/wisefig/ledgerlens/internal/model"
)

// DefaultHistoryLimit bounds the in-memory transaction history.
const DefaultHistoryLimit = 1000

// History is a bounded, append-only ring of the most recent labeled
// transactions. Appends are serialized; readers work from snapshots and
// may observe slightly stale data, which is acceptable since the history
// is advisory training data rather than a ledger.
type History struct {
	entries []model.Transaction
	limit   int
	mu      sync.RWMutex
}

// NewHistory creates a history bounded to the given number of entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append adds a transaction, evicting the oldest entry once full.
func (h *History) Append(txn model.Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, txn)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Replace swaps in a new set of entries, keeping only the most recent
// limit of them. Used at startup load and after relabeling.
func (h *History) Replace(txns []model.Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(txns) > h.limit {
		txns = txns[len(txns)-h.limit:]
	}
	h.entries = make([]model.Transaction, len(txns))
	copy(h.entries, txns)
}

// Snapshot returns a copy of the current entries.
func (h *History) Snapshot() []model.Transaction {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]model.Transaction, len(h.entries))
	copy(out, h.entries)
	return out
}

// AmountsForCategory returns the amounts of all entries labeled with the
// given category.
func (h *History) AmountsForCategory(category string) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var amounts []float64
	for _, txn := range h.entries {
		if txn.Category == category {
			amounts = append(amounts, txn.Amount)
		}
	}
	return amounts
}

// Len returns the number of entries currently held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
