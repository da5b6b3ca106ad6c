package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefig/ledgerlens/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testTxn(owner, description string, date time.Time, amount float64) model.Transaction {
	txn := model.Transaction{
		Date:        date,
		Description: description,
		Owner:       owner,
		Category:    "Grocery",
		Kind:        model.KindExpense,
		Amount:      amount,
	}
	txn.ID = txn.GenerateHash()
	return txn
}

func TestSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSQLiteStorage_AppendAndLoad(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	second := testTxn("alice", "whole foods", base.AddDate(0, 0, 5), 82.10)
	first := testTxn("alice", "safeway", base, 45.50)

	// Insert out of date order; Load must return them sorted.
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, first))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "safeway", loaded[0].Description)
	assert.Equal(t, "whole foods", loaded[1].Description)
	assert.Equal(t, first.ID, loaded[0].ID)
	assert.True(t, loaded[0].Date.Equal(base))
	assert.Equal(t, model.KindExpense, loaded[0].Kind)
	assert.InDelta(t, 45.50, loaded[0].Amount, 0.001)
}

func TestSQLiteStorage_AppendIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := testTxn("alice", "netflix", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 15.99)

	require.NoError(t, store.Append(ctx, txn))
	require.NoError(t, store.Append(ctx, txn))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSQLiteStorage_AppendGeneratesID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := testTxn("alice", "coffee", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 4.50)
	txn.ID = ""

	require.NoError(t, store.Append(ctx, txn))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotEmpty(t, loaded[0].ID)
}

func TestSQLiteStorage_OwnerIsolation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, testTxn("alice", "groceries", date, 50)))
	require.NoError(t, store.Append(ctx, testTxn("bob", "rent", date, 1200)))

	aliceTxns, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceTxns, 1)
	assert.Equal(t, "groceries", aliceTxns[0].Description)

	bobTxns, err := store.Load(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobTxns, 1)
	assert.Equal(t, "rent", bobTxns[0].Description)
}

func TestSQLiteStorage_ReplaceAll(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, testTxn("alice", "old entry", date, 10)))
	require.NoError(t, store.Append(ctx, testTxn("bob", "untouched", date, 20)))

	replacement := []model.Transaction{
		testTxn("alice", "new entry one", date, 30),
		testTxn("alice", "new entry two", date.AddDate(0, 0, 1), 40),
	}
	require.NoError(t, store.ReplaceAll(ctx, "alice", replacement))

	aliceTxns, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceTxns, 2)
	assert.Equal(t, "new entry one", aliceTxns[0].Description)
	assert.Equal(t, "new entry two", aliceTxns[1].Description)

	// Other owners keep their history.
	bobTxns, err := store.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobTxns, 1)
}

func TestSQLiteStorage_ReplaceAllFillsOwner(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := model.Transaction{
		Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: "ownerless",
		Category:    "Extra",
		Kind:        model.KindExpense,
		Amount:      5,
	}

	require.NoError(t, store.ReplaceAll(ctx, "alice", []model.Transaction{txn}))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "alice", loaded[0].Owner)
	assert.NotEmpty(t, loaded[0].ID)
}
