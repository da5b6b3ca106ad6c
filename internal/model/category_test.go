package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNames_StableOrder(t *testing.T) {
	expense := CategoryNames(KindExpense)
	assert.Equal(t, []string{
		"Rent", "Grocery", "Food", "Petrol", "Home",
		"Gym", "Mobile", "Extra", "Insurance", "Tuition",
	}, expense)

	income := CategoryNames(KindIncome)
	assert.Equal(t, []string{"UCO", "GONG"}, income)

	// Repeated calls never reorder.
	assert.Equal(t, expense, CategoryNames(KindExpense))
}

func TestFallbackCategory(t *testing.T) {
	assert.Equal(t, "Extra", FallbackCategory(KindExpense))
	assert.Equal(t, "GONG", FallbackCategory(KindIncome))
}

func TestFallbacksBelongToLabelSpace(t *testing.T) {
	assert.True(t, IsValidCategory(KindExpense, FallbackExpenseCategory))
	assert.True(t, IsValidCategory(KindIncome, FallbackIncomeCategory))
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(KindExpense, "Grocery"))
	assert.False(t, IsValidCategory(KindExpense, "GONG"))
	assert.False(t, IsValidCategory(KindIncome, "Grocery"))
	assert.False(t, IsValidCategory(KindExpense, "grocery"))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Expense ")
	require.NoError(t, err)
	assert.Equal(t, KindExpense, kind)

	kind, err = ParseKind("INCOME")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, kind)

	_, err = ParseKind("transfer")
	assert.Error(t, err)
}

func TestGenerateHash(t *testing.T) {
	txn := Transaction{
		Date:        time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Description: "starbucks coffee",
		Owner:       "alice",
		Amount:      5.75,
	}

	hash := txn.GenerateHash()
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, txn.GenerateHash())

	// Time of day is ignored; the calendar date is what matters.
	sameDay := txn
	sameDay.Date = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, hash, sameDay.GenerateHash())

	other := txn
	other.Amount = 6.75
	assert.NotEqual(t, hash, other.GenerateHash())

	other = txn
	other.Owner = "bob"
	assert.NotEqual(t, hash, other.GenerateHash())
}
