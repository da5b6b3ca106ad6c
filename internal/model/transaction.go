// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// TransactionKind indicates whether a transaction is income or an expense.
type TransactionKind string

const (
	// KindIncome represents money entering the account.
	KindIncome TransactionKind = "income"
	// KindExpense represents money leaving the account.
	KindExpense TransactionKind = "expense"
)

// ParseKind normalizes a kind string, rejecting anything that is not
// income or expense.
func ParseKind(s string) (TransactionKind, error) {
	switch TransactionKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction kind %q: must be income or expense", s)
	}
}

// Transaction represents a single recorded financial transaction.
// Transactions are immutable once recorded except for category correction.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Owner       string
	Category    string
	Kind        TransactionKind
	Amount      float64
}

// GenerateHash creates a content hash used for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.Owner)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
