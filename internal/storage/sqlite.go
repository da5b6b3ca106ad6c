// Package storage provides the SQLite-backed transaction history store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements service.HistoryStore using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

var _ service.HistoryStore = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the history database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Load returns all of an owner's transactions in date order.
func (s *SQLiteStorage) Load(ctx context.Context, owner string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, owner, category, kind, amount
		FROM transactions
		WHERE owner = ?
		ORDER BY date ASC, id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var date string
		var kind string
		if err := rows.Scan(&txn.ID, &date, &txn.Description, &txn.Owner, &txn.Category, &kind, &txn.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Kind = model.TransactionKind(kind)
		txn.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction date: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// Append persists one transaction. The hash-derived ID makes re-imports
// idempotent: an existing row is left untouched.
func (s *SQLiteStorage) Append(ctx context.Context, txn model.Transaction) error {
	if txn.ID == "" {
		txn.ID = txn.GenerateHash()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, owner, category, kind, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		txn.ID,
		txn.Date.Format(time.RFC3339),
		txn.Description,
		txn.Owner,
		txn.Category,
		string(txn.Kind),
		txn.Amount)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ReplaceAll atomically swaps an owner's entire history.
func (s *SQLiteStorage) ReplaceAll(ctx context.Context, owner string, txns []model.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, date, description, owner, category, kind, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range txns {
		if txn.ID == "" {
			txn.ID = txn.GenerateHash()
		}
		if txn.Owner == "" {
			txn.Owner = owner
		}
		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Date.Format(time.RFC3339),
			txn.Description,
			txn.Owner,
			txn.Category,
			string(txn.Kind),
			txn.Amount); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history replacement: %w", err)
	}
	return nil
}
