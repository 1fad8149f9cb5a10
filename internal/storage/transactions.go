package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/model"
)

// SortOrder selects how listed transactions are ordered.
type SortOrder string

// Supported sort orders.
const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

var sortClauses = map[SortOrder]string{
	SortNewest:  "date DESC, id ASC",
	SortOldest:  "date ASC, id ASC",
	SortHighest: "amount DESC, date DESC, id ASC",
	SortLowest:  "amount ASC, date DESC, id ASC",
}

// ParseSortOrder validates a user-supplied sort order. Empty means newest.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortNewest, nil
	}
	order := SortOrder(strings.ToLower(s))
	if _, ok := sortClauses[order]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
	return order, nil
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Search   string // case-insensitive match on description or category
	Category string
	Type     model.TransactionType
	Sort     SortOrder
	Limit    int
}

const transactionColumns = `id, date, description, category, type, amount, is_anomaly`

// FetchAll returns every stored transaction, newest first, from a single snapshot.
func (s *SQLiteStorage) FetchAll(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var txns []model.Transaction
	err := s.readSnapshot(ctx, func(q queryable) error {
		rows, err := q.QueryContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id ASC`)
		if err != nil {
			return fmt.Errorf("failed to query transactions: %w", err)
		}
		defer func() { _ = rows.Close() }()

		txns, err = scanTransactions(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// FetchByCategory returns all transactions recorded under category.
func (s *SQLiteStorage) FetchByCategory(ctx context.Context, category string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE category = ? ORDER BY date DESC, id ASC`,
		category)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// Save inserts txn, or replaces the stored row with the same ID.
func (s *SQLiteStorage) Save(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTransactionTx(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("Saved transaction",
		"id", txn.ID,
		"category", txn.CategoryOrDefault(),
		"type", txn.Type,
		"amount", txn.Amount)
	return nil
}

// SaveBatch writes all transactions atomically and reports how many rows were new.
func (s *SQLiteStorage) SaveBatch(ctx context.Context, txns []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i := range txns {
		if err := validateTransaction(&txns[i]); err != nil {
			return 0, fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, txn := range txns {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM transactions WHERE id = ?)`, txn.ID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check transaction %s: %w", txn.ID, err)
		}
		if err := saveTransactionTx(ctx, tx, txn); err != nil {
			return 0, err
		}
		if !exists {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

func saveTransactionTx(ctx context.Context, q queryable, txn model.Transaction) error {
	txnType := txn.Type
	if txnType == "" {
		txnType = model.TypeExpense
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, category, type, amount, is_anomaly)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			description = excluded.description,
			category = excluded.category,
			type = excluded.type,
			amount = excluded.amount,
			is_anomaly = excluded.is_anomaly,
			updated_at = CURRENT_TIMESTAMP`,
		txn.ID,
		txn.Date.UTC(),
		txn.Description,
		txn.CategoryOrDefault(),
		string(txnType),
		txn.Amount,
		txn.IsAnomaly,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
	}
	return nil
}

// Delete removes the transaction with the given ID.
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// GetTransaction retrieves a single transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

// Query lists transactions matching filter.
func (s *SQLiteStorage) Query(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	order, err := ParseSortOrder(string(filter.Sort))
	if err != nil {
		return nil, err
	}

	where, args := filter.whereClause()
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY ` + sortClauses[order]
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// Count returns the number of transactions matching filter. Sort and Limit are ignored.
func (s *SQLiteStorage) Count(ctx context.Context, filter TransactionFilter) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	where, args := filter.whereClause()
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (f TransactionFilter) whereClause() (string, []any) {
	var (
		conds []string
		args  []any
	)

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		conds = append(conds, `(LOWER(description) LIKE ? OR LOWER(category) LIKE ?)`)
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, f.Category)
	}
	if f.Type != "" {
		conds = append(conds, `type = ?`)
		args = append(args, string(f.Type))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn     model.Transaction
		date    time.Time
		txnType string
	)
	if err := row.Scan(&txn.ID, &date, &txn.Description, &txn.Category, &txnType, &txn.Amount, &txn.IsAnomaly); err != nil {
		return model.Transaction{}, err
	}
	txn.Date = date
	txn.Type = model.ParseTransactionType(txnType)
	return txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}
