// Package testutil provides test utilities for smart-expense: in-memory
// databases and fluent transaction fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/Veraticus/smart-expense/internal/storage"
)

// TestDB represents a migrated in-memory test database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with txns.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewTransactionBuilder(now).
//			Expense("Starbucks", "Food", 6.50).DaysAgo(1).
//			Build()...,
//	)
func SetupTestDB(t *testing.T, txns ...model.Transaction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{Storage: store, t: t}
	db.Seed(txns...)
	return db
}

// Seed saves txns or fails the test.
func (db *TestDB) Seed(txns ...model.Transaction) {
	db.t.Helper()
	if len(txns) == 0 {
		return
	}
	if _, err := db.Storage.SaveBatch(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// MustCount returns the number of stored transactions or fails the test.
func (db *TestDB) MustCount() int {
	db.t.Helper()
	n, err := db.Storage.Count(context.Background(), storage.TransactionFilter{})
	if err != nil {
		db.t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}
