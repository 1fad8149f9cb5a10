package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/model"
)

func seed(t *testing.T, s *SQLiteStorage, txns ...model.Transaction) {
	t.Helper()
	for _, txn := range txns {
		require.NoError(t, s.Save(context.Background(), txn))
	}
}

func TestSQLiteStorage_SaveAndFetchAll(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, store, createTestTransactions(3)...)

	txns, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	// Newest first.
	assert.Equal(t, "txn-01", txns[0].ID)
	assert.Equal(t, "txn-03", txns[2].ID)
	assert.True(t, txns[0].Date.Equal(baseDate))
	assert.Equal(t, "Merchant #1", txns[0].Description)
	assert.Equal(t, model.TypeExpense, txns[0].Type)
	assert.InDelta(t, 10.50, txns[0].Amount, 1e-9)
}

func TestSQLiteStorage_FetchAllEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	txns, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestSQLiteStorage_SaveUpserts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := createTestTransactions(1)[0]
	seed(t, store, txn)

	txn.Amount = 99.99
	txn.Category = "Travel"
	txn.IsAnomaly = true
	seed(t, store, txn)

	got, err := store.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.InDelta(t, 99.99, got.Amount, 1e-9)
	assert.Equal(t, "Travel", got.Category)
	assert.True(t, got.IsAnomaly)

	count, err := store.Count(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStorage_SaveDefaults(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, store, model.Transaction{ID: "bare", Date: baseDate, Amount: 5})

	got, err := store.GetTransaction(ctx, "bare")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryUncategorized, got.Category)
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.False(t, got.IsAnomaly)
}

func TestSQLiteStorage_SaveValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		txn  model.Transaction
	}{
		{name: "missing ID", txn: model.Transaction{Date: baseDate, Amount: 1}},
		{name: "missing date", txn: model.Transaction{ID: "x", Amount: 1}},
		{name: "negative amount", txn: model.Transaction{ID: "x", Date: baseDate, Amount: -1}},
		{name: "unknown type", txn: model.Transaction{ID: "x", Date: baseDate, Amount: 1, Type: "transfer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, tt.txn)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTransaction)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestSQLiteStorage_FetchByCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(4)
	txns[1].Category = "Transport"
	txns[3].Category = "Transport"
	seed(t, store, txns...)

	got, err := store.FetchByCategory(ctx, "Transport")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "txn-02", got[0].ID)
	assert.Equal(t, "txn-04", got[1].ID)

	none, err := store.FetchByCategory(ctx, "Health")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.FetchByCategory(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_Delete(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, store, createTestTransactions(2)...)

	require.NoError(t, store.Delete(ctx, "txn-01"))

	_, err := store.GetTransaction(ctx, "txn-01")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.Delete(ctx, "txn-01")
	assert.ErrorIs(t, err, common.ErrNotFound)

	remaining, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "txn-02", remaining[0].ID)
}

func TestSQLiteStorage_SaveBatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(3)
	inserted, err := store.SaveBatch(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	// Re-importing the same rows plus one new one only counts the new row.
	more := append(createTestTransactions(3), model.Transaction{ID: "txn-new", Date: baseDate, Amount: 1})
	inserted, err = store.SaveBatch(ctx, more)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := store.Count(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestSQLiteStorage_SaveBatchIsAtomic(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(2)
	txns[1].Amount = -3

	_, err := store.SaveBatch(ctx, txns)
	require.ErrorIs(t, err, ErrInvalidTransaction)

	count, err := store.Count(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStorage_Query(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, store,
		model.Transaction{ID: "a", Date: baseDate, Description: "Starbucks", Category: "Food", Type: model.TypeExpense, Amount: 6},
		model.Transaction{ID: "b", Date: baseDate.AddDate(0, 0, -1), Description: "Uber", Category: "Transport", Type: model.TypeExpense, Amount: 25},
		model.Transaction{ID: "c", Date: baseDate.AddDate(0, 0, -2), Description: "Payroll", Category: "Salary", Type: model.TypeIncome, Amount: 3000},
		model.Transaction{ID: "d", Date: baseDate.AddDate(0, 0, -3), Description: "Whole Foods", Category: "Food", Type: model.TypeExpense, Amount: 80},
	)

	ids := func(txns []model.Transaction) []string {
		out := make([]string, 0, len(txns))
		for _, txn := range txns {
			out = append(out, txn.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{name: "default newest", filter: TransactionFilter{}, want: []string{"a", "b", "c", "d"}},
		{name: "oldest", filter: TransactionFilter{Sort: SortOldest}, want: []string{"d", "c", "b", "a"}},
		{name: "highest", filter: TransactionFilter{Sort: SortHighest}, want: []string{"c", "d", "b", "a"}},
		{name: "lowest", filter: TransactionFilter{Sort: SortLowest}, want: []string{"a", "b", "d", "c"}},
		{name: "search description case-insensitive", filter: TransactionFilter{Search: "FOODS"}, want: []string{"d"}},
		{name: "search matches category", filter: TransactionFilter{Search: "transp"}, want: []string{"b"}},
		{name: "category", filter: TransactionFilter{Category: "Food"}, want: []string{"a", "d"}},
		{name: "income only", filter: TransactionFilter{Type: model.TypeIncome}, want: []string{"c"}},
		{name: "expense highest limited", filter: TransactionFilter{Type: model.TypeExpense, Sort: SortHighest, Limit: 2}, want: []string{"d", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, err := store.Query(ctx, TransactionFilter{Sort: "random"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	count, err := store.Count(ctx, TransactionFilter{Category: "Food", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestParseSortOrder(t *testing.T) {
	order, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, order)

	order, err = ParseSortOrder("Highest")
	require.NoError(t, err)
	assert.Equal(t, SortHighest, order)

	_, err = ParseSortOrder("alphabetical")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSQLiteStorage_ConcurrentSaveAndFetch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := createTestTransactions(20)

	var wg sync.WaitGroup
	for _, txn := range txns {
		wg.Add(1)
		go func(txn model.Transaction) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, txn))
		}(txn)
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.FetchAll(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
