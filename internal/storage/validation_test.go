package storage

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/smart-expense/internal/model"
)

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		txn     *model.Transaction
		name    string
		wantErr error
	}{
		{name: "nil", txn: nil, wantErr: ErrNilParameter},
		{name: "valid expense", txn: &model.Transaction{ID: "1", Date: baseDate, Amount: 0}},
		{name: "valid income", txn: &model.Transaction{ID: "1", Date: baseDate, Amount: 10, Type: model.TypeIncome}},
		{name: "blank ID", txn: &model.Transaction{ID: "  ", Date: baseDate}, wantErr: ErrInvalidTransaction},
		{name: "negative", txn: &model.Transaction{ID: "1", Date: baseDate, Amount: -0.01}, wantErr: ErrInvalidTransaction},
		{name: "infinite", txn: &model.Transaction{ID: "1", Date: baseDate, Amount: math.Inf(1)}, wantErr: ErrInvalidTransaction},
		{name: "NaN", txn: &model.Transaction{ID: "1", Date: baseDate, Amount: math.NaN()}, wantErr: ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransaction(tt.txn)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNilContextRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // testing nil context handling
	var ctx context.Context

	_, err := store.FetchAll(ctx)
	assert.ErrorIs(t, err, ErrNilContext)
	err = store.Save(ctx, model.Transaction{})
	assert.ErrorIs(t, err, ErrNilContext)
	err = store.Delete(ctx, "x")
	assert.ErrorIs(t, err, ErrNilContext)
	_, err = store.Query(ctx, TransactionFilter{})
	assert.ErrorIs(t, err, ErrNilContext)
}
