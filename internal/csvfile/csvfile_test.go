package csvfile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/model"
)

var now = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

func TestWrite(t *testing.T) {
	txns := []model.Transaction{
		{ID: "1", Date: now.AddDate(0, 0, -2), Description: "Starbucks", Category: "Food & Drink", Type: model.TypeExpense, Amount: 6.5},
		{ID: "2", Date: now, Description: `Say "hi" cafe`, Type: model.TypeExpense, Amount: 12},
		{ID: "3", Date: now.AddDate(0, 0, -1), Description: "Payroll", Category: "Salary", Type: model.TypeIncome, Amount: 3200},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns, time.UTC))

	want := "Date,Description,Category,Type,Amount\n" +
		"\"Jun 12, 2024\",\"Say \"\"hi\"\" cafe\",Uncategorized,Expense,12.00\n" +
		"\"Jun 11, 2024\",Payroll,Salary,Income,3200.00\n" +
		"\"Jun 10, 2024\",Starbucks,Food & Drink,Expense,6.50\n"
	assert.Equal(t, want, buf.String())

	// The input slice keeps its order.
	assert.Equal(t, "1", txns[0].ID)
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, time.UTC))
	assert.Equal(t, "Date,Description,Category,Type,Amount\n", buf.String())
}

func TestWriteThenRead(t *testing.T) {
	txns := []model.Transaction{
		{Date: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), Description: "Starbucks", Category: "Food & Drink", Type: model.TypeExpense, Amount: 6.5},
		{Date: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), Description: "Starbucks", Category: "Food & Drink", Type: model.TypeExpense, Amount: 6.5},
		{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Description: "Payroll", Category: "Salary", Type: model.TypeIncome, Amount: 3200},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns, time.UTC))

	got, err := Read(&buf, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.NotEqual(t, got[0].ID, got[1].ID, "duplicate rows need distinct IDs")
	assert.True(t, strings.HasPrefix(got[0].ID, "csv-"))
	assert.True(t, got[0].Date.Equal(txns[0].Date))
	assert.Equal(t, model.TypeIncome, got[2].Type)
	assert.InDelta(t, 3200, got[2].Amount, 1e-9)

	// Reading the same content twice yields the same IDs.
	var again bytes.Buffer
	require.NoError(t, Write(&again, txns, time.UTC))
	second, err := Read(&again, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, got[0].ID, second[0].ID)
	assert.Equal(t, got[1].ID, second[1].ID)
}

func TestRead_FlexibleColumns(t *testing.T) {
	input := "amount, type ,date\n42.10,income,2024-06-01\n7,,2024-06-02\n"

	got, err := Read(strings.NewReader(input), time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.TypeIncome, got[0].Type)
	assert.Equal(t, model.CategorySalary, got[0].Category)
	assert.InDelta(t, 42.10, got[0].Amount, 1e-9)

	assert.Equal(t, model.TypeExpense, got[1].Type)
	assert.Empty(t, got[1].Category)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing amount column", input: "Date,Description\nJun 1, 2024,x\n"},
		{name: "bad date", input: "Date,Amount\nyesterday,4\n"},
		{name: "negative amount", input: "Date,Amount\n2024-06-01,-4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), time.UTC)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}

	got, err := Read(strings.NewReader(""), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)
}
