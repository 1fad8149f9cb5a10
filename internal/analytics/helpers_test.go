package analytics

import (
	"fmt"
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
)

// testNow is a Wednesday afternoon.
var testNow = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

var txnSeq int

func expense(desc, category string, amount float64, date time.Time) model.Transaction {
	txnSeq++
	return model.Transaction{
		ID:          fmt.Sprintf("txn-%d", txnSeq),
		Date:        date,
		Description: desc,
		Category:    category,
		Type:        model.TypeExpense,
		Amount:      amount,
	}
}

func income(desc string, amount float64, date time.Time) model.Transaction {
	t := expense(desc, model.CategorySalary, amount, date)
	t.Type = model.TypeIncome
	return t
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}
