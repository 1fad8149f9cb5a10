package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
)

// TransactionBuilder provides a fluent interface for constructing test transactions.
// Each Expense or Income call starts a new transaction dated at the builder's
// reference time; DaysAgo and At adjust the most recent one.
type TransactionBuilder struct {
	now  time.Time
	txns []model.Transaction
}

// NewTransactionBuilder creates a builder whose relative dates are measured from now.
func NewTransactionBuilder(now time.Time) *TransactionBuilder {
	return &TransactionBuilder{now: now}
}

// Expense appends an expense.
func (b *TransactionBuilder) Expense(description, category string, amount float64) *TransactionBuilder {
	return b.add(model.TypeExpense, description, category, amount)
}

// Income appends an income entry.
func (b *TransactionBuilder) Income(description string, amount float64) *TransactionBuilder {
	return b.add(model.TypeIncome, description, model.CategorySalary, amount)
}

// DaysAgo moves the last transaction n days before the reference time.
func (b *TransactionBuilder) DaysAgo(n int) *TransactionBuilder {
	return b.At(b.now.AddDate(0, 0, -n))
}

// At sets the date of the last transaction.
func (b *TransactionBuilder) At(date time.Time) *TransactionBuilder {
	if len(b.txns) > 0 {
		b.txns[len(b.txns)-1].Date = date
	}
	return b
}

// Anomaly marks the last transaction as a confirmed anomaly.
func (b *TransactionBuilder) Anomaly() *TransactionBuilder {
	if len(b.txns) > 0 {
		b.txns[len(b.txns)-1].IsAnomaly = true
	}
	return b
}

// Repeat appends count copies of the last transaction, each spaced every days earlier.
func (b *TransactionBuilder) Repeat(count, every int) *TransactionBuilder {
	if len(b.txns) == 0 {
		return b
	}
	last := b.txns[len(b.txns)-1]
	for i := 1; i <= count; i++ {
		next := last
		next.ID = b.nextID()
		next.Date = last.Date.AddDate(0, 0, -i*every)
		b.txns = append(b.txns, next)
	}
	return b
}

// Build returns a copy of the constructed transactions.
func (b *TransactionBuilder) Build() []model.Transaction {
	out := make([]model.Transaction, len(b.txns))
	copy(out, b.txns)
	return out
}

func (b *TransactionBuilder) add(typ model.TransactionType, description, category string, amount float64) *TransactionBuilder {
	b.txns = append(b.txns, model.Transaction{
		ID:          b.nextID(),
		Date:        b.now,
		Description: description,
		Category:    category,
		Type:        typ,
		Amount:      amount,
	})
	return b
}

func (b *TransactionBuilder) nextID() string {
	return fmt.Sprintf("test-%03d", len(b.txns)+1)
}
