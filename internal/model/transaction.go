package model

import (
	"time"
)

// TransactionType distinguishes money leaving the account from money arriving.
type TransactionType string

const (
	// TypeExpense is money spent. It is the default for new transactions.
	TypeExpense TransactionType = "expense"
	// TypeIncome is money received.
	TypeIncome TransactionType = "income"
)

// ParseTransactionType maps a stored or user-supplied value to a TransactionType.
// Unknown and empty values fall back to TypeExpense.
func ParseTransactionType(s string) TransactionType {
	if TransactionType(s) == TypeIncome {
		return TypeIncome
	}
	return TypeExpense
}

// Transaction represents a single recorded expense or income entry.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string // Free-text merchant or label
	Category    string
	Type        TransactionType
	Amount      float64 // Always >= 0, already converted to the base currency
	IsAnomaly   bool    // Saved after the user confirmed an anomaly warning
}

// IsExpense reports whether the transaction counts toward spend metrics.
func (t Transaction) IsExpense() bool {
	return t.Type != TypeIncome
}

// CategoryOrDefault returns the category, or Uncategorized when it is empty.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return CategoryUncategorized
	}
	return t.Category
}

// DescriptionOrDefault returns the description, or "Unknown" when it is empty.
func (t Transaction) DescriptionOrDefault() string {
	if t.Description == "" {
		return "Unknown"
	}
	return t.Description
}
