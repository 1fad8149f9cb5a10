package testutil

import (
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
)

// FixtureMonthOfSpending returns a realistic month of activity ending at now:
// a salary deposit, two monthly subscriptions, a daily coffee habit, and a
// handful of groceries and transport rides.
func FixtureMonthOfSpending(now time.Time) []model.Transaction {
	b := NewTransactionBuilder(now).
		Income("Payroll", 3200).DaysAgo(20).
		Expense("Netflix", "Entertainment", 15.99).DaysAgo(2).
		Expense("Netflix", "Entertainment", 15.99).DaysAgo(32).
		Expense("Spotify 1234", "Entertainment", 9.99).DaysAgo(5).
		Expense("Spotify 5678", "Entertainment", 9.99).DaysAgo(35).
		Expense("Starbucks", "Food", 6.50).DaysAgo(0).Repeat(6, 1).
		Expense("Whole Foods", "Groceries", 84.20).DaysAgo(3).Repeat(3, 7).
		Expense("Uber", "Transport", 18.75).DaysAgo(4).Repeat(2, 9)
	return b.Build()
}
