package analytics

import (
	"testing"
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(settings Settings) *Engine {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return NewEngine(settings, WithClock(func() time.Time { return testNow }))
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(Settings{})

	s := e.Settings()
	assert.Equal(t, time.Local, s.Location)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, DefaultInsightWindowDays, s.InsightWindowDays)
}

func TestEngine_Recompute(t *testing.T) {
	day0 := daysAgo(60)
	snapshot := []model.Transaction{
		expense("Netflix #1", "Entertainment", 15.99, day0),
		expense("Netflix #2", "Entertainment", 15.99, day0.AddDate(0, 0, 30)),
		expense("Lunch", "Food & Drink", 20, weeksAgo(1)),
		expense("Lunch", "Food & Drink", 20, weeksAgo(2)),
		expense("Starbucks", "Food & Drink", 6, daysAgo(1)),
		expense("Starbucks", "Food & Drink", 6, daysAgo(2)),
		expense("Starbucks", "Food & Drink", 6, daysAgo(3)),
		income("Payroll", 2500, daysAgo(5)),
	}

	e := testEngine(Settings{MonthlyBudget: 100})
	res := e.Recompute(snapshot)

	assert.Equal(t, testNow, res.ComputedAt)
	assert.Equal(t, len(snapshot), res.TransactionCount)
	assert.False(t, res.DataUnavailable)

	assert.InDelta(t, 89.98, res.Metrics.Total, 1e-9)
	assert.InDelta(t, 2500, res.Metrics.TotalIncome, 1e-9)

	require.Len(t, res.Subscriptions, 2, "same-amount lunches a week apart also repeat")
	assert.Equal(t, "Lunch", res.Subscriptions[0].Merchant)
	assert.Equal(t, "Netflix #1", res.Subscriptions[1].Merchant)

	assert.InDelta(t, 20, res.Forecast.Predicted, 1e-9)
	assert.InDelta(t, 0.2, res.Forecast.Confidence, 1e-9)

	require.Len(t, res.Insights, 2)
	assert.Equal(t, "Food & Drink accounts for 100% of your spending recently.", res.Insights[0].Message)
	assert.Equal(t, "You've visited 'Starbucks' 3 times recently.", res.Insights[1].Message)

	assert.InDelta(t, 100, res.Budget.Limit, 1e-9)
	assert.InDelta(t, res.Metrics.MonthTotal, res.Budget.Spent, 1e-9)
	assert.False(t, res.Budget.Over)

	assert.Equal(t, res, e.Recompute(snapshot), "recompute over the same snapshot is idempotent")
}

func TestEngine_CheckAnomalyUsesCurrency(t *testing.T) {
	e := testEngine(Settings{Currency: "EUR"})
	got := e.CheckAnomaly(30, "Coffee", history("Coffee", 10, 10, 10, 10, 10))

	assert.True(t, got.IsAnomalous)
	assert.Equal(t, "This is 200% higher than your average Coffee spend of €10.00.", got.Message)
}

func TestBudgetStatus(t *testing.T) {
	b := BudgetStatus(2500, 2000)
	assert.True(t, b.Over)
	assert.InDelta(t, 1.25, b.Progress, 1e-9)
	assert.InDelta(t, -500, b.Remaining, 1e-9)

	b = BudgetStatus(500, 0)
	assert.False(t, b.Over)
	assert.Zero(t, b.Progress, "no budget means no progress ratio")
}
